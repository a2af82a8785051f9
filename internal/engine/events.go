package engine

import (
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// EventType classifies engine events for listeners.
type EventType string

const (
	// EventStableGesture fires for every debounced gesture event.
	EventStableGesture EventType = "stable-gesture"
	// EventAwaitingConfirmation fires when an intent starts waiting for the
	// confirmation gesture.
	EventAwaitingConfirmation EventType = "awaiting-confirmation"
	// EventIntentSuperseded fires when a new confirmation-requiring intent
	// replaces a pending one. Action carries the discarded kind; an
	// EventAwaitingConfirmation for the new intent follows immediately.
	EventIntentSuperseded EventType = "intent-superseded"
	// EventIntentCancelled fires when a plain gesture cancels a pending
	// intent. Action carries the cancelled kind.
	EventIntentCancelled EventType = "intent-cancelled"
	// EventIntentExpired fires when a pending intent runs out its window.
	EventIntentExpired EventType = "intent-expired"
	// EventDispatched fires after every dispatch attempt, whatever the
	// outcome.
	EventDispatched EventType = "dispatched"
)

// Event is a notification published to listeners. Outcome and Detail are
// set only for EventDispatched.
type Event struct {
	Type    EventType
	Gesture gesture.Label
	Action  action.Kind
	Outcome dispatch.Status
	Detail  string
	At      time.Time
}

// Listener receives engine events. Listeners run synchronously on the frame
// path and must return quickly.
type Listener func(Event)

// Subscribe registers a listener. Not safe to call while frames are being
// processed; wire listeners up before the pipeline starts.
func (e *Engine) Subscribe(l Listener) {
	if l != nil {
		e.listeners = append(e.listeners, l)
	}
}

func (e *Engine) emit(ev Event) {
	for _, l := range e.listeners {
		l(ev)
	}
}

func (e *Engine) emitOutcome(label gesture.Label, kind action.Kind, out dispatch.Outcome, at time.Time) {
	ev := Event{
		Type:    EventDispatched,
		Gesture: label,
		Action:  kind,
		Outcome: out.Status,
		At:      at,
	}
	if out.Err != nil {
		ev.Detail = out.Err.Error()
	}
	e.emit(ev)
}
