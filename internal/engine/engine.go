// Package engine wires the stability filter, the confirmation state machine
// and the dispatcher into the per-frame decision pipeline.
package engine

import (
	"context"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/gesture"
)

// DefaultConfirmationWindow is how long a confirmation-requiring intent
// stays pending before it is discarded.
const DefaultConfirmationWindow = 3 * time.Second

// State of the confirmation state machine.
type State string

const (
	// StateIdle means no intent is pending.
	StateIdle State = "idle"
	// StateAwaitingConfirmation means an intent is waiting for the
	// confirmation gesture.
	StateAwaitingConfirmation State = "awaiting-confirmation"
)

// PendingIntent is the single-slot record of an action waiting for its
// confirmation gesture. At most one exists per Engine at any time.
type PendingIntent struct {
	Gesture     gesture.Label
	Descriptor  *action.Descriptor
	RequestedAt time.Time
	ExpiresAt   time.Time
}

// Config holds the engine's tunables. Zero values fall back to defaults.
type Config struct {
	PersistenceFrames   int
	ConfidenceThreshold float64
	ConfirmationWindow  time.Duration
}

// Engine is the only stateful decision point in the system. It owns the
// stability filter and the pending intent; it is not safe for concurrent
// use because the frame pipeline processes one frame at a time.
type Engine struct {
	filter     *gesture.StabilityFilter
	table      *action.Table
	dispatcher *dispatch.Dispatcher
	window     time.Duration

	state   State
	pending *PendingIntent

	listeners []Listener
}

// New creates an Engine over the given mapping table and dispatcher.
func New(cfg Config, table *action.Table, dispatcher *dispatch.Dispatcher) *Engine {
	window := cfg.ConfirmationWindow
	if window <= 0 {
		window = DefaultConfirmationWindow
	}
	return &Engine{
		filter:     gesture.NewStabilityFilter(cfg.PersistenceFrames, cfg.ConfidenceThreshold),
		table:      table,
		dispatcher: dispatcher,
		window:     window,
		state:      StateIdle,
	}
}

// State returns the current confirmation state.
func (e *Engine) State() State {
	return e.state
}

// Pending returns a copy of the pending intent, or nil when idle.
func (e *Engine) Pending() *PendingIntent {
	if e.pending == nil {
		return nil
	}
	p := *e.pending
	return &p
}

// ProcessSample folds one per-frame classification into the pipeline.
// It returns the dispatch outcome if this frame caused a dispatch attempt,
// nil otherwise.
func (e *Engine) ProcessSample(ctx context.Context, s gesture.Sample) *dispatch.Outcome {
	ev := e.filter.Observe(s)
	if ev == nil {
		return nil
	}
	return e.HandleEvent(ctx, ev)
}

// HandleEvent applies one stable gesture event to the state machine.
func (e *Engine) HandleEvent(ctx context.Context, ev *gesture.StableEvent) *dispatch.Outcome {
	now := ev.ConfirmedAt
	e.emit(Event{Type: EventStableGesture, Gesture: ev.Label, At: now})

	e.expireIfDue(now)

	if e.state == StateAwaitingConfirmation {
		if ev.Label == e.table.ConfirmationGesture() {
			intent := e.pending
			e.clearPending()
			out := e.dispatcher.Dispatch(ctx, intent.Descriptor)
			e.emitOutcome(intent.Gesture, intent.Descriptor.Kind, out, now)
			return &out
		}

		desc := e.table.Resolve(ev.Label)
		if desc == nil {
			// Unmapped label: ignored, the intent keeps waiting.
			return nil
		}

		if desc.RequiresConfirmation {
			// New intent supersedes the old one and starts its own window.
			old := e.pending.Descriptor.Kind
			e.setPending(ev.Label, desc, now)
			e.emit(Event{Type: EventIntentSuperseded, Gesture: ev.Label, Action: old, At: now})
			e.emit(Event{Type: EventAwaitingConfirmation, Gesture: ev.Label, Action: desc.Kind, At: now})
			return nil
		}

		// A plain event cancels the pending intent and is processed under
		// the idle rules in the same step.
		cancelled := e.pending.Descriptor.Kind
		e.clearPending()
		e.emit(Event{Type: EventIntentCancelled, Gesture: ev.Label, Action: cancelled, At: now})
	}

	// Idle rules.
	if ev.Label == e.table.ConfirmationGesture() {
		// The confirmation gesture on its own does nothing.
		return nil
	}

	desc := e.table.Resolve(ev.Label)
	if desc == nil {
		return nil
	}

	if desc.RequiresConfirmation {
		e.setPending(ev.Label, desc, now)
		e.emit(Event{Type: EventAwaitingConfirmation, Gesture: ev.Label, Action: desc.Kind, At: now})
		return nil
	}

	out := e.dispatcher.Dispatch(ctx, desc)
	e.emitOutcome(ev.Label, desc.Kind, out, now)
	return &out
}

// Tick discards an expired pending intent. The expiry check is lazy (it
// also happens on every event); Tick only exists so the host loop can
// surface prompt expiry feedback to the UI during gesture silence.
func (e *Engine) Tick(now time.Time) {
	e.expireIfDue(now)
}

// Reset clears the stability filter and any pending intent, returning the
// engine to idle.
func (e *Engine) Reset() {
	e.filter.Reset()
	e.clearPending()
}

func (e *Engine) expireIfDue(now time.Time) {
	if e.state != StateAwaitingConfirmation || !now.After(e.pending.ExpiresAt) {
		return
	}
	expired := e.pending
	e.clearPending()
	e.emit(Event{
		Type:    EventIntentExpired,
		Gesture: expired.Gesture,
		Action:  expired.Descriptor.Kind,
		At:      now,
	})
}

func (e *Engine) setPending(label gesture.Label, desc *action.Descriptor, now time.Time) {
	e.pending = &PendingIntent{
		Gesture:     label,
		Descriptor:  desc,
		RequestedAt: now,
		ExpiresAt:   now.Add(e.window),
	}
	e.state = StateAwaitingConfirmation
}

func (e *Engine) clearPending() {
	e.pending = nil
	e.state = StateIdle
}
