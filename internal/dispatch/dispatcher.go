package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/ayusman/mudra/internal/action"
)

// Dispatcher defaults.
const (
	// DefaultMinInterval is the minimum time between two dispatches of the
	// same action kind.
	DefaultMinInterval = 500 * time.Millisecond
	// DefaultCallTimeout bounds a single controller call so a hanging
	// service cannot stall the frame pipeline forever.
	DefaultCallTimeout = 5 * time.Second
)

// Status classifies the result of a dispatch attempt.
type Status string

const (
	// StatusSent means the controller call succeeded.
	StatusSent Status = "sent"
	// StatusThrottled means the call was suppressed by the rate limiter.
	// No external call was made.
	StatusThrottled Status = "throttled"
	// StatusFailed means the controller call was made and returned an error.
	StatusFailed Status = "failed"
)

// Outcome is the result of one dispatch attempt. Err is set only when
// Status is StatusFailed.
type Outcome struct {
	Status Status
	Err    error
}

// Dispatcher rate-limits actions per kind and forwards them to a Controller.
// It is not safe for concurrent use; the frame pipeline is single-threaded.
type Dispatcher struct {
	controller  Controller
	minInterval time.Duration
	perKind     map[action.Kind]time.Duration
	callTimeout time.Duration

	// lastDispatched holds the monotonic time of the last successful or
	// throttle-eligible dispatch per kind. Never updated on failure, so a
	// repeated gesture retries a failed call immediately.
	lastDispatched map[action.Kind]time.Time

	now func() time.Time
}

// NewDispatcher creates a Dispatcher for the given controller. minInterval
// applies to every kind not present in perKind; non-positive values fall
// back to the defaults.
func NewDispatcher(controller Controller, minInterval time.Duration, perKind map[action.Kind]time.Duration) *Dispatcher {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &Dispatcher{
		controller:     controller,
		minInterval:    minInterval,
		perKind:        perKind,
		callTimeout:    DefaultCallTimeout,
		lastDispatched: make(map[action.Kind]time.Time),
		now:            time.Now,
	}
}

// Dispatch executes desc against the controller unless a dispatch of the
// same kind happened within the kind's minimum interval.
func (d *Dispatcher) Dispatch(ctx context.Context, desc *action.Descriptor) Outcome {
	if desc == nil {
		return Outcome{Status: StatusFailed, Err: fmt.Errorf("nil action descriptor")}
	}

	now := d.now()
	if last, ok := d.lastDispatched[desc.Kind]; ok {
		if now.Sub(last) < d.intervalFor(desc.Kind) {
			return Outcome{Status: StatusThrottled}
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	if err := d.call(callCtx, desc); err != nil {
		return Outcome{Status: StatusFailed, Err: err}
	}

	d.lastDispatched[desc.Kind] = now
	return Outcome{Status: StatusSent}
}

func (d *Dispatcher) call(ctx context.Context, desc *action.Descriptor) error {
	switch desc.Kind {
	case action.KindLikeCurrentTrack:
		return d.controller.LikeCurrentTrack(ctx)
	case action.KindSkipNext:
		return d.controller.SkipNext(ctx)
	case action.KindStop:
		return d.controller.Stop(ctx)
	case action.KindVolumeDelta:
		return d.controller.VolumeDelta(ctx, desc.Percent())
	case action.KindMute:
		return d.controller.Mute(ctx)
	case action.KindUnmute:
		return d.controller.Unmute(ctx)
	}
	return fmt.Errorf("unknown action kind %q", desc.Kind)
}

func (d *Dispatcher) intervalFor(kind action.Kind) time.Duration {
	if iv, ok := d.perKind[kind]; ok && iv > 0 {
		return iv
	}
	return d.minInterval
}
