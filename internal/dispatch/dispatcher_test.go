package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
)

// fakeClock lets tests advance the dispatcher's notion of now.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Now()}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestDispatcher(ctrl Controller, minInterval time.Duration) (*Dispatcher, *fakeClock) {
	d := NewDispatcher(ctrl, minInterval, nil)
	clock := newFakeClock()
	d.now = clock.Now
	return d, clock
}

func TestDispatcher_SentThenThrottled(t *testing.T) {
	ctrl := NewMockController()
	d, _ := newTestDispatcher(ctrl, 500*time.Millisecond)

	desc := &action.Descriptor{Kind: action.KindSkipNext}

	first := d.Dispatch(context.Background(), desc)
	if first.Status != StatusSent {
		t.Fatalf("expected first dispatch Sent, got %q", first.Status)
	}

	second := d.Dispatch(context.Background(), desc)
	if second.Status != StatusThrottled {
		t.Fatalf("expected second dispatch Throttled, got %q", second.Status)
	}

	if ctrl.CallsOf(action.KindSkipNext) != 1 {
		t.Errorf("throttled dispatch must not call the controller, got %d calls", ctrl.CallsOf(action.KindSkipNext))
	}
}

func TestDispatcher_SentAfterIntervalElapsed(t *testing.T) {
	ctrl := NewMockController()
	d, clock := newTestDispatcher(ctrl, 500*time.Millisecond)

	desc := &action.Descriptor{Kind: action.KindMute}

	d.Dispatch(context.Background(), desc)
	clock.Advance(501 * time.Millisecond)

	if out := d.Dispatch(context.Background(), desc); out.Status != StatusSent {
		t.Fatalf("expected Sent after interval elapsed, got %q", out.Status)
	}
	if ctrl.CallsOf(action.KindMute) != 2 {
		t.Errorf("expected 2 controller calls, got %d", ctrl.CallsOf(action.KindMute))
	}
}

func TestDispatcher_DifferentKindsNotThrottledTogether(t *testing.T) {
	ctrl := NewMockController()
	d, _ := newTestDispatcher(ctrl, 500*time.Millisecond)

	if out := d.Dispatch(context.Background(), &action.Descriptor{Kind: action.KindMute}); out.Status != StatusSent {
		t.Fatalf("expected Sent, got %q", out.Status)
	}
	if out := d.Dispatch(context.Background(), &action.Descriptor{Kind: action.KindUnmute}); out.Status != StatusSent {
		t.Fatalf("rate limit must be per kind; got %q for a different kind", out.Status)
	}
}

func TestDispatcher_FailureDoesNotStartInterval(t *testing.T) {
	ctrl := NewMockController()
	ctrl.Err = ErrNotPlaying
	d, _ := newTestDispatcher(ctrl, 500*time.Millisecond)

	desc := &action.Descriptor{Kind: action.KindStop}

	out := d.Dispatch(context.Background(), desc)
	if out.Status != StatusFailed {
		t.Fatalf("expected Failed, got %q", out.Status)
	}
	if !errors.Is(out.Err, ErrNotPlaying) {
		t.Errorf("expected ErrNotPlaying, got %v", out.Err)
	}

	// Immediate retry after the failure is not throttled.
	ctrl.Err = nil
	if out := d.Dispatch(context.Background(), desc); out.Status != StatusSent {
		t.Fatalf("expected immediate retry to be Sent, got %q", out.Status)
	}
}

func TestDispatcher_PerKindInterval(t *testing.T) {
	ctrl := NewMockController()
	d := NewDispatcher(ctrl, 500*time.Millisecond, map[action.Kind]time.Duration{
		action.KindVolumeDelta: 200 * time.Millisecond,
	})
	clock := newFakeClock()
	d.now = clock.Now

	desc := &action.Descriptor{
		Kind:   action.KindVolumeDelta,
		Params: map[string]int{action.ParamPercent: 10},
	}

	d.Dispatch(context.Background(), desc)
	clock.Advance(250 * time.Millisecond)

	// 250ms is past the per-kind 200ms override but under the 500ms global.
	if out := d.Dispatch(context.Background(), desc); out.Status != StatusSent {
		t.Fatalf("expected per-kind interval to apply, got %q", out.Status)
	}
}

func TestDispatcher_VolumeDeltaPassesPercent(t *testing.T) {
	ctrl := NewMockController()
	d, _ := newTestDispatcher(ctrl, time.Millisecond)

	desc := &action.Descriptor{
		Kind:   action.KindVolumeDelta,
		Params: map[string]int{action.ParamPercent: -10},
	}
	d.Dispatch(context.Background(), desc)

	if len(ctrl.Calls) != 1 || ctrl.Calls[0].Percent != -10 {
		t.Errorf("expected VolumeDelta(-10), got %+v", ctrl.Calls)
	}
}

func TestDispatcher_NilDescriptor(t *testing.T) {
	d, _ := newTestDispatcher(NewMockController(), time.Millisecond)
	if out := d.Dispatch(context.Background(), nil); out.Status != StatusFailed {
		t.Errorf("expected Failed for nil descriptor, got %q", out.Status)
	}
}

func TestDispatcher_UnknownKind(t *testing.T) {
	d, _ := newTestDispatcher(NewMockController(), time.Millisecond)
	out := d.Dispatch(context.Background(), &action.Descriptor{Kind: action.Kind("dance")})
	if out.Status != StatusFailed {
		t.Errorf("expected Failed for unknown kind, got %q", out.Status)
	}
}
