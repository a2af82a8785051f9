package dispatch

import (
	"context"

	"github.com/ayusman/mudra/internal/action"
)

// MockController is a test implementation of Controller that records calls
// and returns a configurable error.
type MockController struct {
	Calls []Call
	Err   error
}

// Call records one controller invocation.
type Call struct {
	Kind    action.Kind
	Percent int
}

// NewMockController creates a MockController that succeeds on every call.
func NewMockController() *MockController {
	return &MockController{}
}

func (m *MockController) record(kind action.Kind, percent int) error {
	m.Calls = append(m.Calls, Call{Kind: kind, Percent: percent})
	return m.Err
}

// CallsOf returns how many calls were recorded for kind.
func (m *MockController) CallsOf(kind action.Kind) int {
	n := 0
	for _, c := range m.Calls {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

func (m *MockController) LikeCurrentTrack(ctx context.Context) error {
	return m.record(action.KindLikeCurrentTrack, 0)
}

func (m *MockController) SkipNext(ctx context.Context) error {
	return m.record(action.KindSkipNext, 0)
}

func (m *MockController) Stop(ctx context.Context) error {
	return m.record(action.KindStop, 0)
}

func (m *MockController) VolumeDelta(ctx context.Context, deltaPercent int) error {
	return m.record(action.KindVolumeDelta, deltaPercent)
}

func (m *MockController) Mute(ctx context.Context) error {
	return m.record(action.KindMute, 0)
}

func (m *MockController) Unmute(ctx context.Context) error {
	return m.record(action.KindUnmute, 0)
}
