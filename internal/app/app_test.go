package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/dispatch"
	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/store"
)

// newTestApp wires an App around mocks so frames can be pushed through
// processFrame without a camera or a MediaPipe process. The returned table
// lets tests flip confirmation requirements before pushing frames.
func newTestApp(t *testing.T, withStore bool) (*App, *dispatch.MockController, *detector.MockDetector, *action.Table) {
	t.Helper()

	var st *store.Store
	if withStore {
		var err error
		st, err = store.New(filepath.Join(t.TempDir(), "test.db"))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		t.Cleanup(func() { st.Close() })
	}

	ctrl := dispatch.NewMockController()
	table := action.DefaultTable()
	eng := engine.New(engine.Config{}, table, dispatch.NewDispatcher(ctrl, 0, nil))

	a := New(Config{
		Store:  st,
		Engine: eng,
	})

	det := detector.NewMockDetector()
	a.SetDetector(det)

	return a, ctrl, det, table
}

func pushFrames(a *App, det *detector.MockDetector, hand detector.HandLandmarks, n int, start time.Time) {
	det.SetHands([]detector.HandLandmarks{hand})
	for i := 0; i < n; i++ {
		a.processFrame(nil, start.Add(time.Duration(i)*66*time.Millisecond))
	}
}

func TestApp_ThumbUpDispatchesLike(t *testing.T) {
	a, ctrl, det, _ := newTestApp(t, false)
	start := time.Now()

	pushFrames(a, det, detector.ThumbUpLandmarks(), gesture.DefaultPersistenceFrames, start)

	if got := ctrl.CallsOf(action.KindLikeCurrentTrack); got != 1 {
		t.Fatalf("expected one like call, got %d (%+v)", got, ctrl.Calls)
	}
}

func TestApp_HeldGestureDispatchesOnce(t *testing.T) {
	a, ctrl, det, _ := newTestApp(t, false)
	start := time.Now()

	pushFrames(a, det, detector.ThumbUpLandmarks(), 20, start)

	if got := ctrl.CallsOf(action.KindLikeCurrentTrack); got != 1 {
		t.Errorf("held gesture must dispatch once, got %d calls", got)
	}
}

func TestApp_ConfirmationFlow(t *testing.T) {
	a, ctrl, det, table := newTestApp(t, false)
	table.SetConfirmation(gesture.LabelPointingUp, true)
	start := time.Now()

	pushFrames(a, det, detector.PointingUpLandmarks(), gesture.DefaultPersistenceFrames, start)
	if got := ctrl.CallsOf(action.KindVolumeDelta); got != 0 {
		t.Fatalf("volume must wait for confirmation, got %d calls", got)
	}

	pushFrames(a, det, detector.ClosedFistLandmarks(), gesture.DefaultPersistenceFrames, start.Add(time.Second))
	if got := ctrl.CallsOf(action.KindVolumeDelta); got != 1 {
		t.Errorf("expected one volume call after confirmation, got %d", got)
	}
}

func TestApp_VolumeDispatchesWithoutConfirmationByDefault(t *testing.T) {
	a, ctrl, det, _ := newTestApp(t, false)
	start := time.Now()

	// The stock table binds PointingUp without a confirmation requirement.
	pushFrames(a, det, detector.PointingUpLandmarks(), gesture.DefaultPersistenceFrames, start)

	if got := ctrl.CallsOf(action.KindVolumeDelta); got != 1 {
		t.Fatalf("expected immediate volume dispatch, got %d calls", got)
	}
	if a.Engine().State() != engine.StateIdle {
		t.Errorf("engine must stay idle, state=%q", a.Engine().State())
	}
}

func TestApp_NoHandsNoDispatch(t *testing.T) {
	a, ctrl, det, _ := newTestApp(t, false)

	det.SetHands(nil)
	for i := 0; i < 10; i++ {
		a.processFrame(nil, time.Now())
	}

	if len(ctrl.Calls) != 0 {
		t.Errorf("expected no calls, got %+v", ctrl.Calls)
	}
}

func TestApp_DisableResetsEngine(t *testing.T) {
	a, _, det, table := newTestApp(t, false)
	table.SetConfirmation(gesture.LabelPointingUp, true)
	start := time.Now()

	pushFrames(a, det, detector.PointingUpLandmarks(), gesture.DefaultPersistenceFrames, start)
	if a.Engine().State() != engine.StateAwaitingConfirmation {
		t.Fatal("expected a pending intent")
	}

	a.SetEnabled(false)
	if a.Engine().State() != engine.StateIdle || a.Engine().Pending() != nil {
		t.Error("disabling must clear the pending intent")
	}
}

func TestApp_RecordsDispatchHistory(t *testing.T) {
	a, _, det, _ := newTestApp(t, true)
	start := time.Now()

	pushFrames(a, det, detector.ThumbUpLandmarks(), gesture.DefaultPersistenceFrames, start)

	entries, err := a.config.Store.History().Recent(10)
	if err != nil {
		t.Fatalf("failed to read history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.Gesture != "Thumb_Up" || e.Action != "like-current-track" || e.Outcome != "sent" {
		t.Errorf("unexpected history entry %+v", e)
	}
}
