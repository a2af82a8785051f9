package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func TestNewCamera_Defaults(t *testing.T) {
	cam := NewCamera(0)

	if got := cam.FPS(); got != DefaultFPS {
		t.Errorf("FPS() = %d, want default %d", got, DefaultFPS)
	}
	if cam.IsOpen() {
		t.Error("camera should not be open initially")
	}
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen before Open, got %v", err)
	}
}

func TestCamera_SetFPSIgnoresInvalid(t *testing.T) {
	cam := NewCamera(0)
	cam.SetFPS(15)
	if cam.FPS() != 15 {
		t.Errorf("expected FPS 15, got %d", cam.FPS())
	}
	cam.SetFPS(0)
	cam.SetFPS(-3)
	if cam.FPS() != 15 {
		t.Errorf("invalid FPS values must be ignored, got %d", cam.FPS())
	}
}

func TestMockCamera_Playback(t *testing.T) {
	frame1 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame1.Close()
	frame2 := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame2.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame1, &frame2}, false)

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error after all frames consumed")
	}
}

func TestMockCamera_Loop(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("looped ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}
}

func TestMockCamera_ReadFrameClones(t *testing.T) {
	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	cam := NewMockCamera([]*gocv.Mat{&frame}, true)
	cam.Open()
	defer cam.Close()

	f1, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	if f1 == &frame {
		t.Fatal("ReadFrame must not hand out the stored Mat")
	}
	f1.Close()

	// Closing the first copy must not invalidate later reads of the same
	// stored frame.
	f2, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() after close error = %v", err)
	}
	if f2.Empty() {
		t.Error("cloned frame is empty after the previous copy was closed")
	}
	f2.Close()
}

func TestMockCamera_ClosedRead(t *testing.T) {
	cam := NewMockCamera(nil, false)
	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("expected ErrCameraNotOpen, got %v", err)
	}
}

func TestMotionDetector_FirstFrameIsBaseline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	detected, percent := md.Detect(&frame)
	if detected || percent != 0 {
		t.Errorf("first frame must only set the baseline, got detected=%t percent=%f", detected, percent)
	}
}

func TestMotionDetector_IdenticalFramesNoMotion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	md := NewMotionDetector(1.0)
	defer md.Close()

	frame := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer frame.Close()

	md.Detect(&frame)
	detected, _ := md.Detect(&frame)
	if detected {
		t.Error("identical frames should not report motion")
	}
}

func TestMotionDetector_NilFrame(t *testing.T) {
	md := NewMotionDetector(1.0)
	defer md.Close()

	if detected, _ := md.Detect(nil); detected {
		t.Error("nil frame must not report motion")
	}
}
