package classifier

import (
	"testing"
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

func TestPoseClassifier_RecognizesAllPoses(t *testing.T) {
	cases := []struct {
		name string
		hand detector.HandLandmarks
		want gesture.Label
	}{
		{"thumbs up", detector.ThumbUpLandmarks(), gesture.LabelThumbUp},
		{"thumbs down", detector.ThumbDownLandmarks(), gesture.LabelThumbDown},
		{"open palm", detector.OpenPalmLandmarks(), gesture.LabelOpenPalm},
		{"pointing up", detector.PointingUpLandmarks(), gesture.LabelPointingUp},
		{"victory", detector.VictoryLandmarks(), gesture.LabelVictory},
		{"i love you", detector.ILoveYouLandmarks(), gesture.LabelILoveYou},
		{"closed fist", detector.ClosedFistLandmarks(), gesture.LabelClosedFist},
	}

	c := NewPoseClassifier()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := c.Classify([]detector.HandLandmarks{tc.hand}, time.Now())
			if s.Label != tc.want {
				t.Errorf("expected %q, got %q", tc.want, s.Label)
			}
			if s.Confidence < gesture.DefaultConfidenceThreshold {
				t.Errorf("preset pose should classify confidently, got %f", s.Confidence)
			}
		})
	}
}

func TestPoseClassifier_NoHands(t *testing.T) {
	c := NewPoseClassifier()
	s := c.Classify(nil, time.Now())
	if s.Label != gesture.LabelNone {
		t.Errorf("expected LabelNone without hands, got %q", s.Label)
	}
	if s.Confidence != 0 {
		t.Errorf("expected zero confidence without hands, got %f", s.Confidence)
	}
}

func TestPoseClassifier_FirstHandIsAuthoritative(t *testing.T) {
	c := NewPoseClassifier()
	hands := []detector.HandLandmarks{
		detector.VictoryLandmarks(),
		detector.ClosedFistLandmarks(),
	}
	s := c.Classify(hands, time.Now())
	if s.Label != gesture.LabelVictory {
		t.Errorf("expected first hand to win, got %q", s.Label)
	}
}

func TestPoseClassifier_TimestampPropagates(t *testing.T) {
	c := NewPoseClassifier()
	at := time.Now()
	s := c.Classify([]detector.HandLandmarks{detector.OpenPalmLandmarks()}, at)
	if !s.At.Equal(at) {
		t.Errorf("expected sample timestamp %v, got %v", at, s.At)
	}
}

func TestMockClassifier_PlaysScript(t *testing.T) {
	m := NewMockClassifier(
		gesture.Sample{Label: gesture.LabelThumbUp, Confidence: 0.9},
		gesture.Sample{Label: gesture.LabelNone},
	)

	s := m.Classify(nil, time.Now())
	if s.Label != gesture.LabelThumbUp {
		t.Errorf("expected scripted ThumbUp, got %q", s.Label)
	}
	// The script sticks at its last entry once exhausted.
	for i := 0; i < 3; i++ {
		if s := m.Classify(nil, time.Now()); s.Label != gesture.LabelNone {
			t.Errorf("expected LabelNone after script end, got %q", s.Label)
		}
	}
}
