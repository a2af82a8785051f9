// Package classifier turns detected hand landmarks into per-frame gesture
// samples for the stability filter.
package classifier

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// Classifier produces one gesture sample per frame from detected hands.
type Classifier interface {
	// Classify returns the authoritative gesture sample for the frame.
	// With no hands or an unrecognized pose it returns a LabelNone sample.
	Classify(hands []detector.HandLandmarks, at time.Time) gesture.Sample
}

// PoseClassifier is a rule-based classifier over finger extension
// geometry. It recognizes the closed MediaPipe gesture label set without
// needing trained templates: each label is a distinct combination of
// extended fingers plus, for thumbs, a vertical direction.
type PoseClassifier struct{}

// NewPoseClassifier creates a PoseClassifier.
func NewPoseClassifier() *PoseClassifier {
	return &PoseClassifier{}
}

// Classify implements Classifier. Only the first detected hand is
// considered; multi-hand disambiguation is out of scope.
func (c *PoseClassifier) Classify(hands []detector.HandLandmarks, at time.Time) gesture.Sample {
	if len(hands) == 0 {
		return gesture.Sample{Label: gesture.LabelNone, At: at}
	}

	hand := hands[0].Normalize()
	label := classifyPose(hand)
	if label == gesture.LabelNone {
		return gesture.Sample{Label: gesture.LabelNone, At: at}
	}

	return gesture.Sample{
		Label:      label,
		Confidence: confidence(hand),
		At:         at,
	}
}

// classifyPose maps the set of extended fingers to a gesture label.
func classifyPose(hand *detector.HandLandmarks) gesture.Label {
	thumb := hand.IsExtended(detector.FingerThumb)
	index := hand.IsExtended(detector.FingerIndex)
	middle := hand.IsExtended(detector.FingerMiddle)
	ring := hand.IsExtended(detector.FingerRing)
	pinky := hand.IsExtended(detector.FingerPinky)

	switch {
	case thumb && index && middle && ring && pinky:
		return gesture.LabelOpenPalm
	case !thumb && !index && !middle && !ring && !pinky:
		return gesture.LabelClosedFist
	case thumb && !index && !middle && !ring && !pinky:
		if hand.TipDirectionY(detector.FingerThumb) < 0 {
			return gesture.LabelThumbUp
		}
		return gesture.LabelThumbDown
	case !thumb && index && !middle && !ring && !pinky:
		if hand.TipDirectionY(detector.FingerIndex) < 0 {
			return gesture.LabelPointingUp
		}
		return gesture.LabelNone
	case !thumb && index && middle && !ring && !pinky:
		return gesture.LabelVictory
	case thumb && index && !middle && !ring && pinky:
		return gesture.LabelILoveYou
	}
	return gesture.LabelNone
}

// confidence combines the detector's hand score with how decisively each
// finger sits on its side of the extension threshold. A pose with fingers
// hovering near the threshold scores lower than a crisp one.
func confidence(hand *detector.HandLandmarks) float64 {
	margin := 1.0
	for _, f := range detector.Fingers {
		ext := hand.FingerExtension(f)
		m := ext - detector.ExtensionThreshold
		if m < 0 {
			m = -m
		}
		// A finger 0.2 or more away from the threshold is unambiguous.
		m /= 0.2
		if m > 1 {
			m = 1
		}
		if m < margin {
			margin = m
		}
	}
	return hand.Score * (0.5 + 0.5*margin)
}
