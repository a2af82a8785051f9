// Package gesture defines the recognized hand gesture labels and the
// stability filter that turns noisy per-frame classifications into
// debounced gesture events.
package gesture

import "time"

// Label is a recognized hand pose. The set is closed: it mirrors the
// categories produced by the MediaPipe gesture recognizer model.
type Label string

const (
	// LabelNone means no hand was detected or the pose was not recognized.
	LabelNone Label = "None"

	LabelThumbUp    Label = "Thumb_Up"
	LabelThumbDown  Label = "Thumb_Down"
	LabelOpenPalm   Label = "Open_Palm"
	LabelPointingUp Label = "Pointing_Up"
	LabelVictory    Label = "Victory"
	LabelILoveYou   Label = "ILoveYou"
	LabelClosedFist Label = "Closed_Fist"
)

// IsValid reports whether l is a recognized gesture label.
func (l Label) IsValid() bool {
	switch l {
	case LabelNone, LabelThumbUp, LabelThumbDown, LabelOpenPalm,
		LabelPointingUp, LabelVictory, LabelILoveYou, LabelClosedFist:
		return true
	}
	return false
}

// Labels returns all labels that represent an actual pose (LabelNone excluded).
func Labels() []Label {
	return []Label{
		LabelThumbUp, LabelThumbDown, LabelOpenPalm,
		LabelPointingUp, LabelVictory, LabelILoveYou, LabelClosedFist,
	}
}

// Sample is one per-frame classification result. At must come from the
// monotonic clock (time.Now), never from a wall-clock source.
type Sample struct {
	Label      Label
	Confidence float64
	At         time.Time
}

// StableEvent is emitted when a label has persisted long enough to be
// considered deliberate. It is produced at most once per contiguous run
// of frames sharing the same label.
type StableEvent struct {
	Label       Label
	FirstSeenAt time.Time
	ConfirmedAt time.Time
}
