// Package action defines the playback-control actions and the table that
// maps gesture labels to them.
package action

// Kind identifies one of the playback-control operations.
type Kind string

const (
	KindLikeCurrentTrack Kind = "like-current-track"
	KindSkipNext         Kind = "skip-next"
	KindStop             Kind = "stop"
	KindVolumeDelta      Kind = "volume-delta"
	KindMute             Kind = "mute"
	KindUnmute           Kind = "unmute"
)

// IsValid reports whether k is a recognized action kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindLikeCurrentTrack, KindSkipNext, KindStop, KindVolumeDelta, KindMute, KindUnmute:
		return true
	}
	return false
}

// Kinds returns all recognized action kinds.
func Kinds() []Kind {
	return []Kind{
		KindLikeCurrentTrack, KindSkipNext, KindStop,
		KindVolumeDelta, KindMute, KindUnmute,
	}
}

// ParamPercent is the parameter key carrying a volume delta in percent.
const ParamPercent = "percent"

// Descriptor describes an action bound to a gesture: what to do, with which
// parameters, and whether a confirmation gesture must follow before it fires.
type Descriptor struct {
	Kind                 Kind
	Params               map[string]int
	RequiresConfirmation bool
}

// Percent returns the ParamPercent parameter, or 0 if unset.
func (d *Descriptor) Percent() int {
	if d == nil || d.Params == nil {
		return 0
	}
	return d.Params[ParamPercent]
}
