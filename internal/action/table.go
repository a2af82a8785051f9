package action

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayusman/mudra/internal/gesture"
)

// ErrReservedGesture is returned when trying to bind an action to the
// confirmation gesture.
var ErrReservedGesture = errors.New("gesture is reserved as the confirmation signal")

// Table maps gesture labels to action descriptors. The settings API can
// rebind gestures while the frame pipeline resolves them, so access is
// guarded by a lock.
type Table struct {
	mu           sync.RWMutex
	bindings     map[gesture.Label]*Descriptor
	confirmation gesture.Label
}

// NewTable creates an empty table with ClosedFist reserved as the
// confirmation gesture.
func NewTable() *Table {
	return &Table{
		bindings:     make(map[gesture.Label]*Descriptor),
		confirmation: gesture.LabelClosedFist,
	}
}

// DefaultTable returns the stock mapping: like, skip, stop, volume up,
// mute and unmute, none of them requiring confirmation.
func DefaultTable() *Table {
	t := NewTable()
	t.bindings[gesture.LabelThumbUp] = &Descriptor{Kind: KindLikeCurrentTrack}
	t.bindings[gesture.LabelThumbDown] = &Descriptor{Kind: KindSkipNext}
	t.bindings[gesture.LabelOpenPalm] = &Descriptor{Kind: KindStop}
	t.bindings[gesture.LabelPointingUp] = &Descriptor{
		Kind:   KindVolumeDelta,
		Params: map[string]int{ParamPercent: 10},
	}
	t.bindings[gesture.LabelVictory] = &Descriptor{Kind: KindMute}
	t.bindings[gesture.LabelILoveYou] = &Descriptor{Kind: KindUnmute}
	return t
}

// Resolve returns the descriptor bound to label, or nil if the label is
// unmapped (including LabelNone and the confirmation gesture).
func (t *Table) Resolve(label gesture.Label) *Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.bindings[label]
}

// ConfirmationGesture returns the label reserved as the confirmation signal.
func (t *Table) ConfirmationGesture() gesture.Label {
	return t.confirmation
}

// Bind maps label to desc, replacing any existing binding. Binding the
// confirmation gesture or an invalid label/kind is rejected.
func (t *Table) Bind(label gesture.Label, desc *Descriptor) error {
	if label == t.confirmation {
		return ErrReservedGesture
	}
	if !label.IsValid() || label == gesture.LabelNone {
		return fmt.Errorf("cannot bind unknown label %q", label)
	}
	if desc == nil || !desc.Kind.IsValid() {
		return fmt.Errorf("cannot bind label %q to unknown action", label)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings[label] = desc
	return nil
}

// Unbind removes the binding for label, if any.
func (t *Table) Unbind(label gesture.Label) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.bindings, label)
}

// SetConfirmation marks the action bound to label as requiring (or not
// requiring) the confirmation gesture. Returns false if label is unbound.
func (t *Table) SetConfirmation(label gesture.Label, required bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	desc, ok := t.bindings[label]
	if !ok {
		return false
	}
	desc.RequiresConfirmation = required
	return true
}

// Bindings returns a copy of the current label->descriptor map.
func (t *Table) Bindings() map[gesture.Label]Descriptor {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[gesture.Label]Descriptor, len(t.bindings))
	for label, desc := range t.bindings {
		out[label] = *desc
	}
	return out
}
