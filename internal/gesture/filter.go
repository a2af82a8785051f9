package gesture

// Stability filter defaults.
const (
	// DefaultPersistenceFrames is the number of consecutive frames a label
	// must hold before a StableEvent fires (~150ms at 30fps).
	DefaultPersistenceFrames = 5
	// DefaultConfidenceThreshold is the minimum classifier confidence for a
	// frame to count towards a run.
	DefaultConfidenceThreshold = 0.6
)

// StabilityFilter suppresses classification jitter by requiring a label to
// persist across consecutive frames before emitting a StableEvent.
// It is not safe for concurrent use; the frame pipeline is single-threaded.
type StabilityFilter struct {
	persistence   int
	minConfidence float64

	current Sample // first sample of the current run
	count   int    // consecutive frames with current.Label
	fired   bool   // event already emitted for this run
}

// NewStabilityFilter creates a filter with the given persistence threshold
// (frames) and confidence threshold. Non-positive arguments fall back to the
// defaults.
func NewStabilityFilter(persistenceFrames int, confidenceThreshold float64) *StabilityFilter {
	if persistenceFrames <= 0 {
		persistenceFrames = DefaultPersistenceFrames
	}
	if confidenceThreshold <= 0 {
		confidenceThreshold = DefaultConfidenceThreshold
	}
	return &StabilityFilter{
		persistence:   persistenceFrames,
		minConfidence: confidenceThreshold,
	}
}

// Observe folds one frame sample into the filter. It returns a StableEvent
// on the frame where the label first satisfies the persistence threshold,
// and nil on every other frame. A LabelNone sample or one below the
// confidence threshold resets the run without emitting.
func (f *StabilityFilter) Observe(s Sample) *StableEvent {
	if s.Label == LabelNone || s.Confidence < f.minConfidence {
		f.reset()
		return nil
	}

	if s.Label != f.current.Label || f.count == 0 {
		// New run starts at this frame.
		f.current = s
		f.count = 1
		f.fired = false
	} else {
		f.count++
	}

	if f.count >= f.persistence && !f.fired {
		f.fired = true
		return &StableEvent{
			Label:       s.Label,
			FirstSeenAt: f.current.At,
			ConfirmedAt: s.At,
		}
	}
	return nil
}

// Reset clears the current run, as if the hand had left the frame.
func (f *StabilityFilter) Reset() {
	f.reset()
}

func (f *StabilityFilter) reset() {
	f.current = Sample{}
	f.count = 0
	f.fired = false
}
