package classifier

import (
	"time"

	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
)

// MockClassifier returns a scripted sequence of samples, one per frame,
// ignoring the detected hands. After the script runs out it keeps
// returning the last entry (or LabelNone if the script is empty).
type MockClassifier struct {
	script []gesture.Sample
	index  int
}

// NewMockClassifier creates a MockClassifier with the given script.
func NewMockClassifier(script ...gesture.Sample) *MockClassifier {
	return &MockClassifier{script: script}
}

// Append adds samples to the end of the script.
func (m *MockClassifier) Append(samples ...gesture.Sample) {
	m.script = append(m.script, samples...)
}

// Classify returns the next scripted sample, stamping it with at.
func (m *MockClassifier) Classify(hands []detector.HandLandmarks, at time.Time) gesture.Sample {
	if len(m.script) == 0 {
		return gesture.Sample{Label: gesture.LabelNone, At: at}
	}
	s := m.script[m.index]
	if m.index < len(m.script)-1 {
		m.index++
	}
	s.At = at
	return s
}
