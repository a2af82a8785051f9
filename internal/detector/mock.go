package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	hands []HandLandmarks
	err   error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// poseSpec describes a synthetic hand pose: which fingers are extended,
// and whether the hand is flipped upside down (thumbs down).
type poseSpec struct {
	extended [5]bool // indexed by Finger
	flipped  bool
}

// Finger base X positions for a right hand, thumb to pinky.
var fingerBaseX = [5]float64{0.62, 0.56, 0.50, 0.44, 0.38}

// handFromSpec builds synthetic landmarks for a pose. The wrist sits at
// (0.5, 0.8) in image coordinates with fingers fanned upward; extended
// fingers reach well past their mid joint, curled fingers fold back
// towards the palm.
func handFromSpec(spec poseSpec) HandLandmarks {
	h := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	const wristY = 0.8
	h.Points[Wrist] = Point3D{X: 0.5, Y: wristY}

	for fi, f := range Fingers {
		x := fingerBaseX[fi]
		joints := fingerJoints[f]

		if f == FingerThumb {
			// The thumb fans out to the side of the palm.
			h.Points[ThumbCMC] = Point3D{X: 0.56, Y: 0.76}
			h.Points[joints[0]] = Point3D{X: 0.60, Y: 0.70}
			if spec.extended[fi] {
				h.Points[joints[1]] = Point3D{X: 0.63, Y: 0.60}
				h.Points[joints[2]] = Point3D{X: 0.65, Y: 0.45}
			} else {
				h.Points[joints[1]] = Point3D{X: 0.58, Y: 0.68}
				h.Points[joints[2]] = Point3D{X: 0.54, Y: 0.70}
			}
			continue
		}

		h.Points[joints[0]] = Point3D{X: x, Y: 0.65}
		if spec.extended[fi] {
			h.Points[joints[1]] = Point3D{X: x, Y: 0.55}
			h.Points[joints[2]-1] = Point3D{X: x, Y: 0.46} // DIP
			h.Points[joints[2]] = Point3D{X: x, Y: 0.38}
		} else {
			h.Points[joints[1]] = Point3D{X: x, Y: 0.55}
			h.Points[joints[2]-1] = Point3D{X: x - 0.02, Y: 0.62} // DIP
			h.Points[joints[2]] = Point3D{X: x - 0.03, Y: 0.68}
		}
	}

	if spec.flipped {
		// Mirror vertically around the wrist: distances are preserved,
		// directions invert.
		for i := 0; i < NumLandmarks; i++ {
			h.Points[i].Y = 2*wristY - h.Points[i].Y
		}
	}

	return h
}

// Preset landmark fixtures for every recognized pose.

// ThumbUpLandmarks returns a hand with only the thumb extended, pointing up.
func ThumbUpLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{true, false, false, false, false}})
}

// ThumbDownLandmarks returns a hand with only the thumb extended, pointing down.
func ThumbDownLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{true, false, false, false, false}, flipped: true})
}

// OpenPalmLandmarks returns a hand with all five fingers extended.
func OpenPalmLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{true, true, true, true, true}})
}

// PointingUpLandmarks returns a hand with only the index finger extended.
func PointingUpLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{false, true, false, false, false}})
}

// VictoryLandmarks returns a hand with index and middle fingers extended.
func VictoryLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{false, true, true, false, false}})
}

// ILoveYouLandmarks returns a hand with thumb, index and pinky extended.
func ILoveYouLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{extended: [5]bool{true, true, false, false, true}})
}

// ClosedFistLandmarks returns a hand with every finger curled.
func ClosedFistLandmarks() HandLandmarks {
	return handFromSpec(poseSpec{})
}
