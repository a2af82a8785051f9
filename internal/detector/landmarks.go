// Package detector provides hand detection interfaces and the 21-point
// landmark model used by the pose classifier.
package detector

import "math"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Finger identifies one finger for geometry queries.
type Finger int

const (
	FingerThumb Finger = iota
	FingerIndex
	FingerMiddle
	FingerRing
	FingerPinky
)

// Fingers lists all fingers in thumb-to-pinky order.
var Fingers = []Finger{FingerThumb, FingerIndex, FingerMiddle, FingerRing, FingerPinky}

// fingerJoints maps a finger to its (MCP, mid-joint, tip) landmark indices.
// The thumb uses the IP joint where other fingers use the PIP.
var fingerJoints = map[Finger][3]int{
	FingerThumb:  {ThumbMCP, ThumbIP, ThumbTip},
	FingerIndex:  {IndexMCP, IndexPIP, IndexTip},
	FingerMiddle: {MiddleMCP, MiddlePIP, MiddleTip},
	FingerRing:   {RingMCP, RingPIP, RingTip},
	FingerPinky:  {PinkyMCP, PinkyPIP, PinkyTip},
}

// Point3D represents a 3D point in space with x, y, z coordinates.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks represents the 21 hand landmarks detected by MediaPipe.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// distance3D calculates the Euclidean distance between two 3D points.
func distance3D(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Normalize normalizes the hand landmarks relative to wrist position and
// hand size. The normalized landmarks have the wrist at origin (0,0,0) and
// are scaled so that the distance from wrist to middle finger MCP is 1.0.
// Returns a new HandLandmarks instance with normalized points.
func (h *HandLandmarks) Normalize() *HandLandmarks {
	if h == nil {
		return nil
	}

	normalized := &HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	wrist := h.Points[Wrist]
	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i] = Point3D{
			X: h.Points[i].X - wrist.X,
			Y: h.Points[i].Y - wrist.Y,
			Z: h.Points[i].Z - wrist.Z,
		}
	}

	scale := distance3D(Point3D{}, normalized.Points[MiddleMCP])
	if scale < 1e-10 {
		return normalized
	}

	for i := 0; i < NumLandmarks; i++ {
		normalized.Points[i].X /= scale
		normalized.Points[i].Y /= scale
		normalized.Points[i].Z /= scale
	}

	return normalized
}

// ExtensionThreshold is the FingerExtension ratio above which a finger
// counts as extended.
const ExtensionThreshold = 1.3

// FingerExtension reports how extended a finger is, as the ratio between
// the wrist-to-tip distance and the wrist-to-mid-joint distance. Values
// well above 1 mean the finger points away from the palm; values around or
// below 1 mean it is curled back.
func (h *HandLandmarks) FingerExtension(f Finger) float64 {
	joints := fingerJoints[f]
	wrist := h.Points[Wrist]
	mid := distance3D(wrist, h.Points[joints[1]])
	if mid < 1e-10 {
		return 0
	}
	return distance3D(wrist, h.Points[joints[2]]) / mid
}

// IsExtended reports whether a finger is extended.
func (h *HandLandmarks) IsExtended(f Finger) bool {
	return h.FingerExtension(f) > ExtensionThreshold
}

// TipDirectionY returns the vertical direction of a finger from MCP to tip
// in image coordinates. Negative values point up (image Y grows downward).
func (h *HandLandmarks) TipDirectionY(f Finger) float64 {
	joints := fingerJoints[f]
	return h.Points[joints[2]].Y - h.Points[joints[0]].Y
}
