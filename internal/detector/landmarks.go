// Package detector provides hand detection interfaces and the 21-point
// landmark model consumed by the gesture pipeline.
package detector

import (
	"errors"
	"math"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

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

// ErrInvalidLandmarks is returned when a landmark set violates the 21-point
// contract (missing points or non-finite coordinates).
var ErrInvalidLandmarks = errors.New("invalid hand landmarks")

// Point3D represents a tracked point with x, y in normalized frame space
// (0..1) and z as a relative depth proxy.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Finite reports whether all three coordinates are finite numbers.
func (p Point3D) Finite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Z} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HandLandmarks represents the 21 hand landmarks detected for one hand.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Distance calculates the Euclidean distance between two 3D points.
func Distance(a, b Point3D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Validate checks the landmark contract: every point must have finite
// coordinates. The fixed-size array guarantees the count.
func (h *HandLandmarks) Validate() error {
	if h == nil {
		return ErrInvalidLandmarks
	}
	for i := range h.Points {
		if !h.Points[i].Finite() {
			return ErrInvalidLandmarks
		}
	}
	return nil
}

// Side maps the detector's handedness label to a hand side.
// Anything other than "Left" is treated as the right hand.
func (h *HandLandmarks) Side() hand.Side {
	if h.Handedness == "Left" {
		return hand.SideLeft
	}
	return hand.SideRight
}

// PalmSize estimates the apparent palm size as the mean of the distances
// between the wrist and the two outer knuckles, and across the knuckles
// themselves. A larger palm means the hand is closer to the camera, which
// the position mapper turns into a depth estimate.
func (h *HandLandmarks) PalmSize() float64 {
	wrist := h.Points[Wrist]
	indexMCP := h.Points[IndexMCP]
	pinkyMCP := h.Points[PinkyMCP]

	d1 := Distance(wrist, indexMCP)
	d2 := Distance(wrist, pinkyMCP)
	d3 := Distance(indexMCP, pinkyMCP)

	return (d1 + d2 + d3) / 3
}
