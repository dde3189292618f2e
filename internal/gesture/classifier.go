// Package gesture classifies hand landmark geometry into discrete gestures
// and derives the continuous controller signals and hand orientation the
// driver bridge consumes.
package gesture

import (
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// Default classifier thresholds, in the same normalized units as landmarks.
const (
	// DefaultPinchThreshold is the maximum thumb-to-index tip distance for
	// a pinch.
	DefaultPinchThreshold = 0.05
	// DefaultExtendedThreshold is the minimum ratio of tip-to-wrist over
	// knuckle-to-wrist distance for a finger to count as extended.
	DefaultExtendedThreshold = 0.6
	// thumbExtendedFactor replaces the ratio threshold for the thumb,
	// whose flexion axis differs from the other fingers.
	thumbExtendedFactor = 1.2
)

// Classifier turns a landmark set into a gesture. Classification is
// stateless: identical input always produces identical output.
type Classifier struct {
	// PinchThreshold overrides DefaultPinchThreshold when > 0.
	PinchThreshold float64
	// ExtendedThreshold overrides DefaultExtendedThreshold when > 0.
	ExtendedThreshold float64
}

// NewClassifier returns a Classifier with the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		PinchThreshold:    DefaultPinchThreshold,
		ExtendedThreshold: DefaultExtendedThreshold,
	}
}

// Classify determines the gesture for the given landmark set.
//
// Precedence, first match wins: PINCH, FIST, POINT, THUMBS_UP, PEACE,
// OPEN, NONE. An invalid landmark set (fewer than 21 points, non-finite
// coordinates) returns GestureNone together with
// detector.ErrInvalidLandmarks so the caller can treat the frame as a
// detection failure instead of a real classification.
func (c *Classifier) Classify(points []detector.Point3D) (hand.Gesture, error) {
	if err := validatePoints(points); err != nil {
		return hand.GestureNone, err
	}

	if c.isPinch(points) {
		return hand.GesturePinch, nil
	}

	thumb := c.thumbExtended(points)
	index := c.fingerExtended(points, detector.IndexTip, detector.IndexMCP)
	middle := c.fingerExtended(points, detector.MiddleTip, detector.MiddleMCP)
	ring := c.fingerExtended(points, detector.RingTip, detector.RingMCP)
	pinky := c.fingerExtended(points, detector.PinkyTip, detector.PinkyMCP)

	switch {
	case !thumb && !index && !middle && !ring && !pinky:
		return hand.GestureFist, nil
	case index && !thumb && !middle && !ring && !pinky:
		return hand.GesturePoint, nil
	case thumb && !index && !middle && !ring && !pinky:
		return hand.GestureThumbsUp, nil
	case index && middle && !thumb && !ring && !pinky:
		return hand.GesturePeace, nil
	case index && middle && ring && pinky:
		return hand.GestureOpen, nil
	}

	return hand.GestureNone, nil
}

// fingerExtended tests a non-thumb finger: the tip must sit further from
// the wrist than the knuckle by the configured ratio.
func (c *Classifier) fingerExtended(points []detector.Point3D, tip, mcp int) bool {
	wrist := points[detector.Wrist]
	tipDist := detector.Distance(points[tip], wrist)
	mcpDist := detector.Distance(points[mcp], wrist)
	return tipDist > mcpDist*c.extendedThreshold()
}

// thumbExtended uses a lateral-distance variant of the extended test.
func (c *Classifier) thumbExtended(points []detector.Point3D) bool {
	wrist := points[detector.Wrist]
	tipDist := detector.Distance(points[detector.ThumbTip], wrist)
	mcpDist := detector.Distance(points[detector.ThumbMCP], wrist)
	return tipDist > mcpDist*thumbExtendedFactor
}

// isPinch reports whether the thumb and index tips are touching. Pinch is
// checked before any finger pattern and short-circuits classification.
func (c *Classifier) isPinch(points []detector.Point3D) bool {
	d := detector.Distance(points[detector.ThumbTip], points[detector.IndexTip])
	return d < c.pinchThreshold()
}

func (c *Classifier) pinchThreshold() float64 {
	if c.PinchThreshold > 0 {
		return c.PinchThreshold
	}
	return DefaultPinchThreshold
}

func (c *Classifier) extendedThreshold() float64 {
	if c.ExtendedThreshold > 0 {
		return c.ExtendedThreshold
	}
	return DefaultExtendedThreshold
}

func validatePoints(points []detector.Point3D) error {
	if len(points) < detector.NumLandmarks {
		return detector.ErrInvalidLandmarks
	}
	for i := range points {
		if !points[i].Finite() {
			return detector.ErrInvalidLandmarks
		}
	}
	return nil
}
