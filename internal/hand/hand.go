// Package hand defines the shared hand state model exchanged between the
// tracker and the driver bridge.
package hand

import "math"

// Side identifies which hand a state belongs to.
type Side string

const (
	// SideLeft is the left hand.
	SideLeft Side = "LEFT"
	// SideRight is the right hand.
	SideRight Side = "RIGHT"
)

// Sides returns both hand sides in a fixed order.
func Sides() [2]Side {
	return [2]Side{SideLeft, SideRight}
}

// Valid reports whether the side is one of the two defined hands.
func (s Side) Valid() bool {
	return s == SideLeft || s == SideRight
}

// Gesture is a discrete classification of overall hand shape.
type Gesture string

const (
	GestureFist     Gesture = "FIST"
	GesturePoint    Gesture = "POINT"
	GestureOpen     Gesture = "OPEN"
	GestureThumbsUp Gesture = "THUMBS_UP"
	GesturePeace    Gesture = "PEACE"
	GesturePinch    Gesture = "PINCH"
	GestureNone     Gesture = "NONE"
)

// Valid reports whether the gesture is part of the closed enumeration.
func (g Gesture) Valid() bool {
	switch g {
	case GestureFist, GesturePoint, GestureOpen, GestureThumbsUp,
		GesturePeace, GesturePinch, GestureNone:
		return true
	}
	return false
}

// State is the complete pose and input snapshot for one hand at one instant.
// Position is in driver-local units, Rotation is a unit quaternion (w-first),
// and Trigger/Grip are normalized to [0, 1].
type State struct {
	Side     Side
	Position Vec3
	Rotation Quaternion
	Gesture  Gesture
	Trigger  float64
	Grip     float64
}

// Neutral returns the defined safe default state for a hand: origin
// position, identity rotation, open gesture, zero trigger and grip.
func Neutral(side Side) State {
	return State{
		Side:     side,
		Position: Vec3{},
		Rotation: IdentityQuaternion(),
		Gesture:  GestureOpen,
		Trigger:  0,
		Grip:     0,
	}
}

// Clamp01 clamps v to the [0, 1] range.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
