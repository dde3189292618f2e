package gesture

import "github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"

// Signals carries the continuous controller inputs derived from a gesture.
type Signals struct {
	Trigger float64
	Grip    float64
}

// signalTable maps each gesture to its fixed trigger/grip values. New
// gestures are added here, not in code paths.
var signalTable = map[hand.Gesture]Signals{
	hand.GestureFist:     {Trigger: 0.0, Grip: 1.0},
	hand.GesturePoint:    {Trigger: 0.8, Grip: 0.0},
	hand.GestureOpen:     {Trigger: 0.0, Grip: 0.0},
	hand.GestureThumbsUp: {Trigger: 0.0, Grip: 0.0},
	hand.GesturePeace:    {Trigger: 0.0, Grip: 0.0},
	hand.GesturePinch:    {Trigger: 1.0, Grip: 0.5},
	hand.GestureNone:     {Trigger: 0.0, Grip: 0.0},
}

// SignalsFor returns the trigger and grip values for a gesture. Gestures
// outside the table map to zero signals.
func SignalsFor(g hand.Gesture) Signals {
	return signalTable[g]
}
