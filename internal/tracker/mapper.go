package tracker

import (
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// Calibration adjusts mapped hand positions for a particular user and
// camera placement. Scale multiplies the raw mapped position, Offset is
// added afterwards, all in driver-local units.
type Calibration struct {
	Offset hand.Vec3
	Scale  float64
}

// DefaultCalibration returns the identity calibration.
func DefaultCalibration() Calibration {
	return Calibration{Scale: 1.0}
}

// MapPosition converts a landmark set into a driver-local hand position.
//
// The wrist's normalized frame coordinates are recentered around the frame
// middle and stretched to -1..1, with y inverted because image y grows
// downward. Depth has no direct measurement; the apparent palm size stands
// in for it — a bigger palm means a closer hand, pushed further along
// negative z.
func MapPosition(lm *detector.HandLandmarks, cal Calibration) hand.Vec3 {
	wrist := lm.Points[detector.Wrist]

	raw := hand.Vec3{
		X: (wrist.X - 0.5) * 2.0,
		Y: -(wrist.Y - 0.5) * 2.0,
		Z: -0.5 - lm.PalmSize()*2.0,
	}

	scale := cal.Scale
	if scale == 0 {
		scale = 1.0
	}

	return raw.Scale(scale).Add(cal.Offset)
}
