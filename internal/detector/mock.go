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

// buildHand assembles a right-hand landmark set with each finger either
// curled toward the palm or fully extended. The wrist sits at (0.5, 0.8)
// in normalized frame space; extended tips clear the tip-to-wrist ratio
// test by a wide margin, curled tips land well inside it, and the curled
// thumb and index tips stay more than the pinch threshold apart.
func buildHand(thumb, index, middle, ring, pinky bool) HandLandmarks {
	lm := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	lm.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0}

	lm.Points[ThumbCMC] = Point3D{X: 0.54, Y: 0.77, Z: 0.01}
	lm.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.72, Z: 0.01}
	if thumb {
		lm.Points[ThumbIP] = Point3D{X: 0.64, Y: 0.67, Z: 0.02}
		lm.Points[ThumbTip] = Point3D{X: 0.70, Y: 0.62, Z: 0.02}
	} else {
		lm.Points[ThumbIP] = Point3D{X: 0.57, Y: 0.72, Z: 0}
		lm.Points[ThumbTip] = Point3D{X: 0.56, Y: 0.73, Z: 0}
	}

	lm.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.66, Z: 0}
	if index {
		lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0}
		lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0}
		lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0}
	} else {
		lm.Points[IndexPIP] = Point3D{X: 0.55, Y: 0.68, Z: -0.02}
		lm.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.72, Z: -0.02}
		lm.Points[IndexTip] = Point3D{X: 0.50, Y: 0.76, Z: -0.01}
	}

	lm.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.64, Z: 0}
	if middle {
		lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0}
		lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0}
		lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.30, Z: 0}
	} else {
		lm.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.66, Z: -0.02}
		lm.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.70, Z: -0.02}
		lm.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.74, Z: -0.01}
	}

	lm.Points[RingMCP] = Point3D{X: 0.45, Y: 0.66, Z: 0}
	if ring {
		lm.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0}
		lm.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0}
		lm.Points[RingTip] = Point3D{X: 0.42, Y: 0.36, Z: 0}
	} else {
		lm.Points[RingPIP] = Point3D{X: 0.45, Y: 0.68, Z: -0.02}
		lm.Points[RingDIP] = Point3D{X: 0.46, Y: 0.72, Z: -0.02}
		lm.Points[RingTip] = Point3D{X: 0.47, Y: 0.75, Z: -0.01}
	}

	lm.Points[PinkyMCP] = Point3D{X: 0.41, Y: 0.70, Z: 0}
	if pinky {
		lm.Points[PinkyPIP] = Point3D{X: 0.39, Y: 0.61, Z: 0}
		lm.Points[PinkyDIP] = Point3D{X: 0.37, Y: 0.52, Z: 0}
		lm.Points[PinkyTip] = Point3D{X: 0.36, Y: 0.45, Z: 0}
	} else {
		lm.Points[PinkyPIP] = Point3D{X: 0.41, Y: 0.72, Z: -0.02}
		lm.Points[PinkyDIP] = Point3D{X: 0.42, Y: 0.75, Z: -0.02}
		lm.Points[PinkyTip] = Point3D{X: 0.44, Y: 0.77, Z: -0.01}
	}

	return lm
}

// FistLandmarks returns a preset hand with every finger curled.
func FistLandmarks() HandLandmarks {
	return buildHand(false, false, false, false, false)
}

// OpenPalmLandmarks returns a preset hand with every finger extended.
func OpenPalmLandmarks() HandLandmarks {
	return buildHand(true, true, true, true, true)
}

// PointLandmarks returns a preset hand with only the index finger extended.
func PointLandmarks() HandLandmarks {
	return buildHand(false, true, false, false, false)
}

// ThumbsUpLandmarks returns a preset hand with only the thumb extended.
func ThumbsUpLandmarks() HandLandmarks {
	return buildHand(true, false, false, false, false)
}

// PeaceLandmarks returns a preset hand with index and middle fingers
// extended and everything else curled.
func PeaceLandmarks() HandLandmarks {
	return buildHand(false, true, true, false, false)
}

// ThreeFingerLandmarks returns a preset hand with index, middle and ring
// fingers extended. The shape matches no defined gesture.
func ThreeFingerLandmarks() HandLandmarks {
	return buildHand(false, true, true, true, false)
}

// PinchLandmarks returns a preset hand with the thumb and index tips
// touching. The remaining fingers are extended so the pinch test, not the
// finger pattern, decides the classification.
func PinchLandmarks() HandLandmarks {
	lm := buildHand(true, true, true, true, true)

	// Bend thumb and index toward each other until the tips nearly meet.
	lm.Points[ThumbIP] = Point3D{X: 0.60, Y: 0.60, Z: 0.01}
	lm.Points[ThumbTip] = Point3D{X: 0.57, Y: 0.53, Z: 0.01}
	lm.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.60, Z: 0}
	lm.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.56, Z: 0}
	lm.Points[IndexTip] = Point3D{X: 0.58, Y: 0.52, Z: 0}

	return lm
}
