package tracker

import (
	"math"
	"testing"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

func TestProcessHand_Fist(t *testing.T) {
	p := New(Config{})
	lm := detector.FistLandmarks()

	state := p.ProcessHand(&lm)

	if state.Side != hand.SideRight {
		t.Errorf("Side = %q, want RIGHT", state.Side)
	}
	if state.Gesture != hand.GestureFist {
		t.Errorf("Gesture = %q, want FIST", state.Gesture)
	}
	if state.Trigger != 0 || state.Grip != 1 {
		t.Errorf("Trigger/Grip = %v/%v, want 0/1", state.Trigger, state.Grip)
	}
	if !state.Rotation.IsUnit(1e-9) {
		t.Errorf("Rotation norm = %v, want 1", state.Rotation.Norm())
	}
}

func TestProcessHand_LeftHandedness(t *testing.T) {
	p := New(Config{})
	lm := detector.PointLandmarks()
	lm.Handedness = "Left"

	state := p.ProcessHand(&lm)
	if state.Side != hand.SideLeft {
		t.Errorf("Side = %q, want LEFT", state.Side)
	}
	if state.Gesture != hand.GesturePoint {
		t.Errorf("Gesture = %q, want POINT", state.Gesture)
	}
	if state.Trigger != 0.8 {
		t.Errorf("Trigger = %v, want 0.8", state.Trigger)
	}
}

func TestProcessHand_InvalidLandmarksDegradesToNone(t *testing.T) {
	p := New(Config{})
	lm := detector.OpenPalmLandmarks()
	lm.Points[detector.MiddleTip].X = math.NaN()

	state := p.ProcessHand(&lm)

	if state.Gesture != hand.GestureNone {
		t.Errorf("Gesture = %q, want NONE", state.Gesture)
	}
	if state.Rotation != hand.IdentityQuaternion() {
		t.Errorf("Rotation = %+v, want identity", state.Rotation)
	}
	if state.Position != (hand.Vec3{}) {
		t.Errorf("Position = %+v, want origin", state.Position)
	}
	if state.Trigger != 0 || state.Grip != 0 {
		t.Errorf("Trigger/Grip = %v/%v, want 0/0", state.Trigger, state.Grip)
	}
}

func TestProcessHand_UsesCalibration(t *testing.T) {
	p := New(Config{
		Calibration: Calibration{Offset: hand.Vec3{X: 10}, Scale: 1},
	})
	lm := detector.OpenPalmLandmarks()

	state := p.ProcessHand(&lm)
	if state.Position.X < 9 {
		t.Errorf("Position.X = %v, want offset by 10", state.Position.X)
	}
}

func TestSetCalibration(t *testing.T) {
	p := New(Config{})
	p.SetCalibration(Calibration{Offset: hand.Vec3{Y: 5}, Scale: 1})

	lm := detector.OpenPalmLandmarks()
	state := p.ProcessHand(&lm)
	if state.Position.Y < 4 {
		t.Errorf("Position.Y = %v, want offset by 5", state.Position.Y)
	}
}

func TestPipeline_EnableToggle(t *testing.T) {
	p := New(Config{})
	if !p.IsEnabled() {
		t.Error("IsEnabled() = false on a new pipeline, want true")
	}
	p.SetEnabled(false)
	if p.IsEnabled() {
		t.Error("IsEnabled() = true after SetEnabled(false)")
	}
	p.SetEnabled(true)
	if !p.IsEnabled() {
		t.Error("IsEnabled() = false after SetEnabled(true)")
	}
}
