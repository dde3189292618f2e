package bridge

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/protocol"
)

// recordingHost captures every submission for inspection.
type recordingHost struct {
	mu     sync.Mutex
	refPos hand.Vec3
	refRot hand.Quaternion

	poses  map[hand.Side][]submittedPose
	inputs map[hand.Side]map[string]float64
	err    error
}

type submittedPose struct {
	pos       hand.Vec3
	rot       hand.Quaternion
	valid     bool
	connected bool
}

func newRecordingHost() *recordingHost {
	return &recordingHost{
		refRot: hand.IdentityQuaternion(),
		poses:  make(map[hand.Side][]submittedPose),
		inputs: make(map[hand.Side]map[string]float64),
	}
}

func (h *recordingHost) ReferencePose() (hand.Vec3, hand.Quaternion) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.refPos, h.refRot
}

func (h *recordingHost) SubmitPose(side hand.Side, pos hand.Vec3, rot hand.Quaternion, valid, connected bool) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	h.poses[side] = append(h.poses[side], submittedPose{pos, rot, valid, connected})
	return nil
}

func (h *recordingHost) SubmitInput(side hand.Side, component string, value float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err != nil {
		return h.err
	}
	if h.inputs[side] == nil {
		h.inputs[side] = make(map[string]float64)
	}
	h.inputs[side][component] = value
	return nil
}

func (h *recordingHost) lastPose(side hand.Side) (submittedPose, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	poses := h.poses[side]
	if len(poses) == 0 {
		return submittedPose{}, false
	}
	return poses[len(poses)-1], true
}

func (h *recordingHost) input(side hand.Side, component string) float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inputs[side][component]
}

func TestComposer_EmitsNeutralBeforeAnyRecord(t *testing.T) {
	host := newRecordingHost()
	c := NewComposer(NewStateTable(), host, 0, nil)

	c.EmitOnce()

	for _, side := range hand.Sides() {
		pose, ok := host.lastPose(side)
		if !ok {
			t.Fatalf("no pose submitted for %s", side)
		}
		if pose.pos != (hand.Vec3{}) {
			t.Errorf("neutral pose position for %s = %+v, want origin", side, pose.pos)
		}
		if pose.rot != hand.IdentityQuaternion() {
			t.Errorf("neutral pose rotation for %s = %+v, want identity", side, pose.rot)
		}
		if !pose.valid || !pose.connected {
			t.Errorf("pose valid/connected for %s = %v/%v, want true/true",
				side, pose.valid, pose.connected)
		}
		if got := host.input(side, ComponentTrigger); got != 0 {
			t.Errorf("trigger for %s = %v, want 0", side, got)
		}
		if got := host.input(side, ComponentGrip); got != 0 {
			t.Errorf("grip for %s = %v, want 0", side, got)
		}
	}
}

func TestComposer_ComposesWithReferencePose(t *testing.T) {
	host := newRecordingHost()
	// Reference rotated 90 degrees about Z and moved to (1, 0, 0).
	s := math.Sqrt(2) / 2
	host.refPos = hand.Vec3{X: 1}
	host.refRot = hand.Quaternion{W: s, Z: s}

	states := NewStateTable()
	states.Cell(hand.SideLeft).ApplyRecord(protocol.Decode(
		"HAND:LEFT,X:1.0000,Y:0.0000,Z:0.0000," +
			"QW:1.0000,QX:0.0000,QY:0.0000,QZ:0.0000," +
			"TRIGGER:0.8000,GRIP:0.2000"))

	c := NewComposer(states, host, 0, nil)
	c.EmitOnce()

	pose, ok := host.lastPose(hand.SideLeft)
	if !ok {
		t.Fatal("no pose submitted for LEFT")
	}

	// Offset (1, 0, 0) rotates to (0, 1, 0), then translates to (1, 1, 0).
	want := hand.Vec3{X: 1, Y: 1, Z: 0}
	const tol = 1e-9
	if math.Abs(pose.pos.X-want.X) > tol || math.Abs(pose.pos.Y-want.Y) > tol ||
		math.Abs(pose.pos.Z-want.Z) > tol {
		t.Errorf("composed position = %+v, want %+v", pose.pos, want)
	}

	// Identity hand rotation leaves the reference rotation untouched.
	if math.Abs(pose.rot.W-s) > tol || math.Abs(pose.rot.Z-s) > tol {
		t.Errorf("composed rotation = %+v, want reference rotation", pose.rot)
	}

	if got := host.input(hand.SideLeft, ComponentTrigger); got != 0.8 {
		t.Errorf("trigger = %v, want 0.8", got)
	}
	if got := host.input(hand.SideLeft, ComponentGrip); got != 0.2 {
		t.Errorf("grip = %v, want 0.2", got)
	}
}

func TestComposer_HostErrorIsNotFatal(t *testing.T) {
	host := newRecordingHost()
	host.err = errors.New("device detached")

	c := NewComposer(NewStateTable(), host, 0, nil)
	c.EmitOnce()

	// After the host recovers, emission picks right back up.
	host.mu.Lock()
	host.err = nil
	host.mu.Unlock()
	c.EmitOnce()

	if _, ok := host.lastPose(hand.SideLeft); !ok {
		t.Error("no pose submitted after host recovered")
	}
}

func TestComposer_StartStop(t *testing.T) {
	host := newRecordingHost()
	c := NewComposer(NewStateTable(), host, time.Millisecond, nil)

	c.Start()
	defer c.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, ok := host.lastPose(hand.SideRight); ok {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if _, ok := host.lastPose(hand.SideRight); !ok {
		t.Fatal("emission loop never submitted a pose")
	}

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return")
	}
}
