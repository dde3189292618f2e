// Package bridge receives hand state records over the local wire and turns
// them into device poses for the VR host. It owns the shared per-hand state
// that couples the network receive path to the pose emission path.
package bridge

import (
	"sync/atomic"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/protocol"
)

// scalarInputs is the trigger/grip pair, stored as one unit so a reader
// never sees a torn pair.
type scalarInputs struct {
	trigger float64
	grip    float64
}

// StateCell holds the most recent state for one hand. The receive path is
// the only writer and the pose composer the only reader; each field group
// (position, rotation, scalar pair, gesture) is stored behind its own
// atomic pointer, so a reader always observes a complete value for a
// group even while another group is being replaced. Tearing across groups
// between two source frames is acceptable at the bridge's update rates.
type StateCell struct {
	side hand.Side
	pos  atomic.Pointer[hand.Vec3]
	rot  atomic.Pointer[hand.Quaternion]
	in   atomic.Pointer[scalarInputs]
	gst  atomic.Pointer[hand.Gesture]
}

func newStateCell(side hand.Side) *StateCell {
	c := &StateCell{side: side}
	c.Reset()
	return c
}

// Side returns the hand this cell is bound to.
func (c *StateCell) Side() hand.Side {
	return c.side
}

// SetPosition atomically replaces the position triple.
func (c *StateCell) SetPosition(p hand.Vec3) {
	c.pos.Store(&p)
}

// Position returns the latest position triple.
func (c *StateCell) Position() hand.Vec3 {
	return *c.pos.Load()
}

// SetRotation atomically replaces the rotation quadruple.
func (c *StateCell) SetRotation(q hand.Quaternion) {
	c.rot.Store(&q)
}

// Rotation returns the latest rotation quadruple.
func (c *StateCell) Rotation() hand.Quaternion {
	return *c.rot.Load()
}

// SetInputs atomically replaces the trigger/grip pair.
func (c *StateCell) SetInputs(trigger, grip float64) {
	c.in.Store(&scalarInputs{trigger: trigger, grip: grip})
}

// Inputs returns the latest trigger/grip pair.
func (c *StateCell) Inputs() (trigger, grip float64) {
	in := c.in.Load()
	return in.trigger, in.grip
}

// SetGesture records the latest classified gesture.
func (c *StateCell) SetGesture(g hand.Gesture) {
	c.gst.Store(&g)
}

// Gesture returns the latest classified gesture.
func (c *StateCell) Gesture() hand.Gesture {
	return *c.gst.Load()
}

// Reset returns the cell to the neutral pose: origin position, identity
// rotation, zero trigger and grip.
func (c *StateCell) Reset() {
	n := hand.Neutral(c.side)
	c.SetPosition(n.Position)
	c.SetRotation(n.Rotation)
	c.SetInputs(n.Trigger, n.Grip)
	c.SetGesture(n.Gesture)
}

// ApplyRecord writes the record's present field groups into the cell, one
// group at a time. Trigger and grip are clamped to [0, 1]; a rotation off
// unit magnitude is renormalized before it is stored.
func (c *StateCell) ApplyRecord(rec protocol.Record) {
	if rec.HasPosition {
		c.SetPosition(rec.Position)
	}
	if rec.HasRotation {
		rot := rec.Rotation
		if !rot.IsUnit(1e-3) {
			rot = rot.Normalize()
		}
		c.SetRotation(rot)
	}
	if rec.HasTrigger || rec.HasGrip {
		trigger, grip := c.Inputs()
		if rec.HasTrigger {
			trigger = hand.Clamp01(rec.Trigger)
		}
		if rec.HasGrip {
			grip = hand.Clamp01(rec.Grip)
		}
		c.SetInputs(trigger, grip)
	}
	if rec.HasGesture {
		c.SetGesture(rec.Gesture)
	}
}

// Snapshot assembles the cell's current field groups into a hand state.
func (c *StateCell) Snapshot() hand.State {
	trigger, grip := c.Inputs()
	return hand.State{
		Side:     c.side,
		Position: c.Position(),
		Rotation: c.Rotation(),
		Gesture:  c.Gesture(),
		Trigger:  trigger,
		Grip:     grip,
	}
}

// StateTable owns one state cell per hand side. A single table instance is
// shared by the listener (writer) and the pose composer (reader).
type StateTable struct {
	left  *StateCell
	right *StateCell
}

// NewStateTable creates a table with both hands in the neutral pose.
func NewStateTable() *StateTable {
	return &StateTable{
		left:  newStateCell(hand.SideLeft),
		right: newStateCell(hand.SideRight),
	}
}

// Cell returns the cell for the given side, or nil for an invalid side.
func (t *StateTable) Cell(side hand.Side) *StateCell {
	switch side {
	case hand.SideLeft:
		return t.left
	case hand.SideRight:
		return t.right
	}
	return nil
}

// ResetAll returns both hands to the neutral pose.
func (t *StateTable) ResetAll() {
	t.left.Reset()
	t.right.Reset()
}

// Snapshot returns the current state of both hands.
func (t *StateTable) Snapshot() map[hand.Side]hand.State {
	return map[hand.Side]hand.State{
		hand.SideLeft:  t.left.Snapshot(),
		hand.SideRight: t.right.Snapshot(),
	}
}
