// Package protocol implements the textual wire format carrying hand state
// between the tracker and the driver bridge.
//
// One record per line, comma-separated key:value tokens:
//
//	HAND:LEFT,X:0.1000,Y:0.2000,Z:-0.3000,QW:1.0000,QX:0.0000,QY:0.0000,QZ:0.0000,TRIGGER:0.8000,GRIP:0.0000,GESTURE:POINT
//
// Token order is not significant, unknown keys are ignored, and a
// malformed token invalidates only itself, never the whole record.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// Encode serializes a hand state as a single wire line without the
// trailing newline.
func Encode(s hand.State) string {
	return fmt.Sprintf(
		"HAND:%s,X:%.4f,Y:%.4f,Z:%.4f,QW:%.4f,QX:%.4f,QY:%.4f,QZ:%.4f,TRIGGER:%.4f,GRIP:%.4f,GESTURE:%s",
		s.Side,
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Rotation.W, s.Rotation.X, s.Rotation.Y, s.Rotation.Z,
		s.Trigger, s.Grip,
		s.Gesture,
	)
}

// Record is a decoded wire line. Each field group carries a presence flag:
// absent groups leave the corresponding target fields unmodified when the
// record is applied. Position requires all of X, Y, Z; rotation requires
// all four quaternion terms.
type Record struct {
	Side    hand.Side
	HasSide bool

	Position    hand.Vec3
	HasPosition bool

	Rotation    hand.Quaternion
	HasRotation bool

	Trigger    float64
	HasTrigger bool

	Grip    float64
	HasGrip bool

	Gesture    hand.Gesture
	HasGesture bool

	// Skipped counts tokens discarded as malformed.
	Skipped int
}

// Decode parses one wire line. Malformed tokens (missing separator,
// non-numeric or non-finite value, unknown identifier value) are counted
// in Skipped and dropped; everything that parses is kept.
func Decode(line string) Record {
	var rec Record

	var x, y, z float64
	var hasX, hasY, hasZ bool
	var qw, qx, qy, qz float64
	var hasQW, hasQX, hasQY, hasQZ bool

	for _, token := range strings.Split(strings.TrimSpace(line), ",") {
		if token == "" {
			continue
		}

		key, value, found := strings.Cut(token, ":")
		if !found {
			rec.Skipped++
			continue
		}

		switch key {
		case "HAND":
			side := hand.Side(value)
			if !side.Valid() {
				rec.Skipped++
				continue
			}
			rec.Side = side
			rec.HasSide = true

		case "GESTURE":
			g := hand.Gesture(value)
			if g == "UNKNOWN" {
				// Older trackers emit UNKNOWN for unmatched shapes.
				g = hand.GestureNone
			}
			if !g.Valid() {
				rec.Skipped++
				continue
			}
			rec.Gesture = g
			rec.HasGesture = true

		case "X", "Y", "Z", "QW", "QX", "QY", "QZ", "TRIGGER", "GRIP":
			f, err := strconv.ParseFloat(value, 64)
			if err != nil || !hand.IsFinite(f) {
				rec.Skipped++
				continue
			}
			switch key {
			case "X":
				x, hasX = f, true
			case "Y":
				y, hasY = f, true
			case "Z":
				z, hasZ = f, true
			case "QW":
				qw, hasQW = f, true
			case "QX":
				qx, hasQX = f, true
			case "QY":
				qy, hasQY = f, true
			case "QZ":
				qz, hasQZ = f, true
			case "TRIGGER":
				rec.Trigger, rec.HasTrigger = f, true
			case "GRIP":
				rec.Grip, rec.HasGrip = f, true
			}

		default:
			// Unknown keys are tolerated for forward compatibility.
		}
	}

	if hasX && hasY && hasZ {
		rec.Position = hand.Vec3{X: x, Y: y, Z: z}
		rec.HasPosition = true
	}
	if hasQW && hasQX && hasQY && hasQZ {
		rec.Rotation = hand.Quaternion{W: qw, X: qx, Y: qy, Z: qz}
		rec.HasRotation = true
	}

	return rec
}

// Apply copies the record's present field groups onto the target state.
// Trigger and grip are clamped to [0, 1]; a rotation that drifted off unit
// magnitude is renormalized.
func (r Record) Apply(s *hand.State) {
	if r.HasSide {
		s.Side = r.Side
	}
	if r.HasPosition {
		s.Position = r.Position
	}
	if r.HasRotation {
		rot := r.Rotation
		if !rot.IsUnit(1e-3) {
			rot = rot.Normalize()
		}
		s.Rotation = rot
	}
	if r.HasTrigger {
		s.Trigger = hand.Clamp01(r.Trigger)
	}
	if r.HasGrip {
		s.Grip = hand.Clamp01(r.Grip)
	}
	if r.HasGesture {
		s.Gesture = r.Gesture
	}
}
