package gesture

import (
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// EstimateOrientation derives the hand's rotation relative to a
// camera-facing reference frame from three palm landmarks.
//
// The forward axis runs wrist to middle knuckle. The right axis is the
// wrist-to-index-knuckle direction orthogonalized against forward, and the
// up axis is their cross product. The three axes form a rotation matrix
// that is converted to a unit quaternion. Degenerate geometry (coincident
// landmarks, invalid input) yields the identity quaternion.
func EstimateOrientation(points []detector.Point3D) hand.Quaternion {
	if len(points) < detector.NumLandmarks {
		return hand.IdentityQuaternion()
	}

	wristPt := points[detector.Wrist]
	middlePt := points[detector.MiddleMCP]
	indexPt := points[detector.IndexMCP]
	if !wristPt.Finite() || !middlePt.Finite() || !indexPt.Finite() {
		return hand.IdentityQuaternion()
	}

	wrist := vec(wristPt)
	middleMCP := vec(middlePt)
	indexMCP := vec(indexPt)

	forward, ok := middleMCP.Sub(wrist).Normalize()
	if !ok {
		return hand.IdentityQuaternion()
	}

	// Gram-Schmidt: remove the forward component from the index direction.
	toIndex := indexMCP.Sub(wrist)
	right, ok := toIndex.Sub(forward.Scale(toIndex.Dot(forward))).Normalize()
	if !ok {
		return hand.IdentityQuaternion()
	}

	up := forward.Cross(right)

	return hand.QuaternionFromAxes(right, up, forward)
}

func vec(p detector.Point3D) hand.Vec3 {
	return hand.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}
