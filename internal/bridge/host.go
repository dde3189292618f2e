package bridge

import "github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"

// Input component paths submitted to the host for each hand.
const (
	ComponentTrigger = "/input/trigger/value"
	ComponentGrip    = "/input/grip/value"
)

// Host is the capability set the surrounding device-driver runtime
// provides to the pose composer. Production code binds it to the real VR
// host; tests bind it to a recording fake.
type Host interface {
	// ReferencePose returns the anchor pose (typically the headset) that
	// hand offsets are composed against.
	ReferencePose() (hand.Vec3, hand.Quaternion)

	// SubmitPose delivers a composed device pose for one hand.
	SubmitPose(side hand.Side, pos hand.Vec3, rot hand.Quaternion, valid, connected bool) error

	// SubmitInput delivers one scalar input component for one hand.
	SubmitInput(side hand.Side, component string, value float64) error
}
