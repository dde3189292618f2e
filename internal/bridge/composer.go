package bridge

import (
	"log"
	"sync"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// DefaultEmitPeriod is the pose emission cadence. Emission runs on its own
// clock, decoupled from record arrival; it never waits for new data.
const DefaultEmitPeriod = 5 * time.Millisecond

// Composer reads the latest shared hand state on a fixed cadence, combines
// it with the host's reference pose, and submits device poses and scalar
// inputs to the host.
type Composer struct {
	states  *StateTable
	host    Host
	period  time.Duration
	metrics *Metrics

	mu     sync.Mutex
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewComposer creates a composer over the given state table and host.
// A period <= 0 selects DefaultEmitPeriod. metrics may be nil.
func NewComposer(states *StateTable, host Host, period time.Duration, metrics *Metrics) *Composer {
	if period <= 0 {
		period = DefaultEmitPeriod
	}
	return &Composer{
		states:  states,
		host:    host,
		period:  period,
		metrics: metrics,
	}
}

// Start launches the emission loop.
func (c *Composer) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopCh != nil {
		return
	}

	c.stopCh = make(chan struct{})
	c.wg.Add(1)
	go c.run(c.stopCh)

	log.Printf("Pose emission started (period %s)", c.period)
}

// Stop halts the emission loop and waits for it to exit.
func (c *Composer) Stop() {
	c.mu.Lock()
	if c.stopCh == nil {
		c.mu.Unlock()
		return
	}
	close(c.stopCh)
	c.stopCh = nil
	c.mu.Unlock()

	c.wg.Wait()
	log.Println("Pose emission stopped")
}

func (c *Composer) run(stopCh chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.period)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			c.EmitOnce()
		}
	}
}

// EmitOnce performs one emission cycle for both hands: compose the stored
// hand offset with the host's reference pose and submit the result plus
// the trigger and grip scalars. Host submission failures are logged and
// dropped; the cadence continues regardless.
func (c *Composer) EmitOnce() {
	refPos, refRot := c.host.ReferencePose()

	for _, side := range hand.Sides() {
		cell := c.states.Cell(side)

		// Rotate the stored offset into the reference frame, then
		// translate by the reference position. Reference rotation is
		// applied first when composing orientations.
		pos := refPos.Add(refRot.Rotate(cell.Position()))
		rot := refRot.Mul(cell.Rotation())

		if err := c.host.SubmitPose(side, pos, rot, true, true); err != nil {
			c.metrics.SubmitError()
			log.Printf("Submit pose for %s: %v", side, err)
		} else {
			c.metrics.PoseEmitted()
		}

		trigger, grip := cell.Inputs()
		if err := c.host.SubmitInput(side, ComponentTrigger, trigger); err != nil {
			c.metrics.SubmitError()
			log.Printf("Submit trigger for %s: %v", side, err)
		}
		if err := c.host.SubmitInput(side, ComponentGrip, grip); err != nil {
			c.metrics.SubmitError()
			log.Printf("Submit grip for %s: %v", side, err)
		}
	}
}
