package tracker

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/capture"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/gesture"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/protocol"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during active tracking.
	ActiveFPS = 60
	// IdleTimeout is how long after the last motion the pipeline drops
	// back to idle.
	IdleTimeout = 2 * time.Second
)

// Config holds the pipeline's collaborators and settings.
type Config struct {
	Camera      capture.Camera
	Motion      *capture.MotionDetector
	Detector    detector.Detector
	Classifier  *gesture.Classifier
	Client      *Client
	Calibration Calibration
}

// Pipeline is the per-frame flow from camera to wire: detect landmarks,
// classify the gesture, estimate orientation, map the position, encode,
// send. It runs on its own goroutine and switches between idle and active
// frame rates based on motion.
type Pipeline struct {
	config  Config
	enabled bool
	mu      sync.RWMutex
	stopCh  chan struct{}
	wg      sync.WaitGroup

	// OnHand, when set, is called after each processed hand. The tray
	// uses it to show the last gesture.
	OnHand func(state hand.State)
}

// New creates a pipeline with the given configuration. A nil classifier
// gets the defaults.
func New(config Config) *Pipeline {
	if config.Classifier == nil {
		config.Classifier = gesture.NewClassifier()
	}
	if config.Calibration.Scale == 0 {
		config.Calibration = DefaultCalibration()
	}
	return &Pipeline{
		config:  config,
		enabled: true,
	}
}

// SetEnabled enables or disables hand processing. The camera keeps
// running; frames are simply skipped while disabled.
func (p *Pipeline) SetEnabled(enabled bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = enabled
}

// IsEnabled returns whether hand processing is currently enabled.
func (p *Pipeline) IsEnabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.enabled
}

// SetCalibration replaces the active calibration.
func (p *Pipeline) SetCalibration(cal Calibration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cal.Scale == 0 {
		cal.Scale = 1.0
	}
	p.config.Calibration = cal
}

func (p *Pipeline) calibration() Calibration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.Calibration
}

// Start opens the camera and begins the tracking loop.
func (p *Pipeline) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopCh != nil {
		return nil
	}

	if err := p.config.Camera.Open(); err != nil {
		return err
	}
	p.config.Camera.SetFPS(IdleFPS)

	p.stopCh = make(chan struct{})
	p.wg.Add(1)
	go p.run(p.stopCh)

	log.Println("Tracking pipeline started")
	return nil
}

// Stop halts the tracking loop and releases the camera, motion detector
// and hand detector.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.stopCh == nil {
		p.mu.Unlock()
		return
	}
	close(p.stopCh)
	p.stopCh = nil
	p.mu.Unlock()

	p.wg.Wait()

	if err := p.config.Camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	if p.config.Motion != nil {
		p.config.Motion.Close()
	}
	if p.config.Detector != nil {
		if err := p.config.Detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Tracking pipeline stopped")
}

// run is the main tracking loop. It idles at IdleFPS until the motion
// detector fires, tracks at ActiveFPS while the scene moves, and falls
// back to idle after IdleTimeout without motion.
func (p *Pipeline) run(stopCh chan struct{}) {
	defer p.wg.Done()

	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if !p.IsEnabled() {
				continue
			}

			frame, err := p.config.Camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			motionDetected := true
			if p.config.Motion != nil {
				motionDetected, _ = p.config.Motion.Detect(frame)
			}

			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					p.config.Camera.SetFPS(ActiveFPS)
					ticker.Reset(time.Second / time.Duration(ActiveFPS))
					log.Println("Switched to active tracking")
				}
			} else if activeMode && time.Since(lastMotionTime) > IdleTimeout {
				activeMode = false
				p.config.Camera.SetFPS(IdleFPS)
				ticker.Reset(time.Second / time.Duration(IdleFPS))
				log.Println("Switched to idle")
			}

			if !activeMode || p.config.Detector == nil {
				frame.Close()
				continue
			}

			hands, err := p.config.Detector.Detect(frame)
			frame.Close()
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
				continue
			}

			for i := range hands {
				state := p.ProcessHand(&hands[i])
				p.sendState(state)

				if p.OnHand != nil {
					p.OnHand(state)
				}
			}
		}
	}
}

// ProcessHand turns one detected landmark set into a complete hand state:
// gesture, trigger/grip signals, orientation and mapped position. A
// landmark set that fails validation degrades to the NONE gesture with an
// identity rotation instead of failing the pipeline.
func (p *Pipeline) ProcessHand(lm *detector.HandLandmarks) hand.State {
	side := lm.Side()
	points := lm.Points[:]

	g, err := p.config.Classifier.Classify(points)
	if err != nil {
		if !errors.Is(err, detector.ErrInvalidLandmarks) {
			log.Printf("Classify %s hand: %v", side, err)
		}
		return hand.State{
			Side:     side,
			Rotation: hand.IdentityQuaternion(),
			Gesture:  hand.GestureNone,
		}
	}

	sig := gesture.SignalsFor(g)

	return hand.State{
		Side:     side,
		Position: MapPosition(lm, p.calibration()),
		Rotation: gesture.EstimateOrientation(points),
		Gesture:  g,
		Trigger:  sig.Trigger,
		Grip:     sig.Grip,
	}
}

// sendState encodes and transmits one state record. Send failures while
// the bridge is away are expected and quietly dropped.
func (p *Pipeline) sendState(state hand.State) {
	if p.config.Client == nil {
		return
	}
	if err := p.config.Client.Send(protocol.Encode(state)); err != nil && !errors.Is(err, ErrNotConnected) {
		log.Printf("Send hand state: %v", err)
	}
}
