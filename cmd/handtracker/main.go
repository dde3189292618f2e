package main

import (
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/capture"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/config"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/detector"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/gesture"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/server"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/store"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/tracker"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/tray"
)

const motionThreshold = 0.5 // percent of changed pixels

func main() {
	fmt.Println("HandTracker - Camera Hand Tracking")

	_ = config.Load()

	st, err := openStore()
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	classifier := gesture.NewClassifier()
	calibration := tracker.DefaultCalibration()
	loadActiveProfile(st, classifier, &calibration)

	cameraID := config.GetEnvInt(config.EnvCameraID, 0)
	camera := capture.NewCamera(cameraID, true)
	motion := capture.NewMotionDetector(motionThreshold)
	det := openDetector()

	bridgeAddr := net.JoinHostPort(
		config.GetEnv(config.EnvBridgeHost, "127.0.0.1"),
		config.GetEnv(config.EnvBridgePort, "65432"),
	)
	client := tracker.NewClient(bridgeAddr)
	if err := client.Connect(); err != nil {
		log.Printf("Bridge not reachable at %s, will retry: %v", bridgeAddr, err)
	}

	pipeline := tracker.New(tracker.Config{
		Camera:      camera,
		Motion:      motion,
		Detector:    det,
		Classifier:  classifier,
		Client:      client,
		Calibration: calibration,
	})

	t := tray.New()
	pipeline.OnHand = func(state hand.State) {
		t.SetLastGesture(string(state.Gesture))
	}
	t.OnToggle(func(enabled bool) {
		pipeline.SetEnabled(enabled)
		if enabled {
			log.Println("Tracking enabled")
		} else {
			log.Println("Tracking paused")
		}
	})
	t.OnQuit(func() {
		pipeline.Stop()
		client.Close()
	})

	if err := pipeline.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	go pollBridgeStatus(t, client)

	debugAddr := config.GetEnv(config.EnvDebugAddr, "127.0.0.1:8080")
	srv := server.New(server.Config{Store: st})
	go func() {
		log.Printf("Debug server on %s", debugAddr)
		if err := srv.ListenAndServe(debugAddr); err != nil {
			log.Printf("Debug server stopped: %v", err)
		}
	}()

	// Blocks until quit is chosen from the tray menu.
	t.Run()
}

// openStore opens the calibration database under ~/.handtracker.
func openStore() (*store.Store, error) {
	dbPath := config.GetEnv(config.EnvDBPath, "")
	if dbPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbDir := filepath.Join(homeDir, ".handtracker")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, err
		}
		dbPath = filepath.Join(dbDir, "handtracker.db")
	}
	return store.New(dbPath)
}

// loadActiveProfile applies the active calibration profile to the
// classifier thresholds and position mapping, if one exists.
func loadActiveProfile(st *store.Store, c *gesture.Classifier, cal *tracker.Calibration) {
	profile, err := st.Profiles().GetActive()
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("Failed to load active profile: %v", err)
		}
		return
	}

	c.PinchThreshold = profile.PinchThreshold
	c.ExtendedThreshold = profile.ExtendedThreshold
	cal.Offset = hand.Vec3{X: profile.OffsetX, Y: profile.OffsetY, Z: profile.OffsetZ}
	cal.Scale = profile.Scale
	log.Printf("Loaded calibration profile %q", profile.Name)
}

// openDetector prefers the MediaPipe subprocess detector and falls back
// to the mock when the landmark service is not installed.
func openDetector() detector.Detector {
	det, err := detector.NewMediaPipeDetector(detector.DefaultConfig())
	if err != nil {
		log.Printf("MediaPipe detector unavailable (%v), using mock detector", err)
		return detector.NewMockDetector()
	}
	return det
}

// pollBridgeStatus keeps the tray's bridge connection item current.
func pollBridgeStatus(t *tray.Tray, client *tracker.Client) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		t.SetBridgeConnected(client.Connected())
	}
}
