package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/bridge"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/config"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/server"
)

func main() {
	fmt.Println("HandBridge - Tracker to Driver Bridge")

	_ = config.Load()

	listenAddr := net.JoinHostPort(
		config.GetEnv(config.EnvBridgeHost, "127.0.0.1"),
		config.GetEnv(config.EnvBridgePort, "65432"),
	)

	states := bridge.NewStateTable()
	metrics := bridge.NewMetrics()

	listener := bridge.NewListener(listenAddr, states, metrics)
	if err := listener.Start(); err != nil {
		log.Fatalf("Failed to listen on %s: %v", listenAddr, err)
	}
	log.Printf("Listening for tracker on %s", listenAddr)

	composer := bridge.NewComposer(states, newLogHost(), bridge.DefaultEmitPeriod, metrics)
	composer.Start()

	debugAddr := config.GetEnv(config.EnvDebugAddr, "127.0.0.1:8081")
	srv := server.New(server.Config{
		States:   states,
		Registry: metrics.Registry(),
	})
	go func() {
		log.Printf("Debug server on %s", debugAddr)
		if err := srv.ListenAndServe(debugAddr); err != nil {
			log.Printf("Debug server stopped: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down")
	composer.Stop()
	listener.Stop()
}

// logHost is a stand-in pose consumer used when no VR runtime binding is
// linked in. It accepts every submission and logs a pose summary once a
// second per hand.
type logHost struct {
	lastLog map[hand.Side]*atomic.Int64
}

func newLogHost() *logHost {
	return &logHost{
		lastLog: map[hand.Side]*atomic.Int64{
			hand.SideLeft:  {},
			hand.SideRight: {},
		},
	}
}

// ReferencePose anchors hand poses at the origin with identity rotation.
func (h *logHost) ReferencePose() (hand.Vec3, hand.Quaternion) {
	return hand.Vec3{}, hand.IdentityQuaternion()
}

func (h *logHost) SubmitPose(side hand.Side, pos hand.Vec3, rot hand.Quaternion, valid, connected bool) error {
	last := h.lastLog[side]
	if last == nil {
		return fmt.Errorf("unknown hand side %q", side)
	}

	now := time.Now().UnixNano()
	if prev := last.Load(); now-prev >= int64(time.Second) && last.CompareAndSwap(prev, now) {
		log.Printf("%s pose (%.3f, %.3f, %.3f) rot (%.3f, %.3f, %.3f, %.3f)",
			side, pos.X, pos.Y, pos.Z, rot.W, rot.X, rot.Y, rot.Z)
	}
	return nil
}

func (h *logHost) SubmitInput(side hand.Side, component string, value float64) error {
	if h.lastLog[side] == nil {
		return fmt.Errorf("unknown hand side %q", side)
	}
	return nil
}
