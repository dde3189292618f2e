package bridge

import (
	"net"
	"testing"
	"time"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/hand"
)

// startTestListener binds to an ephemeral loopback port so tests never
// collide with a real bridge.
func startTestListener(t *testing.T) (*Listener, *StateTable) {
	t.Helper()

	states := NewStateTable()
	l := NewListener("127.0.0.1:0", states, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(l.Stop)
	return l, states
}

func dialListener(t *testing.T, l *Listener) net.Conn {
	t.Helper()
	conn, err := net.Dial("tcp", l.Addr().String())
	if err != nil {
		t.Fatalf("dial listener: %v", err)
	}
	return conn
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestListener_AppliesRecordToState(t *testing.T) {
	l, states := startTestListener(t)

	conn := dialListener(t, l)
	defer conn.Close()

	line := "HAND:LEFT,X:0.1000,Y:0.2000,Z:-0.3000," +
		"QW:1.0000,QX:0.0000,QY:0.0000,QZ:0.0000," +
		"TRIGGER:0.8000,GRIP:0.0000,GESTURE:POINT\n"
	if _, err := conn.Write([]byte(line)); err != nil {
		t.Fatalf("write: %v", err)
	}

	cell := states.Cell(hand.SideLeft)
	waitFor(t, "record applied", func() bool {
		return cell.Gesture() == hand.GesturePoint
	})

	got := cell.Snapshot()
	if got.Position != (hand.Vec3{X: 0.1, Y: 0.2, Z: -0.3}) {
		t.Errorf("Position = %+v, want (0.1, 0.2, -0.3)", got.Position)
	}
	if got.Trigger != 0.8 {
		t.Errorf("Trigger = %v, want 0.8", got.Trigger)
	}
}

func TestListener_TwoRecordsInOneWrite(t *testing.T) {
	l, states := startTestListener(t)

	conn := dialListener(t, l)
	defer conn.Close()

	// Both lines arrive in a single segment; framing is the newline, not
	// the read boundary.
	payload := "HAND:LEFT,TRIGGER:0.2000,GESTURE:FIST\n" +
		"HAND:LEFT,TRIGGER:0.9000,GESTURE:PINCH\n"
	if _, err := conn.Write([]byte(payload)); err != nil {
		t.Fatalf("write: %v", err)
	}

	cell := states.Cell(hand.SideLeft)
	waitFor(t, "second record applied", func() bool {
		return cell.Gesture() == hand.GesturePinch
	})

	trigger, _ := cell.Inputs()
	if trigger != 0.9 {
		t.Errorf("Trigger = %v, want 0.9 (records applied in order)", trigger)
	}
}

func TestListener_RecordSplitAcrossWrites(t *testing.T) {
	l, states := startTestListener(t)

	conn := dialListener(t, l)
	defer conn.Close()

	if _, err := conn.Write([]byte("HAND:RIGHT,TRIG")); err != nil {
		t.Fatalf("write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if _, err := conn.Write([]byte("GER:0.7000\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	cell := states.Cell(hand.SideRight)
	waitFor(t, "split record applied", func() bool {
		trigger, _ := cell.Inputs()
		return trigger == 0.7
	})
}

func TestListener_DisconnectResetsToNeutral(t *testing.T) {
	l, states := startTestListener(t)

	conn := dialListener(t, l)
	if _, err := conn.Write([]byte("HAND:LEFT,TRIGGER:1.0000,GESTURE:FIST\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	cell := states.Cell(hand.SideLeft)
	waitFor(t, "record applied", func() bool {
		return cell.Gesture() == hand.GestureFist
	})

	conn.Close()

	waitFor(t, "neutral reset", func() bool {
		return cell.Snapshot() == hand.Neutral(hand.SideLeft)
	})
}

func TestListener_ReconnectAfterPeerLoss(t *testing.T) {
	l, states := startTestListener(t)

	first := dialListener(t, l)
	if _, err := first.Write([]byte("HAND:LEFT,GESTURE:FIST\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	cell := states.Cell(hand.SideLeft)
	waitFor(t, "first peer record", func() bool {
		return cell.Gesture() == hand.GestureFist
	})
	first.Close()
	waitFor(t, "reset after first peer", func() bool {
		return cell.Gesture() == hand.GestureOpen
	})

	second := dialListener(t, l)
	defer second.Close()
	if _, err := second.Write([]byte("HAND:LEFT,GESTURE:PEACE\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, "second peer record", func() bool {
		return cell.Gesture() == hand.GesturePeace
	})
}

func TestListener_IgnoresRecordWithoutSide(t *testing.T) {
	l, states := startTestListener(t)

	conn := dialListener(t, l)
	defer conn.Close()

	if _, err := conn.Write([]byte("TRIGGER:0.9000\nHAND:LEFT,GESTURE:FIST\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	cell := states.Cell(hand.SideLeft)
	waitFor(t, "addressed record applied", func() bool {
		return cell.Gesture() == hand.GestureFist
	})

	trigger, _ := cell.Inputs()
	if trigger != 0 {
		t.Errorf("Trigger = %v, want 0 (side-less record ignored)", trigger)
	}
}

func TestListener_StopUnblocks(t *testing.T) {
	states := NewStateTable()
	l := NewListener("127.0.0.1:0", states, nil)
	if err := l.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	conn := dialListener(t, l)
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		l.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop() did not return with a live peer connection")
	}
}

func TestListener_StartTwiceIsIdempotent(t *testing.T) {
	l, _ := startTestListener(t)
	if err := l.Start(); err != nil {
		t.Fatalf("second Start() error = %v", err)
	}
}
