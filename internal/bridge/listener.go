package bridge

import (
	"bufio"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"github.com/xxDMONxx/HandCameraDriverbyDmonOw/internal/protocol"
)

// DefaultPort is the well-known loopback port the tracker connects to.
const DefaultPort = 65432

// Listener accepts the tracker's loopback connection and feeds decoded
// records into the state table. It serves one peer at a time: while a
// connection is live, further trackers wait in the accept backlog. On peer
// loss it resets both hands to neutral and returns to accepting.
type Listener struct {
	addr    string
	states  *StateTable
	metrics *Metrics

	mu     sync.Mutex
	ln     net.Listener
	conn   net.Conn
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewListener creates a listener bound to addr (for example
// "127.0.0.1:65432") writing into the given state table. metrics may be
// nil.
func NewListener(addr string, states *StateTable, metrics *Metrics) *Listener {
	if addr == "" {
		addr = fmt.Sprintf("127.0.0.1:%d", DefaultPort)
	}
	return &Listener{
		addr:    addr,
		states:  states,
		metrics: metrics,
	}
}

// Start binds the listening socket and launches the accept loop.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", l.addr, err)
	}

	l.ln = ln
	l.stopCh = make(chan struct{})
	l.wg.Add(1)
	go l.acceptLoop()

	log.Printf("Listening for hand tracker on %s", ln.Addr())
	return nil
}

// Addr returns the bound address, or nil before Start.
func (l *Listener) Addr() net.Addr {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ln == nil {
		return nil
	}
	return l.ln.Addr()
}

// Stop shuts the listener down. Closing the listening socket and any live
// peer connection unblocks pending Accept and Read calls, so no timeout
// polling is needed. Stop waits for the accept loop to exit.
func (l *Listener) Stop() {
	l.mu.Lock()
	if l.ln == nil {
		l.mu.Unlock()
		return
	}
	close(l.stopCh)
	l.ln.Close()
	l.ln = nil
	if l.conn != nil {
		l.conn.Close()
	}
	l.mu.Unlock()

	l.wg.Wait()
	log.Println("Hand tracker listener stopped")
}

func (l *Listener) acceptLoop() {
	defer l.wg.Done()

	for {
		l.mu.Lock()
		ln := l.ln
		l.mu.Unlock()
		if ln == nil {
			return
		}

		conn, err := ln.Accept()
		if err != nil {
			if !l.stopped() {
				log.Printf("Accept error: %v", err)
			}
			return
		}

		l.mu.Lock()
		l.conn = conn
		l.mu.Unlock()

		l.serve(conn)

		l.mu.Lock()
		l.conn = nil
		l.mu.Unlock()
	}
}

// serve reads newline-delimited records from one peer until it
// disconnects, then resets both hands to the neutral pose. Stale pose data
// is worse than no pose data.
func (l *Listener) serve(conn net.Conn) {
	defer conn.Close()

	log.Printf("Hand tracker connected from %s", conn.RemoteAddr())
	l.metrics.PeerConnected()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			// A trailing fragment on EOF is still a complete record as
			// far as the peer was concerned.
			l.handleLine(line)
		}
		if err != nil {
			break
		}
	}

	l.states.ResetAll()
	l.metrics.PeerDisconnected()

	if l.stopped() {
		return
	}
	log.Println("Hand tracker disconnected, hands reset to neutral")
}

func (l *Listener) handleLine(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	rec := protocol.Decode(line)
	l.metrics.RecordReceived(rec.Skipped)

	if !rec.HasSide {
		// Without a hand token there is no target cell.
		return
	}

	if cell := l.states.Cell(rec.Side); cell != nil {
		cell.ApplyRecord(rec)
	}
}

func (l *Listener) stopped() bool {
	l.mu.Lock()
	ch := l.stopCh
	l.mu.Unlock()
	if ch == nil {
		return true
	}
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
