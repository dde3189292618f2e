// Package tracker drives the producer side of the bridge: camera frames in,
// encoded hand state records out over the loopback socket.
package tracker

import (
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

// Client connection defaults.
const (
	DefaultDialTimeout       = 5 * time.Second
	DefaultReconnectInterval = 5 * time.Second
)

// ErrNotConnected is returned by Send while the driver bridge is
// unreachable. Records produced in that window are dropped; only the
// latest state matters, so there is nothing worth queueing.
var ErrNotConnected = errors.New("driver bridge not connected")

// Client is the tracker's connection to the driver bridge. It dials
// lazily, reconnects after a drop (rate-limited to one attempt per
// reconnect interval), and sends one newline-terminated record per call.
type Client struct {
	addr              string
	dialTimeout       time.Duration
	reconnectInterval time.Duration

	mu          sync.Mutex
	conn        net.Conn
	lastAttempt time.Time
}

// NewClient creates a client for the given bridge address, such as
// "127.0.0.1:65432".
func NewClient(addr string) *Client {
	return &Client{
		addr:              addr,
		dialTimeout:       DefaultDialTimeout,
		reconnectInterval: DefaultReconnectInterval,
	}
}

// Connect dials the bridge, replacing any existing connection.
func (c *Client) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connectLocked()
}

func (c *Client) connectLocked() error {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}

	c.lastAttempt = time.Now()

	conn, err := net.DialTimeout("tcp", c.addr, c.dialTimeout)
	if err != nil {
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}

	c.conn = conn
	log.Printf("Connected to driver bridge at %s", c.addr)
	return nil
}

// Send transmits one record line, appending the newline delimiter if
// missing. While disconnected it retries the connection at most once per
// reconnect interval and returns ErrNotConnected in between.
func (c *Client) Send(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if time.Since(c.lastAttempt) < c.reconnectInterval {
			return ErrNotConnected
		}
		log.Println("Attempting to reconnect to driver bridge...")
		if err := c.connectLocked(); err != nil {
			return err
		}
	}

	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	if _, err := c.conn.Write([]byte(line)); err != nil {
		c.conn.Close()
		c.conn = nil
		return fmt.Errorf("send record: %w", err)
	}

	return nil
}

// Connected reports whether the client currently holds a live connection.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close shuts the connection down.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
