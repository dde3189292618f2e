package bridge

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus counters and gauges for the driver bridge.
// All reporting methods are safe to call on a nil receiver so wiring
// metrics stays optional.
type Metrics struct {
	registry           *prometheus.Registry
	recordsTotal       prometheus.Counter
	skippedTokensTotal prometheus.Counter
	connectsTotal      prometheus.Counter
	disconnectsTotal   prometheus.Counter
	peerConnected      prometheus.Gauge
	posesEmittedTotal  prometheus.Counter
	submitErrorsTotal  prometheus.Counter
}

// NewMetrics creates and registers the bridge metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	recordsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_records_total",
		Help: "Total number of wire records received",
	})
	skippedTokensTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_skipped_tokens_total",
		Help: "Total number of malformed wire tokens discarded",
	})
	connectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_peer_connects_total",
		Help: "Total number of tracker connections accepted",
	})
	disconnectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_peer_disconnects_total",
		Help: "Total number of tracker disconnects",
	})
	peerConnected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "handbridge_peer_connected",
		Help: "Whether a tracker is currently connected (0 or 1)",
	})
	posesEmittedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_poses_emitted_total",
		Help: "Total number of device poses submitted to the host",
	})
	submitErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "handbridge_submit_errors_total",
		Help: "Total number of failed host submissions",
	})

	registry.MustRegister(
		recordsTotal,
		skippedTokensTotal,
		connectsTotal,
		disconnectsTotal,
		peerConnected,
		posesEmittedTotal,
		submitErrorsTotal,
	)

	return &Metrics{
		registry:           registry,
		recordsTotal:       recordsTotal,
		skippedTokensTotal: skippedTokensTotal,
		connectsTotal:      connectsTotal,
		disconnectsTotal:   disconnectsTotal,
		peerConnected:      peerConnected,
		posesEmittedTotal:  posesEmittedTotal,
		submitErrorsTotal:  submitErrorsTotal,
	}
}

// Registry returns the underlying Prometheus registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordReceived counts one received record and its discarded tokens.
func (m *Metrics) RecordReceived(skippedTokens int) {
	if m == nil {
		return
	}
	m.recordsTotal.Inc()
	if skippedTokens > 0 {
		m.skippedTokensTotal.Add(float64(skippedTokens))
	}
}

// PeerConnected counts an accepted tracker connection.
func (m *Metrics) PeerConnected() {
	if m == nil {
		return
	}
	m.connectsTotal.Inc()
	m.peerConnected.Set(1)
}

// PeerDisconnected counts a tracker disconnect.
func (m *Metrics) PeerDisconnected() {
	if m == nil {
		return
	}
	m.disconnectsTotal.Inc()
	m.peerConnected.Set(0)
}

// PoseEmitted counts one pose submitted to the host.
func (m *Metrics) PoseEmitted() {
	if m == nil {
		return
	}
	m.posesEmittedTotal.Inc()
}

// SubmitError counts one failed host submission.
func (m *Metrics) SubmitError() {
	if m == nil {
		return
	}
	m.submitErrorsTotal.Inc()
}
