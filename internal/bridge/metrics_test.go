package bridge

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	// Every method must be callable on a nil receiver so metrics stay
	// optional for callers.
	m.RecordReceived(3)
	m.PeerConnected()
	m.PeerDisconnected()
	m.PoseEmitted()
	m.SubmitError()
}

func TestMetrics_Counts(t *testing.T) {
	m := NewMetrics()

	m.RecordReceived(0)
	m.RecordReceived(2)

	if got := counterValue(t, m.recordsTotal); got != 2 {
		t.Errorf("records total = %v, want 2", got)
	}
	if got := counterValue(t, m.skippedTokensTotal); got != 2 {
		t.Errorf("skipped tokens total = %v, want 2", got)
	}
}

func TestMetrics_RegistryGathers(t *testing.T) {
	m := NewMetrics()
	m.PeerConnected()

	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	if len(families) == 0 {
		t.Error("Gather() returned no metric families")
	}
}
