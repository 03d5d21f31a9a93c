package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCache_Counts(t *testing.T) {
	m := New()
	m.ObserveCache("prices", "hit")
	m.ObserveCache("prices", "hit")
	m.ObserveCache("prices", "miss")

	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("prices", "hit")); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(m.cacheLookups.WithLabelValues("prices", "miss")); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
}

func TestNilMetrics_NoPanic(t *testing.T) {
	var m *Metrics
	m.ObserveCache("x", "hit")
	m.ObservePipeline("compare", "ok")
}
