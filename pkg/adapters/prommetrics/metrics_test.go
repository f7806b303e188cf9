package prommetrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/user/slideshow/pkg/ports"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ComposeStarted()
	m.Progress(50)
	m.ComposeFinished(ports.OutcomeDone, 2*time.Second)
	m.ArtifactProduced(1024)

	m.ComposeStarted()
	m.ComposeFinished(ports.OutcomeFailed, time.Second)
	m.ComposeFinished(ports.OutcomeRejected, 0)

	if got := testutil.ToFloat64(m.started); got != 2 {
		t.Errorf("started: expected 2, got %v", got)
	}
	if got := testutil.ToFloat64(m.finished.WithLabelValues(ports.OutcomeDone)); got != 1 {
		t.Errorf("done: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.finished.WithLabelValues(ports.OutcomeRejected)); got != 1 {
		t.Errorf("rejected: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(m.artifacts); got != 1 {
		t.Errorf("artifacts: expected 1, got %v", got)
	}
	// A new run resets the gauge
	if got := testutil.ToFloat64(m.progress); got != 0 {
		t.Errorf("progress: expected 0, got %v", got)
	}
	// Rejected runs are not timed
	if got := sampleCount(t, reg, "slideshow_compose_duration_seconds"); got != 2 {
		t.Errorf("expected 2 timed runs, got %d", got)
	}
}

func TestNew_SeparateRegistries(t *testing.T) {
	// Registering twice on one registry would panic
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}

func sampleCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}
