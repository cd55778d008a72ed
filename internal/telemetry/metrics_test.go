package telemetry

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("NewCollector: %v", err)
	}

	c.RecordRun("rk4", 365, 5e-14, 2*time.Millisecond, nil)
	c.RecordRun("rk4", 10, 0, time.Millisecond, errors.New("unstable"))

	if got := testutil.ToFloat64(c.Steps.WithLabelValues("rk4")); got != 375 {
		t.Errorf("heliosim_steps_total = %v, want 375", got)
	}
	if got := testutil.ToFloat64(c.Runs.WithLabelValues("rk4", "ok")); got != 1 {
		t.Errorf("ok runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.Runs.WithLabelValues("rk4", "error")); got != 1 {
		t.Errorf("error runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.MaxEnergyError.WithLabelValues("rk4")); got != 5e-14 {
		t.Errorf("max energy error = %v, want 5e-14", got)
	}
	if n := histogramCount(t, reg, "heliosim_run_duration_seconds"); n != 2 {
		t.Errorf("duration sample count = %d, want 2", n)
	}
}

func TestRecordEvaluations(t *testing.T) {
	c, err := NewCollector(nil)
	if err != nil {
		t.Fatal(err)
	}
	c.RecordEvaluations(144)
	c.RecordEvaluations(144)

	if got := testutil.ToFloat64(c.SolarEvaluations); got != 288 {
		t.Errorf("solar evaluations = %v, want 288", got)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector
	c.RecordRun("euler", 1, 0, 0, nil)
	c.RecordEvaluations(1)
}

func TestNewCollectorReusesRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewCollector(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewCollector(reg)
	if err != nil {
		t.Fatalf("second NewCollector: %v", err)
	}
	first.RecordEvaluations(3)
	if got := testutil.ToFloat64(second.SolarEvaluations); got != 3 {
		t.Errorf("shared counter = %v, want 3", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	c, err := NewCollector(prometheus.NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	c.RecordRun("semi-implicit-euler", 365, 1e-5, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "heliosim.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `heliosim_steps_total{scheme="semi-implicit-euler"} 365`) {
		t.Errorf("textfile missing step counter:\n%s", data)
	}
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var total uint64
	for _, mf := range families {
		if mf.GetName() != name || mf.GetType() != dto.MetricType_HISTOGRAM {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetHistogram().GetSampleCount()
		}
	}
	return total
}
