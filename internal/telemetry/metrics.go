package telemetry

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the heliosim Prometheus metrics. It satisfies the
// recorder hooks of the sampler and the solar sweep.
type Collector struct {
	gatherer prometheus.Gatherer

	Steps            *prometheus.CounterVec
	Runs             *prometheus.CounterVec
	RunDurations     *prometheus.HistogramVec
	SolarEvaluations prometheus.Counter
	MaxEnergyError   *prometheus.GaugeVec
}

// NewCollector registers the metrics on reg, or on a fresh registry when
// reg is nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heliosim_steps_total",
		Help: "Integration steps taken, labeled by scheme.",
	}, []string{"scheme"}), "heliosim_steps_total")
	if err != nil {
		return nil, err
	}

	runs, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "heliosim_runs_total",
		Help: "Completed integration runs, labeled by scheme and outcome.",
	}, []string{"scheme", "outcome"}), "heliosim_runs_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "heliosim_run_duration_seconds",
		Help:    "Wall time of an integration run in seconds.",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"scheme"}), "heliosim_run_duration_seconds")
	if err != nil {
		return nil, err
	}

	energy, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "heliosim_max_energy_error",
		Help: "Largest relative energy error of the latest run, labeled by scheme.",
	}, []string{"scheme"}), "heliosim_max_energy_error")
	if err != nil {
		return nil, err
	}

	evals := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "heliosim_solar_evaluations_total",
		Help: "Solar position evaluations performed by sweeps.",
	})
	if err := reg.Register(evals); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, fmt.Errorf("collector heliosim_solar_evaluations_total already registered with incompatible type")
		}
		evals = existing
	}

	return &Collector{
		gatherer:         gatherer,
		Steps:            steps,
		Runs:             runs,
		RunDurations:     durations,
		SolarEvaluations: evals,
		MaxEnergyError:   energy,
	}, nil
}

// RecordRun accounts one finished integration run.
func (c *Collector) RecordRun(scheme string, steps int, maxEnergyError float64, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Steps.WithLabelValues(scheme).Add(float64(steps))
	c.Runs.WithLabelValues(scheme, outcome).Inc()
	c.RunDurations.WithLabelValues(scheme).Observe(elapsed.Seconds())
	if err == nil {
		c.MaxEnergyError.WithLabelValues(scheme).Set(maxEnergyError)
	}
}

// RecordEvaluations accounts n solar position evaluations.
func (c *Collector) RecordEvaluations(n int) {
	if c == nil {
		return
	}
	c.SolarEvaluations.Add(float64(n))
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.gatherer
}

// WriteTextfile dumps the current metrics in the text exposition format,
// suitable for the node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.gatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
