// Package experiment turns a configuration into runs, comparisons and
// solar sweeps.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/heliosim/internal/config"
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/ephemeris"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/physics"
	"github.com/san-kum/heliosim/internal/sim"
	"github.com/san-kum/heliosim/internal/telemetry"
)

type Experiment struct {
	cfg      *config.Config
	registry *Registry
	consts   physics.Constants
	term     sim.Termination
	log      logging.Logger
	metrics  *telemetry.Collector
}

type Option func(*Experiment)

func WithRegistry(r *Registry) Option {
	return func(e *Experiment) {
		if r != nil {
			e.registry = r
		}
	}
}

func WithLogger(l logging.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.log = l
		}
	}
}

// WithCollector records runs and solar evaluations.
func WithCollector(c *telemetry.Collector) Option {
	return func(e *Experiment) { e.metrics = c }
}

func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if cfg == nil {
		return nil, dynamo.Configuration("experiment needs a configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	consts, err := cfg.Constants()
	if err != nil {
		return nil, err
	}
	term, err := cfg.Termination(consts)
	if err != nil {
		return nil, err
	}
	e := &Experiment{
		cfg:      cfg,
		registry: NewRegistry(),
		consts:   consts,
		term:     term,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg }

func (e *Experiment) Constants() physics.Constants { return e.consts }

func (e *Experiment) Termination() sim.Termination { return e.term }

func (e *Experiment) Registry() *Registry { return e.registry }

func (e *Experiment) simOptions(withMetrics bool) []sim.Option {
	opts := []sim.Option{
		sim.WithLogger(e.log),
		sim.WithMaxSteps(e.cfg.Run.MaxSteps),
	}
	if e.metrics != nil {
		opts = append(opts, sim.WithRecorder(e.metrics))
	}
	if withMetrics {
		for _, m := range e.registry.DefaultMetrics() {
			opts = append(opts, sim.WithMetric(m))
		}
	}
	return opts
}

// Run integrates the configured scheme.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.RunScheme(ctx, e.cfg.Run.Scheme)
}

func (e *Experiment) RunScheme(ctx context.Context, name string) (*sim.Result, error) {
	scheme, err := e.registry.GetScheme(name)
	if err != nil {
		return nil, err
	}
	return sim.Integrate(ctx, scheme, e.cfg.InitialState(), e.consts, e.term, e.simOptions(true)...)
}

// Compare runs the named schemes concurrently, all of them when names is
// empty. Results follow the order of names.
func (e *Experiment) Compare(ctx context.Context, names []string) ([]*sim.Result, error) {
	if len(names) == 0 {
		names = e.registry.ListSchemes()
		// reference scheme last
		names = schemeOrder(names)
	}
	schemes := make([]integrators.Scheme, 0, len(names))
	for _, n := range names {
		s, err := e.registry.GetScheme(n)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, s)
	}
	return sim.Compare(ctx, schemes, e.cfg.InitialState(), e.consts, e.term, e.simOptions(false)...)
}

func schemeOrder(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, s := range integrators.Schemes() {
		for _, n := range names {
			if n == s.String() {
				out = append(out, n)
				seen[n] = true
			}
		}
	}
	for _, n := range names {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}

// Reference integrates one period at a one-day step from the configured
// periapsis date, independent of the run step.
func (e *Experiment) Reference(ctx context.Context) (*ephemeris.Reference, error) {
	periapsis, err := e.cfg.PeriapsisDate()
	if err != nil {
		return nil, err
	}
	daily := e.consts.WithStep(e.consts.DaysToUnits(1))
	ref, err := ephemeris.BuildReference(ctx, daily, periapsis, e.simOptions(false)...)
	if err != nil {
		return nil, fmt.Errorf("reference orbit: %w", err)
	}
	return ref, nil
}

// Sweep builds the solar sweep for the configured observer and clock.
func (e *Experiment) Sweep(ctx context.Context) (*ephemeris.Sweep, error) {
	ref, err := e.Reference(ctx)
	if err != nil {
		return nil, err
	}
	pipe, err := frames.NewPipeline(e.cfg.FrameParams())
	if err != nil {
		return nil, err
	}
	policy, err := e.cfg.Policy()
	if err != nil {
		return nil, err
	}
	opts := []ephemeris.Option{
		ephemeris.WithInterval(e.cfg.Interval()),
		ephemeris.WithLogger(e.log),
	}
	if e.metrics != nil {
		opts = append(opts, ephemeris.WithRecorder(e.metrics))
	}
	return ephemeris.NewSweep(ref, pipe, e.cfg.Observer(), policy, opts...)
}

// Year sweeps the configured date range.
func (e *Experiment) Year(ctx context.Context) (*ephemeris.Sweep, [][]ephemeris.Reading, error) {
	sw, err := e.Sweep(ctx)
	if err != nil {
		return nil, nil, err
	}
	start, err := e.cfg.SweepStart()
	if err != nil {
		return nil, nil, err
	}
	days, err := sw.Year(ctx, start, e.cfg.Sweep.Days)
	if err != nil {
		return nil, nil, err
	}
	return sw, days, nil
}
