package sim

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/metrics"
	"github.com/san-kum/heliosim/internal/physics"
	"github.com/san-kum/heliosim/internal/telemetry"
)

// Model is the orbital system a sampler drives.
type Model interface {
	dynamo.System
	dynamo.Hamiltonian
}

// Recorder receives one call per finished run.
type Recorder interface {
	RecordRun(scheme string, steps int, maxEnergyError float64, elapsed time.Duration, err error)
}

// Sampler drives one integration scheme over a run and records
// trajectory samples.
type Sampler struct {
	scheme    integrators.Scheme
	integ     dynamo.Integrator
	model     Model
	constants physics.Constants
	metrics   []dynamo.Metric
	recorder  Recorder
	log       logging.Logger
	cfg       Config
}

type Option func(*Sampler)

func WithLogger(l logging.Logger) Option {
	return func(s *Sampler) {
		if l != nil {
			s.log = l
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *Sampler) { s.recorder = r }
}

// WithMetric adds a metric observed on every sample.
func WithMetric(m dynamo.Metric) Option {
	return func(s *Sampler) { s.metrics = append(s.metrics, m) }
}

func WithMaxSteps(n int) Option {
	return func(s *Sampler) { s.cfg.MaxSteps = n }
}

// WithModel replaces the Kepler model built from the constants.
func WithModel(m Model) Option {
	return func(s *Sampler) { s.model = m }
}

func New(scheme integrators.Scheme, c physics.Constants, opts ...Option) (*Sampler, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	integ, err := integrators.New(scheme)
	if err != nil {
		return nil, err
	}
	s := &Sampler{
		scheme:    scheme,
		integ:     integ,
		model:     physics.NewKepler(c),
		constants: c,
		log:       logging.Noop(),
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.MaxSteps <= 0 {
		return nil, dynamo.Configuration("max steps must be positive, got %d", s.cfg.MaxSteps)
	}
	return s, nil
}

func (s *Sampler) Scheme() integrators.Scheme { return s.scheme }

// Run integrates from x0 until term is satisfied. A sample is recorded
// before each step, so the final state is reported in the result but not
// sampled. Any step failure aborts the run.
func (s *Sampler) Run(ctx context.Context, x0 dynamo.State, term Termination) (res *Result, err error) {
	ctx, span := telemetry.Tracer().Start(ctx, "sim.run")
	span.SetAttributes(
		attribute.String("scheme", s.scheme.String()),
		attribute.String("termination", term.String()),
	)
	start := time.Now()
	steps := 0
	maxErr := 0.0
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("steps", steps))
		span.End()
		if s.recorder != nil {
			s.recorder.RecordRun(s.scheme.String(), steps, maxErr, time.Since(start), err)
		}
	}()

	if !x0.IsValid() || x0.R <= 0 {
		return nil, s.wrap(0, 0, x0, dynamo.Instability("initial state %v outside the model domain", x0))
	}

	drift, err := metrics.NewEnergyDrift(s.model, x0)
	if err != nil {
		return nil, s.wrap(0, 0, x0, err)
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	h := s.constants.H
	res = &Result{
		Scheme:        s.scheme,
		Constants:     s.constants,
		InitialEnergy: drift.Initial(),
		Metrics:       make(map[string]float64),
	}

	s.log.Debug(ctx, "run started",
		logging.String("scheme", s.scheme.String()),
		logging.String("termination", term.String()),
		logging.Float64("h", h),
	)

	x := x0
	t := 0.0
	for !term.Done(t, x, x0) {
		if steps >= s.cfg.MaxSteps {
			return nil, s.wrap(steps, t, x, dynamo.ErrStepLimit)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		rel, err := drift.RelativeError(x)
		if err != nil {
			return nil, s.wrap(steps, t, x, err)
		}
		maxErr = max(maxErr, rel)

		px, py := s.constants.Cartesian(x)
		res.Samples = append(res.Samples, Sample{
			Step:        steps,
			Time:        t,
			State:       x,
			X:           px,
			Y:           py,
			EnergyError: rel,
		})
		for _, m := range s.metrics {
			m.Observe(t, x)
		}

		x, err = s.integ.Step(s.model, t, x, h)
		if err != nil {
			return nil, s.wrap(steps, t, res.Samples[len(res.Samples)-1].State, err)
		}
		steps++
		t = float64(steps) * h
	}

	if len(res.Samples) == 0 {
		return nil, dynamo.Configuration("termination %s satisfied by the initial state", term)
	}

	ecc, err := metrics.EccentricityOf(res.Radii())
	if err != nil {
		return nil, s.wrap(steps, t, x, err)
	}

	res.Eccentricity = ecc
	res.MaxEnergyError = maxErr
	res.FinalState = x
	res.FinalTime = t
	res.StepsTaken = steps
	for _, m := range s.metrics {
		res.Metrics[m.Name()] = m.Value()
	}

	s.log.Info(ctx, "run finished",
		logging.String("scheme", s.scheme.String()),
		logging.Int("steps", steps),
		logging.Float64("eccentricity", ecc),
		logging.Float64("max_energy_error", maxErr),
	)
	return res, nil
}

func (s *Sampler) wrap(step int, t float64, x dynamo.State, err error) error {
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		return err
	}
	return &dynamo.SimulationError{
		Scheme:  s.scheme.String(),
		Step:    step,
		Time:    t,
		State:   x,
		Wrapped: err,
	}
}

// Integrate runs one scheme from x0 under the given constants.
func Integrate(ctx context.Context, scheme integrators.Scheme, x0 dynamo.State, c physics.Constants, term Termination, opts ...Option) (*Result, error) {
	s, err := New(scheme, c, opts...)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, x0, term)
}
