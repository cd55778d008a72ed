package ephemeris

import (
	"context"
	"iter"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/heliosim/internal/clock"
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/logging"
	"github.com/san-kum/heliosim/internal/telemetry"
)

// DefaultInterval is the sampling step of a local day.
const DefaultInterval = 10 * time.Minute

// Reading is one solar position at a local wall-clock instant.
type Reading struct {
	Local  time.Time `json:"local"`
	UTC    time.Time `json:"utc"`
	Offset int       `json:"offset_hours"`
	frames.Horizontal
}

// Recorder counts solar position evaluations.
type Recorder interface {
	RecordEvaluations(n int)
}

type Sweep struct {
	ref      *Reference
	pipe     *frames.Pipeline
	observer frames.Observer
	policy   clock.Policy
	interval time.Duration
	recorder Recorder
	log      logging.Logger
}

type Option func(*Sweep)

func WithInterval(d time.Duration) Option {
	return func(s *Sweep) { s.interval = d }
}

func WithRecorder(r Recorder) Option {
	return func(s *Sweep) { s.recorder = r }
}

func WithLogger(l logging.Logger) Option {
	return func(s *Sweep) {
		if l != nil {
			s.log = l
		}
	}
}

func NewSweep(ref *Reference, pipe *frames.Pipeline, obs frames.Observer, policy clock.Policy, opts ...Option) (*Sweep, error) {
	if ref == nil || pipe == nil || policy == nil {
		return nil, dynamo.Configuration("sweep needs a reference, a pipeline and an offset policy")
	}
	if err := obs.Validate(); err != nil {
		return nil, err
	}
	s := &Sweep{
		ref:      ref,
		pipe:     pipe,
		observer: obs,
		policy:   policy,
		interval: DefaultInterval,
		log:      logging.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.interval <= 0 || s.interval > 24*time.Hour {
		return nil, dynamo.Configuration("sweep interval must be in (0, 24h], got %s", s.interval)
	}
	return s, nil
}

func (s *Sweep) Interval() time.Duration { return s.interval }

func (s *Sweep) Observer() frames.Observer { return s.observer }

// PerDay is the number of readings in one local day.
func (s *Sweep) PerDay() int {
	return int((24*time.Hour + s.interval - 1) / s.interval)
}

// Day yields the readings of one local day from 00:00 in interval steps.
// The sequence is lazy and can be ranged over again; it stops after the
// first error.
func (s *Sweep) Day(date time.Time) iter.Seq2[Reading, error] {
	date = clock.Date(date)
	pos := s.ref.PositionOn(date)
	return func(yield func(Reading, error) bool) {
		for m := time.Duration(0); m < 24*time.Hour; m += s.interval {
			local := date.Add(m)
			utc := clock.ToUTC(local, s.policy)
			h, err := s.pipe.SolarPosition(pos, frames.FromTime(utc), s.observer)
			r := Reading{Local: local, UTC: utc, Offset: s.policy.OffsetHours(local), Horizontal: h}
			if !yield(r, err) || err != nil {
				return
			}
		}
	}
}

// DayReadings collects Day.
func (s *Sweep) DayReadings(date time.Time) ([]Reading, error) {
	out := make([]Reading, 0, s.PerDay())
	for r, err := range s.Day(date) {
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if s.recorder != nil {
		s.recorder.RecordEvaluations(len(out))
	}
	return out, nil
}

// Year sweeps days consecutive dates from start concurrently. The result is
// indexed by day offset from start.
func (s *Sweep) Year(ctx context.Context, start time.Time, days int) ([][]Reading, error) {
	if days <= 0 {
		return nil, dynamo.Configuration("day count must be positive, got %d", days)
	}
	ctx, span := telemetry.Tracer().Start(ctx, "ephemeris.year")
	span.SetAttributes(attribute.Int("days", days))
	defer span.End()

	start = clock.Date(start)
	out := make([][]Reading, days)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < days; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			readings, err := s.DayReadings(start.AddDate(0, 0, i))
			if err != nil {
				return err
			}
			out[i] = readings
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	s.log.Debug(ctx, "sweep finished",
		logging.String("start", start.Format(time.DateOnly)),
		logging.Int("days", days),
		logging.Int("per_day", s.PerDay()),
	)
	return out, nil
}

// Visible keeps readings strictly above minAltitude degrees.
func Visible(readings []Reading, minAltitude float64) []Reading {
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		if r.Altitude > minAltitude {
			out = append(out, r)
		}
	}
	return out
}

// HourMarks keeps the readings that fall on a whole local hour.
func HourMarks(readings []Reading) []Reading {
	var out []Reading
	for _, r := range readings {
		if r.Local.Minute() == 0 && r.Local.Second() == 0 {
			out = append(out, r)
		}
	}
	return out
}

// Culmination returns the reading with the highest altitude.
func Culmination(readings []Reading) (Reading, bool) {
	if len(readings) == 0 {
		return Reading{}, false
	}
	best := readings[0]
	for _, r := range readings[1:] {
		if r.Altitude > best.Altitude {
			best = r
		}
	}
	return best, true
}
