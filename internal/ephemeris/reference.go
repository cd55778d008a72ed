// Package ephemeris resamples a one-period reference orbit by calendar day
// and sweeps solar positions over local days.
package ephemeris

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/heliosim/internal/clock"
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/frames"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/physics"
	"github.com/san-kum/heliosim/internal/sim"
)

// DefaultPeriapsis is the 2026 perihelion date used by the study.
var DefaultPeriapsis = time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

// Reference is one orbital period of heliocentric (x, y) positions in AU,
// one sample per day starting at the periapsis date.
type Reference struct {
	Periapsis time.Time
	Positions [][2]float64
}

func NewReference(periapsis time.Time, positions [][2]float64) (*Reference, error) {
	if len(positions) == 0 {
		return nil, dynamo.Configuration("reference trajectory is empty")
	}
	return &Reference{Periapsis: clock.Date(periapsis), Positions: positions}, nil
}

// BuildReference integrates one revolution with RK4 from periapsis.
func BuildReference(ctx context.Context, c physics.Constants, periapsis time.Time, opts ...sim.Option) (*Reference, error) {
	res, err := sim.Integrate(ctx, integrators.SchemeRK4, dynamo.State{R: 1}, c, sim.FullRevolution{}, opts...)
	if err != nil {
		return nil, err
	}
	return NewReference(periapsis, res.Positions())
}

func (r *Reference) Len() int { return len(r.Positions) }

// Index is the day offset from the periapsis date, wrapped into the
// reference length. Dates before periapsis wrap backwards.
func (r *Reference) Index(date time.Time) int {
	days := int(math.Floor(clock.Date(date).Sub(r.Periapsis).Hours() / 24))
	n := len(r.Positions)
	return ((days % n) + n) % n
}

func (r *Reference) PositionOn(date time.Time) frames.Vec3 {
	p := r.Positions[r.Index(date)]
	return frames.Vec3{X: p[0], Y: p[1]}
}
