package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// EccentricityOf estimates the eccentricity of a sampled orbit from its
// radial extremes, (rmax - rmin) / (rmax + rmin).
func EccentricityOf(radii []float64) (float64, error) {
	if len(radii) == 0 {
		return 0, dynamo.Configuration("no radial samples")
	}
	rmin, rmax := floats.Min(radii), floats.Max(radii)
	if rmin+rmax <= 0 {
		return 0, dynamo.Instability("non-positive radial extremes [%g, %g]", rmin, rmax)
	}
	return (rmax - rmin) / (rmax + rmin), nil
}

// Eccentricity is the streaming form of EccentricityOf.
type Eccentricity struct {
	name    string
	rmin    float64
	rmax    float64
	samples int
}

func NewEccentricity() *Eccentricity {
	e := &Eccentricity{name: "eccentricity"}
	e.Reset()
	return e
}

func (e *Eccentricity) Name() string { return e.name }

func (e *Eccentricity) Observe(t float64, x dynamo.State) {
	e.rmin = math.Min(e.rmin, x.R)
	e.rmax = math.Max(e.rmax, x.R)
	e.samples++
}

func (e *Eccentricity) Value() float64 {
	if e.samples == 0 || e.rmin+e.rmax <= 0 {
		return 0
	}
	return (e.rmax - e.rmin) / (e.rmax + e.rmin)
}

// Extremes returns the smallest and largest radius observed.
func (e *Eccentricity) Extremes() (float64, float64) {
	return e.rmin, e.rmax
}

func (e *Eccentricity) Reset() {
	e.rmin = math.Inf(1)
	e.rmax = math.Inf(-1)
	e.samples = 0
}
