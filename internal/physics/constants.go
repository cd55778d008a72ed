package physics

import (
	"math"

	"github.com/san-kum/heliosim/internal/dynamo"
)

const (
	SecondsPerDay = 86400.0

	DefaultGravitationalConstant = 6.67e-11
	DefaultSolarMass             = 1.989e30
	DefaultPeriapsisDistance     = 1.4709e11
	DefaultPeriapsisVelocity     = 30270.0
	DefaultAstronomicalUnit      = 149597870700.0
)

// Params are the physical inputs from which the normalized constants are derived.
type Params struct {
	GravitationalConstant float64 // m^3 kg^-1 s^-2
	CentralMass           float64 // kg
	PeriapsisDistance     float64 // m
	PeriapsisVelocity     float64 // m/s
	AstronomicalUnit      float64 // m
	StepSeconds           float64 // integration step in physical seconds
}

// EarthParams is the Sun-Earth setup with a one-day step.
func EarthParams() Params {
	return Params{
		GravitationalConstant: DefaultGravitationalConstant,
		CentralMass:           DefaultSolarMass,
		PeriapsisDistance:     DefaultPeriapsisDistance,
		PeriapsisVelocity:     DefaultPeriapsisVelocity,
		AstronomicalUnit:      DefaultAstronomicalUnit,
		StepSeconds:           SecondsPerDay,
	}
}

// Constants is the immutable, normalized configuration shared by every
// component. Lengths are in units of the periapsis distance and times in
// units of PeriapsisDistance/ReferenceVelocity.
type Constants struct {
	L                 float64
	K                 float64
	PeriapsisDistance float64
	ReferenceVelocity float64
	AstronomicalUnit  float64
	H                 float64
}

// NewConstants normalizes p. The angular momentum constant is fixed at 1.
func NewConstants(p Params) (Constants, error) {
	switch {
	case !(p.PeriapsisDistance > 0):
		return Constants{}, dynamo.Configuration("periapsis distance must be positive, got %g", p.PeriapsisDistance)
	case !(p.PeriapsisVelocity > 0):
		return Constants{}, dynamo.Configuration("periapsis velocity must be positive, got %g", p.PeriapsisVelocity)
	case !(p.GravitationalConstant > 0) || !(p.CentralMass > 0):
		return Constants{}, dynamo.Configuration("gravitational parameter must be positive, got G=%g M=%g", p.GravitationalConstant, p.CentralMass)
	case !(p.StepSeconds > 0):
		return Constants{}, dynamo.Configuration("step must be positive, got %g s", p.StepSeconds)
	}

	c := Constants{
		L:                 1,
		K:                 -(p.GravitationalConstant * p.CentralMass) / (p.PeriapsisVelocity * p.PeriapsisVelocity * p.PeriapsisDistance),
		PeriapsisDistance: p.PeriapsisDistance,
		ReferenceVelocity: p.PeriapsisVelocity,
		AstronomicalUnit:  p.AstronomicalUnit,
		H:                 p.StepSeconds * p.PeriapsisVelocity / p.PeriapsisDistance,
	}
	return c, c.Validate()
}

func (c Constants) Validate() error {
	for name, v := range map[string]float64{"l": c.L, "k": c.K, "h": c.H} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.Configuration("%s is not finite", name)
		}
	}
	if c.L == 0 {
		return dynamo.Configuration("angular momentum constant must be non-zero")
	}
	if !(c.H > 0) {
		return dynamo.Configuration("time increment must be positive, got %g", c.H)
	}
	if !(c.PeriapsisDistance > 0) {
		return dynamo.Configuration("periapsis distance must be positive, got %g", c.PeriapsisDistance)
	}
	if !(c.ReferenceVelocity > 0) {
		return dynamo.Configuration("reference velocity must be positive, got %g", c.ReferenceVelocity)
	}
	if !(c.AstronomicalUnit > 0) {
		return dynamo.Configuration("astronomical unit must be positive, got %g", c.AstronomicalUnit)
	}
	return nil
}

// WithStep returns a copy of c using normalized step h.
func (c Constants) WithStep(h float64) Constants {
	c.H = h
	return c
}

// TimeScale is the number of physical seconds in one normalized time unit.
func (c Constants) TimeScale() float64 {
	return c.PeriapsisDistance / c.ReferenceVelocity
}

func (c Constants) DaysToUnits(days float64) float64 {
	return days * SecondsPerDay / c.TimeScale()
}

func (c Constants) UnitsToDays(t float64) float64 {
	return t * c.TimeScale() / SecondsPerDay
}

// RadiusAU converts a normalized radius to astronomical units.
func (c Constants) RadiusAU(r float64) float64 {
	return r * c.PeriapsisDistance / c.AstronomicalUnit
}

// Cartesian projects x onto the orbital plane in astronomical units.
func (c Constants) Cartesian(x dynamo.State) (float64, float64) {
	radius := c.RadiusAU(x.R)
	s, co := math.Sincos(x.Theta)
	return radius * co, radius * s
}
