package frames

import (
	"math"

	"github.com/san-kum/heliosim/internal/dynamo"
)

const (
	DefaultLongitudeOfPerihelion = 102.9      // degrees
	DefaultObliquity             = 23.4392911 // degrees
	EarthRadiusKm                = 6371.0
	AstronomicalUnitKm           = 149597870.7

	// minTopocentricNorm guards the altitude division.
	minTopocentricNorm = 1e-12
)

type Params struct {
	LongitudeOfPerihelion float64 `yaml:"longitude_of_perihelion" json:"longitude_of_perihelion"`
	Obliquity             float64 `yaml:"obliquity" json:"obliquity"`
	EarthRadiusAU         float64 `yaml:"earth_radius_au" json:"earth_radius_au"`
}

func DefaultParams() Params {
	return Params{
		LongitudeOfPerihelion: DefaultLongitudeOfPerihelion,
		Obliquity:             DefaultObliquity,
		EarthRadiusAU:         EarthRadiusKm / AstronomicalUnitKm,
	}
}

func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"longitude of perihelion": p.LongitudeOfPerihelion,
		"obliquity":               p.Obliquity,
		"earth radius":            p.EarthRadiusAU,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return dynamo.Configuration("%s is not finite", name)
		}
	}
	if p.EarthRadiusAU < 0 {
		return dynamo.Configuration("earth radius must be non-negative, got %g", p.EarthRadiusAU)
	}
	return nil
}

// Observer is a surface location in degrees, longitude positive east.
type Observer struct {
	Latitude  float64 `yaml:"latitude" json:"latitude"`
	Longitude float64 `yaml:"longitude" json:"longitude"`
}

func (o Observer) Validate() error {
	if math.IsNaN(o.Latitude) || o.Latitude < -90 || o.Latitude > 90 {
		return dynamo.Configuration("latitude must be in [-90, 90], got %g", o.Latitude)
	}
	if math.IsNaN(o.Longitude) || math.IsInf(o.Longitude, 0) {
		return dynamo.Configuration("longitude is not finite")
	}
	return nil
}

// Horizontal holds navigational azimuth (0 north, 90 east) and altitude,
// both in degrees.
type Horizontal struct {
	Azimuth  float64 `json:"azimuth"`
	Altitude float64 `json:"altitude"`
}

type Pipeline struct {
	params Params
}

func NewPipeline(p Params) (*Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Pipeline{params: p}, nil
}

func (p *Pipeline) Params() Params { return p.params }

// ToVernal measures the position from the vernal equinox instead of the
// perihelion direction.
func (p *Pipeline) ToVernal(pos Vec3) Vec3 {
	return Apply(RotZ(p.params.LongitudeOfPerihelion), pos)
}

// ToEquatorial flips the planet position into the planet-to-Sun direction
// and tilts it into the equatorial frame.
func (p *Pipeline) ToEquatorial(sol Vec3) Vec3 {
	return Apply(RotX(p.params.Obliquity), sol.Neg())
}

// ToEarthFixed turns the equatorial vector by the local sidereal angle.
func (p *Pipeline) ToEarthFixed(eq Vec3, localSidereal float64) Vec3 {
	return Apply(FrameZ(localSidereal), eq)
}

// ToTopocentric tips the vertical onto the observer zenith and moves the
// origin to the surface.
func (p *Pipeline) ToTopocentric(ef Vec3, latitude float64) Vec3 {
	v := Apply(FrameY(90-latitude), ef)
	return v.Sub(Vec3{Z: p.params.EarthRadiusAU})
}

// HorizontalOf extracts azimuth and altitude from a topocentric vector.
func (p *Pipeline) HorizontalOf(topo Vec3) (Horizontal, error) {
	n := topo.Norm()
	if !topo.IsValid() || n < minTopocentricNorm {
		return Horizontal{}, dynamo.Instability("topocentric vector %v has no direction", topo)
	}
	alt := math.Asin(topo.Z/n) / deg
	raw := math.Atan2(topo.Y, topo.X) / deg
	return Horizontal{
		Azimuth:  normalizeDegrees(180 - raw),
		Altitude: alt,
	}, nil
}

// SolarPosition runs the whole chain for a heliocentric position in AU.
func (p *Pipeline) SolarPosition(pos Vec3, ts Timestamp, obs Observer) (Horizontal, error) {
	if err := ts.Validate(); err != nil {
		return Horizontal{}, err
	}
	if err := obs.Validate(); err != nil {
		return Horizontal{}, err
	}
	if !pos.IsValid() {
		return Horizontal{}, &dynamo.TimestampError{
			Timestamp: ts.String(),
			Wrapped:   dynamo.Instability("non-finite position %v", pos),
		}
	}

	sol := p.ToVernal(pos)
	eq := p.ToEquatorial(sol)
	ef := p.ToEarthFixed(eq, LocalSidereal(ts, obs.Longitude))
	topo := p.ToTopocentric(ef, obs.Latitude)

	h, err := p.HorizontalOf(topo)
	if err != nil {
		return Horizontal{}, &dynamo.TimestampError{Timestamp: ts.String(), Wrapped: err}
	}
	return h, nil
}

var defaultPipeline = &Pipeline{params: DefaultParams()}

// SolarPosition evaluates the chain with the default Earth parameters.
func SolarPosition(pos Vec3, ts Timestamp, latitude, longitude float64) (Horizontal, error) {
	return defaultPipeline.SolarPosition(pos, ts, Observer{Latitude: latitude, Longitude: longitude})
}
