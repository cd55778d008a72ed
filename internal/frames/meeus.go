package frames

import (
	"math"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
	"github.com/soniakeys/meeus/v3/solar"
)

// MeeusSolarPosition computes the horizontal coordinates of the Sun from the
// low-accuracy solar theory of Meeus chapter 25. It is independent of the
// integrated orbit and serves as a reference for the pipeline.
func MeeusSolarPosition(ts Timestamp, obs Observer) (Horizontal, error) {
	if err := ts.Validate(); err != nil {
		return Horizontal{}, err
	}
	if err := obs.Validate(); err != nil {
		return Horizontal{}, err
	}

	jd := julian.TimeToJD(ts.Time())
	ra, dec := solar.ApparentEquatorial(jd)

	theta := float64(sidereal.Apparent(jd)) / 240 * deg
	hourAngle := theta + obs.Longitude*deg - float64(ra)
	phi := obs.Latitude * deg
	delta := float64(dec)

	sinAlt := math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Cos(hourAngle)
	alt := math.Asin(sinAlt)

	// Meeus measures azimuth westward from south
	az := math.Atan2(math.Sin(hourAngle), math.Cos(hourAngle)*math.Sin(phi)-math.Tan(delta)*math.Cos(phi))

	return Horizontal{
		Azimuth:  normalizeDegrees(az/deg + 180),
		Altitude: alt / deg,
	}, nil
}
