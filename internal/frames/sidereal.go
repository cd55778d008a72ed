package frames

import (
	"math"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/sidereal"
)

// J2000 is the Julian day of 2000-01-01 12:00 UTC.
const J2000 = 2451545.0

// JulianDayNumber is the Julian day at 0h UT of the given civil date, from
// the integer-arithmetic approximation valid for 1901-2099.
func JulianDayNumber(year, month, day int) float64 {
	return float64(367*year-(7*(year+(month+9)/12))/4+(275*month)/9+day) + 1721013.5
}

// GreenwichSidereal returns the Greenwich sidereal angle in degrees, [0, 360).
func GreenwichSidereal(ts Timestamp) float64 {
	j0 := JulianDayNumber(ts.Year, ts.Month, ts.Day)
	t0 := (j0 - J2000) / 36525

	g0 := 100.4606184 + 36000.77004*t0 + 0.000387933*t0*t0 - 2.583e-8*t0*t0*t0
	return normalizeDegrees(g0 + 360.98564724*ts.UT()/24)
}

// LocalSidereal adds the east longitude of the observer.
func LocalSidereal(ts Timestamp, longitude float64) float64 {
	return normalizeDegrees(GreenwichSidereal(ts) + longitude)
}

// MeeusSidereal is the IAU 1982 mean sidereal angle in degrees, used to
// cross-check GreenwichSidereal.
func MeeusSidereal(ts Timestamp) float64 {
	jd := julian.TimeToJD(ts.Time())
	return normalizeDegrees(float64(sidereal.Mean(jd)) / 240)
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
