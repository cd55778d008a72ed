// Package yield estimates the electrical output of horizontal solar panels
// from swept solar altitudes.
package yield

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/ephemeris"
)

const (
	DefaultSolarConstant = 1362.0 // W/m^2
	DefaultPeakWatts     = 400.0  // W per panel at 1000 W/m^2
	// irradiance at which a panel delivers its peak rating
	ratedIrradiance = 1000.0
)

// Model is a horizontal panel array. Irradiance on the panel plane is
// SolarConstant*sin(altitude), output scales linearly with irradiance up to
// the peak rating.
type Model struct {
	SolarConstant float64 `yaml:"solar_constant" json:"solar_constant"`
	PeakWatts     float64 `yaml:"peak_watts" json:"peak_watts"`
	Panels        int     `yaml:"panels" json:"panels"`
}

func DefaultModel() Model {
	return Model{SolarConstant: DefaultSolarConstant, PeakWatts: DefaultPeakWatts, Panels: 4}
}

func (m Model) Validate() error {
	if !(m.SolarConstant > 0) || math.IsInf(m.SolarConstant, 0) {
		return dynamo.Configuration("solar constant must be positive, got %g", m.SolarConstant)
	}
	if !(m.PeakWatts > 0) || math.IsInf(m.PeakWatts, 0) {
		return dynamo.Configuration("peak watts must be positive, got %g", m.PeakWatts)
	}
	if m.Panels < 0 {
		return dynamo.Configuration("panel count must be non-negative, got %d", m.Panels)
	}
	return nil
}

// WithPanels returns a copy of m with n panels.
func (m Model) WithPanels(n int) Model {
	m.Panels = n
	return m
}

// UnitPowerW is the output of a single panel at the given altitude.
func (m Model) UnitPowerW(altitude float64) float64 {
	if altitude <= 0 {
		return 0
	}
	irradiance := m.SolarConstant * math.Sin(altitude*math.Pi/180)
	return math.Min(irradiance*m.PeakWatts/ratedIrradiance, m.PeakWatts)
}

// PowerW is the output of the whole array.
func (m Model) PowerW(altitude float64) float64 {
	return m.UnitPowerW(altitude) * float64(m.Panels)
}

// DailyEnergyWh integrates power over readings spaced by interval.
func (m Model) DailyEnergyWh(readings []ephemeris.Reading, interval time.Duration) float64 {
	power := make([]float64, len(readings))
	for i, r := range readings {
		power[i] = m.PowerW(r.Altitude)
	}
	return floats.Sum(power) * interval.Hours()
}

type Daily struct {
	Date     time.Time `json:"date"`
	EnergyWh float64   `json:"energy_wh"`
}

// Annual returns the energy of each swept day and the total in kWh.
func (m Model) Annual(days [][]ephemeris.Reading, interval time.Duration) ([]Daily, float64) {
	out := make([]Daily, 0, len(days))
	total := 0.0
	for _, readings := range days {
		if len(readings) == 0 {
			continue
		}
		e := m.DailyEnergyWh(readings, interval)
		out = append(out, Daily{Date: readings[0].Local, EnergyWh: e})
		total += e
	}
	return out, total / 1000
}

// UnitProfile concatenates the single-panel power of every reading, in
// order, as a generation profile in W.
func (m Model) UnitProfile(days [][]ephemeris.Reading) []float64 {
	var out []float64
	for _, readings := range days {
		for _, r := range readings {
			out = append(out, m.UnitPowerW(r.Altitude))
		}
	}
	return out
}
