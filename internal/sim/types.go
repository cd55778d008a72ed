package sim

import (
	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/physics"
)

// Sample is one trajectory record, taken before the step that follows it.
// X and Y are heliocentric coordinates in astronomical units.
type Sample struct {
	Step        int          `json:"step"`
	Time        float64      `json:"time"`
	State       dynamo.State `json:"state"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	EnergyError float64      `json:"energy_error"`
}

type Config struct {
	// MaxSteps bounds a run whose termination policy is never met.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{MaxSteps: 10_000_000}
}

type Result struct {
	Scheme         integrators.Scheme
	Constants      physics.Constants
	Samples        []Sample
	Eccentricity   float64
	InitialEnergy  float64
	MaxEnergyError float64
	FinalState     dynamo.State
	FinalTime      float64
	StepsTaken     int
	Metrics        map[string]float64
}

func (r *Result) Len() int { return len(r.Samples) }

func (r *Result) Times() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Time
	}
	return out
}

func (r *Result) Radii() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.State.R
	}
	return out
}

func (r *Result) EnergyErrors() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.EnergyError
	}
	return out
}

// Positions returns the sampled (x, y) pairs in astronomical units.
func (r *Result) Positions() [][2]float64 {
	out := make([][2]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = [2]float64{s.X, s.Y}
	}
	return out
}

// Days is the simulated duration in calendar days.
func (r *Result) Days() float64 {
	return r.Constants.UnitsToDays(r.FinalTime)
}
