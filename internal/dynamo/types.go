package dynamo

import (
	"fmt"
	"math"
)

// State is the reduced orbital state: polar angle, dimensionless radius and
// dimensionless radial velocity.
type State struct {
	Theta float64 `json:"theta"`
	R     float64 `json:"r"`
	V     float64 `json:"v"`
}

func (s State) IsValid() bool {
	for _, v := range [3]float64{s.Theta, s.R, s.V} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Add(other State) State {
	return State{Theta: s.Theta + other.Theta, R: s.R + other.R, V: s.V + other.V}
}

func (s State) Scale(factor float64) State {
	return State{Theta: s.Theta * factor, R: s.R * factor, V: s.V * factor}
}

// AddScaled returns s + factor*other.
func (s State) AddScaled(other State, factor float64) State {
	return State{
		Theta: s.Theta + factor*other.Theta,
		R:     s.R + factor*other.R,
		V:     s.V + factor*other.V,
	}
}

func (s State) Slice() []float64 {
	return []float64{s.Theta, s.R, s.V}
}

func (s State) String() string {
	return fmt.Sprintf("(theta=%.6f, r=%.6f, v=%.6f)", s.Theta, s.R, s.V)
}

// System is a first-order ODE dY/dt = f(t, Y) over the orbital state.
type System interface {
	Derive(t float64, x State) (State, error)
}

// Separable exposes the radial acceleration and angular rate separately so
// that kick-drift schemes can update the components in a fixed order.
type Separable interface {
	System
	Acceleration(r float64) (float64, error)
	AngularRate(r float64) (float64, error)
}

type Hamiltonian interface {
	Energy(x State) (float64, error)
}

type Integrator interface {
	Step(sys System, t float64, x State, h float64) (State, error)
}

type Metric interface {
	Name() string
	Observe(t float64, x State)
	Value() float64
	Reset()
}
