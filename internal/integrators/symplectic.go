package integrators

import (
	"fmt"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// SymplecticEuler is the semi-implicit (Euler-Cromer) scheme. The update
// order is kick, drift, then angle:
//
//	v' = v + h*a(r)
//	r' = r + h*v'
//	theta' = theta + h*l/r'^2
//
// Reordering these lines loses the bounded energy error.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Step(sys dynamo.System, t float64, x dynamo.State, h float64) (dynamo.State, error) {
	sep, ok := sys.(dynamo.Separable)
	if !ok {
		return dynamo.State{}, fmt.Errorf("%w: semi-implicit euler needs a separable system, got %T", dynamo.ErrConfiguration, sys)
	}

	accel, err := sep.Acceleration(x.R)
	if err != nil {
		return dynamo.State{}, err
	}
	v := x.V + h*accel
	r := x.R + h*v

	omega, err := sep.AngularRate(r)
	if err != nil {
		return dynamo.State{}, err
	}
	theta := x.Theta + h*omega

	return checked(dynamo.State{Theta: theta, R: r, V: v})
}
