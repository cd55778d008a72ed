package integrators

import "github.com/san-kum/heliosim/internal/dynamo"

// RK4 is the classical fourth-order Runge-Kutta scheme, used as the
// accuracy reference for the other two.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, t float64, x dynamo.State, h float64) (dynamo.State, error) {
	half := 0.5 * h

	k1, err := sys.Derive(t, x)
	if err != nil {
		return dynamo.State{}, err
	}
	k2, err := sys.Derive(t+half, x.AddScaled(k1, half))
	if err != nil {
		return dynamo.State{}, err
	}
	k3, err := sys.Derive(t+half, x.AddScaled(k2, half))
	if err != nil {
		return dynamo.State{}, err
	}
	k4, err := sys.Derive(t+h, x.AddScaled(k3, h))
	if err != nil {
		return dynamo.State{}, err
	}

	sum := k1.Add(k2.Scale(2)).Add(k3.Scale(2)).Add(k4)
	return checked(x.AddScaled(sum, h/6.0))
}
