package integrators

import "github.com/san-kum/heliosim/internal/dynamo"

// Euler is the explicit first-order scheme Y' = Y + h*f(t, Y). Its energy
// error grows secularly on closed orbits.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, t float64, x dynamo.State, h float64) (dynamo.State, error) {
	dx, err := sys.Derive(t, x)
	if err != nil {
		return dynamo.State{}, err
	}
	return checked(x.AddScaled(dx, h))
}

// checked rejects a stepped state outside the model domain.
func checked(x dynamo.State) (dynamo.State, error) {
	if !x.IsValid() {
		return dynamo.State{}, dynamo.Instability("step produced non-finite state %v", x)
	}
	if x.R <= 0 {
		return dynamo.State{}, dynamo.Instability("step drove radius to %g", x.R)
	}
	return x, nil
}
