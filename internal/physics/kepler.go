package physics

import (
	"math"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// Kepler is the reduced two-body radial problem:
//
//	dtheta/dt = l/r^2
//	dr/dt     = v
//	dv/dt     = l^2/r^3 + k/r^2
type Kepler struct {
	L float64
	K float64
}

func NewKepler(c Constants) *Kepler {
	return &Kepler{L: c.L, K: c.K}
}

func (k *Kepler) Derive(t float64, x dynamo.State) (dynamo.State, error) {
	if !x.IsValid() {
		return dynamo.State{}, dynamo.Instability("non-finite state %v", x)
	}
	omega, err := k.AngularRate(x.R)
	if err != nil {
		return dynamo.State{}, err
	}
	accel, err := k.Acceleration(x.R)
	if err != nil {
		return dynamo.State{}, err
	}
	return dynamo.State{Theta: omega, R: x.V, V: accel}, nil
}

func (k *Kepler) Acceleration(r float64) (float64, error) {
	if err := checkRadius(r); err != nil {
		return 0, err
	}
	a := k.L*k.L/(r*r*r) + k.K/(r*r)
	if math.IsNaN(a) || math.IsInf(a, 0) {
		return 0, dynamo.Instability("acceleration overflow at r=%g", r)
	}
	return a, nil
}

func (k *Kepler) AngularRate(r float64) (float64, error) {
	if err := checkRadius(r); err != nil {
		return 0, err
	}
	w := k.L / (r * r)
	if math.IsInf(w, 0) {
		return 0, dynamo.Instability("angular rate overflow at r=%g", r)
	}
	return w, nil
}

// Energy is the specific energy: radial kinetic + angular kinetic + potential.
func (k *Kepler) Energy(x dynamo.State) (float64, error) {
	if err := checkRadius(x.R); err != nil {
		return 0, err
	}
	lr := k.L / x.R
	return 0.5*x.V*x.V + 0.5*lr*lr + k.K/x.R, nil
}

// Eccentricity is the analytic eccentricity of the conic through x,
// e = sqrt(1 + 2*E*l^2/k^2).
func (k *Kepler) Eccentricity(x dynamo.State) (float64, error) {
	e, err := k.Energy(x)
	if err != nil {
		return 0, err
	}
	if k.K == 0 {
		return 0, dynamo.Configuration("eccentricity undefined for k=0")
	}
	arg := 1 + 2*e*k.L*k.L/(k.K*k.K)
	if arg < 0 {
		// rounding on an exactly circular orbit
		arg = 0
	}
	return math.Sqrt(arg), nil
}

// Period is the analytic orbital period for a bound orbit through x.
func (k *Kepler) Period(x dynamo.State) (float64, error) {
	e, err := k.Energy(x)
	if err != nil {
		return 0, err
	}
	if e >= 0 || k.K >= 0 {
		return 0, dynamo.Configuration("orbit through %v is not bound", x)
	}
	a := k.K / (2 * e)
	return 2 * math.Pi * math.Sqrt(a*a*a/-k.K), nil
}

func checkRadius(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return dynamo.Instability("non-finite radius %g", r)
	}
	if r <= 0 {
		return dynamo.Instability("radius must stay positive, got %g", r)
	}
	return nil
}
