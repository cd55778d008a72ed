package metrics

import (
	"math"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// RelativeEnergyError is |e - e0| / |e0|.
func RelativeEnergyError(e, e0 float64) (float64, error) {
	if e0 == 0 {
		return 0, dynamo.Configuration("relative energy error undefined for E0=0")
	}
	return math.Abs(e-e0) / math.Abs(e0), nil
}

// EnergyDrift tracks the relative energy error against the energy of the
// initial state.
type EnergyDrift struct {
	name     string
	ham      dynamo.Hamiltonian
	initial  float64
	last     float64
	maxDrift float64
	samples  int
	err      error
}

func NewEnergyDrift(ham dynamo.Hamiltonian, x0 dynamo.State) (*EnergyDrift, error) {
	e0, err := ham.Energy(x0)
	if err != nil {
		return nil, err
	}
	if e0 == 0 {
		return nil, dynamo.Configuration("initial energy is zero for %v", x0)
	}
	return &EnergyDrift{
		name:    "energy_drift",
		ham:     ham,
		initial: e0,
	}, nil
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Initial() float64 { return e.initial }

// RelativeError evaluates the error of x without recording it.
func (e *EnergyDrift) RelativeError(x dynamo.State) (float64, error) {
	energy, err := e.ham.Energy(x)
	if err != nil {
		return 0, err
	}
	return RelativeEnergyError(energy, e.initial)
}

func (e *EnergyDrift) Observe(t float64, x dynamo.State) {
	drift, err := e.RelativeError(x)
	if err != nil {
		if e.err == nil {
			e.err = err
		}
		return
	}
	e.last = drift
	e.maxDrift = math.Max(e.maxDrift, drift)
	e.samples++
}

// Value is the largest relative error observed so far.
func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Last() float64 { return e.last }

func (e *EnergyDrift) Samples() int { return e.samples }

// Err returns the first evaluation error seen by Observe.
func (e *EnergyDrift) Err() error { return e.err }

func (e *EnergyDrift) Reset() {
	e.last = 0
	e.maxDrift = 0
	e.samples = 0
	e.err = nil
}
