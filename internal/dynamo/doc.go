// Package dynamo provides the core primitives shared by the orbit integrators
// and the frame pipeline.
//
// The package defines:
//
//   - [State]: reduced orbital state (theta, r, v)
//   - [System]: ODE right-hand side dY/dt = f(t, Y)
//   - [Separable]: systems whose acceleration and angular rate can be evaluated apart
//   - [Integrator]: single-step numerical scheme
//   - [Metric]: per-sample diagnostic observer
//
// # Errors
//
// Every failure is reported through one of the sentinel errors
// ([ErrNumericalInstability], [ErrInvalidTimestamp], [ErrConfiguration]),
// usually wrapped in a [SimulationError] or [TimestampError] that names the
// step or instant that failed:
//
//	_, err := integ.Step(sys, t, x, h)
//	if errors.Is(err, dynamo.ErrNumericalInstability) {
//	    // the trajectory left the model's domain
//	}
//
// # Thread Safety
//
// States are values and integrators keep no state between calls, so
// independent runs may proceed on separate goroutines without locking.
package dynamo
