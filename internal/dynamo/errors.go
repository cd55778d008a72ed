package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for orbit and frame computations.
var (
	// ErrNumericalInstability indicates the state left the model's domain
	// (r <= 0) or a computed value is NaN or Inf.
	ErrNumericalInstability = errors.New("dynamo: numerical instability")

	// ErrInvalidTimestamp indicates a calendar date or time that does not exist.
	ErrInvalidTimestamp = errors.New("dynamo: invalid timestamp")

	// ErrConfiguration indicates inconsistent physical constants or settings.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrStepLimit indicates a run hit its step budget before its termination
	// policy was satisfied.
	ErrStepLimit = errors.New("dynamo: step limit reached")

	// ErrUnknownScheme indicates an integration scheme name that is not registered.
	ErrUnknownScheme = errors.New("dynamo: unknown integration scheme")
)

// SimulationError wraps an error with integration context.
type SimulationError struct {
	Scheme  string
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Scheme != "" {
		return fmt.Sprintf("%s: step %d (t=%.6f): %v", e.Scheme, e.Step, e.Time, e.Wrapped)
	}
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// TimestampError identifies the timestamp a frame computation failed on.
type TimestampError struct {
	Timestamp string
	Wrapped   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("timestamp %s: %v", e.Timestamp, e.Wrapped)
}

func (e *TimestampError) Unwrap() error {
	return e.Wrapped
}

// Instability returns an ErrNumericalInstability annotated with a reason.
func Instability(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNumericalInstability, fmt.Sprintf(format, args...))
}

// Configuration returns an ErrConfiguration annotated with a reason.
func Configuration(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}
