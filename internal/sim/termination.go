package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/physics"
)

// Termination decides when a run stops. Done is consulted before every
// step with the current simulated time and state.
type Termination interface {
	Done(t float64, x, x0 dynamo.State) bool
	String() string
}

// FixedDuration stops once simulated time reaches Total normalized units.
type FixedDuration struct {
	Total float64
}

func (f FixedDuration) Done(t float64, x, x0 dynamo.State) bool {
	// relative slack absorbs rounding between n*h and Total
	return t >= f.Total-1e-12*math.Abs(f.Total)
}

func (f FixedDuration) String() string {
	return fmt.Sprintf("fixed-duration(%g)", f.Total)
}

// FullRevolution stops once theta has advanced by 2*pi.
type FullRevolution struct{}

func (FullRevolution) Done(t float64, x, x0 dynamo.State) bool {
	return x.Theta-x0.Theta >= 2*math.Pi
}

func (FullRevolution) String() string { return "full-revolution" }

// ForDays converts a calendar-day count to a FixedDuration.
func ForDays(c physics.Constants, days float64) FixedDuration {
	return FixedDuration{Total: c.DaysToUnits(days)}
}

// ParseTermination maps "revolution" or "days" onto a policy.
func ParseTermination(name string, c physics.Constants, days float64) (Termination, error) {
	switch name {
	case "revolution", "full-revolution", "":
		return FullRevolution{}, nil
	case "days", "fixed", "fixed-duration":
		if !(days > 0) {
			return nil, dynamo.Configuration("fixed duration needs a positive day count, got %g", days)
		}
		return ForDays(c, days), nil
	default:
		return nil, dynamo.Configuration("unknown termination %q", name)
	}
}
