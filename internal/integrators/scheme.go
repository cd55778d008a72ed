package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/heliosim/internal/dynamo"
)

// Scheme names one of the supported stepping schemes.
type Scheme string

const (
	SchemeExplicitEuler     Scheme = "explicit-euler"
	SchemeSemiImplicitEuler Scheme = "semi-implicit-euler"
	SchemeRK4               Scheme = "rk4"
)

// Schemes lists every supported scheme, reference scheme last.
func Schemes() []Scheme {
	return []Scheme{SchemeExplicitEuler, SchemeSemiImplicitEuler, SchemeRK4}
}

var aliases = map[string]Scheme{
	"euler":               SchemeExplicitEuler,
	"explicit-euler":      SchemeExplicitEuler,
	"semi-implicit-euler": SchemeSemiImplicitEuler,
	"symplectic":          SchemeSemiImplicitEuler,
	"symplectic-euler":    SchemeSemiImplicitEuler,
	"cromer":              SchemeSemiImplicitEuler,
	"rk4":                 SchemeRK4,
	"runge-kutta":         SchemeRK4,
}

func ParseScheme(name string) (Scheme, error) {
	s, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", fmt.Errorf("%w: %q", dynamo.ErrUnknownScheme, name)
	}
	return s, nil
}

func (s Scheme) String() string { return string(s) }

// Label is a human readable name for tables and plots.
func (s Scheme) Label() string {
	switch s {
	case SchemeExplicitEuler:
		return "Explicit Euler"
	case SchemeSemiImplicitEuler:
		return "Semi-implicit Euler"
	case SchemeRK4:
		return "RK4 (reference)"
	default:
		return string(s)
	}
}

// New returns the integrator implementing s.
func New(s Scheme) (dynamo.Integrator, error) {
	switch s {
	case SchemeExplicitEuler:
		return NewEuler(), nil
	case SchemeSemiImplicitEuler:
		return NewSymplecticEuler(), nil
	case SchemeRK4:
		return NewRK4(), nil
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownScheme, string(s))
	}
}

// Step advances x by one increment h under scheme s.
func Step(s Scheme, sys dynamo.System, t float64, x dynamo.State, h float64) (dynamo.State, error) {
	integ, err := New(s)
	if err != nil {
		return dynamo.State{}, err
	}
	return integ.Step(sys, t, x, h)
}
