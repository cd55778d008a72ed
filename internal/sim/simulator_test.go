package sim

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/integrators"
	"github.com/san-kum/heliosim/internal/metrics"
	"github.com/san-kum/heliosim/internal/physics"
)

var periapsis = dynamo.State{Theta: 0, R: 1, V: 0}

func earth(t *testing.T) physics.Constants {
	t.Helper()
	c, err := physics.NewConstants(physics.EarthParams())
	if err != nil {
		t.Fatalf("NewConstants: %v", err)
	}
	return c
}

func circular() physics.Constants {
	return physics.Constants{
		L:                 1,
		K:                 -1,
		PeriapsisDistance: 1,
		ReferenceVelocity: 1,
		AstronomicalUnit:  1,
		H:                 0.01,
	}
}

func TestRK4CircularRoundTrip(t *testing.T) {
	c := circular()
	res, err := Integrate(context.Background(), integrators.SchemeRK4, periapsis, c, FullRevolution{})
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	if res.MaxEnergyError >= 1e-6 {
		t.Errorf("max energy error = %g, want < 1e-6", res.MaxEnergyError)
	}

	dyn := &physics.Kepler{L: c.L, K: c.K}
	want, err := dyn.Eccentricity(periapsis)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Eccentricity-want) > 1e-9 {
		t.Errorf("eccentricity = %g, want %g", res.Eccentricity, want)
	}

	// theta advances by exactly h per step on the circle
	if n := res.Len(); n != 629 {
		t.Errorf("samples = %d, want 629", n)
	}
}

func TestEarthFullRevolution(t *testing.T) {
	c := earth(t)
	res, err := Integrate(context.Background(), integrators.SchemeRK4, periapsis, c, FullRevolution{})
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	if n := res.Len(); n < 360 || n > 370 {
		t.Errorf("samples = %d, want about one per day of a year", n)
	}
	if days := res.Days(); days < 364 || days > 366 {
		t.Errorf("duration = %.2f days, want about 365", days)
	}

	want, err := physics.NewKepler(c).Eccentricity(periapsis)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Eccentricity-want) > 1e-5 {
		t.Errorf("eccentricity = %.8f, want %.8f", res.Eccentricity, want)
	}
	if res.MaxEnergyError >= 1e-6 {
		t.Errorf("RK4 max energy error = %g, want < 1e-6", res.MaxEnergyError)
	}

	first := res.Samples[0]
	wantX := c.RadiusAU(1)
	if first.X != wantX || first.Y != 0 {
		t.Errorf("first sample at (%f, %f), want (%f, 0)", first.X, first.Y, wantX)
	}
	if first.EnergyError != 0 {
		t.Errorf("first sample energy error = %g, want 0", first.EnergyError)
	}
}

func TestSamplesAreTakenBeforeStepping(t *testing.T) {
	c := earth(t)
	res, err := Integrate(context.Background(), integrators.SchemeExplicitEuler, periapsis, c, ForDays(c, 10))
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	if res.Len() != 10 || res.StepsTaken != 10 {
		t.Fatalf("samples = %d, steps = %d, want 10 and 10", res.Len(), res.StepsTaken)
	}
	for i, s := range res.Samples {
		if s.Step != i {
			t.Errorf("sample %d has step %d", i, s.Step)
		}
		if want := float64(i) * c.H; s.Time != want {
			t.Errorf("sample %d time = %g, want %g", i, s.Time, want)
		}
	}
	if res.Samples[0].State != periapsis {
		t.Errorf("first sample = %v, want initial state", res.Samples[0].State)
	}
	if res.FinalState == res.Samples[len(res.Samples)-1].State {
		t.Error("final state should be the post-step state, not the last sample")
	}
}

func TestForDaysTakesOneSamplePerDay(t *testing.T) {
	c := earth(t)
	for _, days := range []float64{1, 365, 400} {
		res, err := Integrate(context.Background(), integrators.SchemeRK4, periapsis, c, ForDays(c, days))
		if err != nil {
			t.Fatalf("Integrate(%g days): %v", days, err)
		}
		if res.Len() != int(days) {
			t.Errorf("%g days: samples = %d, want %d", days, res.Len(), int(days))
		}
	}
}

func TestThetaNonDecreasing(t *testing.T) {
	c := earth(t)
	for _, scheme := range integrators.Schemes() {
		t.Run(scheme.String(), func(t *testing.T) {
			res, err := Integrate(context.Background(), scheme, periapsis, c, ForDays(c, 730))
			if err != nil {
				t.Fatalf("Integrate: %v", err)
			}
			for i := 1; i < res.Len(); i++ {
				if res.Samples[i].State.Theta < res.Samples[i-1].State.Theta {
					t.Fatalf("theta decreased at sample %d", i)
				}
			}
		})
	}
}

func periodMaxima(errs []float64, period int) []float64 {
	var out []float64
	for start := 0; start+period <= len(errs); start += period {
		m := 0.0
		for _, e := range errs[start : start+period] {
			m = math.Max(m, e)
		}
		out = append(out, m)
	}
	return out
}

func TestExplicitEulerEnergyGrows(t *testing.T) {
	c := earth(t)
	res, err := Integrate(context.Background(), integrators.SchemeExplicitEuler, periapsis, c, ForDays(c, 6*365))
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	maxima := periodMaxima(res.EnergyErrors(), 365)
	if len(maxima) != 6 {
		t.Fatalf("periods = %d, want 6", len(maxima))
	}
	for i := 1; i < len(maxima); i++ {
		if maxima[i] <= maxima[i-1] {
			t.Errorf("period %d max error %g did not grow past %g", i, maxima[i], maxima[i-1])
		}
	}
}

func TestSymplecticEulerEnergyBounded(t *testing.T) {
	c := earth(t)
	res, err := Integrate(context.Background(), integrators.SchemeSemiImplicitEuler, periapsis, c, ForDays(c, 10*365))
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	maxima := periodMaxima(res.EnergyErrors(), 365)
	if len(maxima) != 10 {
		t.Fatalf("periods = %d, want 10", len(maxima))
	}
	first, last := maxima[0], maxima[len(maxima)-1]
	if last > 2*first+1e-9 {
		t.Errorf("last period max error %g grew past twice the first %g", last, first)
	}
	if res.MaxEnergyError >= 1e-3 {
		t.Errorf("max energy error = %g, want < 1e-3", res.MaxEnergyError)
	}
}

func TestRunRejectsInvalidInitialState(t *testing.T) {
	c := earth(t)
	_, err := Integrate(context.Background(), integrators.SchemeRK4, dynamo.State{R: 0}, c, FullRevolution{})
	if !errors.Is(err, dynamo.ErrNumericalInstability) {
		t.Errorf("error = %v, want ErrNumericalInstability", err)
	}
}

func TestRunReportsFailingStep(t *testing.T) {
	c := circular()
	c.H = 1
	x0 := dynamo.State{R: 1, V: -5}

	_, err := Integrate(context.Background(), integrators.SchemeExplicitEuler, x0, c, ForDays(c, 100))
	if !errors.Is(err, dynamo.ErrNumericalInstability) {
		t.Fatalf("error = %v, want ErrNumericalInstability", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) {
		t.Fatalf("error %v is not a SimulationError", err)
	}
	if simErr.Scheme != "explicit-euler" || simErr.Step != 0 {
		t.Errorf("failure at %s step %d, want explicit-euler step 0", simErr.Scheme, simErr.Step)
	}
	if simErr.State != x0 {
		t.Errorf("failing state = %v, want the pre-step state %v", simErr.State, x0)
	}
}

func TestRunStepLimit(t *testing.T) {
	c := earth(t)
	_, err := Integrate(context.Background(), integrators.SchemeRK4, periapsis, c, FullRevolution{}, WithMaxSteps(10))
	if !errors.Is(err, dynamo.ErrStepLimit) {
		t.Errorf("error = %v, want ErrStepLimit", err)
	}
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Integrate(ctx, integrators.SchemeRK4, periapsis, earth(t), FullRevolution{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

type fakeRecorder struct {
	scheme string
	steps  int
	err    error
	calls  int
}

func (f *fakeRecorder) RecordRun(scheme string, steps int, maxEnergyError float64, elapsed time.Duration, err error) {
	f.scheme, f.steps, f.err = scheme, steps, err
	f.calls++
}

func TestRunNotifiesRecorderAndMetrics(t *testing.T) {
	c := earth(t)
	rec := &fakeRecorder{}
	stab := metrics.NewStability(2)

	res, err := Integrate(context.Background(), integrators.SchemeSemiImplicitEuler, periapsis, c, ForDays(c, 30),
		WithRecorder(rec), WithMetric(stab))
	if err != nil {
		t.Fatalf("Integrate: %v", err)
	}

	if rec.calls != 1 || rec.scheme != "semi-implicit-euler" || rec.steps != 30 || rec.err != nil {
		t.Errorf("recorder saw %+v", rec)
	}
	if got := res.Metrics["stability"]; got != 1 {
		t.Errorf("stability = %v, want 1", got)
	}
}

func TestParseTermination(t *testing.T) {
	c := earth(t)
	if term, err := ParseTermination("revolution", c, 0); err != nil || term.String() != "full-revolution" {
		t.Errorf("revolution: %v, %v", term, err)
	}
	term, err := ParseTermination("days", c, 365)
	if err != nil {
		t.Fatal(err)
	}
	if fd := term.(FixedDuration); math.Abs(fd.Total-365*c.H) > 1e-9 {
		t.Errorf("total = %g, want %g", fd.Total, 365*c.H)
	}
	if _, err := ParseTermination("days", c, 0); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("zero days error = %v", err)
	}
	if _, err := ParseTermination("forever", c, 1); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("unknown termination error = %v", err)
	}
}
