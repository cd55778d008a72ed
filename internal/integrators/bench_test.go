package integrators

import (
	"testing"

	"github.com/san-kum/heliosim/internal/dynamo"
	"github.com/san-kum/heliosim/internal/physics"
)

func benchmarkScheme(b *testing.B, s Scheme) {
	integ, err := New(s)
	if err != nil {
		b.Fatal(err)
	}
	dyn := &physics.Kepler{L: 1, K: -0.98}
	x := dynamo.State{Theta: 0, R: 1, V: 0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x, err = integ.Step(dyn, 0, x, 0.01)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEuler(b *testing.B) {
	benchmarkScheme(b, SchemeExplicitEuler)
}

func BenchmarkSymplecticEuler(b *testing.B) {
	benchmarkScheme(b, SchemeSemiImplicitEuler)
}

func BenchmarkRK4(b *testing.B) {
	benchmarkScheme(b, SchemeRK4)
}
