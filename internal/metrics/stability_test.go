package metrics

import (
	"math"
	"testing"

	. "github.com/onsi/gomega"

	"github.com/san-kum/heliosim/internal/dynamo"
)

func TestStability(t *testing.T) {
	g := NewWithT(t)
	s := NewStability(10)
	g.Expect(s.Name()).To(Equal("stability"))
	g.Expect(s.Value()).To(Equal(1.0))

	s.Observe(0, dynamo.State{R: 1})
	s.Observe(1, dynamo.State{R: 9.5})
	g.Expect(s.Value()).To(Equal(1.0))

	s.Observe(2, dynamo.State{R: 12})
	s.Observe(3, dynamo.State{R: -1})
	g.Expect(s.Value()).To(Equal(0.5))

	s.Reset()
	g.Expect(s.Value()).To(Equal(1.0))

	s.Observe(0, dynamo.State{R: math.NaN()})
	s.Observe(1, dynamo.State{R: 1})
	g.Expect(s.Value()).To(Equal(0.5))
}
