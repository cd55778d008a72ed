package metrics

import (
	"github.com/san-kum/heliosim/internal/dynamo"
)

// Stability is the fraction of samples whose radius stayed inside
// (0, threshold]. An escaping or collapsing orbit drives it below one.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, x dynamo.State) {
	s.samples++
	if !x.IsValid() || x.R <= 0 || x.R > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
