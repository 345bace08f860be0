package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
)

// Stability reports the fraction of observed ticks where every vertex
// stayed finite and within threshold of the origin. 1.0 is a run that
// never misbehaved.
type Stability struct {
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{threshold: threshold}
}

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(c *cloth.Cloth, t float64) {
	s.samples++
	for _, p := range c.Positions() {
		if !p.IsValid() || math.Abs(p.X) > s.threshold || math.Abs(p.Y) > s.threshold || math.Abs(p.Z) > s.threshold {
			s.violations++
			return
		}
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
