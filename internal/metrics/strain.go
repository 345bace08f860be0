// Package metrics provides per-run scalar metrics over a cloth
// simulation: constraint strain, stretch, kinetic energy and stability.
package metrics

import (
	"math"

	"github.com/san-kum/clothsim/internal/cloth"
)

// MeanStrain averages the relative constraint strain |d-L|/L over every
// constraint and every observed tick. Lower means stiffer cloth.
type MeanStrain struct {
	total   float64
	samples int
}

func NewMeanStrain() *MeanStrain { return &MeanStrain{} }

func (m *MeanStrain) Name() string { return "mean_strain" }

func (m *MeanStrain) Observe(c *cloth.Cloth, t float64) {
	cons := c.Constraints()
	if len(cons) == 0 {
		return
	}
	pos := c.Positions()
	sum := 0.0
	for _, con := range cons {
		d := cloth.Dist(pos[con.A], pos[con.B])
		sum += math.Abs(d-con.Rest) / con.Rest
	}
	m.total += sum / float64(len(cons))
	m.samples++
}

func (m *MeanStrain) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.total / float64(m.samples)
}

func (m *MeanStrain) Reset() {
	m.total = 0
	m.samples = 0
}

// MaxStretch tracks the worst stretch ratio d/L seen across the run.
// 1.0 means no edge ever exceeded its rest length.
type MaxStretch struct {
	max float64
}

func NewMaxStretch() *MaxStretch { return &MaxStretch{} }

func (m *MaxStretch) Name() string { return "max_stretch" }

func (m *MaxStretch) Observe(c *cloth.Cloth, t float64) {
	pos := c.Positions()
	for _, con := range c.Constraints() {
		if ratio := cloth.Dist(pos[con.A], pos[con.B]) / con.Rest; ratio > m.max {
			m.max = ratio
		}
	}
}

func (m *MaxStretch) Value() float64 { return m.max }

func (m *MaxStretch) Reset() { m.max = 0 }

// InstantMeanStrain computes the current mean strain of a cloth without
// accumulating; the live view charts it per frame.
func InstantMeanStrain(c *cloth.Cloth) float64 {
	cons := c.Constraints()
	if len(cons) == 0 {
		return 0
	}
	pos := c.Positions()
	sum := 0.0
	for _, con := range cons {
		d := cloth.Dist(pos[con.A], pos[con.B])
		sum += math.Abs(d-con.Rest) / con.Rest
	}
	return sum / float64(len(cons))
}
