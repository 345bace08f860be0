package metrics

import "github.com/san-kum/clothsim/internal/cloth"

// Kinetic averages the cloth's kinetic energy over the run. Pinned
// vertices carry no energy; free vertices have unit mass, so the sum is
// 0.5*|v|^2 per vertex.
type Kinetic struct {
	total   float64
	samples int
}

func NewKinetic() *Kinetic { return &Kinetic{} }

func (k *Kinetic) Name() string { return "kinetic_energy" }

func (k *Kinetic) Observe(c *cloth.Cloth, t float64) {
	invMass := c.InvMasses()
	energy := 0.0
	for i, v := range c.Velocities() {
		if invMass[i] == 0 {
			continue
		}
		energy += 0.5 * v.Dot(v)
	}
	k.total += energy
	k.samples++
}

func (k *Kinetic) Value() float64 {
	if k.samples == 0 {
		return 0
	}
	return k.total / float64(k.samples)
}

func (k *Kinetic) Reset() {
	k.total = 0
	k.samples = 0
}
