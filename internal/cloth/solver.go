package cloth

import (
	"fmt"
	"math"
)

// degenerateDist guards the constraint direction against division by
// zero: a pair closer than this is skipped for the iteration.
const degenerateDist = 1e-4

// Params are the runtime tunables, read at the start of every tick.
// Callers may change them between ticks; a tick never reconfigures
// itself mid-flight.
type Params struct {
	Gravity        float64 // magnitude, applied along -Y
	GravityEnabled bool
	Damping        float64 // velocity scale per tick, 0..1
	Iterations     int     // constraint projection passes per tick
	Amplitude      float64 // driven vertex wave amplitude
	Frequency      float64 // driven vertex wave frequency, rad/s
}

func DefaultParams() Params {
	return Params{
		Gravity:        9.81,
		GravityEnabled: true,
		Damping:        0.99,
		Iterations:     10,
		Amplitude:      0.5,
		Frequency:      3.0,
	}
}

func (p Params) Validate() error {
	if p.Iterations < 0 {
		return fmt.Errorf("%w: iterations must be non-negative, got %d", ErrInvalidConfig, p.Iterations)
	}
	if p.Damping < 0 || p.Damping > 1 {
		return fmt.Errorf("%w: damping must be in [0,1], got %g", ErrInvalidConfig, p.Damping)
	}
	return nil
}

// Step advances one tick with the configured fixed timestep.
func (c *Cloth) Step(p Params) {
	c.StepDt(p, c.cfg.Dt)
}

// StepDt advances one tick with an explicit timestep override. The four
// stages run strictly in order; each stage's output feeds the next.
func (c *Cloth) StepDt(p Params, dt float64) {
	c.predict(p, dt)
	for i := 0; i < p.Iterations; i++ {
		c.project()
	}
	c.integrate(p, dt)
	c.time += dt
	c.drive(p)
}

// predict applies gravity to velocities and writes the predicted
// positions. Pinned vertices predict in place. Per-vertex and
// order-independent; current positions stay untouched.
func (c *Cloth) predict(p Params, dt float64) {
	for i := range c.pos {
		if c.invMass[i] == 0 {
			c.pred[i] = c.pos[i]
			continue
		}
		if p.GravityEnabled {
			c.vel[i].Y -= p.Gravity * dt
		}
		c.pred[i] = c.pos[i].Add(c.vel[i].Scale(dt))
	}
}

// project runs one Gauss-Seidel pass over all constraints in generation
// order. Each correction is weighted by inverse mass, so a pinned
// endpoint absorbs none of it.
func (c *Cloth) project() {
	for _, con := range c.constraints {
		wa, wb := c.invMass[con.A], c.invMass[con.B]
		wsum := wa + wb
		if wsum == 0 {
			continue
		}

		delta := c.pred[con.B].Sub(c.pred[con.A])
		dist := delta.Length()
		if dist < degenerateDist {
			continue
		}

		lambda := (dist - con.Rest) / wsum
		correction := delta.Scale(lambda / dist)

		c.pred[con.A] = c.pred[con.A].Add(correction.Scale(wa))
		c.pred[con.B] = c.pred[con.B].Sub(correction.Scale(wb))
	}
}

// integrate derives velocities from the accepted position change, damps
// them, and commits the predicted positions. Pinned vertices keep zero
// velocity and never move.
func (c *Cloth) integrate(p Params, dt float64) {
	for i := range c.pos {
		if c.invMass[i] == 0 {
			continue
		}
		c.vel[i] = c.pred[i].Sub(c.pos[i]).Scale(1 / dt).Scale(p.Damping)
		c.pos[i] = c.pred[i]
	}
}

// drive overrides the driven vertex after integration: its Y follows the
// wave exactly regardless of what the physics produced, and its velocity
// is cleared so the override does not inject momentum.
func (c *Cloth) drive(p Params) {
	if c.driven < 0 {
		return
	}
	c.pos[c.driven].Y = p.Amplitude * math.Sin(p.Frequency*c.time)
	c.vel[c.driven] = Vec3{}
}
