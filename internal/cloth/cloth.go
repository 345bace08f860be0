// Package cloth implements a position-based dynamics cloth: a regular
// grid of unit-mass vertices joined by structural distance constraints,
// with the four corners pinned and one vertex driven by a sine wave.
//
// Topology (triangle indices, constraints, rest lengths, inverse masses)
// is fixed at construction; per-tick stepping mutates only positions,
// velocities and the predicted-position scratch buffer.
package cloth

// Cloth owns the simulation buffers. A renderer may read Positions and
// Indices between ticks; it must never write them.
type Cloth struct {
	cfg Config

	pos     []Vec3
	vel     []Vec3
	pred    []Vec3 // solver scratch, valid only inside Step
	invMass []float64

	constraints []Constraint
	indices     []uint32

	driven int // resolved vertex index, -1 when disabled
	time   float64
}

// New validates cfg and builds the mesh, constraints and mass layout.
// Setup either fully succeeds or returns an error; there is no partial
// simulation state.
func New(cfg Config) (*Cloth, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pos := buildGrid(cfg)
	n := len(pos)

	return &Cloth{
		cfg:         cfg,
		pos:         pos,
		vel:         make([]Vec3, n),
		pred:        make([]Vec3, n),
		invMass:     buildInvMass(cfg),
		constraints: buildConstraints(cfg, pos),
		indices:     buildIndices(cfg),
		driven:      cfg.resolveDriven(),
	}, nil
}

func (c *Cloth) Config() Config { return c.cfg }

// Time is the accumulated simulation time, advanced by dt each tick.
func (c *Cloth) Time() float64 { return c.time }

// Driven reports the resolved driven vertex index, or -1 when disabled.
func (c *Cloth) Driven() int { return c.driven }

func (c *Cloth) VertexCount() int   { return len(c.pos) }
func (c *Cloth) TriangleCount() int { return len(c.indices) / 3 }

// Positions exposes the live position buffer. Read-only for callers.
func (c *Cloth) Positions() []Vec3 { return c.pos }

// Velocities exposes the live velocity buffer. Read-only for callers.
func (c *Cloth) Velocities() []Vec3 { return c.vel }

// InvMasses exposes the per-vertex inverse masses (0 = pinned).
func (c *Cloth) InvMasses() []float64 { return c.invMass }

// Constraints exposes the structural constraints in generation order.
func (c *Cloth) Constraints() []Constraint { return c.constraints }

// Indices exposes the triangle index buffer, fixed for the mesh lifetime.
func (c *Cloth) Indices() []uint32 { return c.indices }

// PackPositions flattens the position buffer into dst as x,y,z triples,
// the layout a renderer uploads directly. dst is grown as needed.
func (c *Cloth) PackPositions(dst []float32) []float32 {
	need := 3 * len(c.pos)
	if cap(dst) < need {
		dst = make([]float32, need)
	}
	dst = dst[:need]
	for i, p := range c.pos {
		dst[3*i] = float32(p.X)
		dst[3*i+1] = float32(p.Y)
		dst[3*i+2] = float32(p.Z)
	}
	return dst
}

// Reset restores the undeformed grid, zero velocities and t=0.
func (c *Cloth) Reset() {
	copy(c.pos, buildGrid(c.cfg))
	for i := range c.vel {
		c.vel[i] = Vec3{}
	}
	c.time = 0
}

// IsValid reports whether every position is finite.
func (c *Cloth) IsValid() bool {
	for _, p := range c.pos {
		if !p.IsValid() {
			return false
		}
	}
	return true
}
