package cloth

import (
	"math"
	"testing"
)

func TestPinnedCornersNeverMove(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	corners := []int{0, 3, 12, 15}
	before := make([]Vec3, len(corners))
	for i, idx := range corners {
		before[i] = c.Positions()[idx]
	}

	p := DefaultParams()
	for i := 0; i < 200; i++ {
		c.Step(p)
	}

	for i, idx := range corners {
		if got := c.Positions()[idx]; got != before[i] {
			t.Errorf("corner %d moved from %v to %v", idx, before[i], got)
		}
		if v := c.Velocities()[idx]; v != (Vec3{}) {
			t.Errorf("corner %d has velocity %v, want zero", idx, v)
		}
	}
}

func TestRestStateIsFixedPoint(t *testing.T) {
	cfg := testConfig()
	cfg.Driven = DrivenNone
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	before := make([]Vec3, c.VertexCount())
	copy(before, c.Positions())

	p := DefaultParams()
	p.GravityEnabled = false
	for i := 0; i < 100; i++ {
		c.Step(p)
	}

	for i, want := range before {
		if got := c.Positions()[i]; got != want {
			t.Errorf("vertex %d drifted from %v to %v at rest", i, want, got)
		}
	}
}

func TestZeroIterationsSkipsProjection(t *testing.T) {
	cfg := testConfig()
	cfg.Driven = DrivenNone
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	p := DefaultParams()
	p.Iterations = 0
	p.Damping = 1.0
	c.Step(p)

	// With no projection a free vertex integrates gravity only:
	// v.y = -g*dt, y = -g*dt^2.
	dt := cfg.Dt
	wantY := -p.Gravity * dt * dt
	for i, pos := range c.Positions() {
		if c.InvMasses()[i] == 0 {
			continue
		}
		if math.Abs(pos.Y-wantY) > 1e-15 {
			t.Errorf("vertex %d y = %g, want %g", i, pos.Y, wantY)
		}
	}
}

func TestProjectionConvergesMonotonically(t *testing.T) {
	// An isolated constraint with two free endpoints: one pass must move
	// the distance strictly closer to the rest length.
	c := &Cloth{
		pos:         []Vec3{{0, 0, 0}, {2, 0, 0}},
		pred:        []Vec3{{0, 0, 0}, {2, 0, 0}},
		vel:         make([]Vec3, 2),
		invMass:     []float64{1, 1},
		constraints: []Constraint{{A: 0, B: 1, Rest: 1.0}},
	}

	before := Dist(c.pred[0], c.pred[1])
	c.project()
	after := Dist(c.pred[0], c.pred[1])

	if math.Abs(after-1.0) >= math.Abs(before-1.0) {
		t.Errorf("distance error grew: before %f, after %f", before, after)
	}
	// Equal inverse masses split the correction symmetrically.
	if math.Abs(c.pred[0].X-0.5) > 1e-12 || math.Abs(c.pred[1].X-1.5) > 1e-12 {
		t.Errorf("asymmetric correction: %v, %v", c.pred[0], c.pred[1])
	}
}

func TestProjectionWeightsByInverseMass(t *testing.T) {
	c := &Cloth{
		pred:        []Vec3{{0, 0, 0}, {2, 0, 0}},
		invMass:     []float64{0, 1}, // A pinned
		constraints: []Constraint{{A: 0, B: 1, Rest: 1.0}},
	}

	c.project()

	if c.pred[0] != (Vec3{}) {
		t.Errorf("pinned endpoint moved to %v", c.pred[0])
	}
	if math.Abs(c.pred[1].X-1.0) > 1e-12 {
		t.Errorf("free endpoint at %v, want x=1.0", c.pred[1])
	}
}

func TestProjectionSkipsDegeneratePair(t *testing.T) {
	c := &Cloth{
		pred:        []Vec3{{1, 1, 1}, {1, 1, 1}},
		invMass:     []float64{1, 1},
		constraints: []Constraint{{A: 0, B: 1, Rest: 1.0}},
	}

	c.project()

	for i, p := range c.pred {
		if !p.IsValid() {
			t.Fatalf("pred[%d] = %v after degenerate projection", i, p)
		}
		if p != (Vec3{1, 1, 1}) {
			t.Errorf("pred[%d] moved to %v, want untouched", i, p)
		}
	}
}

func TestProjectionSkipsFullyPinnedPair(t *testing.T) {
	c := &Cloth{
		pred:        []Vec3{{0, 0, 0}, {2, 0, 0}},
		invMass:     []float64{0, 0},
		constraints: []Constraint{{A: 0, B: 1, Rest: 1.0}},
	}

	c.project()

	if c.pred[0] != (Vec3{}) || c.pred[1] != (Vec3{2, 0, 0}) {
		t.Error("projection moved a fully pinned pair")
	}
}

func TestDrivenVertexFollowsWave(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	p := DefaultParams()
	for i := 0; i < 50; i++ {
		c.Step(p)
		want := p.Amplitude * math.Sin(p.Frequency*c.Time())
		got := c.Positions()[c.Driven()].Y
		if got != want {
			t.Fatalf("tick %d: driven y = %g, want %g", i+1, got, want)
		}
		if v := c.Velocities()[c.Driven()]; v != (Vec3{}) {
			t.Fatalf("tick %d: driven velocity = %v, want zero", i+1, v)
		}
	}
}

func TestDampingScalesVelocity(t *testing.T) {
	cfg := testConfig()
	cfg.Driven = DrivenNone
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	p := DefaultParams()
	p.Iterations = 0
	p.Damping = 0.5
	c.Step(p)

	// Velocity derives from the position delta, then damping scales it:
	// v.y = -g*dt * damping for a free, unconstrained vertex.
	want := -p.Gravity * cfg.Dt * p.Damping
	free := 5
	if got := c.Velocities()[free].Y; math.Abs(got-want) > 1e-15 {
		t.Errorf("velocity y = %g, want %g", got, want)
	}
}

func TestMoreIterationsStiffer(t *testing.T) {
	run := func(iterations int) float64 {
		cfg := testConfig()
		cfg.Driven = DrivenNone
		c, err := New(cfg)
		if err != nil {
			t.Fatalf("new failed: %v", err)
		}
		p := DefaultParams()
		p.Iterations = iterations
		for i := 0; i < 120; i++ {
			c.Step(p)
		}
		return meanStrain(c)
	}

	slack := run(1)
	stiff := run(20)
	if stiff >= slack {
		t.Errorf("mean strain with 20 iterations (%f) not below 1 iteration (%f)", stiff, slack)
	}
}

func TestStepDtOverride(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	c.StepDt(DefaultParams(), 0.25)
	if got := c.Time(); got != 0.25 {
		t.Errorf("time = %f, want 0.25", got)
	}
}

func TestReset(t *testing.T) {
	c, err := New(testConfig())
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	p := DefaultParams()
	for i := 0; i < 30; i++ {
		c.Step(p)
	}
	c.Reset()

	if c.Time() != 0 {
		t.Errorf("time = %f after reset, want 0", c.Time())
	}
	for i, pos := range c.Positions() {
		if pos.Y != 0 {
			t.Errorf("vertex %d y = %f after reset, want 0", i, pos.Y)
		}
	}
	for i, v := range c.Velocities() {
		if v != (Vec3{}) {
			t.Errorf("vertex %d velocity = %v after reset, want zero", i, v)
		}
	}
}

func TestStepStaysFinite(t *testing.T) {
	c, err := New(Config{Width: 4, Height: 4, ResX: 12, ResY: 12, Dt: 1.0 / 60.0, Driven: DrivenCenter})
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	p := DefaultParams()
	for i := 0; i < 600; i++ {
		c.Step(p)
	}
	if !c.IsValid() {
		t.Error("positions went non-finite after 600 ticks")
	}
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Params)
		ok   bool
	}{
		{"defaults", func(p *Params) {}, true},
		{"zero iterations", func(p *Params) { p.Iterations = 0 }, true},
		{"negative iterations", func(p *Params) { p.Iterations = -1 }, false},
		{"damping one", func(p *Params) { p.Damping = 1 }, true},
		{"damping negative", func(p *Params) { p.Damping = -0.1 }, false},
		{"damping above one", func(p *Params) { p.Damping = 1.5 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mod(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// meanStrain averages |dist-rest|/rest over all constraints.
func meanStrain(c *Cloth) float64 {
	total := 0.0
	pos := c.Positions()
	for _, con := range c.Constraints() {
		d := Dist(pos[con.A], pos[con.B])
		total += math.Abs(d-con.Rest) / con.Rest
	}
	return total / float64(len(c.Constraints()))
}
