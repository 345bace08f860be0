package sim

import (
	"context"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
)

func testCloth(t *testing.T) *cloth.Cloth {
	t.Helper()
	c, err := cloth.New(cloth.Config{
		Width: 3, Height: 3, ResX: 4, ResY: 4, Dt: 0.01, Driven: cloth.DrivenCenter,
	})
	if err != nil {
		t.Fatalf("cloth setup failed: %v", err)
	}
	return c
}

type countMetric struct {
	count int
}

func (m *countMetric) Name() string                      { return "count" }
func (m *countMetric) Observe(c *cloth.Cloth, t float64) { m.count++ }
func (m *countMetric) Value() float64                    { return float64(m.count) }
func (m *countMetric) Reset()                            { m.count = 0 }

type countObserver struct {
	ticks int
}

func (o *countObserver) OnTick(c *cloth.Cloth, t float64) { o.ticks++ }

func TestRunnerRun(t *testing.T) {
	r := New(testCloth(t), cloth.DefaultParams())

	metric := &countMetric{}
	r.AddMetric(metric)
	obs := &countObserver{}
	r.AddObserver(obs)

	cfg := Config{Duration: 1.0, Probes: []int{5}}
	result, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 100 {
		t.Errorf("ticks = %d, want 100", result.Ticks)
	}
	if metric.count != 100 {
		t.Errorf("metric observations = %d, want 100", metric.count)
	}
	if obs.ticks != 100 {
		t.Errorf("observer ticks = %d, want 100", obs.ticks)
	}
	if len(result.Frames) != 100 {
		t.Errorf("frames = %d, want 100", len(result.Frames))
	}
	if len(result.Frames[0]) != 3 {
		t.Errorf("frame width = %d, want 3 (one probe)", len(result.Frames[0]))
	}
	if _, ok := result.Metrics["count"]; !ok {
		t.Error("metric missing from result")
	}
}

func TestRunnerSampling(t *testing.T) {
	r := New(testCloth(t), cloth.DefaultParams())

	cfg := Config{Duration: 1.0, SampleEvery: 10, Probes: []int{1, 2}}
	result, err := r.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 10 {
		t.Errorf("frames = %d, want 10", len(result.Frames))
	}
	if len(result.Frames[0]) != 6 {
		t.Errorf("frame width = %d, want 6 (two probes)", len(result.Frames[0]))
	}
}

func TestRunnerInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    Config
		params cloth.Params
	}{
		{"zero duration", Config{Duration: 0}, cloth.DefaultParams()},
		{"negative duration", Config{Duration: -1}, cloth.DefaultParams()},
		{"probe out of range", Config{Duration: 1, Probes: []int{99}}, cloth.DefaultParams()},
		{"negative iterations", Config{Duration: 1}, cloth.Params{Iterations: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testCloth(t), tt.params)
			if _, err := r.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestRunnerContextCancel(t *testing.T) {
	r := New(testCloth(t), cloth.DefaultParams())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := r.Run(ctx, Config{Duration: 10})
	if err == nil {
		t.Fatal("expected context error")
	}
	if result == nil {
		t.Fatal("expected partial result")
	}
	if result.Ticks != 0 {
		t.Errorf("ticks = %d after immediate cancel, want 0", result.Ticks)
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	r := New(testCloth(t), cloth.DefaultParams())

	calls := 0
	err := r.RunWithCallback(context.Background(), Config{Duration: 10}, func(c *cloth.Cloth, t float64) bool {
		calls++
		return calls < 5
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 5 {
		t.Errorf("callback ran %d times, want 5", calls)
	}
}

func TestSetParamsPickedUpNextTick(t *testing.T) {
	r := New(testCloth(t), cloth.DefaultParams())

	// Disable gravity between ticks; the next tick must use it.
	p := r.Params()
	p.GravityEnabled = false
	p.Amplitude = 0
	r.SetParams(p)

	if r.Params().GravityEnabled {
		t.Error("params not swapped")
	}

	err := r.RunWithCallback(context.Background(), Config{Duration: 0.1}, func(c *cloth.Cloth, t float64) bool {
		return true
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
}
