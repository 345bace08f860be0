package sim

import (
	"context"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
)

func TestSweep(t *testing.T) {
	clothCfg := cloth.Config{Width: 3, Height: 3, ResX: 4, ResY: 4, Dt: 0.01, Driven: cloth.DrivenNone}

	points := make([]SweepPoint, 0, 3)
	for _, iters := range []int{1, 5, 20} {
		p := cloth.DefaultParams()
		p.Iterations = iters
		points = append(points, SweepPoint{Name: "iters", Params: p})
	}

	results := Sweep(context.Background(), clothCfg, Config{Duration: 0.5}, points, func() []Metric {
		return []Metric{&countMetric{}}
	})

	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("point %d failed: %v", i, r.Err)
		}
		if r.Metrics["count"] != 50 {
			t.Errorf("point %d observed %f ticks, want 50", i, r.Metrics["count"])
		}
	}
}

func TestSweepPropagatesSetupErrors(t *testing.T) {
	bad := cloth.Config{Width: 3, Height: 3, ResX: 1, ResY: 4, Dt: 0.01}

	results := Sweep(context.Background(), bad, Config{Duration: 0.5},
		[]SweepPoint{{Name: "only", Params: cloth.DefaultParams()}}, nil)

	if len(results) != 1 || results[0].Err == nil {
		t.Error("expected setup error to surface in sweep result")
	}
}

func TestBest(t *testing.T) {
	results := []SweepResult{
		{Name: "a", Metrics: map[string]float64{"strain": 0.5}},
		{Name: "b", Metrics: map[string]float64{"strain": 0.1}},
		{Name: "c", Err: context.Canceled},
		{Name: "d", Metrics: map[string]float64{"other": 0.0}},
	}

	winner, ok := Best(results, "strain")
	if !ok {
		t.Fatal("expected a winner")
	}
	if winner.Name != "b" {
		t.Errorf("winner = %s, want b", winner.Name)
	}

	if _, ok := Best(nil, "strain"); ok {
		t.Error("expected no winner for empty results")
	}
}
