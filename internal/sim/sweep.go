package sim

import (
	"context"
	"math"
	"sync"

	"github.com/san-kum/clothsim/internal/cloth"
)

// SweepPoint is one parameter variant to simulate.
type SweepPoint struct {
	Name   string
	Params cloth.Params
}

// SweepResult pairs a point with its finished metrics.
type SweepResult struct {
	Name    string
	Params  cloth.Params
	Metrics map[string]float64
	Err     error
}

// Sweep runs every point on its own cloth concurrently. Points are
// independent simulations, so this is the one place parallelism is safe:
// nothing inside a tick is shared.
func Sweep(ctx context.Context, clothCfg cloth.Config, runCfg Config, points []SweepPoint, metricFns func() []Metric) []SweepResult {
	results := make([]SweepResult, len(points))

	var wg sync.WaitGroup
	for i, pt := range points {
		wg.Add(1)
		go func(idx int, pt SweepPoint) {
			defer wg.Done()

			results[idx] = SweepResult{Name: pt.Name, Params: pt.Params}

			c, err := cloth.New(clothCfg)
			if err != nil {
				results[idx].Err = err
				return
			}

			runner := New(c, pt.Params)
			if metricFns != nil {
				for _, m := range metricFns() {
					runner.AddMetric(m)
				}
			}

			res, err := runner.Run(ctx, runCfg)
			if err != nil {
				results[idx].Err = err
				return
			}
			results[idx].Metrics = res.Metrics
		}(i, pt)
	}
	wg.Wait()

	return results
}

// Best returns the sweep result minimizing the named metric, skipping
// failed points. The second return is false when nothing qualified.
func Best(results []SweepResult, metric string) (SweepResult, bool) {
	best := math.Inf(1)
	var winner SweepResult
	found := false
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		v, ok := r.Metrics[metric]
		if !ok {
			continue
		}
		if v < best {
			best = v
			winner = r
			found = true
		}
	}
	return winner, found
}
