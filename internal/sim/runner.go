// Package sim drives a cloth through fixed-dt ticks and fans each frame
// out to metrics, observers and the probe recorder.
package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/clothsim/internal/cloth"
)

// Metric accumulates a scalar over the run.
type Metric interface {
	Name() string
	Observe(c *cloth.Cloth, t float64)
	Value() float64
	Reset()
}

// Observer sees the cloth after every completed tick. Implementations
// must treat the buffers as read-only.
type Observer interface {
	OnTick(c *cloth.Cloth, t float64)
}

// Config controls a single run.
type Config struct {
	Duration      float64
	SampleEvery   int   // record every Nth tick; 0 records every tick
	Probes        []int // vertex indices captured into Result.Frames
	ValidateState bool  // abort when positions go non-finite
}

// Result is what a finished run leaves behind.
type Result struct {
	Times   []float64
	Frames  [][]float64 // x,y,z per probe, per sample
	Metrics map[string]float64
	Ticks   int
	Errors  []error
}

type Runner struct {
	cloth     *cloth.Cloth
	params    cloth.Params
	metrics   []Metric
	observers []Observer
}

func New(c *cloth.Cloth, p cloth.Params) *Runner {
	return &Runner{
		cloth:  c,
		params: p,
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// SetParams swaps the runtime tunables. The solver picks them up at the
// start of the next tick; a tick in flight is never reconfigured.
func (r *Runner) SetParams(p cloth.Params) { r.params = p }

func (r *Runner) Params() cloth.Params { return r.params }
func (r *Runner) Cloth() *cloth.Cloth  { return r.cloth }

func (r *Runner) validate(cfg Config) error {
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if err := r.params.Validate(); err != nil {
		return err
	}
	for _, p := range cfg.Probes {
		if p < 0 || p >= r.cloth.VertexCount() {
			return fmt.Errorf("probe %d out of range (%d vertices)", p, r.cloth.VertexCount())
		}
	}
	return nil
}

// Run advances the cloth for cfg.Duration at the configured dt,
// recording probe positions and feeding metrics each tick.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validate(cfg); err != nil {
		return nil, err
	}

	dt := r.cloth.Config().Dt
	ticks := int(cfg.Duration / dt)
	sample := cfg.SampleEvery
	if sample < 1 {
		sample = 1
	}

	result := &Result{
		Times:   make([]float64, 0, ticks/sample+1),
		Frames:  make([][]float64, 0, ticks/sample+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.cloth.Step(r.params)
		result.Ticks++
		t := r.cloth.Time()

		for _, m := range r.metrics {
			m.Observe(r.cloth, t)
		}
		for _, obs := range r.observers {
			obs.OnTick(r.cloth, t)
		}

		if cfg.ValidateState && !r.cloth.IsValid() {
			result.Errors = append(result.Errors,
				fmt.Errorf("tick %d (t=%.4f): positions went non-finite", i, t))
			break
		}

		if len(cfg.Probes) > 0 && i%sample == 0 {
			result.Times = append(result.Times, t)
			result.Frames = append(result.Frames, captureProbes(r.cloth, cfg.Probes))
		}
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback advances ticks until the duration elapses or the
// callback returns false. The callback sees the cloth between ticks,
// read-only.
func (r *Runner) RunWithCallback(ctx context.Context, cfg Config, callback func(c *cloth.Cloth, t float64) bool) error {
	if err := r.validate(cfg); err != nil {
		return err
	}

	dt := r.cloth.Config().Dt
	ticks := int(cfg.Duration / dt)

	for i := 0; i < ticks; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		r.cloth.Step(r.params)
		if !callback(r.cloth, r.cloth.Time()) {
			return nil
		}

		if cfg.ValidateState && !r.cloth.IsValid() {
			return fmt.Errorf("positions went non-finite at t=%.4f", r.cloth.Time())
		}
	}
	return nil
}

func captureProbes(c *cloth.Cloth, probes []int) []float64 {
	frame := make([]float64, 0, 3*len(probes))
	pos := c.Positions()
	for _, p := range probes {
		frame = append(frame, pos[p].X, pos[p].Y, pos[p].Z)
	}
	return frame
}
