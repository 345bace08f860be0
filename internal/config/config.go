package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/clothsim/internal/cloth"
)

const (
	DefaultWidth      = 3.0
	DefaultHeight     = 3.0
	DefaultResolution = 24
	DefaultDt         = 1.0 / 60.0
	DefaultDuration   = 10.0
	DefaultGravity    = 9.81
	DefaultDamping    = 0.99
	DefaultIterations = 10
	DefaultAmplitude  = 0.5
	DefaultFrequency  = 3.0
)

// Config is the yaml-facing run configuration: mesh setup, solver
// tunables and run bookkeeping in one file.
type Config struct {
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	ResX           int     `yaml:"res_x"`
	ResY           int     `yaml:"res_y"`
	Dt             float64 `yaml:"dt"`
	Duration       float64 `yaml:"duration"`
	Gravity        float64 `yaml:"gravity"`
	GravityEnabled bool    `yaml:"gravity_enabled"`
	Damping        float64 `yaml:"damping"`
	Iterations     int     `yaml:"iterations"`
	Amplitude      float64 `yaml:"amplitude"`
	Frequency      float64 `yaml:"frequency"`
	Driven         int     `yaml:"driven"`  // vertex index, -1 center, -2 none
	Probes         []int   `yaml:"probes"`  // recorded vertex indices; empty = driven vertex
}

func DefaultConfig() *Config {
	return &Config{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		ResX:           DefaultResolution,
		ResY:           DefaultResolution,
		Dt:             DefaultDt,
		Duration:       DefaultDuration,
		Gravity:        DefaultGravity,
		GravityEnabled: true,
		Damping:        DefaultDamping,
		Iterations:     DefaultIterations,
		Amplitude:      DefaultAmplitude,
		Frequency:      DefaultFrequency,
		Driven:         cloth.DrivenCenter,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ClothConfig extracts the immutable setup half.
func (c *Config) ClothConfig() cloth.Config {
	return cloth.Config{
		Width:  c.Width,
		Height: c.Height,
		ResX:   c.ResX,
		ResY:   c.ResY,
		Dt:     c.Dt,
		Driven: c.Driven,
	}
}

// Params extracts the runtime-tunable half.
func (c *Config) Params() cloth.Params {
	return cloth.Params{
		Gravity:        c.Gravity,
		GravityEnabled: c.GravityEnabled,
		Damping:        c.Damping,
		Iterations:     c.Iterations,
		Amplitude:      c.Amplitude,
		Frequency:      c.Frequency,
	}
}
