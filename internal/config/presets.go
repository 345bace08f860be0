package config

import "github.com/san-kum/clothsim/internal/cloth"

var Presets = map[string]*Config{
	// Hanging cloth, corners pinned, no oscillator.
	"banner": {
		Width: 3.0, Height: 3.0, ResX: 24, ResY: 24,
		Dt: 1.0 / 60.0, Duration: 10.0,
		Gravity: 9.81, GravityEnabled: true,
		Damping: 0.99, Iterations: 10,
		Driven: cloth.DrivenNone,
	},
	// Center vertex driven hard, gravity off: standing-wave patterns.
	"trampoline": {
		Width: 4.0, Height: 4.0, ResX: 32, ResY: 32,
		Dt: 1.0 / 60.0, Duration: 15.0,
		Gravity: 9.81, GravityEnabled: false,
		Damping: 0.995, Iterations: 12,
		Amplitude: 0.8, Frequency: 4.0,
		Driven: cloth.DrivenCenter,
	},
	// High iteration count: near-inextensible cloth.
	"stiff": {
		Width: 3.0, Height: 3.0, ResX: 24, ResY: 24,
		Dt: 1.0 / 60.0, Duration: 10.0,
		Gravity: 9.81, GravityEnabled: true,
		Damping: 0.99, Iterations: 40,
		Amplitude: 0.3, Frequency: 2.0,
		Driven: cloth.DrivenCenter,
	},
	// Single projection pass: rubbery, stretchy sheet.
	"slack": {
		Width: 3.0, Height: 3.0, ResX: 24, ResY: 24,
		Dt: 1.0 / 60.0, Duration: 10.0,
		Gravity: 9.81, GravityEnabled: true,
		Damping: 0.98, Iterations: 1,
		Amplitude: 0.3, Frequency: 2.0,
		Driven: cloth.DrivenCenter,
	},
	// Everything off: rest-state fixed point, useful as a sanity run.
	"calm": {
		Width: 3.0, Height: 3.0, ResX: 16, ResY: 16,
		Dt: 1.0 / 60.0, Duration: 5.0,
		Gravity: 9.81, GravityEnabled: false,
		Damping: 1.0, Iterations: 5,
		Driven: cloth.DrivenNone,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
