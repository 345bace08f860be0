package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/clothsim/internal/cloth"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ResX < 2 || cfg.ResY < 2 {
		t.Error("default resolution is degenerate")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}

	// The defaults must produce a buildable cloth.
	if _, err := cloth.New(cfg.ClothConfig()); err != nil {
		t.Errorf("default cloth config invalid: %v", err)
	}
	if err := cfg.Params().Validate(); err != nil {
		t.Errorf("default params invalid: %v", err)
	}
}

func TestPresetsBuildable(t *testing.T) {
	for name, cfg := range Presets {
		t.Run(name, func(t *testing.T) {
			if _, err := cloth.New(cfg.ClothConfig()); err != nil {
				t.Errorf("preset %s: %v", name, err)
			}
			if err := cfg.Params().Validate(); err != nil {
				t.Errorf("preset %s params: %v", name, err)
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("banner")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Driven != cloth.DrivenNone {
		t.Errorf("banner driven = %d, want DrivenNone", cfg.Driven)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Errorf("listed %d presets, want %d", len(names), len(Presets))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cloth.yaml")

	cfg := DefaultConfig()
	cfg.ResX = 12
	cfg.Iterations = 7
	cfg.GravityEnabled = false
	cfg.Probes = []int{5, 10}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ResX != 12 {
		t.Errorf("res_x = %d, want 12", loaded.ResX)
	}
	if loaded.Iterations != 7 {
		t.Errorf("iterations = %d, want 7", loaded.Iterations)
	}
	if loaded.GravityEnabled {
		t.Error("gravity_enabled should round-trip false")
	}
	if len(loaded.Probes) != 2 || loaded.Probes[0] != 5 {
		t.Errorf("probes = %v, want [5 10]", loaded.Probes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
