package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.System != "lorenz" {
		t.Errorf("expected system lorenz, got %s", cfg.System)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if cfg.Fit.Threshold <= 0 {
		t.Error("threshold should be positive")
	}
	if cfg.Fit.MaxIter <= 0 {
		t.Error("max_iter should be positive")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.System = "vanderpol"
	cfg.Optimizer = "admm"
	cfg.Fit.Threshold = 0.07
	cfg.InitState = []float64{2, 0}
	cfg.Params = map[string]float64{"mu": 3.5}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.System != "vanderpol" || loaded.Optimizer != "admm" {
		t.Errorf("round trip lost system/optimizer: %+v", loaded)
	}
	if loaded.Fit.Threshold != 0.07 {
		t.Errorf("threshold = %v, want 0.07", loaded.Fit.Threshold)
	}
	if len(loaded.InitState) != 2 || loaded.InitState[0] != 2 {
		t.Errorf("init_state = %v, want [2 0]", loaded.InitState)
	}
	if loaded.Params["mu"] != 3.5 {
		t.Errorf("params = %v, want mu 3.5", loaded.Params)
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	// A sparse file should inherit everything it does not mention.
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("system: duffing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.System != "duffing" {
		t.Errorf("system = %s, want duffing", cfg.System)
	}
	if cfg.Dt != DefaultDt || cfg.Fit.MaxIter != DefaultMaxIter {
		t.Errorf("defaults not applied: dt=%v max_iter=%d", cfg.Dt, cfg.Fit.MaxIter)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("lorenz", "quick")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Fit.Threshold != 0.1 {
		t.Errorf("expected threshold 0.1, got %f", cfg.Fit.Threshold)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("lorenz", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "quick"); cfg != nil {
		t.Error("expected nil for nonexistent system")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("lorenz")
	if len(presets) == 0 {
		t.Error("expected presets for lorenz")
	}

	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent system")
	}
}

func TestPresetsAreConsistent(t *testing.T) {
	for system, presets := range Presets {
		for name, cfg := range presets {
			if cfg.System != system {
				t.Errorf("preset %s/%s names system %q", system, name, cfg.System)
			}
			if cfg.Dt <= 0 || cfg.Duration <= 0 {
				t.Errorf("preset %s/%s has non-positive dt/duration", system, name)
			}
			if cfg.Fit.MaxIter <= 0 {
				t.Errorf("preset %s/%s has non-positive max_iter", system, name)
			}
		}
	}
}
