package config

import (
	"os"
	"path/filepath"
	"testing"

	"island-sim/internal/terrain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TerrainSize != 2400 || cfg.TerrainSegments != 50 || cfg.WaterLevel != 8 {
		t.Errorf("terrain defaults = %v/%v/%v", cfg.TerrainSize, cfg.TerrainSegments, cfg.WaterLevel)
	}
	counts := map[string]int{}
	for _, g := range cfg.Groups {
		counts[g.Species] = g.Count
		if g.Name != g.Species {
			t.Errorf("group name %q not defaulted to species", g.Name)
		}
	}
	if counts["shark"] != 12 || counts["pig"] != 36 || counts["bear"] != 1 || counts["boss"] != 1 {
		t.Errorf("group defaults = %v", counts)
	}
	if cfg.FoliageCount != 360 {
		t.Errorf("foliage = %d", cfg.FoliageCount)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestParseOverrides(t *testing.T) {
	doc := []byte(`
seed: 99
terrain_segments: 20
noise:
  amplitude: 60
  kind: Value
  layers:
    - {frequency: 0.002, weight: 1}
    - {frequency: 0.01, weight: 0.25}
groups:
  - species: bear
    count: 4
    chase_scope: agent
  - name: reef
    species: shark
    count: 3
`)
	cfg, err := Parse(doc)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Seed != 99 || cfg.TerrainSegments != 20 || cfg.TerrainSize != 2400 {
		t.Errorf("unexpected cfg %+v", cfg)
	}
	if len(cfg.Groups) != 2 || cfg.Groups[0].ChaseScope != "agent" || cfg.Groups[1].Name != "reef" {
		t.Errorf("groups = %+v", cfg.Groups)
	}

	p := cfg.TerrainParams()
	if p.Kind != terrain.NoiseValue || len(p.Layers) != 2 || p.Layers[1].Weight != 0.25 || p.Amplitude != 60 {
		t.Errorf("terrain params = %+v", p)
	}
}

func TestParseRejects(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "seed: [",
		"zero size":     "terrain_size: 0",
		"bad noise":     "noise: {kind: simplex}",
		"bad scope":     "groups: [{species: bear, count: 1, chase_scope: herd}]",
		"no species":    "groups: [{name: x, count: 1}]",
		"negative":      "groups: [{species: bear, count: -1}]",
		"duplicate":     "groups: [{species: bear, count: 1}, {species: bear, count: 2}]",
		"no footprint":  "shelter: {enabled: true, footprint: 0}",
		"zero segments": "terrain_segments: 0",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, []byte("water_level: 12\ntick_rate_hz: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.WaterLevel != 12 || cfg.TickRateHz != 60 {
		t.Errorf("water %v tick %v", cfg.WaterLevel, cfg.TickRateHz)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestRuntimeSettings(t *testing.T) {
	defer SetFPSLimit(GetFPSLimit())

	SetFPSLimit(-5)
	if GetFPSLimit() != 0 {
		t.Errorf("negative limit not clamped: %d", GetFPSLimit())
	}
	SetFPSLimit(5000)
	if GetFPSLimit() != 1000 {
		t.Errorf("large limit not clamped: %d", GetFPSLimit())
	}

	before := GetDebugOverlay()
	if ToggleDebugOverlay() == before || GetDebugOverlay() == before {
		t.Error("toggle did not flip the overlay")
	}
	ToggleDebugOverlay()
}
