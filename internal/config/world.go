package config

import (
	"fmt"
	"os"
	"strings"

	"island-sim/internal/terrain"

	"gopkg.in/yaml.v3"
)

// WorldConfig is the world.yaml document.
type WorldConfig struct {
	Seed            int64         `yaml:"seed"`
	TerrainSize     float64       `yaml:"terrain_size"`
	TerrainSegments int           `yaml:"terrain_segments"`
	WaterLevel      float64       `yaml:"water_level"`
	Noise           NoiseConfig   `yaml:"noise"`
	BoundsFraction  float64       `yaml:"bounds_fraction"`
	Shelter         ShelterConfig `yaml:"shelter"`
	Groups          []GroupConfig `yaml:"groups"`
	FoliageCount    int           `yaml:"foliage_count"`
	SpeciesFile     string        `yaml:"species_file,omitempty"`
	TickRateHz      int           `yaml:"tick_rate_hz"`
	LogLevel        string        `yaml:"log_level"`
}

type NoiseConfig struct {
	Amplitude float64       `yaml:"amplitude"`
	Kind      string        `yaml:"kind"`
	Layers    []LayerConfig `yaml:"layers"`
}

type LayerConfig struct {
	Frequency float64 `yaml:"frequency"`
	Weight    float64 `yaml:"weight"`
}

type ShelterConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Footprint float64 `yaml:"footprint"`
	Margin    float64 `yaml:"margin"`
	MaxSlope  float64 `yaml:"max_slope"`
}

// GroupConfig asks for Count agents of Species. ChaseScope is "group" or
// "agent".
type GroupConfig struct {
	Name       string `yaml:"name,omitempty"`
	Species    string `yaml:"species"`
	Count      int    `yaml:"count"`
	ChaseScope string `yaml:"chase_scope,omitempty"`
}

const defaultTrees = 360

// Defaults returns the stock island.
func Defaults() WorldConfig {
	return WorldConfig{
		Seed:            1,
		TerrainSize:     2400,
		TerrainSegments: 50,
		WaterLevel:      8,
		Noise: NoiseConfig{
			Amplitude: 140,
			Kind:      "perlin",
			Layers:    []LayerConfig{{Frequency: 0.001, Weight: 1}},
		},
		BoundsFraction: 0.8,
		Shelter:        ShelterConfig{Enabled: true, Footprint: 100, Margin: 15, MaxSlope: 20},
		Groups: []GroupConfig{
			{Species: "bear", Count: 1},
			{Species: "boss", Count: 1},
			{Species: "wolf", Count: 3},
			{Species: "pig", Count: defaultTrees / 10},
			{Species: "hippo", Count: 2},
			{Species: "shark", Count: 12},
			{Species: "bird", Count: 2},
		},
		FoliageCount: defaultTrees,
		TickRateHz:   60,
		LogLevel:     "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (WorldConfig, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(b)
}

// Parse decodes a YAML document over the defaults.
func Parse(b []byte) (WorldConfig, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("world.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("world.yaml: %w", err)
	}
	return cfg, nil
}

func (c *WorldConfig) Normalize() {
	if c == nil {
		return
	}
	c.Noise.Kind = strings.ToLower(strings.TrimSpace(c.Noise.Kind))
	if len(c.Noise.Layers) == 0 {
		c.Noise.Layers = []LayerConfig{{Frequency: 0.001, Weight: 1}}
	}
	if c.BoundsFraction <= 0 || c.BoundsFraction > 1 {
		c.BoundsFraction = 0.8
	}
	if c.TickRateHz <= 0 {
		c.TickRateHz = 60
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	for i := range c.Groups {
		g := &c.Groups[i]
		g.Species = strings.TrimSpace(g.Species)
		if g.Name == "" {
			g.Name = g.Species
		}
	}
}

func (c WorldConfig) Validate() error {
	if c.TerrainSize <= 0 {
		return fmt.Errorf("terrain_size must be > 0")
	}
	if c.TerrainSegments < 1 {
		return fmt.Errorf("terrain_segments must be >= 1")
	}
	if _, err := terrain.ParseNoiseKind(c.Noise.Kind); err != nil {
		return err
	}
	if c.FoliageCount < 0 {
		return fmt.Errorf("foliage_count must be >= 0")
	}
	if c.Shelter.Enabled && c.Shelter.Footprint <= 0 {
		return fmt.Errorf("shelter footprint must be > 0")
	}
	seen := map[string]bool{}
	for _, g := range c.Groups {
		if g.Species == "" {
			return fmt.Errorf("group %q has no species", g.Name)
		}
		if g.Count < 0 {
			return fmt.Errorf("group %q: negative count", g.Name)
		}
		if seen[g.Name] {
			return fmt.Errorf("duplicate group name %q", g.Name)
		}
		seen[g.Name] = true
		switch g.ChaseScope {
		case "", "group", "agent":
		default:
			return fmt.Errorf("group %q: unknown chase_scope %q", g.Name, g.ChaseScope)
		}
	}
	return nil
}

// TerrainParams converts the terrain section.
func (c WorldConfig) TerrainParams() terrain.Params {
	kind, _ := terrain.ParseNoiseKind(c.Noise.Kind)
	layers := make([]terrain.Layer, len(c.Noise.Layers))
	for i, l := range c.Noise.Layers {
		layers[i] = terrain.Layer{Frequency: l.Frequency, Weight: l.Weight}
	}
	return terrain.Params{
		Size:       c.TerrainSize,
		Segments:   c.TerrainSegments,
		WaterLevel: c.WaterLevel,
		Seed:       c.Seed,
		Amplitude:  c.Noise.Amplitude,
		Layers:     layers,
		Kind:       kind,
	}
}
