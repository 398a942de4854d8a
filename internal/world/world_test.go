package world

import (
	"testing"
	"time"

	"island-sim/internal/behavior"
	"island-sim/internal/config"
	"island-sim/internal/entity"
	"island-sim/internal/spawn"
	"island-sim/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

func smallOptions() Options {
	p := terrain.DefaultParams()
	p.Size, p.Segments = 1200, 24
	p.Layers = []terrain.Layer{{Frequency: 0.002, Weight: 1}}
	shelter := spawn.DefaultShelterOptions()
	return Options{
		Terrain: p,
		Seed:    7,
		Shelter: &shelter,
		Groups: []GroupSpec{
			{Name: "bears", Species: "bear", Count: 2},
			{Name: "pigs", Species: "pig", Count: 5},
			{Name: "sharks", Species: "shark", Count: 4, Scope: behavior.ScopeAgent},
			{Name: "birds", Species: "bird", Count: 2},
			{Name: "dragons", Species: "dragon", Count: 3},
		},
		FoliageCount: 40,
	}
}

func TestNewSkipsMissingSpecies(t *testing.T) {
	w := New(smallOptions())
	sums := w.Groups().Summaries()
	if len(sums) != 4 {
		t.Fatalf("groups = %d, want 4 (dragons skipped)", len(sums))
	}
	if got := w.Groups().Count(); got != 13 {
		t.Errorf("agents = %d, want 13", got)
	}
	if len(w.Views()) != 13 {
		t.Errorf("views = %d", len(w.Views()))
	}
	if _, ok := w.Shelter(); !ok || len(w.Zones()) != 1 {
		t.Error("shelter zone not registered")
	}
}

func TestLandAgentsAvoidShelter(t *testing.T) {
	w := New(smallOptions())
	for _, v := range w.Views() {
		if v.Species == "shark" || v.Species == "bird" {
			continue
		}
		if w.Zones().Blocks(v.Position.X(), v.Position.Z()) {
			t.Errorf("%s spawned inside the shelter zone at %v", v.Species, v.Position)
		}
	}
}

func TestWorldDeterministic(t *testing.T) {
	positions := func() []mgl64.Vec3 {
		w := New(smallOptions())
		player := behavior.PlayerSnapshot{Position: mgl64.Vec3{0, 30, 0}, Present: true}
		for range 120 {
			w.Update(16*time.Millisecond, player)
		}
		var out []mgl64.Vec3
		for _, v := range w.Views() {
			out = append(out, v.Position)
		}
		return out
	}
	a, b := positions(), positions()
	if len(a) != len(b) {
		t.Fatalf("agent counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("agent %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestUpdateAdvancesClock(t *testing.T) {
	opts := smallOptions()
	opts.Groups = nil
	w := New(opts)
	w.Update(time.Second, behavior.PlayerSnapshot{})
	w.Update(500*time.Millisecond, behavior.PlayerSnapshot{})
	if w.Now() != 1500*time.Millisecond {
		t.Errorf("Now = %v", w.Now())
	}
}

func TestSharksStayInWater(t *testing.T) {
	w := New(smallOptions())
	for range 200 {
		w.Update(16*time.Millisecond, behavior.PlayerSnapshot{})
	}
	wl := w.HeightField().WaterLevel()
	for _, v := range w.Views() {
		if v.Species != "shark" {
			continue
		}
		if v.State != entity.Wandering {
			t.Errorf("shark state = %v", v.State)
		}
		y := v.Position.Y()
		if y < wl-1 || y > wl+1 {
			t.Errorf("shark at y=%v, want near water level %v", y, wl)
		}
	}
}

func TestBirdsCircleAboveIsland(t *testing.T) {
	w := New(smallOptions())
	for range 200 {
		w.Update(16*time.Millisecond, behavior.PlayerSnapshot{})
	}
	birds := 0
	for _, g := range w.Groups().engine.Groups() {
		if g.Species.Name != "bird" {
			continue
		}
		for _, a := range g.Agents {
			birds++
			below := max(w.Ground().Height(a.Position.X(), a.Position.Z(), 0), w.HeightField().WaterLevel())
			if a.Position.Y() < below+a.Species.Circle.Clearance {
				t.Errorf("bird at %v is below clearance over %v", a.Position, below)
			}
			if d := a.XZ().Len(); d > a.Species.Circle.RadiusMax+a.Species.Circle.RadiusSwing {
				t.Errorf("bird %v from the island centre", d)
			}
		}
	}
	if birds != 2 {
		t.Errorf("birds = %d, want 2", birds)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Groups = []config.GroupConfig{{Name: "b", Species: "bear", Count: 1, ChaseScope: "agent"}}
	cfg.Shelter.Enabled = false
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if opts.Shelter != nil {
		t.Error("shelter should be disabled")
	}
	if len(opts.Groups) != 1 || opts.Groups[0].Scope != behavior.ScopeAgent {
		t.Errorf("groups = %+v", opts.Groups)
	}
	if opts.Species == nil || opts.Species.Len() == 0 {
		t.Error("species table not loaded")
	}
	if opts.Terrain.Size != 2400 {
		t.Errorf("terrain size = %v", opts.Terrain.Size)
	}

}

func TestMissingSpeciesTableSkipsCreatures(t *testing.T) {
	cfg := config.Defaults()
	cfg.TerrainSize, cfg.TerrainSegments = 1200, 24
	cfg.SpeciesFile = "/nonexistent/species.json"

	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.Species == nil || opts.Species.Len() != 0 {
		t.Fatalf("species table = %+v, want empty", opts.Species)
	}
	if len(opts.Groups) == 0 {
		t.Fatal("default groups dropped from options")
	}

	w := New(opts)
	if n := w.Groups().Count(); n != 0 {
		t.Errorf("agents = %d, want 0", n)
	}
	if _, ok := w.Shelter(); !ok {
		t.Error("shelter not placed without species")
	}
	w.Update(16*time.Millisecond, behavior.PlayerSnapshot{Present: true})
	if w.Now() != 16*time.Millisecond {
		t.Errorf("clock = %v", w.Now())
	}
}

func BenchmarkWorldUpdate(b *testing.B) {
	w := New(smallOptions())
	player := behavior.PlayerSnapshot{Position: mgl64.Vec3{0, 30, 0}, Present: true}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.Update(16*time.Millisecond, player)
	}
}
