package species

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"island-sim/internal/entity"
)

func TestDefaultTable(t *testing.T) {
	tab := Default()
	want := []string{"bear", "wolf", "boss", "pig", "hippo", "shark", "bird"}
	got := tab.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("Names = %v, want %v", got, want)
	}

	bear, ok := tab.Get("bear")
	if !ok {
		t.Fatal("bear missing")
	}
	if bear.Chase.Distance != 200 || bear.Chase.Speed != 7 ||
		bear.Chase.Duration != 10*time.Second || bear.Chase.TriggerDelay != time.Second {
		t.Errorf("bear chase params = %+v", bear.Chase)
	}
	if math.Abs(bear.YawOffset-math.Pi) > 1e-12 {
		t.Errorf("bear yaw offset = %v", bear.YawOffset)
	}

	wolf, _ := tab.Get("wolf")
	if wolf.CanChase() || wolf.RollSway != 0.4 {
		t.Errorf("wolf profile = %+v", wolf)
	}

	pig, _ := tab.Get("pig")
	if pig.Behavior != entity.Graze || pig.Graze.MoveMin != 4*time.Second || pig.Graze.RestMax != 4*time.Second {
		t.Errorf("pig profile = %+v", pig)
	}

	shark, _ := tab.Get("shark")
	if shark.Habitat != entity.Water || shark.Behavior != entity.School {
		t.Errorf("shark habitat/behavior = %v/%v", shark.Habitat, shark.Behavior)
	}
	if shark.School.StuckLimit != 5*time.Second || shark.School.TerritoryMax != 1100 {
		t.Errorf("shark school params = %+v", shark.School)
	}

	bird, _ := tab.Get("bird")
	if bird.Behavior != entity.Circle || bird.Circle.RadiusMax != 250 || bird.Circle.AltitudeMin != 50 || bird.Circle.Bank != 0.2 {
		t.Errorf("bird profile = %+v", bird)
	}

	if _, ok := tab.Get("dragon"); ok {
		t.Error("unexpected species dragon")
	}
}

func TestParseDefaultsApplied(t *testing.T) {
	tab, err := Parse([]byte(`{"species":[{"name":"crab","base_speed":0.5}]}`))
	if err != nil {
		t.Fatal(err)
	}
	crab, _ := tab.Get("crab")
	if crab.BoundsFraction != defaultBoundsFraction {
		t.Errorf("bounds fraction = %v", crab.BoundsFraction)
	}
	if crab.WanderSpeedMin != 0.5 || crab.WanderSpeedMax != 0.5 {
		t.Errorf("wander speed = [%v,%v]", crab.WanderSpeedMin, crab.WanderSpeedMax)
	}
	if crab.Habitat != entity.Land || crab.Behavior != entity.Roam {
		t.Errorf("enum defaults = %v/%v", crab.Habitat, crab.Behavior)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{`},
		{"no species", `{}`},
		{"empty list", `{"species":[]}`},
		{"missing speed", `{"species":[{"name":"x"}]}`},
		{"bad habitat", `{"species":[{"name":"x","base_speed":1,"habitat":"lava"}]}`},
		{"unknown field", `{"species":[{"name":"x","base_speed":1,"wings":2}]}`},
		{"negative speed", `{"species":[{"name":"x","base_speed":-1}]}`},
		{"duplicate", `{"species":[{"name":"x","base_speed":1},{"name":"x","base_speed":2}]}`},
		{"inverted range", `{"species":[{"name":"x","base_speed":1,"wander_speed":[2,1]}]}`},
		{"circle without altitude", `{"species":[{"name":"x","base_speed":1,"behavior":"circle","circle":{"radius":[50,250]}}]}`},
		{"inverted orbit", `{"species":[{"name":"x","base_speed":1,"behavior":"circle","circle":{"radius":[250,50],"altitude":[50,150]}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	tab, err := Load("")
	if err != nil || tab.Len() != Default().Len() {
		t.Fatalf("Load(\"\") = %v, %v", tab, err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "species.json")
	if err := os.WriteFile(path, []byte(`{"species":[{"name":"gull","base_speed":2}]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	tab, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tab.Get("gull"); !ok {
		t.Error("gull missing")
	}

	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
