// Package world assembles the island: terrain, exclusion zones, agent groups
// and foliage, and advances it one tick at a time.
package world

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"island-sim/internal/behavior"
	"island-sim/internal/config"
	"island-sim/internal/entity"
	"island-sim/internal/physics"
	"island-sim/internal/profiling"
	"island-sim/internal/spawn"
	"island-sim/internal/species"
	"island-sim/internal/terrain"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// GroupSpec requests Count agents of Species.
type GroupSpec struct {
	Name    string
	Species string
	Count   int
	Scope   behavior.ChaseScope
}

// Options fully describe a world build.
type Options struct {
	Terrain        terrain.Params
	Seed           int64
	BoundsFraction float64
	Shelter        *spawn.ShelterOptions // nil disables the shelter
	Groups         []GroupSpec
	FoliageCount   int
	Species        *species.Table
	Alerts         behavior.AlertSink
}

// OptionsFromConfig converts a loaded WorldConfig. The species table is
// loaded from cfg.SpeciesFile, or the embedded defaults. A table that fails
// to load is logged and replaced by an empty one, so every group is skipped
// while terrain, shelter and player still come up.
func OptionsFromConfig(cfg config.WorldConfig) (Options, error) {
	table, err := species.Load(cfg.SpeciesFile)
	if err != nil {
		log.Error("species table unavailable, no creatures will spawn", "file", cfg.SpeciesFile, "err", err)
		table = species.Empty()
	}
	opts := Options{
		Terrain:        cfg.TerrainParams(),
		Seed:           cfg.Seed,
		BoundsFraction: cfg.BoundsFraction,
		FoliageCount:   cfg.FoliageCount,
		Species:        table,
	}
	if cfg.Shelter.Enabled {
		opts.Shelter = &spawn.ShelterOptions{
			Footprint: cfg.Shelter.Footprint,
			Margin:    cfg.Shelter.Margin,
			MaxSlope:  cfg.Shelter.MaxSlope,
		}
	}
	for _, g := range cfg.Groups {
		scope, err := behavior.ParseChaseScope(g.ChaseScope)
		if err != nil {
			return Options{}, fmt.Errorf("group %s: %w", g.Name, err)
		}
		opts.Groups = append(opts.Groups, GroupSpec{Name: g.Name, Species: g.Species, Count: g.Count, Scope: scope})
	}
	return opts, nil
}

// World is safe for one updating goroutine and any number of readers.
type World struct {
	hf      *terrain.HeightField
	ground  terrain.Chain
	zones   physics.Zones
	shelter *spawn.Shelter
	foliage []mgl64.Vec3
	groups  *GroupManager

	mu    sync.RWMutex
	clock time.Duration
}

const (
	landSpawnSpread   = 0.7
	landSpawnAttempts = 50
	foliageMinAbove   = 5
)

// New builds a world. Groups whose species is missing from the table are
// logged and skipped.
func New(opts Options) *World {
	defer profiling.Track("world.New")()

	if opts.Species == nil {
		opts.Species = species.Default()
	}
	if opts.BoundsFraction <= 0 {
		opts.BoundsFraction = 0.9
	}

	hf := terrain.Generate(opts.Terrain)
	w := &World{
		hf:     hf,
		ground: terrain.Chain{physics.NewMeshQuery(hf), terrain.NewSampler(hf)},
	}
	rng := rand.New(rand.NewSource(opts.Seed))
	placer := spawn.NewPlacer(hf, w.ground, nil)

	if opts.Shelter != nil {
		s := placer.FindShelterSite(*opts.Shelter)
		w.shelter = &s
		w.zones = append(w.zones, s.Zone)
		placer = placer.WithZones(w.zones)
		log.Info("shelter placed", "pos", s.Position, "fallback", s.Fallback)
	}

	env := behavior.Environment{
		Ground:     w.ground,
		Size:       hf.Size(),
		WaterLevel: hf.WaterLevel(),
		Zones:      w.zones,
	}
	w.groups = NewGroupManager(behavior.NewEngine(env, rng, opts.Alerts))

	for _, gs := range opts.Groups {
		p, ok := opts.Species.Get(gs.Species)
		if !ok {
			log.Error("species unavailable, skipping group", "group", gs.Name, "species", gs.Species)
			continue
		}
		agents := make([]*entity.Agent, 0, gs.Count)
		for i := range gs.Count {
			pos := spawnPosition(placer, rng, p, i, opts.BoundsFraction)
			agents = append(agents, entity.NewAgent(p, pos, rng))
		}
		name := gs.Name
		if name == "" {
			name = gs.Species
		}
		w.groups.Add(behavior.NewGroup(name, p, gs.Scope, agents))
	}

	w.foliage = placer.ScatterOnLand(rng, opts.FoliageCount, foliageMinAbove)
	log.Info("world built", "size", hf.Size(), "segments", hf.Segments(), "agents", w.groups.Count(), "trees", len(w.foliage))
	return w
}

func spawnPosition(placer *spawn.Placer, rng *rand.Rand, p *entity.Profile, index int, bounds float64) mgl64.Vec3 {
	if p.Behavior == entity.Circle {
		// Flyers orbit the island centre.
		return mgl64.Vec3{}
	}
	if p.Habitat == entity.Water {
		c := spawn.WaterConstraints(p.WaterMargin, p.VerticalOffset, min(bounds, p.BoundsFraction))
		return placer.FindWaterSpawn(rng, c, index)
	}
	c := spawn.DefaultConstraints(placer.Size())
	c.Habitat = p.Habitat
	c.BoundsFraction = min(bounds, p.BoundsFraction)
	return placer.RandomSpawn(rng, c, landSpawnSpread, landSpawnAttempts)
}

// Update advances the simulation clock by delta and every agent by one tick.
func (w *World) Update(delta time.Duration, player behavior.PlayerSnapshot) {
	w.mu.Lock()
	w.clock += delta
	now := w.clock
	w.mu.Unlock()
	w.groups.Update(behavior.Tick{Now: now, Delta: delta}, player)
}

// Now is the simulation time since the world was built.
func (w *World) Now() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.clock
}

func (w *World) HeightField() *terrain.HeightField { return w.hf }

// Ground is the precise height query with grid fallback.
func (w *World) Ground() terrain.Ground { return w.ground }

func (w *World) Zones() physics.Zones { return w.zones }

// Shelter returns the placed shelter, if any.
func (w *World) Shelter() (spawn.Shelter, bool) {
	if w.shelter == nil {
		return spawn.Shelter{}, false
	}
	return *w.shelter, true
}

// Foliage returns tree positions.
func (w *World) Foliage() []mgl64.Vec3 {
	return append([]mgl64.Vec3(nil), w.foliage...)
}

func (w *World) Views() []entity.View { return w.groups.Views() }

func (w *World) Groups() *GroupManager { return w.groups }

// InWater reports whether the terrain at (x, z) is below water level.
func (w *World) InWater(x, z float64) bool {
	return w.ground.Height(x, z, w.hf.WaterLevel()) < w.hf.WaterLevel()
}
