// Package spawn finds legal positions for agents, the shelter and foliage.
// Searches are bounded and always produce a position; they never return
// errors.
package spawn

import (
	"math"
	"math/rand"

	"island-sim/internal/entity"
	"island-sim/internal/physics"
	"island-sim/internal/profiling"
	"island-sim/internal/terrain"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// Constraints describe what a legal spawn point looks like.
type Constraints struct {
	Habitat        entity.Habitat
	Margin         float64 // required height above (or depth below) water
	VerticalOffset float64
	Seed           mgl64.Vec2 // where the spiral starts

	Step      float64 // spiral radius increment
	Probes    int     // angular probes per ring
	MaxRadius float64

	Footprint float64 // side of the square sampled around a candidate; 0 samples one point
	MaxSlope  float64 // max height delta across the footprint; 0 disables the check

	BoundsFraction float64 // fraction of half the world size a point may reach

	// Coarse grid scanned around the origin when the spiral finds nothing.
	FallbackExtent float64
	FallbackStep   float64
	FallbackMargin float64 // defaults to Margin
}

// DefaultConstraints is the land creature search used at world build.
func DefaultConstraints(size float64) Constraints {
	return Constraints{
		Habitat:        entity.Land,
		Margin:         3,
		VerticalOffset: 5,
		Step:           20,
		Probes:         16,
		MaxRadius:      0.3 * size,
		BoundsFraction: 0.9,
		FallbackExtent: 100,
		FallbackStep:   20,
	}
}

// Placer runs spawn searches over one terrain and zone set.
type Placer struct {
	hf     *terrain.HeightField
	height terrain.HeightQuery
	zones  physics.Zones
}

// NewPlacer uses q for heights; a nil q uses the grid lookup.
func NewPlacer(hf *terrain.HeightField, q terrain.HeightQuery, zones physics.Zones) *Placer {
	if q == nil {
		q = terrain.NewSampler(hf)
	}
	return &Placer{hf: hf, height: q, zones: zones}
}

// Size is the world extent of the terrain being searched.
func (p *Placer) Size() float64 { return p.hf.Size() }

// WithZones returns a placer sharing the terrain with a different zone set.
func (p *Placer) WithZones(zones physics.Zones) *Placer {
	return &Placer{hf: p.hf, height: p.height, zones: zones}
}

// FindSpawn spirals outward from c.Seed and returns the first suitable point.
// found is false when the coarse grid fallback was used.
func (p *Placer) FindSpawn(c Constraints) (pos mgl64.Vec3, found bool) {
	defer profiling.Track("spawn.FindSpawn")()

	if h, ok := p.suitable(c, c.Seed.X(), c.Seed.Y()); ok {
		return p.output(c, c.Seed.X(), c.Seed.Y(), h), true
	}
	if c.Step > 0 && c.Probes > 0 {
		for r := c.Step; r <= c.MaxRadius; r += c.Step {
			for i := range c.Probes {
				a := float64(i) / float64(c.Probes) * 2 * math.Pi
				x := c.Seed.X() + r*math.Cos(a)
				z := c.Seed.Y() + r*math.Sin(a)
				if h, ok := p.suitable(c, x, z); ok {
					return p.output(c, x, z, h), true
				}
			}
		}
	}
	log.Warn("spawn search exhausted, using coarse grid", "seed", c.Seed, "max_radius", c.MaxRadius)
	return p.fallback(c), false
}

// RandomSpawn tries attempts uniform points within spread*size of the origin
// and falls back to FindSpawn from the origin.
func (p *Placer) RandomSpawn(rng *rand.Rand, c Constraints, spread float64, attempts int) mgl64.Vec3 {
	span := p.hf.Size() * spread
	for range attempts {
		x := (rng.Float64() - 0.5) * span
		z := (rng.Float64() - 0.5) * span
		if h, ok := p.suitable(c, x, z); ok {
			return p.output(c, x, z, h)
		}
	}
	c.Seed = mgl64.Vec2{}
	pos, _ := p.FindSpawn(c)
	return pos
}

func (p *Placer) output(c Constraints, x, z, h float64) mgl64.Vec3 {
	floor := p.hf.WaterLevel()
	if c.Habitat == entity.Land {
		floor += c.Margin
	}
	return mgl64.Vec3{x, math.Max(h, floor) + c.VerticalOffset, z}
}

// footprint returns the 9-point sampling pattern around (x, z).
func footprint(x, z, side float64) [][2]float64 {
	if side <= 0 {
		return [][2]float64{{x, z}}
	}
	h := side / 2
	return [][2]float64{
		{x, z},
		{x - h, z - h}, {x + h, z - h}, {x - h, z + h}, {x + h, z + h},
		{x, z - h}, {x, z + h}, {x - h, z}, {x + h, z},
	}
}

func (p *Placer) inBounds(c Constraints, x, z float64) bool {
	frac := c.BoundsFraction
	if frac <= 0 {
		frac = 1
	}
	lim := p.hf.Size() / 2 * frac
	return math.Abs(x) <= lim && math.Abs(z) <= lim
}

// suitable reports whether every footprint sample is in bounds, outside all
// zones and legal ground for the habitat. h is the centre height.
func (p *Placer) suitable(c Constraints, x, z float64) (h float64, ok bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	wl := p.hf.WaterLevel()
	for i, s := range footprint(x, z, c.Footprint) {
		if !p.inBounds(c, s[0], s[1]) || p.zones.Blocks(s[0], s[1]) {
			return 0, false
		}
		sh, found := p.height.Lookup(s[0], s[1])
		if !found || !c.Habitat.AllowsGround(sh, wl, c.Margin) {
			return 0, false
		}
		if i == 0 {
			h = sh
		}
		lo, hi = math.Min(lo, sh), math.Max(hi, sh)
	}
	if c.MaxSlope > 0 && hi-lo > c.MaxSlope {
		return 0, false
	}
	return h, true
}

// fallback scans the coarse grid for the highest unblocked point above the
// fallback margin. If none qualifies it takes the highest unblocked point,
// then the seed itself, so it always yields a position.
func (p *Placer) fallback(c Constraints) mgl64.Vec3 {
	margin := c.FallbackMargin
	if margin == 0 {
		margin = c.Margin
	}
	step := c.FallbackStep
	if step <= 0 {
		step = p.hf.CellSize()
	}
	wl := p.hf.WaterLevel()

	var best, anyBest mgl64.Vec3
	bestH, anyH := math.Inf(-1), math.Inf(-1)
	for x := -c.FallbackExtent; x <= c.FallbackExtent; x += step {
		for z := -c.FallbackExtent; z <= c.FallbackExtent; z += step {
			if p.zones.Blocks(x, z) {
				continue
			}
			h, ok := p.height.Lookup(x, z)
			if !ok {
				continue
			}
			if c.Habitat.CanEnterWater() || h > wl+margin {
				if h > bestH {
					bestH, best = h, p.output(c, x, z, h)
				}
			}
			if h > anyH {
				anyH, anyBest = h, p.output(c, x, z, h)
			}
		}
	}
	switch {
	case !math.IsInf(bestH, -1):
		return best
	case !math.IsInf(anyH, -1):
		return anyBest
	}
	h, _ := p.height.Lookup(c.Seed.X(), c.Seed.Y())
	return p.output(c, c.Seed.X(), c.Seed.Y(), h)
}
