package spawn

import (
	"math"
	"math/rand"

	"island-sim/internal/entity"
	"island-sim/internal/physics"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
)

// ShelterOptions configure shelter placement.
type ShelterOptions struct {
	Footprint float64
	Margin    float64
	MaxSlope  float64
}

func DefaultShelterOptions() ShelterOptions {
	return ShelterOptions{Footprint: 100, Margin: 15, MaxSlope: 20}
}

// Shelter is the placed player shelter and the zone it claims.
type Shelter struct {
	Position mgl64.Vec3
	Zone     physics.Circle
	Fallback bool
}

const (
	shelterLift           = 50
	shelterFallbackMargin = 20
	// The foundation is 1.5x the footprint; agents keep off its full radius.
	shelterZoneFactor = 0.75
)

// FindShelterSite places the shelter on flat dry ground near the origin.
func (p *Placer) FindShelterSite(o ShelterOptions) Shelter {
	c := Constraints{
		Habitat:        entity.Land,
		Margin:         o.Margin,
		VerticalOffset: shelterLift,
		Step:           20,
		Probes:         16,
		MaxRadius:      0.3 * p.hf.Size(),
		Footprint:      o.Footprint,
		MaxSlope:       o.MaxSlope,
		BoundsFraction: 0.9,
		FallbackExtent: 100,
		FallbackStep:   20,
		FallbackMargin: shelterFallbackMargin,
	}
	pos, found := p.FindSpawn(c)
	if !found {
		// The fallback floor is the stricter fallback margin.
		h, _ := p.height.Lookup(pos.X(), pos.Z())
		pos[1] = math.Max(h, p.hf.WaterLevel()+shelterFallbackMargin) + shelterLift
	}
	return Shelter{
		Position: pos,
		Zone:     physics.Circle{Center: mgl64.Vec2{pos.X(), pos.Z()}, Radius: o.Footprint * shelterZoneFactor},
		Fallback: !found,
	}
}

const (
	waterCornerFraction   = 0.38
	waterJitterFraction   = 0.05
	waterPullFactor       = 0.9
	waterPullTries        = 20
	waterFallbackFraction = 0.25
	waterFallbackTries    = 20
)

var corners = [4][2]float64{{1, 1}, {-1, 1}, {1, -1}, {-1, -1}}

// WaterConstraints is the search used for water-only species. margin is the
// depth below water the ground must lie.
func WaterConstraints(margin, verticalOffset, boundsFraction float64) Constraints {
	return Constraints{
		Habitat:        entity.Water,
		Margin:         margin,
		VerticalOffset: verticalOffset,
		BoundsFraction: boundsFraction,
	}
}

// FindWaterSpawn places a water-only agent at water level. index picks the
// starting corner so consecutive agents spread around the island. The
// candidate is pulled toward the centre until the ground under it is legal
// for c.Habitat. Failing that, jittered points around the deep-water corner
// are tried, then the legal grid vertex nearest that corner.
func (p *Placer) FindWaterSpawn(rng *rand.Rand, c Constraints, index int) mgl64.Vec3 {
	size := p.hf.Size()
	wl := p.hf.WaterLevel()
	c.Footprint, c.MaxSlope = 0, 0
	corner := corners[((index%4)+4)%4]
	jitter := func() float64 { return (rng.Float64()*2 - 1) * size * waterJitterFraction }
	at := func(x, z float64) mgl64.Vec3 { return mgl64.Vec3{x, wl + c.VerticalOffset, z} }

	x := corner[0]*size*waterCornerFraction + jitter()
	z := corner[1]*size*waterCornerFraction + jitter()
	for range waterPullTries {
		if _, ok := p.suitable(c, x, z); ok {
			return at(x, z)
		}
		x *= waterPullFactor
		z *= waterPullFactor
	}

	fx := corner[0] * size * waterFallbackFraction
	fz := corner[1] * size * waterFallbackFraction
	for range waterFallbackTries {
		x, z := fx+jitter(), fz+jitter()
		if _, ok := p.suitable(c, x, z); ok {
			return at(x, z)
		}
	}

	best, bestD := mgl64.Vec3{}, math.Inf(1)
	for iz := 0; iz <= p.hf.Segments(); iz++ {
		for ix := 0; ix <= p.hf.Segments(); ix++ {
			vx, vz := p.hf.VertexXZ(ix, iz)
			if _, ok := p.suitable(c, vx, vz); !ok {
				continue
			}
			if d := math.Hypot(vx-fx, vz-fz); d < bestD {
				best, bestD = at(vx, vz), d
			}
		}
	}
	if !math.IsInf(bestD, 1) {
		half := p.hf.CellSize() / 2
		for range waterFallbackTries {
			x := best.X() + (rng.Float64()*2-1)*half
			z := best.Z() + (rng.Float64()*2-1)*half
			if _, ok := p.suitable(c, x, z); ok {
				return at(x, z)
			}
		}
		log.Debug("water spawn used the nearest legal vertex", "index", index, "pos", best)
		return best
	}
	log.Warn("no legal water found, spawning at the deep-water corner", "index", index)
	return at(fx, fz)
}

// ScatterOnLand picks n grid vertices higher than water+minAbove and outside
// every zone. Vertices may repeat. It returns nil when no vertex qualifies.
func (p *Placer) ScatterOnLand(rng *rand.Rand, n int, minAbove float64) []mgl64.Vec3 {
	wl := p.hf.WaterLevel()
	var candidates []mgl64.Vec3
	for iz := 0; iz <= p.hf.Segments(); iz++ {
		for ix := 0; ix <= p.hf.Segments(); ix++ {
			h, _ := p.hf.At(ix, iz)
			if h <= wl+minAbove {
				continue
			}
			x, z := p.hf.VertexXZ(ix, iz)
			if p.zones.Blocks(x, z) {
				continue
			}
			candidates = append(candidates, mgl64.Vec3{x, h, z})
		}
	}
	if len(candidates) == 0 || n <= 0 {
		return nil
	}
	out := make([]mgl64.Vec3, n)
	for i := range out {
		out[i] = candidates[rng.Intn(len(candidates))]
	}
	return out
}
