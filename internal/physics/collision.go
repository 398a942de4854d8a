package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Zone is an area agents may not enter and spawn search may not use.
// Only circles and axis-aligned boxes are modelled.
type Zone interface {
	Contains(p mgl64.Vec2) bool
	// Clearance is the signed distance from p to the zone boundary,
	// negative inside.
	Clearance(p mgl64.Vec2) float64
}

// Circle is a round exclusion zone, e.g. the shelter footprint.
type Circle struct {
	Center mgl64.Vec2
	Radius float64
}

func (c Circle) Contains(p mgl64.Vec2) bool {
	return p.Sub(c.Center).Len() < c.Radius
}

func (c Circle) Clearance(p mgl64.Vec2) float64 {
	return p.Sub(c.Center).Len() - c.Radius
}

// Box is an axis-aligned rectangular exclusion zone on the xz plane.
type Box struct {
	Min, Max mgl64.Vec2
}

// BoxAround returns a box of the given full width and depth centred on c.
func BoxAround(c mgl64.Vec2, width, depth float64) Box {
	h := mgl64.Vec2{width / 2, depth / 2}
	return Box{Min: c.Sub(h), Max: c.Add(h)}
}

func (b Box) Contains(p mgl64.Vec2) bool {
	return p.X() > b.Min.X() && p.X() < b.Max.X() &&
		p.Y() > b.Min.Y() && p.Y() < b.Max.Y()
}

func (b Box) Clearance(p mgl64.Vec2) float64 {
	dx := math.Max(b.Min.X()-p.X(), p.X()-b.Max.X())
	dz := math.Max(b.Min.Y()-p.Y(), p.Y()-b.Max.Y())
	if dx <= 0 && dz <= 0 {
		return math.Max(dx, dz)
	}
	return math.Hypot(math.Max(dx, 0), math.Max(dz, 0))
}

// Zones is the set of exclusion zones registered with the world.
type Zones []Zone

// Blocks reports whether (x, z) lies inside any zone.
func (zs Zones) Blocks(x, z float64) bool {
	p := mgl64.Vec2{x, z}
	for _, zone := range zs {
		if zone.Contains(p) {
			return true
		}
	}
	return false
}

// Clearance is the smallest clearance to any zone, +Inf when there are none.
func (zs Zones) Clearance(x, z float64) float64 {
	p := mgl64.Vec2{x, z}
	best := math.Inf(1)
	for _, zone := range zs {
		best = math.Min(best, zone.Clearance(p))
	}
	return best
}
