package terrain

import "math"

// HeightQuery resolves a world position to a ground elevation, reporting
// false when it has no answer for that position.
type HeightQuery interface {
	Lookup(x, z float64) (float64, bool)
}

// Ground is what movement code uses: a height query that never fails.
// fallback is returned when no query can answer, normally the caller's last
// known ground height.
type Ground interface {
	Height(x, z, fallback float64) float64
}

// Sampler is the nearest-cell grid lookup over a HeightField.
type Sampler struct {
	hf *HeightField
}

func NewSampler(hf *HeightField) Sampler {
	return Sampler{hf: hf}
}

// Cell maps world coordinates to grid indices. ok is false when either index
// falls outside [0, segments].
func (s Sampler) Cell(x, z float64) (ix, iz int, ok bool) {
	if s.hf == nil || !(s.hf.size > 0) || math.IsNaN(x) || math.IsNaN(z) || math.IsInf(x, 0) || math.IsInf(z, 0) {
		return 0, 0, false
	}
	half := s.hf.size / 2
	seg := float64(s.hf.segments)
	fx := math.Floor((x + half) / s.hf.size * seg)
	fz := math.Floor((z + half) / s.hf.size * seg)
	if fx < 0 || fz < 0 || fx > seg || fz > seg {
		return 0, 0, false
	}
	return int(fx), int(fz), true
}

func (s Sampler) Lookup(x, z float64) (float64, bool) {
	ix, iz, ok := s.Cell(x, z)
	if !ok {
		return 0, false
	}
	return s.hf.elevations[iz][ix], true
}

func (s Sampler) Height(x, z, fallback float64) float64 {
	if h, ok := s.Lookup(x, z); ok {
		return h
	}
	return fallback
}

// Chain tries each query in order and degrades to the caller's fallback.
type Chain []HeightQuery

func (c Chain) Lookup(x, z float64) (float64, bool) {
	for _, q := range c {
		if h, ok := q.Lookup(x, z); ok {
			return h, true
		}
	}
	return 0, false
}

func (c Chain) Height(x, z, fallback float64) float64 {
	if h, ok := c.Lookup(x, z); ok {
		return h
	}
	return fallback
}
