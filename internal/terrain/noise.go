package terrain

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
)

// Source is a 2D coherent noise function. Values are roughly in [-1, 1].
type Source interface {
	Noise2D(x, z float64) float64
}

// NoiseKind selects the coherent noise implementation used for elevation.
type NoiseKind int

const (
	NoisePerlin NoiseKind = iota
	NoiseValue
)

func (k NoiseKind) String() string {
	switch k {
	case NoisePerlin:
		return "perlin"
	case NoiseValue:
		return "value"
	default:
		return fmt.Sprintf("NoiseKind(%d)", int(k))
	}
}

// ParseNoiseKind maps a config name to a NoiseKind.
func ParseNoiseKind(name string) (NoiseKind, error) {
	switch name {
	case "", "perlin":
		return NoisePerlin, nil
	case "value":
		return NoiseValue, nil
	default:
		return 0, fmt.Errorf("unknown noise kind %q", name)
	}
}

// NewSource builds the noise source for kind. Both kinds are pure functions of
// the seed and safe for concurrent reads.
func NewSource(kind NoiseKind, seed int64) Source {
	if kind == NoiseValue {
		return valueSource{seed: seed}
	}
	// alpha 2, beta 2, 3 octaves: the smooth low-detail profile the island uses.
	return perlin.NewPerlin(2, 2, 3, seed)
}

type valueSource struct {
	seed int64
}

func (v valueSource) Noise2D(x, z float64) float64 {
	return valueNoise2D(x, z, v.seed)*2 - 1
}

// Deterministic 2D value noise. Lattice values come from an integer hash so
// results are stable across runs and platforms.

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

func hash2(x int64, z int64, seed int64) uint64 {
	// SplitMix64 style integer hash, stable across runs for same inputs
	v := uint64(x) + (uint64(z) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	v = v ^ (v >> 31)
	return v
}

// latticeValue maps a lattice point to [0,1].
func latticeValue(x int64, z int64, seed int64) float64 {
	h := hash2(x, z, seed)
	return float64(h&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x float64, z float64, seed int64) float64 {
	x0 := math.Floor(x)
	z0 := math.Floor(z)
	x1 := x0 + 1
	z1 := z0 + 1

	fx := fade(x - x0)
	fz := fade(z - z0)

	v00 := latticeValue(int64(x0), int64(z0), seed)
	v10 := latticeValue(int64(x1), int64(z0), seed)
	v01 := latticeValue(int64(x0), int64(z1), seed)
	v11 := latticeValue(int64(x1), int64(z1), seed)

	i0 := lerp(v00, v10, fx)
	i1 := lerp(v01, v11, fx)
	return lerp(i0, i1, fz) // [0,1]
}
