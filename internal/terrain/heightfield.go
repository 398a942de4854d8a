package terrain

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"island-sim/internal/profiling"
)

// Layer is one octave of the elevation sum.
type Layer struct {
	Frequency float64
	Weight    float64
}

// Params fully determine a HeightField.
type Params struct {
	Size       float64 // world extent along x and z, centred on the origin
	Segments   int     // grid cells per axis; the grid has Segments+1 vertices per axis
	WaterLevel float64
	Seed       int64
	Amplitude  float64
	Layers     []Layer
	Kind       NoiseKind
}

// DefaultParams returns the island used by the game: a single broad layer
// scaled to +-140 units.
func DefaultParams() Params {
	return Params{
		Size:       2400,
		Segments:   50,
		WaterLevel: 8,
		Seed:       1,
		Amplitude:  140,
		Layers:     []Layer{{Frequency: 0.001, Weight: 1}},
		Kind:       NoisePerlin,
	}
}

// Underwater terrain is flattened into [WaterLevel-2, WaterLevel-1].
const (
	shoreBand      = 2.0
	seabedDepth    = 2.0
	seabedJitter   = 1.0
	seabedHashSalt = 0x5eabed
)

// HeightField is the immutable grid of ground elevations. It is safe for
// concurrent reads.
type HeightField struct {
	size       float64
	segments   int
	waterLevel float64
	elevations [][]float64 // [zIndex][xIndex]
}

// Generate evaluates the layered noise at every grid vertex. The result is a
// pure function of p.
func Generate(p Params) *HeightField {
	defer profiling.Track("terrain.Generate")()

	if p.Segments < 1 {
		p.Segments = 1
	}
	n := p.Segments + 1
	hf := &HeightField{
		size:       p.Size,
		segments:   p.Segments,
		waterLevel: p.WaterLevel,
		elevations: make([][]float64, n),
	}

	src := NewSource(p.Kind, p.Seed)

	rows := make(chan int, n)
	for iz := range n {
		rows <- iz
	}
	close(rows)

	workers := min(max(runtime.NumCPU(), 1), n)
	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for iz := range rows {
				hf.elevations[iz] = generateRow(p, src, iz)
			}
		}()
	}
	wg.Wait()

	return hf
}

// FromElevations wraps an existing square grid, rows indexed by z. It is used
// for hand-built terrains; no seabed flattening is applied.
func FromElevations(size, waterLevel float64, rows [][]float64) (*HeightField, error) {
	n := len(rows)
	if n < 2 {
		return nil, fmt.Errorf("height field needs at least 2x2 vertices, got %d rows", n)
	}
	if size <= 0 {
		return nil, fmt.Errorf("height field size must be positive, got %f", size)
	}
	elev := make([][]float64, n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("row %d has %d vertices, want %d", i, len(row), n)
		}
		elev[i] = append([]float64(nil), row...)
	}
	return &HeightField{size: size, segments: n - 1, waterLevel: waterLevel, elevations: elev}, nil
}

// Flat builds a constant-height field.
func Flat(size float64, segments int, waterLevel, height float64) *HeightField {
	segments = max(segments, 1)
	rows := make([][]float64, segments+1)
	for i := range rows {
		rows[i] = make([]float64, segments+1)
		for j := range rows[i] {
			rows[i][j] = height
		}
	}
	return &HeightField{size: size, segments: segments, waterLevel: waterLevel, elevations: rows}
}

func generateRow(p Params, src Source, iz int) []float64 {
	n := p.Segments + 1
	cell := p.Size / float64(p.Segments)
	half := p.Size / 2
	row := make([]float64, n)
	z := -half + float64(iz)*cell
	for ix := range n {
		x := -half + float64(ix)*cell
		h := rawHeight(p, src, x, z)
		if h < p.WaterLevel+shoreBand {
			// Seabed jitter is hashed per vertex so rows can be built in any order.
			j := latticeValue(int64(ix), int64(iz), p.Seed^seabedHashSalt)
			h = p.WaterLevel - seabedDepth + j*seabedJitter
		}
		row[ix] = h
	}
	return row
}

func rawHeight(p Params, src Source, x, z float64) float64 {
	sum := 0.0
	for _, l := range p.Layers {
		sum += src.Noise2D(x*l.Frequency, z*l.Frequency) * l.Weight
	}
	return sum * p.Amplitude
}

func (hf *HeightField) Size() float64       { return hf.size }
func (hf *HeightField) Segments() int       { return hf.segments }
func (hf *HeightField) WaterLevel() float64 { return hf.waterLevel }

// CellSize is the world distance between neighbouring vertices.
func (hf *HeightField) CellSize() float64 {
	return hf.size / float64(hf.segments)
}

// At returns the elevation stored at grid vertex (ix, iz).
func (hf *HeightField) At(ix, iz int) (float64, bool) {
	if ix < 0 || iz < 0 || ix > hf.segments || iz > hf.segments {
		return 0, false
	}
	return hf.elevations[iz][ix], true
}

// VertexXZ returns the world coordinates of grid vertex (ix, iz).
func (hf *HeightField) VertexXZ(ix, iz int) (x, z float64) {
	cell := hf.CellSize()
	half := hf.size / 2
	return -half + float64(ix)*cell, -half + float64(iz)*cell
}

// MinMax returns the lowest and highest elevations in the grid.
func (hf *HeightField) MinMax() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range hf.elevations {
		for _, h := range row {
			lo = math.Min(lo, h)
			hi = math.Max(hi, h)
		}
	}
	return lo, hi
}

// Elevations returns a copy of the grid, rows indexed by z.
func (hf *HeightField) Elevations() [][]float64 {
	out := make([][]float64, len(hf.elevations))
	for i, row := range hf.elevations {
		out[i] = append([]float64(nil), row...)
	}
	return out
}
