package terrain

import (
	"math"
	"testing"
)

func TestSamplerScenarioRepeatable(t *testing.T) {
	p := DefaultParams()
	p.Size = 2400
	p.Segments = 50
	p.WaterLevel = 8
	s := NewSampler(Generate(p))

	first := s.Height(0, 0, -1)
	second := s.Height(0, 0, -1)
	if first != second {
		t.Fatalf("height(0,0) not repeatable: %f vs %f", first, second)
	}

	other := NewSampler(Generate(p))
	if got := other.Height(0, 0, -1); got != first {
		t.Fatalf("height(0,0) differs across builds: %f vs %f", first, got)
	}
}

func TestSamplerCellMapping(t *testing.T) {
	p := DefaultParams()
	p.Size = 100
	p.Segments = 10
	hf := Generate(p)
	s := NewSampler(hf)

	tests := []struct {
		name   string
		x, z   float64
		ix, iz int
		ok     bool
	}{
		{"origin", 0, 0, 5, 5, true},
		{"min corner", -50, -50, 0, 0, true},
		{"max corner", 50, 50, 10, 10, true},
		{"inside first cell", -45.1, -41, 0, 0, true},
		{"floor not round", 9.9, -0.1, 5, 4, true},
		{"left of grid", -50.01, 0, 0, 0, false},
		{"beyond far edge", 60.5, 0, 0, 0, false},
		{"nan", math.NaN(), 0, 0, 0, false},
		{"inf", 0, math.Inf(1), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix, iz, ok := s.Cell(tt.x, tt.z)
			if ok != tt.ok {
				t.Fatalf("Cell(%f,%f) ok = %v, want %v", tt.x, tt.z, ok, tt.ok)
			}
			if ok && (ix != tt.ix || iz != tt.iz) {
				t.Errorf("Cell(%f,%f) = (%d,%d), want (%d,%d)", tt.x, tt.z, ix, iz, tt.ix, tt.iz)
			}
		})
	}
}

func TestSamplerMatchesGrid(t *testing.T) {
	hf := Generate(DefaultParams())
	s := NewSampler(hf)
	for iz := 0; iz <= hf.Segments(); iz += 7 {
		for ix := 0; ix <= hf.Segments(); ix += 7 {
			x, z := hf.VertexXZ(ix, iz)
			want, _ := hf.At(ix, iz)
			// Nudge inside the cell so floor lands on the vertex.
			if got := s.Height(x+0.01, z+0.01, math.NaN()); got != want {
				t.Errorf("Height at vertex (%d,%d) = %f, want %f", ix, iz, got, want)
			}
		}
	}
}

func TestSamplerFallback(t *testing.T) {
	s := NewSampler(Generate(DefaultParams()))
	if got := s.Height(1e6, 0, 42.5); got != 42.5 {
		t.Errorf("out-of-range Height = %f, want fallback 42.5", got)
	}
	var empty Sampler
	if got := empty.Height(0, 0, 3); got != 3 {
		t.Errorf("zero Sampler Height = %f, want fallback 3", got)
	}
}

func TestSamplerZeroSize(t *testing.T) {
	for _, hf := range []*HeightField{Flat(0, 4, 8, 20), Generate(Params{Segments: 4, WaterLevel: 8})} {
		s := NewSampler(hf)
		if _, _, ok := s.Cell(0, 0); ok {
			t.Error("Cell on a zero-size field reported a cell")
		}
		if got := s.Height(0, 0, 7); got != 7 {
			t.Errorf("Height on a zero-size field = %f, want fallback 7", got)
		}
	}
}

type fixedQuery struct {
	h  float64
	ok bool
}

func (f fixedQuery) Lookup(x, z float64) (float64, bool) { return f.h, f.ok }

func TestChainOrder(t *testing.T) {
	tests := []struct {
		name  string
		chain Chain
		want  float64
	}{
		{"first answers", Chain{fixedQuery{1, true}, fixedQuery{2, true}}, 1},
		{"second answers", Chain{fixedQuery{1, false}, fixedQuery{2, true}}, 2},
		{"none answer", Chain{fixedQuery{1, false}, fixedQuery{2, false}}, -7},
		{"empty", Chain{}, -7},
	}
	for _, tt := range tests {
		if got := tt.chain.Height(0, 0, -7); got != tt.want {
			t.Errorf("%s: Height = %f, want %f", tt.name, got, tt.want)
		}
	}
}
