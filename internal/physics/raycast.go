package physics

import (
	"math"

	"island-sim/internal/profiling"
	"island-sim/internal/terrain"

	"github.com/go-gl/mathgl/mgl64"
)

// dropHeight is where the downward ground probe starts.
const dropHeight = 1000.0

// RaycastResult stores the result of a raycast against the terrain mesh.
type RaycastResult struct {
	Point    mgl64.Vec3
	Distance float64
	Hit      bool
}

// Raycast intersects a ray with the triangulated height field. The mesh uses
// two triangles per cell, split along the (ix,iz+1)-(ix+1,iz) diagonal.
// The ray is marched in quarter-cell steps and each visited cell is tested
// exactly.
func Raycast(hf *terrain.HeightField, start, direction mgl64.Vec3, maxDist float64) RaycastResult {
	defer profiling.Track("physics.Raycast")()

	if hf == nil || !(hf.Size() > 0) || direction.Len() == 0 {
		return RaycastResult{}
	}
	dir := direction.Normalize()
	s := terrain.NewSampler(hf)

	// Vertical rays only ever cross one cell.
	horizontal := math.Hypot(dir.X(), dir.Z())
	stepSize := hf.CellSize() / 4
	steps := 1
	if horizontal > 1e-9 {
		steps = int(maxDist*horizontal/stepSize) + 1
	}

	best := RaycastResult{Distance: math.Inf(1)}
	lastX, lastZ := -1, -1
	for i := 0; i <= steps; i++ {
		t := 0.0
		if horizontal > 1e-9 {
			t = float64(i) * stepSize / horizontal
		}
		p := start.Add(dir.Mul(t))
		ix, iz, ok := s.Cell(p.X(), p.Z())
		if !ok || (ix == lastX && iz == lastZ) {
			continue
		}
		lastX, lastZ = ix, iz
		// The last row and column share their cell with their neighbour.
		ix = min(ix, hf.Segments()-1)
		iz = min(iz, hf.Segments()-1)
		for _, tri := range cellTriangles(hf, ix, iz) {
			if d, hit := intersectTriangle(start, dir, tri); hit && d <= maxDist && d < best.Distance {
				best = RaycastResult{Point: start.Add(dir.Mul(d)), Distance: d, Hit: true}
			}
		}
		if best.Hit {
			return best
		}
	}
	return RaycastResult{}
}

func cellTriangles(hf *terrain.HeightField, ix, iz int) [2][3]mgl64.Vec3 {
	v := func(x, z int) mgl64.Vec3 {
		wx, wz := hf.VertexXZ(x, z)
		h, _ := hf.At(x, z)
		return mgl64.Vec3{wx, h, wz}
	}
	a := v(ix, iz)
	b := v(ix, iz+1)
	c := v(ix+1, iz+1)
	d := v(ix+1, iz)
	return [2][3]mgl64.Vec3{{a, b, d}, {b, c, d}}
}

// intersectTriangle is Möller–Trumbore, two-sided.
func intersectTriangle(orig, dir mgl64.Vec3, tri [3]mgl64.Vec3) (float64, bool) {
	const eps = 1e-9
	e1 := tri[1].Sub(tri[0])
	e2 := tri[2].Sub(tri[0])
	pv := dir.Cross(e2)
	det := e1.Dot(pv)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det
	tv := orig.Sub(tri[0])
	u := tv.Dot(pv) * inv
	if u < -eps || u > 1+eps {
		return 0, false
	}
	qv := tv.Cross(e1)
	w := dir.Dot(qv) * inv
	if w < -eps || u+w > 1+eps {
		return 0, false
	}
	t := e2.Dot(qv) * inv
	if t < 0 {
		return 0, false
	}
	return t, true
}

// MeshQuery is the precise ground query: a vertical ray dropped onto the
// terrain mesh, interpolating between grid vertices.
type MeshQuery struct {
	hf *terrain.HeightField
}

func NewMeshQuery(hf *terrain.HeightField) MeshQuery {
	return MeshQuery{hf: hf}
}

func (q MeshQuery) Lookup(x, z float64) (float64, bool) {
	r := Raycast(q.hf, mgl64.Vec3{x, dropHeight, z}, mgl64.Vec3{0, -1, 0}, 2*dropHeight)
	if !r.Hit {
		return 0, false
	}
	return r.Point.Y(), true
}

// FindGround resolves the elevation at (x, z) with the precise mesh query,
// falling back to the grid lookup and then to lastGroundY.
func FindGround(hf *terrain.HeightField, x, z, lastGroundY float64) float64 {
	return terrain.Chain{NewMeshQuery(hf), terrain.NewSampler(hf)}.Height(x, z, lastGroundY)
}
