package geometry

import (
	"fmt"
	"math"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
)

// TriangleMesh is a flat-shaded set of triangles over a shared vertex array.
// Normals and areas are computed once at construction.
type TriangleMesh struct {
	vertices  []core.Vec3
	triangles [][3]int
	normals   []core.Vec3 // one per triangle
	cdf       []float64   // running sum of triangle areas, for light sampling
	area      float64
}

// NewTriangleMesh creates a mesh from vertices and index triples. The normal
// of triangle (v0, v1, v2) is normalize((v0-v1) x (v2-v1)).
func NewTriangleMesh(vertices []core.Vec3, triangles [][3]int) (*TriangleMesh, error) {
	if len(triangles) == 0 {
		return nil, fmt.Errorf("triangle mesh needs at least one triangle")
	}
	for i, tri := range triangles {
		for _, idx := range tri {
			if idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("triangle %d: vertex index %d out of range [0,%d)", i, idx, len(vertices))
			}
		}
	}

	m := &TriangleMesh{
		vertices:  append([]core.Vec3(nil), vertices...),
		triangles: append([][3]int(nil), triangles...),
		normals:   make([]core.Vec3, len(triangles)),
		cdf:       make([]float64, len(triangles)),
	}

	for i := range m.triangles {
		v0, v1, v2 := m.corners(i)
		m.normals[i] = v0.Subtract(v1).Cross(v2.Subtract(v1)).Normalize()

		m.area += 0.5 * v1.Subtract(v0).Cross(v2.Subtract(v0)).Length()
		m.cdf[i] = m.area
	}

	return m, nil
}

func (m *TriangleMesh) corners(i int) (core.Vec3, core.Vec3, core.Vec3) {
	tri := m.triangles[i]
	return m.vertices[tri[0]], m.vertices[tri[1]], m.vertices[tri[2]]
}

// Area returns the summed area of all triangles
func (m *TriangleMesh) Area() float64 {
	return m.area
}

// TriangleCount returns the number of triangles in this mesh
func (m *TriangleMesh) TriangleCount() int {
	return len(m.triangles)
}

// Normal returns the precomputed normal of triangle i
func (m *TriangleMesh) Normal(i int) core.Vec3 {
	return m.normals[i]
}

// Triangle returns the three corners of triangle i
func (m *TriangleMesh) Triangle(i int) (v0, v1, v2 core.Vec3) {
	return m.corners(i)
}

// hitTriangle runs the Moller-Trumbore test against triangle i and returns
// the hit distance and barycentric coordinates.
func (m *TriangleMesh) hitTriangle(i int, ray *Ray) (t, u, v float64, ok bool) {
	v0, v1, v2 := m.corners(i)
	edge1 := v1.Subtract(v0)
	edge2 := v2.Subtract(v0)

	p := ray.Direction.Cross(edge2)
	a := p.Dot(edge1)

	// Ray parallel to the triangle plane, or a degenerate triangle
	if math.Abs(a) < core.Epsilon {
		return 0, 0, 0, false
	}

	f := 1.0 / a
	s := ray.Origin.Subtract(v0)
	u = f * s.Dot(p)
	if u < 0.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = f * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = f * edge2.Dot(q)
	if t <= MinDistance {
		return 0, 0, 0, false
	}
	return t, u, v, true
}

func (m *TriangleMesh) intersect(ray *Ray, owner *Primitive) bool {
	hitAnything := false
	for i := range m.triangles {
		t, _, _, ok := m.hitTriangle(i, ray)
		if !ok {
			continue
		}
		hitAnything = true
		if ray.FoundCloserIntersection(t) {
			owner.record(ray, t, m.normals[i])
		}
	}
	return hitAnything
}

// randomPoint picks a triangle with probability proportional to its area and
// returns a uniformly distributed point inside it.
func (m *TriangleMesh) randomPoint(ray *Ray, sampler core.Sampler) core.Vec3 {
	i := m.pickTriangle(sampler.Get1D())
	v0, v1, v2 := m.corners(i)

	uv := sampler.Get2D()
	for uv.X+uv.Y > 1 {
		uv = sampler.Get2D()
	}
	w := 1 - uv.X - uv.Y
	return v0.Multiply(w).Add(v1.Multiply(uv.X)).Add(v2.Multiply(uv.Y))
}

func (m *TriangleMesh) pickTriangle(xi float64) int {
	n := len(m.triangles)
	if m.area <= 0 {
		return min(int(xi*float64(n)), n-1)
	}
	i := sort.SearchFloat64s(m.cdf, xi*m.area)
	// skip zero-area triangles sharing the same cumulative value
	for i < n-1 && m.cdf[i] <= xi*m.area {
		i++
	}
	return min(i, n-1)
}
