package geometry

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestNewBox_NormalsPointOutward(t *testing.T) {
	box, err := NewBox(2, 3, 4, mgl64.Ident4())
	require.NoError(t, err)
	require.Equal(t, 12, box.TriangleCount())

	for i := 0; i < box.TriangleCount(); i++ {
		v0, v1, v2 := box.Triangle(i)
		centroid := v0.Add(v1).Add(v2).Multiply(1.0 / 3.0)
		assert.Greater(t, centroid.Dot(box.Normal(i)), 0.0, "triangle %d faces inward", i)
	}
}

func TestNewBox_Area(t *testing.T) {
	h, w, d := 2.0, 3.0, 4.0
	box, err := NewBox(h, w, d, mgl64.Ident4())
	require.NoError(t, err)
	assert.InDelta(t, 2*(h*w+h*d+w*d), box.Area(), 1e-9)
}

func TestNewBox_TransformIsBaked(t *testing.T) {
	transform := mgl64.Translate3D(0, -0.4, 0.1).Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(30)))
	box, err := NewBox(0.3, 0.3, 0.3, transform)
	require.NoError(t, err)

	// rotation and translation keep the area
	assert.InDelta(t, 6*0.09, box.Area(), 1e-9)

	lo := core.NewVec3(math.Inf(1), math.Inf(1), math.Inf(1))
	hi := lo.Negate()
	for i := 0; i < box.TriangleCount(); i++ {
		v0, v1, v2 := box.Triangle(i)
		for _, v := range []core.Vec3{v0, v1, v2} {
			lo = core.NewVec3(math.Min(lo.X, v.X), math.Min(lo.Y, v.Y), math.Min(lo.Z, v.Z))
			hi = core.NewVec3(math.Max(hi.X, v.X), math.Max(hi.Y, v.Y), math.Max(hi.Z, v.Z))
		}
	}
	assertVecInDelta(t, core.NewVec3(0, -0.4, 0.1), lo.Add(hi).Multiply(0.5), 1e-9)

	// a ray from above hits the top face
	ray := NewRay(core.NewVec3(0.05, 5, 0.12), core.NewVec3(0, -1, 0))
	require.True(t, NewPrimitive(0, box, testDiffuse).Intersect(&ray))
	hit, _ := ray.Intersection()
	assert.InDelta(t, -0.25, hit.Point.Y, 1e-9)
	assertVecInDelta(t, core.NewVec3(0, 1, 0), hit.Normal, 1e-9)
}

func TestNewPlane(t *testing.T) {
	tests := []struct {
		name           string
		p0, p1, p2, p3 core.Vec3
		normal         core.Vec3
	}{
		{
			name:   "floor facing up",
			p0:     core.NewVec3(0, 0, 0),
			p1:     core.NewVec3(1, 0, 0),
			p2:     core.NewVec3(1, 0, 1),
			p3:     core.NewVec3(0, 0, 1),
			normal: core.NewVec3(0, 1, 0),
		},
		{
			name:   "reversed order faces down",
			p0:     core.NewVec3(0, 0, 1),
			p1:     core.NewVec3(1, 0, 1),
			p2:     core.NewVec3(1, 0, 0),
			p3:     core.NewVec3(0, 0, 0),
			normal: core.NewVec3(0, -1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plane, err := NewPlane(tt.p0, tt.p1, tt.p2, tt.p3)
			require.NoError(t, err)
			assert.Equal(t, 2, plane.TriangleCount())
			assert.InDelta(t, 1.0, plane.Area(), 1e-12)
			for i := 0; i < 2; i++ {
				assertVecInDelta(t, tt.normal, plane.Normal(i), 1e-12)
			}
		})
	}
}
