package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape is the closed set of intersectable surfaces: *Sphere and *TriangleMesh.
type Shape interface {
	// Area returns the surface area, computed once at construction
	Area() float64

	intersect(ray *Ray, owner *Primitive) bool
	randomPoint(ray *Ray, sampler core.Sampler) core.Vec3
}

var (
	_ Shape = (*Sphere)(nil)
	_ Shape = (*TriangleMesh)(nil)
)

// Primitive binds a shape to its material and its handle in the scene
type Primitive struct {
	ID       int
	Shape    Shape
	Material material.Material

	area     float64
	radiance float64
}

// NewPrimitive creates a primitive and caches its area and emitted radiance
func NewPrimitive(id int, shape Shape, mat material.Material) *Primitive {
	area := shape.Area()
	return &Primitive{
		ID:       id,
		Shape:    shape,
		Material: mat,
		area:     area,
		radiance: mat.Radiance(area),
	}
}

// Intersect tests the ray against the primitive. The ray's intersection is
// replaced only by a closer hit, but the result is true for any valid hit.
func (p *Primitive) Intersect(ray *Ray) bool {
	return p.Shape.intersect(ray, p)
}

// RandomPoint samples a point on the surface for light sampling as seen from
// ray's current intersection.
func (p *Primitive) RandomPoint(ray *Ray, sampler core.Sampler) core.Vec3 {
	return p.Shape.randomPoint(ray, sampler)
}

// Area returns the cached surface area
func (p *Primitive) Area() float64 { return p.area }

// Radiance returns the cached emitted radiance, zero for non-emitters
func (p *Primitive) Radiance() float64 { return p.radiance }

// IsEmissive reports whether the primitive is a light source
func (p *Primitive) IsEmissive() bool { return p.Material.IsEmissive() }

func (p *Primitive) record(ray *Ray, t float64, normal core.Vec3) {
	ray.SetIntersection(Intersection{
		Point:     ray.At(t),
		Normal:    normal,
		Distance:  t,
		Material:  p.Material,
		Primitive: p.ID,
	})
}
