package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Vec3
	Radius float64
	area   float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{
		Center: center,
		Radius: radius,
		area:   4 * math.Pi * radius * radius,
	}
}

// Area returns 4*pi*r^2
func (s *Sphere) Area() float64 {
	return s.area
}

// Hit returns the distance to the nearest intersection at or beyond MinDistance
func (s *Sphere) Hit(ray *Ray) (float64, bool) {
	l := ray.Origin.Subtract(s.Center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(l)
	c := l.Dot(l) - s.Radius*s.Radius

	t0, t1, ok := SolveQuadratic(a, b, c)
	if !ok {
		return 0, false
	}
	if t0 < MinDistance {
		// origin is inside the sphere or the near root is behind it
		t0 = t1
		if t0 < MinDistance {
			return 0, false
		}
	}
	return t0, true
}

func (s *Sphere) intersect(ray *Ray, owner *Primitive) bool {
	t, ok := s.Hit(ray)
	if !ok {
		return false
	}
	if ray.FoundCloserIntersection(t) {
		normal := ray.At(t).Subtract(s.Center).Normalize()
		owner.record(ray, t, normal)
	}
	return true
}

// randomPoint samples the hemisphere of the sphere that faces the ray's
// intersection point, cosine-weighted about the outward normal there.
func (s *Sphere) randomPoint(ray *Ray, sampler core.Sampler) core.Vec3 {
	axis := ray.Direction.Negate()
	if hit, ok := ray.Intersection(); ok {
		if toPoint := hit.Point.Subtract(s.Center); toPoint.LengthSquared() > 0 {
			axis = toPoint.Normalize()
		}
	}

	dir := core.SampleCosineHemisphere(axis, ray.Direction, sampler.Get2D())
	return s.Center.Add(dir.Multiply(s.Radius))
}
