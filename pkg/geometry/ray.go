package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

const (
	// MinDistance is the smallest accepted hit distance. Hits closer than
	// this are treated as the ray touching its own origin.
	MinDistance = 1e-5
	// SurfaceOffset moves spawned ray origins off the surface along the normal
	SurfaceOffset = 1e-4
)

// Intersection records where a ray hit a primitive
type Intersection struct {
	Point     core.Vec3         // Point of intersection
	Normal    core.Vec3         // Unit surface normal at the intersection
	Distance  float64           // Distance from the ray origin, always > MinDistance
	Material  material.Material // Material of the hit primitive
	Primitive int               // Handle of the hit primitive in its scene
}

// Ray is a half-line with a unit direction. It carries the closest
// intersection found so far among every primitive it has been tested against.
type Ray struct {
	Origin    core.Vec3
	Direction core.Vec3

	hit    Intersection
	hasHit bool
}

// NewRay creates a new ray; direction is normalized
func NewRay(origin, direction core.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray
func (r *Ray) At(t float64) core.Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}

// Intersection returns the current closest hit, if any
func (r *Ray) Intersection() (Intersection, bool) {
	return r.hit, r.hasHit
}

// HasIntersection reports whether anything has been hit yet
func (r *Ray) HasIntersection() bool {
	return r.hasHit
}

// FoundCloserIntersection reports whether a hit at distance d would be the new
// closest hit. Every primitive must consult it before calling SetIntersection.
func (r *Ray) FoundCloserIntersection(d float64) bool {
	return !r.hasHit || d < r.hit.Distance
}

// SetIntersection replaces the current intersection
func (r *Ray) SetIntersection(hit Intersection) {
	r.hit = hit
	r.hasHit = true
}

// ClearIntersection discards the current intersection
func (r *Ray) ClearIntersection() {
	r.hit = Intersection{}
	r.hasHit = false
}

// ReflectedRay spawns the next ray of a path from the current intersection.
// Mirrors reflect specularly; every other material samples a cosine-weighted
// direction about the normal. A ray without an intersection is returned as is.
func (r *Ray) ReflectedRay(sampler core.Sampler) Ray {
	if !r.hasHit {
		return NewRay(r.Origin, r.Direction)
	}

	origin := r.hit.Point.Add(r.hit.Normal.Multiply(SurfaceOffset))
	if r.hit.Material.IsSpecular() {
		return NewRay(origin, r.Direction.Reflect(r.hit.Normal))
	}
	return NewRay(origin, core.SampleCosineHemisphere(r.hit.Normal, r.Direction, sampler.Get2D()))
}

// ShadowRay creates a ray from the current intersection toward target
func (r *Ray) ShadowRay(target core.Vec3) Ray {
	origin := r.hit.Point.Add(r.hit.Normal.Multiply(SurfaceOffset))
	return NewRay(origin, target.Subtract(origin))
}

// BRDFValue evaluates the hit material for light leaving along this ray's
// reverse direction and arriving along other's direction. Both directions are
// expressed in a shading frame built from the normal and this ray's direction.
func (r *Ray) BRDFValue(other Ray) core.Vec3 {
	if !r.hasHit {
		return core.Vec3{}
	}

	normal := r.hit.Normal
	tangent := core.Tangent(normal, r.Direction)
	bitangent := normal.Cross(tangent)

	inAzimuth, inInclination := sphericalAngles(r.Direction.Negate(), tangent, bitangent, normal)
	outAzimuth, outInclination := sphericalAngles(other.Direction, tangent, bitangent, normal)

	return r.hit.Material.BRDF(inAzimuth, inInclination, outAzimuth, outInclination)
}

// sphericalAngles returns the azimuth and inclination of dir in the frame (t, b, n)
func sphericalAngles(dir, t, b, n core.Vec3) (azimuth, inclination float64) {
	x, y, z := dir.Dot(t), dir.Dot(b), dir.Dot(n)
	inclination = math.Acos(math.Max(-1, math.Min(1, z)))
	azimuth = math.Atan2(y, x)
	return azimuth, inclination
}

// HitsDiffuseObject reports whether the hit material is neither a mirror nor an emitter
func (r *Ray) HitsDiffuseObject() bool {
	return r.hasHit && r.hit.Material.IsDiffuse()
}

// HitsEmissiveObject reports whether the hit material emits light
func (r *Ray) HitsEmissiveObject() bool {
	return r.hasHit && r.hit.Material.IsEmissive()
}

// LengthSquared returns the squared distance from the origin to the intersection
func (r *Ray) LengthSquared() float64 {
	if !r.hasHit {
		return math.Inf(1)
	}
	return r.hit.Point.Subtract(r.Origin).LengthSquared()
}
