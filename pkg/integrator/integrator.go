package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// TraceRayThroughScene estimates the radiance arriving along ray as a
	// linear color clamped to [0, 1]
	TraceRayThroughScene(ray geometry.Ray, sampler core.Sampler) core.Vec3
}
