package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// PathTracingIntegrator implements unidirectional path tracing with next event
// estimation at every diffuse vertex
type PathTracingIntegrator struct {
	scene    *scene.Scene
	settings core.RenderSettings
}

var _ Integrator = (*PathTracingIntegrator)(nil)

// NewPathTracingIntegrator creates a new path tracing integrator for a scene.
// The scene must not be modified while the integrator is in use.
func NewPathTracingIntegrator(s *scene.Scene, settings core.RenderSettings) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		scene:    s,
		settings: settings,
	}
}

// TraceRayThroughScene follows one path from ray and returns its color
// clamped to [0, 1]
func (pt *PathTracingIntegrator) TraceRayThroughScene(ray geometry.Ray, sampler core.Sampler) core.Vec3 {
	return pt.tracePath(ray, sampler).Clamp(0, 1)
}

// pathVertex is one non-emissive hit along a path
type pathVertex struct {
	ray     geometry.Ray // carries the hit
	diffuse bool
	weight  core.Vec3 // BRDF toward the next vertex times roulette compensation, zero once terminated
}

// tracePath evaluates the recursive estimator without recursion. The forward
// pass walks the path, drawing the reflected direction and the roulette
// sample at every vertex. The backward pass folds the vertices from the
// deepest one up: each level adds its direct lighting to the weighted value of
// the level below and clamps the sum to [0, 1]. Direct lighting samples are
// therefore drawn in the same order a recursive evaluation would draw them.
// Vertices at MaxDepth or beyond contribute black.
func (pt *PathTracingIntegrator) tracePath(ray geometry.Ray, sampler core.Sampler) core.Vec3 {
	vertices := make([]pathVertex, 0, 8)
	radiance := core.Vec3{}

	for depth := 0; depth < pt.settings.MaxDepth; depth++ {
		ray.ClearIntersection()
		if !pt.scene.ClosestHit(&ray) {
			break
		}

		reflected := ray.ReflectedRay(sampler)

		// A light seen directly ends the path
		if ray.HitsEmissiveObject() {
			radiance = ray.BRDFValue(reflected)
			break
		}

		diffuse := ray.HitsDiffuseObject()
		terminate, compensation := pt.ApplyRussianRoulette(diffuse, sampler.Get1D())

		vertex := pathVertex{ray: ray, diffuse: diffuse}
		if !terminate {
			vertex.weight = ray.BRDFValue(reflected).Multiply(compensation)
		}
		vertices = append(vertices, vertex)

		if terminate {
			break
		}
		ray = reflected
	}

	for i := len(vertices) - 1; i >= 0; i-- {
		v := &vertices[i]
		color := radiance.MultiplyVec(v.weight)

		// Mirrors receive no direct lighting
		if v.diffuse {
			color = color.Add(pt.DirectLighting(&v.ray, sampler))
		}
		radiance = color.Clamp(0, 1)
	}

	return radiance
}

// ApplyRussianRoulette decides whether the path continues past a vertex given
// a uniform sample r. Non-diffuse vertices always continue. Diffuse vertices
// continue only while r is below the roulette coefficient.
// Returns (shouldTerminate, compensationFactor)
func (pt *PathTracingIntegrator) ApplyRussianRoulette(diffuse bool, r float64) (bool, float64) {
	if !diffuse {
		return false, 1.0
	}

	survivalProb := pt.settings.RussianRouletteCoefficient
	if r >= survivalProb {
		return true, 0.0
	}

	if pt.settings.CompensateRussianRoulette {
		return false, 1.0 / survivalProb
	}
	return false, 1.0
}

// DirectLighting estimates the light arriving at ray's intersection straight
// from every emitter in the scene. Each emitter gets ShadowRays samples whose
// mean is scaled by the emitter's radiance times its area.
func (pt *PathTracingIntegrator) DirectLighting(ray *geometry.Ray, sampler core.Sampler) core.Vec3 {
	direct := core.Vec3{}
	if !ray.HasIntersection() {
		return direct
	}

	shadowRays := pt.settings.ShadowRays
	for _, id := range pt.scene.Emitters() {
		light := pt.scene.Primitive(id)

		sum := core.Vec3{}
		for i := 0; i < shadowRays; i++ {
			target := light.RandomPoint(ray, sampler)
			sum = sum.Add(pt.ShadowContribution(ray, target))
		}

		direct = direct.Add(sum.Multiply(light.Radiance() * light.Area() / float64(shadowRays)))
	}

	return direct
}

// ShadowContribution returns the BRDF weighted geometry term between ray's
// intersection and a sampled point on an emitter. It is black unless both
// surfaces face each other and the emitter is the first thing the shadow ray hits.
func (pt *PathTracingIntegrator) ShadowContribution(ray *geometry.Ray, target core.Vec3) core.Vec3 {
	hit, ok := ray.Intersection()
	if !ok {
		return core.Vec3{}
	}

	shadowRay := ray.ShadowRay(target)
	cosBeta := shadowRay.Direction.Dot(hit.Normal)
	if cosBeta < 0 {
		return core.Vec3{}
	}

	if !pt.scene.ClosestHit(&shadowRay) || !shadowRay.HitsEmissiveObject() {
		return core.Vec3{}
	}

	lightHit, _ := shadowRay.Intersection()
	cosAlpha := shadowRay.Direction.Negate().Dot(lightHit.Normal)
	if cosAlpha < 0 {
		return core.Vec3{}
	}

	g := cosAlpha * cosBeta / shadowRay.LengthSquared()
	return ray.BRDFValue(shadowRay).Multiply(g)
}
