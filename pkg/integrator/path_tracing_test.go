package integrator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// constSampler returns the same value for every sample
type constSampler struct {
	v float64
}

func (c constSampler) Get1D() float64 { return c.v }
func (c constSampler) Get2D() core.Vec2 {
	return core.NewVec2(c.v, c.v)
}

func testSettings(shadowRays int) core.RenderSettings {
	settings := core.DefaultRenderSettings()
	settings.ShadowRays = shadowRays
	return settings
}

// overheadScene creates a white floor under a black 0.1 x 0.1 emitter of flux
// 5 at height 1. The emitter reflects nothing, so only direct light reaches
// the floor.
func overheadScene(t *testing.T) *scene.Scene {
	t.Helper()
	s, err := scene.NewOverheadLight(0.1, 1, 5, core.NewVec3(0, 0, 0))
	require.NoError(t, err)
	return s
}

// floorRay is a ray straight down onto the floor just off the light's axis
func floorRay() geometry.Ray {
	return geometry.NewRay(core.NewVec3(0.01, 0.3, 0.02), core.NewVec3(0, -1, 0))
}

func TestPathTracingMissedRay(t *testing.T) {
	integrator := NewPathTracingIntegrator(overheadScene(t), testSettings(4))
	sampler := core.NewSeededSampler(42)

	// Pointing up past the light
	ray := geometry.NewRay(core.NewVec3(3, 0.5, 0), core.NewVec3(0, 1, 0))
	color := integrator.TraceRayThroughScene(ray, sampler)
	if color != (core.Vec3{}) {
		t.Errorf("Expected black for a missed ray, got %v", color)
	}
}

func TestPathTracingEmissiveMaterial(t *testing.T) {
	s := scene.New("light")
	lightColor := core.NewVec3(0.9, 0.5, 0.2)
	s.AddSphere(0.5, core.NewVec3(0, 0, -2), material.NewEmissive(lightColor, 100))

	integrator := NewPathTracingIntegrator(s, testSettings(1))
	ray := geometry.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	// A directly viewed light shows its reflectance, whatever its flux
	color := integrator.TraceRayThroughScene(ray, core.NewSeededSampler(1))
	assertVecInDelta(t, lightColor, color, 1e-12)
}

func TestPathTracingSpecularMaterial(t *testing.T) {
	s := scene.New("mirror")
	_, err := s.AddPlane(
		core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5),
		core.NewVec3(5, 0, 5), core.NewVec3(-5, 0, 5),
		material.NewPerfectMirror(),
	)
	require.NoError(t, err)

	// Light standing at x=2.1 facing -x
	lightColor := core.NewVec3(0.3, 0.6, 0.9)
	_, err = s.AddPlane(
		core.NewVec3(2.1, 3, -1), core.NewVec3(2.1, 3, 1),
		core.NewVec3(2.1, 1, 1), core.NewVec3(2.1, 1, -1),
		material.NewEmissive(lightColor, 10),
	)
	require.NoError(t, err)

	integrator := NewPathTracingIntegrator(s, testSettings(4))

	// Down onto the mirror at (0.1, 0, 0.2), reflecting up toward the light
	ray := geometry.NewRay(core.NewVec3(-0.9, 1, 0.2), core.NewVec3(1, -1, 0))
	for seed := int64(0); seed < 20; seed++ {
		color := integrator.TraceRayThroughScene(ray, core.NewSeededSampler(seed))
		assertVecInDelta(t, lightColor, color, 1e-12)
	}
}

func TestPathTracingDepthTermination(t *testing.T) {
	// Two facing mirrors trap the path forever
	s := scene.New("hall-of-mirrors")
	mirror := material.NewPerfectMirror()
	_, err := s.AddPlane(
		core.NewVec3(-50, 0, -50), core.NewVec3(50, 0, -50),
		core.NewVec3(50, 0, 50), core.NewVec3(-50, 0, 50),
		mirror,
	)
	require.NoError(t, err)
	_, err = s.AddPlane(
		core.NewVec3(-50, 1, 50), core.NewVec3(50, 1, 50),
		core.NewVec3(50, 1, -50), core.NewVec3(-50, 1, -50),
		mirror,
	)
	require.NoError(t, err)

	tests := []struct {
		name     string
		maxDepth int
	}{
		{"single bounce", 1},
		{"default depth", 50},
		{"deep", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings(1)
			settings.MaxDepth = tt.maxDepth
			integrator := NewPathTracingIntegrator(s, settings)

			ray := geometry.NewRay(core.NewVec3(0.013, 0.5, 0.027), core.NewVec3(0.001, -1, 0.002))
			color := integrator.TraceRayThroughScene(ray, core.NewSeededSampler(7))
			assert.Equal(t, core.Vec3{}, color)
		})
	}
}

func TestApplyRussianRoulette(t *testing.T) {
	tests := []struct {
		name         string
		compensate   bool
		diffuse      bool
		r            float64
		terminate    bool
		compensation float64
	}{
		{"mirror always continues", false, false, 0.99, false, 1},
		{"mirror ignores compensation", true, false, 0.99, false, 1},
		{"diffuse survives", false, true, 0.5, false, 1},
		{"diffuse terminates at coefficient", false, true, 0.9, true, 0},
		{"diffuse terminates above coefficient", false, true, 0.95, true, 0},
		{"compensated survivor", true, true, 0.1, false, 1 / 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := testSettings(1)
			settings.CompensateRussianRoulette = tt.compensate
			integrator := NewPathTracingIntegrator(scene.New("empty"), settings)

			terminate, compensation := integrator.ApplyRussianRoulette(tt.diffuse, tt.r)
			assert.Equal(t, tt.terminate, terminate)
			assert.InDelta(t, tt.compensation, compensation, 1e-12)
		})
	}
}

func TestPathTracingRussianRouletteCompensation(t *testing.T) {
	// A white 10 x 10 emitter right above the floor catches the one bounce
	// taken with a constant sampler
	s, err := scene.NewOverheadLight(10, 1, 0.5, core.NewVec3(1, 1, 1))
	require.NoError(t, err)

	plain := NewPathTracingIntegrator(s, testSettings(1))
	settings := testSettings(1)
	settings.CompensateRussianRoulette = true
	compensated := NewPathTracingIntegrator(s, settings)

	sampler := constSampler{v: 0.5}
	a := plain.TraceRayThroughScene(floorRay(), sampler)
	b := compensated.TraceRayThroughScene(floorRay(), sampler)

	// bounce contribution is floor BRDF (1/pi) times the light's reflectance (1)
	expected := (1 / math.Pi) * (1/0.9 - 1)
	assert.InDelta(t, expected, b.X-a.X, 1e-9)
	assert.InDelta(t, expected, b.Y-a.Y, 1e-9)
	assert.InDelta(t, expected, b.Z-a.Z, 1e-9)
}

// recursiveReference evaluates the estimator the recursive way: every level
// adds its direct lighting to the BRDF weighted value of the level below and
// clamps the sum when clampLevels is set.
func recursiveReference(pt *PathTracingIntegrator, ray geometry.Ray, sampler core.Sampler, depth int, clampLevels bool) core.Vec3 {
	if depth >= pt.settings.MaxDepth || !pt.scene.ClosestHit(&ray) {
		return core.Vec3{}
	}

	reflected := ray.ReflectedRay(sampler)
	if ray.HitsEmissiveObject() {
		return ray.BRDFValue(reflected)
	}

	diffuse := ray.HitsDiffuseObject()
	terminate, compensation := pt.ApplyRussianRoulette(diffuse, sampler.Get1D())

	color := core.Vec3{}
	if !terminate {
		inner := recursiveReference(pt, reflected, sampler, depth+1, clampLevels)
		color = inner.MultiplyVec(ray.BRDFValue(reflected).Multiply(compensation))
	}
	if diffuse {
		color = color.Add(pt.DirectLighting(&ray, sampler))
	}
	if clampLevels {
		return color.Clamp(0, 1)
	}
	return color
}

// shadedCeilingScene has a white floor and a white ceiling 2 apart. A very
// bright emitter sphere floats at height 1 and an occluder above it keeps
// the middle of the ceiling in shadow, so the ceiling only sees the light
// bounced off the floor.
func shadedCeilingScene(t *testing.T) *scene.Scene {
	t.Helper()
	white := material.NewLambertian(core.NewVec3(1, 1, 1))
	s := scene.New("shaded-ceiling")
	_, err := s.AddPlane(
		core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5),
		core.NewVec3(5, 0, 5), core.NewVec3(-5, 0, 5),
		white,
	)
	require.NoError(t, err)
	_, err = s.AddPlane(
		core.NewVec3(-5, 2, 5), core.NewVec3(5, 2, 5),
		core.NewVec3(5, 2, -5), core.NewVec3(-5, 2, -5),
		white,
	)
	require.NoError(t, err)
	s.AddSphere(0.1, core.NewVec3(0, 1, 0), material.NewEmissive(core.NewVec3(1, 1, 1), 50000))
	s.AddSphere(0.2, core.NewVec3(0, 1.5, 0), white)
	return s
}

func TestPathTracingClampsEveryLevel(t *testing.T) {
	s := shadedCeilingScene(t)
	settings := testSettings(1)
	settings.MaxDepth = 2
	integrator := NewPathTracingIntegrator(s, settings)

	// Up onto the shaded ceiling; the bounce lands on the brightly lit floor
	ray := geometry.NewRay(core.NewVec3(0.02, 1.8, 0.03), core.NewVec3(0, 1, 0))

	for _, v := range []float64{0.2, 0.4, 0.7} {
		sampler := constSampler{v: v}
		clamped := recursiveReference(integrator, ray, sampler, 0, true)
		unclamped := recursiveReference(integrator, ray, sampler, 0, false).Clamp(0, 1)

		// The floor is lit far above 1, so clamping it before the bounce matters
		require.Greater(t, unclamped.X-clamped.X, 0.1, "v=%g", v)

		color := integrator.TraceRayThroughScene(ray, sampler)
		assertVecInDelta(t, clamped, color, 1e-9)
		// clamped floor (1) times the ceiling BRDF, no direct light at the ceiling
		assertVecInDelta(t, core.NewVec3(1/math.Pi, 1/math.Pi, 1/math.Pi), color, 1e-9)
	}
}

func TestPathTracingMatchesRecursiveEstimator(t *testing.T) {
	s, err := scene.NewCornellScene()
	require.NoError(t, err)
	integrator := NewPathTracingIntegrator(s, testSettings(2))

	origin := core.NewVec3(0, 0, 3.8)
	directions := []core.Vec3{
		core.NewVec3(0, 0, -1),
		core.NewVec3(-0.3, -0.2, -1),
		core.NewVec3(0.25, -0.2, -0.8),
		core.NewVec3(0.1, 0.3, -1),
	}

	// Both evaluations draw the same samples in the same order
	for _, dir := range directions {
		for seed := int64(0); seed < 25; seed++ {
			ray := geometry.NewRay(origin, dir)
			want := recursiveReference(integrator, ray, core.NewSeededSampler(seed), 0, true)
			got := integrator.TraceRayThroughScene(ray, core.NewSeededSampler(seed))
			assertVecInDelta(t, want, got, 1e-9)
		}
	}
}

func TestShadowContribution_Occluder(t *testing.T) {
	open := overheadScene(t)
	blocked := overheadScene(t)
	blocked.AddSphere(0.2, core.NewVec3(0, 0.6, 0), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))

	measure := func(s *scene.Scene) core.Vec3 {
		ray := floorRay()
		require.True(t, s.ClosestHit(&ray))
		return NewPathTracingIntegrator(s, testSettings(64)).DirectLighting(&ray, core.NewSeededSampler(3))
	}

	unoccluded := measure(open)
	occluded := measure(blocked)

	assert.Greater(t, unoccluded.X, 0.1)
	assert.InDelta(t, 0.0, occluded.X, 1e-12)
	assert.InDelta(t, 0.0, occluded.Y, 1e-12)
	assert.InDelta(t, 0.0, occluded.Z, 1e-12)
}

func TestShadowContribution_Orientation(t *testing.T) {
	s := overheadScene(t)
	ray := floorRay()
	require.True(t, s.ClosestHit(&ray))
	integrator := NewPathTracingIntegrator(s, testSettings(1))

	// on the light, facing the floor
	lit := integrator.ShadowContribution(&ray, core.NewVec3(0.01, 1, 0.03))
	assert.Greater(t, lit.X, 0.0)

	// below the floor
	below := integrator.ShadowContribution(&ray, core.NewVec3(0, -1, 0))
	assert.Equal(t, core.Vec3{}, below)

	// a point on the floor is not an emitter
	floor := integrator.ShadowContribution(&ray, core.NewVec3(2, 0, 0))
	assert.Equal(t, core.Vec3{}, floor)

	// without an intersection there is nothing to shade
	miss := floorRay()
	assert.Equal(t, core.Vec3{}, integrator.ShadowContribution(&miss, core.NewVec3(0, 1, 0)))
}

func TestShadowContribution_LightBackFace(t *testing.T) {
	s := scene.New("upside-down")
	_, err := s.AddPlane(
		core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5),
		core.NewVec3(5, 0, 5), core.NewVec3(-5, 0, 5),
		material.NewLambertian(core.NewVec3(1, 1, 1)),
	)
	require.NoError(t, err)
	// emitter facing up, away from the floor
	_, err = s.AddPlane(
		core.NewVec3(-0.5, 1, -0.5), core.NewVec3(0.5, 1, -0.5),
		core.NewVec3(0.5, 1, 0.5), core.NewVec3(-0.5, 1, 0.5),
		material.NewEmissive(core.NewVec3(1, 1, 1), 5),
	)
	require.NoError(t, err)

	ray := floorRay()
	require.True(t, s.ClosestHit(&ray))
	integrator := NewPathTracingIntegrator(s, testSettings(16))

	direct := integrator.DirectLighting(&ray, core.NewSeededSampler(9))
	assert.Equal(t, core.Vec3{}, direct)
}

func TestPathTracingNoEmitters(t *testing.T) {
	s := scene.New("dark")
	_, err := s.AddPlane(
		core.NewVec3(-5, 0, -5), core.NewVec3(5, 0, -5),
		core.NewVec3(5, 0, 5), core.NewVec3(-5, 0, 5),
		material.NewLambertian(core.NewVec3(1, 1, 1)),
	)
	require.NoError(t, err)
	s.AddSphere(0.5, core.NewVec3(0, 0.5, -1), material.NewOrenNayar(core.NewVec3(0.9, 0.9, 0.9), 0.3))
	s.AddSphere(0.5, core.NewVec3(1, 0.5, 0), material.NewPerfectMirror())

	integrator := NewPathTracingIntegrator(s, testSettings(8))
	sampler := core.NewSeededSampler(11)

	for i := 0; i < 200; i++ {
		dir := core.NewVec3(sampler.Get1D()-0.5, -0.5, sampler.Get1D()-0.5)
		ray := geometry.NewRay(core.NewVec3(0, 2, 2), dir)

		if s.ClosestHit(&ray) {
			assert.Equal(t, core.Vec3{}, integrator.DirectLighting(&ray, sampler))
		}
		assert.Equal(t, core.Vec3{}, integrator.TraceRayThroughScene(geometry.NewRay(ray.Origin, ray.Direction), sampler))
	}
}

func TestPathTracingConvergesToDirectTerm(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence test in short mode")
	}

	const flux = 5.0
	integrator := NewPathTracingIntegrator(overheadScene(t), testSettings(16))
	sampler := core.NewSeededSampler(2024)

	const samples = 2000
	sum := core.Vec3{}
	for i := 0; i < samples; i++ {
		color := integrator.TraceRayThroughScene(floorRay(), sampler)
		for _, c := range []float64{color.X, color.Y, color.Z} {
			require.GreaterOrEqual(t, c, 0.0)
			require.LessOrEqual(t, c, 1.0)
		}
		sum = sum.Add(color)
	}
	mean := sum.Multiply(1.0 / samples)

	// radiance * area * cos * cos / d^2 at d=1 under the light, times the
	// white floor's BRDF 1/pi
	expected := math.Min(1, flux/(0.01*math.Pi)*0.01*1*1/1*(1/math.Pi))
	assert.InEpsilon(t, expected, mean.X, 0.03)
	assert.InEpsilon(t, expected, mean.Y, 0.03)
	assert.InEpsilon(t, expected, mean.Z, 0.03)
}

func assertVecInDelta(t *testing.T, expected, actual core.Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, expected.X, actual.X, delta, "X")
	assert.InDelta(t, expected.Y, actual.Y, delta, "Y")
	assert.InDelta(t, expected.Z, actual.Z, delta, "Z")
}
