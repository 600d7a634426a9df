package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// RowRenderer renders one row of pixels at a time using an integrator
type RowRenderer struct {
	camera     RayGenerator
	integrator integrator.Integrator
	subSamples int
}

// NewRowRenderer creates a row renderer for the given camera and integrator
func NewRowRenderer(camera RayGenerator, integratorInst integrator.Integrator, subSamples int) *RowRenderer {
	return &RowRenderer{
		camera:     camera,
		integrator: integratorInst,
		subSamples: subSamples,
	}
}

// RenderRow fills pixels with the averaged color of every pixel in row y.
// sampler must not be shared with another goroutine.
func (rr *RowRenderer) RenderRow(y int, pixels []core.Vec3, sampler core.Sampler) RenderStats {
	stats := RenderStats{TotalPixels: len(pixels)}

	for x := range pixels {
		var ps PixelStats
		for s := 0; s < rr.subSamples; s++ {
			jitter := sampler.Get2D()
			ray := rr.camera.GenerateRay(x, y, jitter.X-0.5, jitter.Y-0.5)
			ps.AddSample(rr.integrator.TraceRayThroughScene(ray, sampler))
		}
		pixels[x] = ps.GetColor()
		stats.TotalSamples += ps.SampleCount
	}

	return stats
}
