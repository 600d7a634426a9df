package renderer

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Renderer maps the rows of the image across a bounded set of goroutines.
// Every row draws from its own sampler seeded with Seed+row, so the output
// only depends on the settings, never on scheduling.
type Renderer struct {
	settings core.RenderSettings
	logger   core.Logger

	scene  *scene.Scene
	camera RayGenerator
}

// NewRenderer creates a renderer with validated settings
func NewRenderer(settings core.RenderSettings, logger core.Logger) (*Renderer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Renderer{settings: settings, logger: logger}, nil
}

// Attach sets the scene to render
func (r *Renderer) Attach(s *scene.Scene) {
	r.scene = s
}

// SetCamera sets the primary ray generator
func (r *Renderer) SetCamera(camera RayGenerator) {
	r.camera = camera
}

// Settings returns the renderer's settings
func (r *Renderer) Settings() core.RenderSettings {
	return r.settings
}

// Render traces every pixel and hands the finished colors to sink once all
// rows are done. It fails with ErrNoScene or ErrNoCamera when a collaborator
// has not been attached yet; attach it and call Render again. A nil sink
// fails with ErrNoSink before any pixel is traced.
func (r *Renderer) Render(sink PixelSink) (RenderStats, error) {
	if r.scene == nil {
		return RenderStats{}, core.ErrNoScene
	}
	if r.camera == nil {
		return RenderStats{}, core.ErrNoCamera
	}
	if sink == nil {
		return RenderStats{}, core.ErrNoSink
	}

	width, height := r.camera.Resolution()
	if width <= 0 || height <= 0 {
		return RenderStats{}, fmt.Errorf("%w: camera resolution %dx%d", core.ErrInvalidSettings, width, height)
	}

	workers := r.settings.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	stats := RenderStats{
		RenderID:    uuid.NewString(),
		Width:       width,
		Height:      height,
		TotalPixels: width * height,
	}

	r.logger.Infof("render %s: scene %q, %dx%d, %d subsamples, %d shadow rays, %d emitters, %d workers",
		stats.RenderID, r.scene.Name, width, height, r.settings.SubSamples, r.settings.ShadowRays,
		len(r.scene.Emitters()), workers)
	if len(r.scene.Emitters()) == 0 {
		r.logger.Warnf("render %s: scene %q has no emitters, direct lighting will be black", stats.RenderID, r.scene.Name)
	}

	start := time.Now()
	pathTracer := integrator.NewPathTracingIntegrator(r.scene, r.settings)
	rows := NewRowRenderer(r.camera, pathTracer, r.settings.SubSamples)
	progress := newProgressTracker(stats.RenderID, height, r.settings.ProgressEveryPercent, r.logger)

	pixels := make([]core.Vec3, width*height)
	var totalSamples atomic.Int64

	var g errgroup.Group
	g.SetLimit(workers)
	for y := 0; y < height; y++ {
		g.Go(func() error {
			sampler := core.NewSeededSampler(r.settings.Seed + int64(y))
			rowStats := rows.RenderRow(y, pixels[y*width:(y+1)*width], sampler)
			totalSamples.Add(int64(rowStats.TotalSamples))
			progress.rowDone()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, fmt.Errorf("render %s: %w", stats.RenderID, err)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sink.SetPixel(x, y, pixels[y*width+x])
		}
	}

	stats.TotalSamples = int(totalSamples.Load())
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.Duration = time.Since(start)

	r.logger.Infof("render %s: finished in %v (%d samples)", stats.RenderID, stats.Duration, stats.TotalSamples)
	return stats, nil
}

// progressTracker logs every time another `step` percent of the rows is done
type progressTracker struct {
	renderID string
	total    int64
	step     int64
	logger   core.Logger

	done     atomic.Int64
	reported atomic.Int64 // last logged bucket
}

func newProgressTracker(renderID string, totalRows, everyPercent int, logger core.Logger) *progressTracker {
	return &progressTracker{
		renderID: renderID,
		total:    int64(totalRows),
		step:     int64(max(1, everyPercent)),
		logger:   logger,
	}
}

func (p *progressTracker) rowDone() {
	n := p.done.Add(1)
	bucket := n * 100 / p.total / p.step
	for {
		last := p.reported.Load()
		if bucket <= last {
			return
		}
		if p.reported.CompareAndSwap(last, bucket) {
			p.logger.Infof("render %s: %d%% complete", p.renderID, min(100, bucket*p.step))
			return
		}
	}
}
