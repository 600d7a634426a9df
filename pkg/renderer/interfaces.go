package renderer

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// RayGenerator produces primary rays for a pixel grid
type RayGenerator interface {
	// Resolution returns the pixel grid size
	Resolution() (width, height int)
	// GenerateRay returns the world space ray through pixel (x, y), offset
	// from the pixel center by the jitter jx, jy in [-0.5, 0.5]
	GenerateRay(x, y int, jx, jy float64) geometry.Ray
}

// PixelSink receives finished linear colors in [0, 1]
type PixelSink interface {
	SetPixel(x, y int, c core.Vec3)
}
