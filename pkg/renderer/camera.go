package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Resolution is one of the supported output sizes
type Resolution int

const (
	ResolutionThumbnail Resolution = iota // 100 x 100
	Resolution480p                        // 640 x 480
	Resolution720p                        // 1280 x 720
	Resolution1080p                       // 1920 x 1080
)

// ParseResolution maps "thumbnail", "480p", "720p" or "1080p" to a Resolution
func ParseResolution(s string) (Resolution, error) {
	switch strings.ToLower(s) {
	case "thumbnail":
		return ResolutionThumbnail, nil
	case "480p":
		return Resolution480p, nil
	case "720p":
		return Resolution720p, nil
	case "1080p":
		return Resolution1080p, nil
	default:
		return ResolutionThumbnail, fmt.Errorf("unknown resolution %q (want thumbnail, 480p, 720p or 1080p)", s)
	}
}

// Size returns the width and height in pixels
func (r Resolution) Size() (width, height int) {
	switch r {
	case Resolution480p:
		return 640, 480
	case Resolution720p:
		return 1280, 720
	case Resolution1080p:
		return 1920, 1080
	default:
		return 100, 100
	}
}

func (r Resolution) String() string {
	switch r {
	case Resolution480p:
		return "480p"
	case Resolution720p:
		return "720p"
	case Resolution1080p:
		return "1080p"
	default:
		return "thumbnail"
	}
}

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Center core.Vec3 // Camera position
	LookAt core.Vec3 // Point the camera is looking at
	Up     core.Vec3 // Up direction (usually 0,1,0)
	VFov   float64   // Vertical field of view in degrees
	Width  int       // Image width in pixels
	Height int       // Image height in pixels
}

// ConfigFromView builds a camera configuration for a scene's view
func ConfigFromView(view scene.View, res Resolution) CameraConfig {
	width, height := res.Size()
	return CameraConfig{
		Center: view.LookFrom,
		LookAt: view.LookAt,
		Up:     view.Up,
		VFov:   view.VFov,
		Width:  width,
		Height: height,
	}
}

// PinholeCamera generates rays from a single point through a virtual screen
// one unit in front of it
type PinholeCamera struct {
	config     CameraConfig
	origin     core.Vec3
	upperLeft  core.Vec3
	horizontal core.Vec3
	vertical   core.Vec3
}

var _ RayGenerator = (*PinholeCamera)(nil)

// NewPinholeCamera creates a camera from the given configuration
func NewPinholeCamera(config CameraConfig) *PinholeCamera {
	aspectRatio := float64(config.Width) / float64(config.Height)
	theta := mgl64.DegToRad(config.VFov)
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := aspectRatio * viewportHeight

	// Orthonormal basis: w points backwards, u right, v up
	w := config.Center.Subtract(config.LookAt).Normalize()
	u := config.Up.Cross(w).Normalize()
	v := w.Cross(u)

	horizontal := u.Multiply(viewportWidth)
	vertical := v.Multiply(viewportHeight)
	upperLeft := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Add(vertical.Multiply(0.5)).
		Subtract(w)

	return &PinholeCamera{
		config:     config,
		origin:     config.Center,
		upperLeft:  upperLeft,
		horizontal: horizontal,
		vertical:   vertical,
	}
}

// Resolution returns the image size in pixels
func (c *PinholeCamera) Resolution() (int, int) {
	return c.config.Width, c.config.Height
}

// GenerateRay returns the ray through pixel (x, y). Row 0 is the top of the
// image.
func (c *PinholeCamera) GenerateRay(x, y int, jx, jy float64) geometry.Ray {
	s := (float64(x) + 0.5 + jx) / float64(c.config.Width)
	t := (float64(y) + 0.5 + jy) / float64(c.config.Height)

	target := c.upperLeft.
		Add(c.horizontal.Multiply(s)).
		Subtract(c.vertical.Multiply(t))

	return geometry.NewRay(c.origin, target.Subtract(c.origin))
}

// GetCameraForward returns the direction through the image center
func (c *PinholeCamera) GetCameraForward() core.Vec3 {
	return c.config.LookAt.Subtract(c.config.Center).Normalize()
}
