package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/scene"
)

func testCamera(width, height int) *PinholeCamera {
	return NewPinholeCamera(CameraConfig{
		Center: core.NewVec3(0, 0, 0),
		LookAt: core.NewVec3(0, 0, -1),
		Up:     core.NewVec3(0, 1, 0),
		VFov:   45.0,
		Width:  width,
		Height: height,
	})
}

func TestResolutionSize(t *testing.T) {
	testCases := []struct {
		input  string
		res    Resolution
		width  int
		height int
	}{
		{"thumbnail", ResolutionThumbnail, 100, 100},
		{"480p", Resolution480p, 640, 480},
		{"720p", Resolution720p, 1280, 720},
		{"1080P", Resolution1080p, 1920, 1080},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			res, err := ParseResolution(tc.input)
			if err != nil {
				t.Fatalf("ParseResolution(%q) failed: %v", tc.input, err)
			}
			if res != tc.res {
				t.Errorf("ParseResolution(%q) = %v, want %v", tc.input, res, tc.res)
			}
			w, h := res.Size()
			if w != tc.width || h != tc.height {
				t.Errorf("%v.Size() = %dx%d, want %dx%d", res, w, h, tc.width, tc.height)
			}
		})
	}

	if _, err := ParseResolution("4k"); err == nil {
		t.Error("Expected an error for an unknown resolution")
	}
}

func TestCameraGetCameraForward(t *testing.T) {
	camera := testCamera(400, 400)

	forward := camera.GetCameraForward()
	expected := core.NewVec3(0, 0, -1)

	if math.Abs(forward.X-expected.X) > 1e-6 ||
		math.Abs(forward.Y-expected.Y) > 1e-6 ||
		math.Abs(forward.Z-expected.Z) > 1e-6 {
		t.Errorf("Expected forward direction %v, got %v", expected, forward)
	}
}

func TestCameraCenterRay(t *testing.T) {
	camera := testCamera(64, 48)

	// The corner shared by the four middle pixels is the image center
	ray := camera.GenerateRay(31, 23, 0.5, 0.5)
	forward := camera.GetCameraForward()

	if d := ray.Direction.Subtract(forward).Length(); d > 1e-9 {
		t.Errorf("Expected center ray along %v, got %v", forward, ray.Direction)
	}
	if ray.Origin != (core.Vec3{}) {
		t.Errorf("Expected rays to start at the camera center, got %v", ray.Origin)
	}
}

func TestCameraVerticalFieldOfView(t *testing.T) {
	camera := testCamera(64, 48)
	forward := camera.GetCameraForward()

	// top edge, horizontally centered
	top := camera.GenerateRay(31, 0, 0.5, -0.5)
	angle := math.Acos(top.Direction.Dot(forward))
	if math.Abs(angle-mgl64.DegToRad(45.0/2)) > 1e-9 {
		t.Errorf("Expected half vfov %v, got %v", mgl64.DegToRad(45.0/2), angle)
	}
	if top.Direction.Y <= 0 {
		t.Errorf("Expected row 0 to be at the top of the image, got direction %v", top.Direction)
	}

	bottom := camera.GenerateRay(31, 47, 0.5, 0.5)
	if bottom.Direction.Y >= 0 {
		t.Errorf("Expected the last row to be at the bottom of the image, got direction %v", bottom.Direction)
	}
}

func TestCameraHorizontalOrientation(t *testing.T) {
	camera := testCamera(64, 48)

	left := camera.GenerateRay(0, 24, 0, 0)
	right := camera.GenerateRay(63, 24, 0, 0)
	if left.Direction.X >= 0 || right.Direction.X <= 0 {
		t.Errorf("Expected x to grow to the right, got left %v right %v", left.Direction, right.Direction)
	}
	if math.Abs(left.Direction.X+right.Direction.X) > 1e-9 {
		t.Errorf("Expected symmetric edge rays, got %v and %v", left.Direction, right.Direction)
	}
}

func TestCameraJitterStaysInPixel(t *testing.T) {
	camera := testCamera(10, 10)
	sampler := core.NewSeededSampler(1)

	lo := camera.GenerateRay(4, 4, -0.5, -0.5).Direction
	hi := camera.GenerateRay(4, 4, 0.5, 0.5).Direction

	for i := 0; i < 100; i++ {
		j := sampler.Get2D()
		d := camera.GenerateRay(4, 4, j.X-0.5, j.Y-0.5).Direction
		// compare on the image plane z = -1
		x, y := d.X/-d.Z, d.Y/-d.Z
		if x < lo.X/-lo.Z-1e-12 || x > hi.X/-hi.Z+1e-12 || y > lo.Y/-lo.Z+1e-12 || y < hi.Y/-hi.Z-1e-12 {
			t.Fatalf("Jittered ray %v left the pixel", d)
		}
	}
}

func TestConfigFromView(t *testing.T) {
	view := scene.View{
		LookFrom: core.NewVec3(1, 2, 3),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     30,
	}
	config := ConfigFromView(view, Resolution720p)
	if config.Center != view.LookFrom || config.LookAt != view.LookAt || config.VFov != 30 {
		t.Errorf("View not copied: %+v", config)
	}
	if config.Width != 1280 || config.Height != 720 {
		t.Errorf("Expected 1280x720, got %dx%d", config.Width, config.Height)
	}

	w, h := NewPinholeCamera(config).Resolution()
	if w != 1280 || h != 720 {
		t.Errorf("Expected camera resolution 1280x720, got %dx%d", w, h)
	}
}
