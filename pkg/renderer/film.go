package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Film stores the linear color of every pixel
type Film struct {
	width, height int
	pixels        []core.Vec3
}

var _ PixelSink = (*Film)(nil)

// NewFilm creates a black film
func NewFilm(width, height int) *Film {
	return &Film{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Resolution returns the film size in pixels
func (f *Film) Resolution() (int, int) {
	return f.width, f.height
}

// SetPixel stores c for pixel (x, y). Writes outside the film are ignored.
func (f *Film) SetPixel(x, y int, c core.Vec3) {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return
	}
	f.pixels[y*f.width+x] = c
}

// Pixel returns the stored color of pixel (x, y)
func (f *Film) Pixel(x, y int) core.Vec3 {
	return f.pixels[y*f.width+x]
}

// Image converts the film to 8-bit pixels with gamma 2
func (f *Film) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.width, f.height))
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			img.SetRGBA(x, y, vec3ToColor(f.pixels[y*f.width+x]))
		}
	}
	return img
}

// vec3ToColor converts a Vec3 color to RGBA with proper clamping and gamma correction
func vec3ToColor(colorVec core.Vec3) color.RGBA {
	// Apply gamma correction (gamma = 2.0)
	colorVec = colorVec.Clamp(0.0, 1.0).GammaCorrect(2.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}
