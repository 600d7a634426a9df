package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewEmissive creates a light-emitting material. reflectance is the color
// returned when the emitter is seen directly; flux drives the radiance
// computed by the owning primitive.
func NewEmissive(reflectance core.Vec3, flux float64) Material {
	return Material{
		Kind:        KindEmissive,
		Reflectance: reflectance,
		Flux:        flux,
		rhoOverPi:   reflectance.Multiply(1.0 / math.Pi),
	}
}

// Radiance returns the emitted radiance flux/(area*pi) for a surface of the
// given area, or zero for non-emissive materials and empty surfaces.
func (m Material) Radiance(area float64) float64 {
	if m.Kind != KindEmissive || area <= 0 {
		return 0
	}
	return m.Flux / (area * math.Pi)
}
