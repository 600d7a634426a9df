package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewLambertian creates a perfectly diffuse material with BRDF rho/pi
func NewLambertian(reflectance core.Vec3) Material {
	return Material{
		Kind:        KindLambertian,
		Reflectance: reflectance,
		rhoOverPi:   reflectance.Multiply(1.0 / math.Pi),
	}
}
