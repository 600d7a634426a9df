package material

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// NewOrenNayar creates a rough diffuse material. roughness is the standard
// deviation sigma of the microfacet slope distribution in radians.
func NewOrenNayar(reflectance core.Vec3, roughness float64) Material {
	sigma2 := roughness * roughness
	return Material{
		Kind:        KindOrenNayar,
		Reflectance: reflectance,
		Roughness:   roughness,
		rhoOverPi:   reflectance.Multiply(1.0 / math.Pi),
		a:           1.0 - sigma2/(2.0*(sigma2+0.33)),
		b:           0.45 * sigma2 / (sigma2 + 0.09),
	}
}

func (m Material) orenNayarBRDF(wInAzimuth, wInInclination, wOutAzimuth, wOutInclination float64) core.Vec3 {
	alpha := math.Max(wInInclination, wOutInclination)
	beta := math.Min(wInInclination, wOutInclination)
	cosDelta := math.Max(0, math.Cos(wInAzimuth-wOutAzimuth))

	return m.rhoOverPi.Multiply(m.a + m.b*cosDelta*math.Sin(alpha)*math.Sin(beta))
}
