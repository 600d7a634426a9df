package material

import (
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Kind identifies one of the closed set of reflectance models
type Kind uint8

const (
	KindLambertian Kind = iota
	KindOrenNayar
	KindPerfectMirror
	KindEmissive
)

func (k Kind) String() string {
	switch k {
	case KindLambertian:
		return "lambertian"
	case KindOrenNayar:
		return "oren-nayar"
	case KindPerfectMirror:
		return "perfect-mirror"
	case KindEmissive:
		return "emissive"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Material is an immutable surface description. It is a small value type and
// may be shared by any number of primitives.
type Material struct {
	Kind        Kind
	Reflectance core.Vec3 // rho
	Roughness   float64   // sigma, Oren-Nayar only
	Flux        float64   // radiant flux, Emissive only

	rhoOverPi core.Vec3
	a, b      float64 // Oren-Nayar A and B terms
}

// BRDF evaluates the reflectance for the incoming and outgoing directions
// given as spherical angles in the local shading frame.
func (m Material) BRDF(wInAzimuth, wInInclination, wOutAzimuth, wOutInclination float64) core.Vec3 {
	switch m.Kind {
	case KindLambertian:
		return m.rhoOverPi
	case KindOrenNayar:
		return m.orenNayarBRDF(wInAzimuth, wInInclination, wOutAzimuth, wOutInclination)
	case KindPerfectMirror:
		return mirrorBRDF
	case KindEmissive:
		return m.Reflectance
	default:
		panic(fmt.Sprintf("material: unknown kind %v", m.Kind))
	}
}

// IsDiffuse reports whether the material scatters diffusely and therefore
// receives direct lighting.
func (m Material) IsDiffuse() bool {
	return m.Kind != KindPerfectMirror && m.Kind != KindEmissive
}

// IsEmissive reports whether the material emits light
func (m Material) IsEmissive() bool {
	return m.Kind == KindEmissive
}

// IsSpecular reports whether the material reflects deterministically
func (m Material) IsSpecular() bool {
	return m.Kind == KindPerfectMirror
}
