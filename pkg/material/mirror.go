package material

import "github.com/df07/go-pathtracer/pkg/core"

// mirrorBRDF stands in for the delta distribution of a perfect mirror.
// It is only ever applied to the deterministic reflection direction.
var mirrorBRDF = core.NewVec3(1, 1, 1)

// NewPerfectMirror creates an ideal specular reflector
func NewPerfectMirror() Material {
	return Material{Kind: KindPerfectMirror}
}
