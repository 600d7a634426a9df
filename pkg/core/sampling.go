package core

import (
	"math"
	"math/rand"
)

// Sampler supplies uniform samples in [0, 1).
// A Sampler is not safe for concurrent use; give each render task its own.
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a deterministic sampler for the given seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Tangent returns a unit vector perpendicular to normal, taken from the part
// of reference that is orthogonal to normal. When reference is (nearly)
// parallel to normal an arbitrary perpendicular axis is used instead.
func Tangent(normal, reference Vec3) Vec3 {
	t := reference.Subtract(normal.Multiply(reference.Dot(normal)))
	if t.LengthSquared() > Epsilon {
		return t.Normalize()
	}

	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}
	return nt.Cross(normal).Normalize()
}

// SampleCosineHemisphere draws a cosine-weighted direction in the hemisphere
// around normal. The inclination is acos(sqrt(u)) and the azimuth 2*pi*v;
// the normal is tilted by the inclination about a tangent built from
// reference and then spun by the azimuth about itself.
func SampleCosineHemisphere(normal, reference Vec3, sample Vec2) Vec3 {
	inclination := math.Acos(math.Sqrt(sample.X))
	azimuth := 2.0 * math.Pi * sample.Y

	tangent := Tangent(normal, reference)
	tilted := normal.Rotate(tangent, inclination)
	return tilted.Rotate(normal, azimuth).Normalize()
}
