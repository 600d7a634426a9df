package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// SolveQuadratic returns the real roots x0 <= x1 of a*x^2 + b*x + c = 0.
// A discriminant within epsilon of zero yields the double root twice.
func SolveQuadratic(a, b, c float64) (x0, x1 float64, ok bool) {
	if math.Abs(a) < core.Epsilon {
		return 0, 0, false
	}

	discriminant := b*b - 4*a*c
	if math.Abs(discriminant) < core.Epsilon {
		x := -0.5 * b / a
		return x, x, true
	}
	if discriminant < 0 {
		return 0, 0, false
	}

	// Avoid cancellation between -b and the square root
	q := -0.5 * (b + math.Copysign(math.Sqrt(discriminant), b))
	x0 = q / a
	x1 = c / q
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	return x0, x1, true
}
