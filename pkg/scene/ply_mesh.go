package scene

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
)

// FitTransform returns the transform that scales the box [lo, hi] uniformly
// so its largest side is size and moves its center to center.
func FitTransform(lo, hi, center core.Vec3, size float64) mgl64.Mat4 {
	extent := hi.Subtract(lo)
	largest := max(extent.X, extent.Y, extent.Z)
	scale := 1.0
	if largest > 0 {
		scale = size / largest
	}
	mid := lo.Add(hi).Multiply(0.5)
	return mgl64.Translate3D(center.X, center.Y, center.Z).
		Mul4(mgl64.Scale3D(scale, scale, scale)).
		Mul4(mgl64.Translate3D(-mid.X, -mid.Y, -mid.Z))
}

// AddPLYMesh loads a PLY model, fits it into a cube of the given size around
// center and adds it as one triangle mesh.
func (s *Scene) AddPLYMesh(path string, center core.Vec3, size float64, mat material.Material) (int, error) {
	data, err := loaders.LoadPLY(path)
	if err != nil {
		return -1, err
	}
	if len(data.Faces) == 0 {
		return -1, fmt.Errorf("%s: no faces", path)
	}

	lo, hi := data.Bounds()
	transform := FitTransform(lo, hi, center, size)

	vertices := make([]core.Vec3, len(data.Vertices))
	for i, v := range data.Vertices {
		vertices[i] = core.TransformPoint(transform, v)
	}
	triangles := make([][3]int, 0, len(data.Faces)/3)
	for i := 0; i+2 < len(data.Faces); i += 3 {
		triangles = append(triangles, [3]int{data.Faces[i], data.Faces[i+1], data.Faces[i+2]})
	}

	mesh, err := geometry.NewTriangleMesh(vertices, triangles)
	if err != nil {
		return -1, fmt.Errorf("%s: %w", path, err)
	}
	return s.add(mesh, mat), nil
}
