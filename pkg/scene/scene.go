package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// View describes where a scene is meant to be looked at from
type View struct {
	LookFrom core.Vec3
	LookAt   core.Vec3
	Up       core.Vec3
	VFov     float64 // Vertical field of view in degrees
}

// Scene owns every primitive. Primitives are addressed by their index in the
// scene, which is the handle stored in intersections.
type Scene struct {
	Name string
	View View

	primitives []*geometry.Primitive
	emitters   []int // handles of the emissive primitives
}

// New creates an empty scene
func New(name string) *Scene {
	return &Scene{
		Name: name,
		View: View{
			LookFrom: core.NewVec3(0, 0, 3),
			LookAt:   core.NewVec3(0, 0, 0),
			Up:       core.NewVec3(0, 1, 0),
			VFov:     60,
		},
	}
}

func (s *Scene) add(shape geometry.Shape, mat material.Material) int {
	id := len(s.primitives)
	s.primitives = append(s.primitives, geometry.NewPrimitive(id, shape, mat))
	if mat.IsEmissive() {
		s.emitters = append(s.emitters, id)
	}
	return id
}

// AddSphere adds a sphere and returns its handle
func (s *Scene) AddSphere(radius float64, center core.Vec3, mat material.Material) int {
	return s.add(geometry.NewSphere(center, radius), mat)
}

// AddTriangleMesh adds a prebuilt mesh and returns its handle
func (s *Scene) AddTriangleMesh(mesh *geometry.TriangleMesh, mat material.Material) int {
	return s.add(mesh, mat)
}

// AddBox adds a box centered at the origin, moved into place by transform
func (s *Scene) AddBox(height, width, depth float64, transform mgl64.Mat4, mat material.Material) (int, error) {
	box, err := geometry.NewBox(height, width, depth, transform)
	if err != nil {
		return -1, err
	}
	return s.add(box, mat), nil
}

// AddPlane adds the quadrilateral p0 p1 p2 p3. The front face is the side
// from which the corners appear clockwise.
func (s *Scene) AddPlane(p0, p1, p2, p3 core.Vec3, mat material.Material) (int, error) {
	plane, err := geometry.NewPlane(p0, p1, p2, p3)
	if err != nil {
		return -1, err
	}
	return s.add(plane, mat), nil
}

// ClosestHit tests ray against every primitive and leaves the closest
// intersection on it. Returns true if anything was hit.
func (s *Scene) ClosestHit(ray *geometry.Ray) bool {
	hitAnything := false
	for _, p := range s.primitives {
		if p.Intersect(ray) {
			hitAnything = true
		}
	}
	return hitAnything
}

// Primitive returns the primitive with the given handle
func (s *Scene) Primitive(id int) *geometry.Primitive {
	return s.primitives[id]
}

// Primitives returns all primitives in handle order
func (s *Scene) Primitives() []*geometry.Primitive {
	return s.primitives
}

// Emitters returns the handles of all emissive primitives
func (s *Scene) Emitters() []int {
	return s.emitters
}

// GetPrimitiveCount returns the number of primitives in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.primitives)
}

// GetTriangleCount returns the total number of triangles over all meshes
func (s *Scene) GetTriangleCount() int {
	count := 0
	for _, p := range s.primitives {
		if mesh, ok := p.Shape.(*geometry.TriangleMesh); ok {
			count += mesh.TriangleCount()
		}
	}
	return count
}
