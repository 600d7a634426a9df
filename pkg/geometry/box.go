package geometry

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
)

// boxTriangles indexes the 8 box corners so that every face normal points
// away from the box center.
var boxTriangles = [][3]int{
	{0, 1, 2}, {1, 3, 2}, // front  (+z)
	{1, 5, 3}, {3, 5, 7}, // right  (+x)
	{4, 7, 5}, {4, 6, 7}, // back   (-z)
	{0, 6, 4}, {0, 2, 6}, // left   (-x)
	{0, 4, 1}, {1, 4, 5}, // top    (+y)
	{2, 3, 6}, {3, 7, 6}, // bottom (-y)
}

// NewBox creates a height x width x depth box centered at the origin and
// bakes transform into its vertices.
func NewBox(height, width, depth float64, transform mgl64.Mat4) (*TriangleMesh, error) {
	hw, hh, hd := width/2, height/2, depth/2
	corners := []core.Vec3{
		core.NewVec3(-hw, hh, hd),   // 0: left-top-front
		core.NewVec3(hw, hh, hd),    // 1: right-top-front
		core.NewVec3(-hw, -hh, hd),  // 2: left-bottom-front
		core.NewVec3(hw, -hh, hd),   // 3: right-bottom-front
		core.NewVec3(-hw, hh, -hd),  // 4: left-top-back
		core.NewVec3(hw, hh, -hd),   // 5: right-top-back
		core.NewVec3(-hw, -hh, -hd), // 6: left-bottom-back
		core.NewVec3(hw, -hh, -hd),  // 7: right-bottom-back
	}

	for i, c := range corners {
		corners[i] = core.TransformPoint(transform, c)
	}

	return NewTriangleMesh(corners, boxTriangles)
}

// NewPlane creates a quadrilateral from four corners as the triangles
// (p0, p1, p2) and (p2, p3, p0). Its normal is normalize((p0-p1) x (p2-p1)).
func NewPlane(p0, p1, p2, p3 core.Vec3) (*TriangleMesh, error) {
	return NewTriangleMesh(
		[]core.Vec3{p0, p1, p2, p3},
		[][3]int{{0, 1, 2}, {2, 3, 0}},
	)
}
