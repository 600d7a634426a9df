package scene

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// addCeilingLight adds a square emitter centered at center, facing down
func (s *Scene) addCeilingLight(center core.Vec3, size float64, mat material.Material) (int, error) {
	h := size / 2
	return s.AddPlane(
		center.Add(core.NewVec3(-h, 0, h)),
		center.Add(core.NewVec3(h, 0, h)),
		center.Add(core.NewVec3(h, 0, -h)),
		center.Add(core.NewVec3(-h, 0, -h)),
		mat,
	)
}

// addFloor adds a square at height y, centered on the y axis, facing up
func (s *Scene) addFloor(y, size float64, mat material.Material) (int, error) {
	h := size / 2
	return s.AddPlane(
		core.NewVec3(-h, y, -h),
		core.NewVec3(h, y, -h),
		core.NewVec3(h, y, h),
		core.NewVec3(-h, y, h),
		mat,
	)
}

// NewCornellScene creates the 3 x 2 x 5 Cornell box with a magenta box, a
// cyan sphere and a square light just below the roof
func NewCornellScene() (*Scene, error) {
	s := New("cornell")
	s.View = View{
		LookFrom: core.NewVec3(0, 0, 3.8),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     60,
	}

	red := material.NewLambertian(core.NewVec3(1, 0, 0))
	white := material.NewLambertian(core.NewVec3(1, 1, 1))
	green := material.NewLambertian(core.NewVec3(0, 1, 0))
	magenta := material.NewLambertian(core.NewVec3(1, 0, 1))
	cyan := material.NewLambertian(core.NewVec3(0, 1, 1))

	p0 := core.NewVec3(-1.5, -1, -1)
	p1 := core.NewVec3(1.5, -1, -1)
	p2 := core.NewVec3(1.5, 1, -1)
	p3 := core.NewVec3(-1.5, 1, -1)
	p4 := core.NewVec3(-1.5, -1, 4)
	p5 := core.NewVec3(1.5, -1, 4)
	p6 := core.NewVec3(1.5, 1, 4)
	p7 := core.NewVec3(-1.5, 1, 4)

	// Every wall faces into the box
	walls := []struct {
		corners [4]core.Vec3
		mat     material.Material
	}{
		{[4]core.Vec3{p3, p2, p1, p0}, white}, // back
		{[4]core.Vec3{p5, p6, p7, p4}, white}, // front
		{[4]core.Vec3{p4, p7, p3, p0}, red},   // left
		{[4]core.Vec3{p2, p6, p5, p1}, green}, // right
		{[4]core.Vec3{p3, p7, p6, p2}, white}, // roof
		{[4]core.Vec3{p1, p5, p4, p0}, white}, // floor
	}
	for _, w := range walls {
		if _, err := s.AddPlane(w.corners[0], w.corners[1], w.corners[2], w.corners[3], w.mat); err != nil {
			return nil, err
		}
	}

	if _, err := s.AddBox(0.3, 0.3, 0.3, mgl64.Translate3D(0, -0.4, 0.1), magenta); err != nil {
		return nil, err
	}
	s.AddSphere(0.3, core.NewVec3(0.9, -0.7, 0.9), cyan)

	light := material.NewEmissive(core.NewVec3(1, 1, 1), 10)
	if _, err := s.addCeilingLight(core.NewVec3(0, 0.99, 1), 1, light); err != nil {
		return nil, err
	}

	return s, nil
}

// NewOverheadLight creates a 10 x 10 white floor at y=0 lit by one square
// emitter of the given size and flux, centered at height above the origin
func NewOverheadLight(size, height, flux float64, lightColor core.Vec3) (*Scene, error) {
	s := New("overhead-light")
	s.View = View{
		LookFrom: core.NewVec3(0, 0.6, 2.5),
		LookAt:   core.NewVec3(0, 0, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     50,
	}

	if _, err := s.addFloor(0, 10, material.NewLambertian(core.NewVec3(1, 1, 1))); err != nil {
		return nil, err
	}
	light := material.NewEmissive(lightColor, flux)
	if _, err := s.addCeilingLight(core.NewVec3(0, height, 0), size, light); err != nil {
		return nil, err
	}
	return s, nil
}

// NewOverheadLightScene is the overhead light setup used by the command line
func NewOverheadLightScene() (*Scene, error) {
	return NewOverheadLight(0.1, 1, 5, core.NewVec3(1, 1, 1))
}

// NewMirrorSpheresScene shows every material kind side by side
func NewMirrorSpheresScene() (*Scene, error) {
	s := New("mirror-spheres")
	s.View = View{
		LookFrom: core.NewVec3(0, 1.2, 4),
		LookAt:   core.NewVec3(0, 0.5, 0),
		Up:       core.NewVec3(0, 1, 0),
		VFov:     45,
	}

	gray := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.8))
	if _, err := s.addFloor(0, 10, gray); err != nil {
		return nil, err
	}
	// back wall facing the camera
	if _, err := s.AddPlane(
		core.NewVec3(-5, 5, -2),
		core.NewVec3(5, 5, -2),
		core.NewVec3(5, 0, -2),
		core.NewVec3(-5, 0, -2),
		material.NewLambertian(core.NewVec3(0.6, 0.6, 0.6)),
	); err != nil {
		return nil, err
	}

	s.AddSphere(0.5, core.NewVec3(-0.6, 0.5, 0), material.NewPerfectMirror())
	s.AddSphere(0.5, core.NewVec3(0.7, 0.5, -0.3), material.NewOrenNayar(core.NewVec3(0.8, 0.3, 0.2), 0.5))
	s.AddSphere(0.25, core.NewVec3(0.1, 0.25, 0.9), material.NewLambertian(core.NewVec3(0.2, 0.4, 0.8)))

	light := material.NewEmissive(core.NewVec3(1, 1, 1), 30)
	if _, err := s.addCeilingLight(core.NewVec3(0, 3, 0), 1, light); err != nil {
		return nil, err
	}
	return s, nil
}
