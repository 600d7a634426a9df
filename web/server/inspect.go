package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool           `json:"hit"`
	Primitive    int            `json:"primitive"`
	MaterialType string         `json:"materialType"`
	GeometryType string         `json:"geometryType"`
	Point        [3]float64     `json:"point"`
	Normal       [3]float64     `json:"normal"`
	Distance     float64        `json:"distance"`
	Properties   map[string]any `json:"properties"`
}

// inspectPixel casts an unjittered ray through the center of pixel (x, y)
// and describes the closest primitive it hits
func inspectPixel(sceneObj *scene.Scene, res renderer.Resolution, x, y int) InspectResponse {
	camera := renderer.NewPinholeCamera(renderer.ConfigFromView(sceneObj.View, res))
	ray := camera.GenerateRay(x, y, 0, 0)
	if !sceneObj.ClosestHit(&ray) {
		return InspectResponse{Hit: false, Primitive: -1}
	}

	hit, _ := ray.Intersection()
	prim := sceneObj.Primitive(hit.Primitive)
	materialType, materialProps := extractMaterialInfo(prim)
	geometryType, geometryProps := extractGeometryInfo(prim)

	return InspectResponse{
		Hit:          true,
		Primitive:    hit.Primitive,
		MaterialType: materialType,
		GeometryType: geometryType,
		Point:        [3]float64{hit.Point.X, hit.Point.Y, hit.Point.Z},
		Normal:       [3]float64{hit.Normal.X, hit.Normal.Y, hit.Normal.Z},
		Distance:     hit.Distance,
		Properties: map[string]any{
			"material": materialProps,
			"geometry": geometryProps,
		},
	}
}

func extractMaterialInfo(prim *geometry.Primitive) (string, map[string]any) {
	mat := prim.Material
	rho := mat.Reflectance.Clamp(0, 1)
	properties := map[string]any{
		"reflectance": [3]float64{mat.Reflectance.X, mat.Reflectance.Y, mat.Reflectance.Z},
		"color":       fmt.Sprintf("#%02x%02x%02x", int(rho.X*255), int(rho.Y*255), int(rho.Z*255)),
	}

	switch mat.Kind {
	case material.KindOrenNayar:
		properties["roughness"] = mat.Roughness
	case material.KindEmissive:
		properties["flux"] = mat.Flux
		properties["radiance"] = prim.Radiance()
	}
	return mat.Kind.String(), properties
}

func extractGeometryInfo(prim *geometry.Primitive) (string, map[string]any) {
	properties := map[string]any{"area": prim.Area()}

	switch shape := prim.Shape.(type) {
	case *geometry.Sphere:
		properties["center"] = [3]float64{shape.Center.X, shape.Center.Y, shape.Center.Z}
		properties["radius"] = shape.Radius
		return "sphere", properties
	case *geometry.TriangleMesh:
		properties["triangles"] = shape.TriangleCount()
		return "triangle-mesh", properties
	default:
		return "unknown", properties
	}
}

// handleInspect handles ray casting inspection requests
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid scene parameters: "+err.Error())
		return
	}

	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid x coordinate")
		return
	}
	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid y coordinate")
		return
	}

	width, height := req.Resolution.Size()
	if pixelX < 0 || pixelX >= width || pixelY < 0 || pixelY >= height {
		writeJSONError(w, http.StatusBadRequest, "Pixel coordinates out of bounds")
		return
	}

	sceneObj, err := scene.Load(req.Scene)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, inspectPixel(sceneObj, req.Resolution, pixelX, pixelY))
}
