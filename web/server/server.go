package server

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer
type Server struct {
	port   int
	logger core.Logger
}

// NewServer creates a new web server
func NewServer(port int, logger core.Logger) *Server {
	if logger == nil {
		logger = core.NewNopLogger()
	}
	return &Server{port: port, logger: logger}
}

// RenderRequest represents a render or inspect request from the client
type RenderRequest struct {
	Scene      string              `json:"scene"`
	Resolution renderer.Resolution `json:"resolution"`
	Samples    int                 `json:"samples"`    // Subsamples per pixel
	ShadowRays int                 `json:"shadowRays"` // Shadow rays per emitter
	Seed       int64               `json:"seed"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Infof("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes together with the default settings
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	defaults := core.DefaultRenderSettings()
	writeJSON(w, http.StatusOK, map[string]any{
		"scenes": scene.ListScenes(),
		"defaults": map[string]any{
			"samples":    defaults.SubSamples,
			"shadowRays": defaults.ShadowRays,
			"seed":       defaults.Seed,
			"resolution": renderer.ResolutionThumbnail.String(),
		},
	})
}

// parseRenderRequest parses and validates the query parameters
func parseRenderRequest(values url.Values) (*RenderRequest, error) {
	defaults := core.DefaultRenderSettings()
	req := &RenderRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = "cornell"
	}

	var err error
	resolution := values.Get("resolution")
	if resolution == "" {
		resolution = "thumbnail"
	}
	if req.Resolution, err = renderer.ParseResolution(resolution); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(values, "samples", defaults.SubSamples, 1, 1000); err != nil {
		return nil, err
	}
	if req.ShadowRays, err = parseIntParam(values, "shadowRays", defaults.ShadowRays, 1, 64); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", int(defaults.Seed), 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	return req, nil
}

// settings returns the render settings for the request
func (req *RenderRequest) settings() core.RenderSettings {
	settings := core.DefaultRenderSettings()
	settings.SubSamples = req.Samples
	settings.ShadowRays = req.ShadowRays
	settings.Seed = req.Seed
	return settings
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
