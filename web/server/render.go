package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// SSEEvent is one server-sent event, written by a single goroutine
type SSEEvent struct {
	Type string `json:"type"` // "console", "error", "complete"
	Data string `json:"data"`
}

// RenderResult is the payload of the "complete" event
type RenderResult struct {
	RenderID         string  `json:"renderId"`
	Scene            string  `json:"scene"`
	Width            int     `json:"width"`
	Height           int     `json:"height"`
	ImageData        string  `json:"imageData"` // Base64 encoded PNG
	AverageSamples   float64 `json:"averageSamples"`
	AverageLuminance float64 `json:"averageLuminance"`
	ElapsedMs        int64   `json:"elapsedMs"`
}

// handleRender renders a scene and streams its log lines followed by the
// finished image via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	events := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(r.Context(), w, events)
		close(writerDone)
	}()
	defer func() {
		close(events)
		<-writerDone
	}()

	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		events <- SSEEvent{Type: "error", Data: fmt.Sprintf("Invalid request: %v", err)}
		return
	}
	sceneObj, err := scene.Load(req.Scene)
	if err != nil {
		events <- SSEEvent{Type: "error", Data: err.Error()}
		return
	}

	consoleChan := make(chan ConsoleMessage, 50)
	streamDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(consoleChan, events)
		close(streamDone)
	}()

	result, err := s.render(sceneObj, req, NewWebLogger(s.logger, consoleChan))
	close(consoleChan)
	<-streamDone

	if err != nil {
		events <- SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", err)}
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		events <- SSEEvent{Type: "error", Data: err.Error()}
		return
	}
	events <- SSEEvent{Type: "complete", Data: string(data)}
}

// render runs one full render of sceneObj
func (s *Server) render(sceneObj *scene.Scene, req *RenderRequest, logger core.Logger) (*RenderResult, error) {
	r, err := renderer.NewRenderer(req.settings(), logger)
	if err != nil {
		return nil, err
	}
	camera := renderer.NewPinholeCamera(renderer.ConfigFromView(sceneObj.View, req.Resolution))
	r.Attach(sceneObj)
	r.SetCamera(camera)

	film := renderer.NewFilm(camera.Resolution())
	stats, err := r.Render(film)
	if err != nil {
		return nil, err
	}

	img := film.Image()
	imageData, err := imageToBase64PNG(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &RenderResult{
		RenderID:         stats.RenderID,
		Scene:            sceneObj.Name,
		Width:            stats.Width,
		Height:           stats.Height,
		ImageData:        imageData,
		AverageSamples:   stats.AverageSamples,
		AverageLuminance: renderer.CalculateAverageLuminance(img),
		ElapsedMs:        stats.Duration.Milliseconds(),
	}, nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents is the only writer of w. It drains events until the channel
// is closed, discarding them once the client has gone away.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, events <-chan SSEEvent) {
	flusher, _ := w.(http.Flusher)
	for event := range events {
		if ctx.Err() != nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			continue
		}
		if flusher != nil {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards log lines as console events until
// consoleChan is closed
func (s *Server) streamConsoleMessages(consoleChan <-chan ConsoleMessage, events chan<- SSEEvent) {
	for msg := range consoleChan {
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		events <- SSEEvent{Type: "console", Data: string(data)}
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
