package core

import "errors"

// Epsilon guards determinant and discriminant tests against degenerate input
const Epsilon = 1e-8

var (
	// ErrNoScene is returned when rendering is requested without a scene attached
	ErrNoScene = errors.New("no scene attached")
	// ErrNoCamera is returned when rendering is requested without a camera attached
	ErrNoCamera = errors.New("no camera attached")
	// ErrNoSink is returned when rendering is requested without a pixel sink
	ErrNoSink = errors.New("no pixel sink")
	// ErrInvalidSettings wraps every RenderSettings validation failure
	ErrInvalidSettings = errors.New("invalid render settings")
)
