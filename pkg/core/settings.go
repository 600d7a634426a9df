package core

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// RenderSettings contains rendering configuration. It is a plain value and
// is not mutated once rendering starts.
type RenderSettings struct {
	SubSamples                 int     `toml:"subsamples"`             // Primary rays per pixel
	ShadowRays                 int     `toml:"shadow_rays"`            // Shadow rays per emitter at every diffuse hit
	RussianRouletteCoefficient float64 `toml:"russian_roulette"`       // Survival probability at diffuse hits, in (0,1)
	ProgressEveryPercent       int     `toml:"progress_every_percent"` // Progress report granularity
	MaxDepth                   int     `toml:"max_depth"`              // Hard bound on path vertices
	Seed                       int64   `toml:"seed"`                   // Base seed, row r uses Seed+r
	Workers                    int     `toml:"workers"`                // Parallel row workers (0 = CPU count)

	// CompensateRussianRoulette divides surviving indirect contributions by
	// the survival probability. Off by default to match reference renders.
	CompensateRussianRoulette bool `toml:"compensate_russian_roulette"`
}

// DefaultRenderSettings returns sensible default values
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		SubSamples:                 1,
		ShadowRays:                 1,
		RussianRouletteCoefficient: 0.9,
		ProgressEveryPercent:       10,
		MaxDepth:                   50,
		Seed:                       42,
		Workers:                    0,
	}
}

// Validate reports the first invalid field, wrapped in ErrInvalidSettings
func (s RenderSettings) Validate() error {
	switch {
	case s.SubSamples <= 0:
		return fmt.Errorf("%w: subsamples must be positive, got %d", ErrInvalidSettings, s.SubSamples)
	case s.ShadowRays <= 0:
		return fmt.Errorf("%w: shadow rays must be positive, got %d", ErrInvalidSettings, s.ShadowRays)
	case s.RussianRouletteCoefficient <= 0 || s.RussianRouletteCoefficient >= 1:
		return fmt.Errorf("%w: russian roulette coefficient must be in (0,1), got %g", ErrInvalidSettings, s.RussianRouletteCoefficient)
	case s.ProgressEveryPercent < 1 || s.ProgressEveryPercent > 100:
		return fmt.Errorf("%w: progress granularity must be in [1,100], got %d", ErrInvalidSettings, s.ProgressEveryPercent)
	case s.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth must be positive, got %d", ErrInvalidSettings, s.MaxDepth)
	case s.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidSettings, s.Workers)
	}
	return nil
}

// LoadRenderSettings reads a TOML settings file. Keys missing from the file
// keep their default values.
func LoadRenderSettings(path string) (RenderSettings, error) {
	settings := DefaultRenderSettings()
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return RenderSettings{}, fmt.Errorf("reading settings %s: %w", path, err)
	}
	if err := settings.Validate(); err != nil {
		return RenderSettings{}, err
	}
	return settings, nil
}

// ParseRenderSettings decodes TOML settings from a string over the defaults
func ParseRenderSettings(data string) (RenderSettings, error) {
	settings := DefaultRenderSettings()
	if _, err := toml.Decode(data, &settings); err != nil {
		return RenderSettings{}, fmt.Errorf("parsing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return RenderSettings{}, err
	}
	return settings, nil
}
