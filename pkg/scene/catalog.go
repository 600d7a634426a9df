package scene

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when no built-in scene has the requested id
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo describes a built-in scene
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier, used on the command line
	DisplayName string `json:"displayName"` // Human readable name
	Description string `json:"description"`
}

type entry struct {
	info  SceneInfo
	build func() (*Scene, error)
}

var catalog = map[string]entry{}

func register(id, description string, build func() (*Scene, error)) {
	catalog[id] = entry{
		info: SceneInfo{
			ID:          id,
			DisplayName: titleCase(id),
			Description: description,
		},
		build: build,
	}
}

func init() {
	register("cornell", "Cornell box with a magenta box, a cyan sphere and a ceiling light", NewCornellScene)
	register("overhead-light", "White floor lit by a small square light directly above", NewOverheadLightScene)
	register("mirror-spheres", "Mirror and rough spheres on a floor under an area light", NewMirrorSpheresScene)
}

// ListScenes returns every built-in scene sorted by id
func ListScenes() []SceneInfo {
	scenes := make([]SceneInfo, 0, len(catalog))
	for _, e := range catalog {
		scenes = append(scenes, e.info)
	}
	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].ID < scenes[j].ID
	})
	return scenes
}

// Load builds the built-in scene with the given id
func Load(id string) (*Scene, error) {
	e, ok := catalog[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	s, err := e.build()
	if err != nil {
		return nil, fmt.Errorf("failed to build scene %q: %w", id, err)
	}
	return s, nil
}

// titleCase converts an id to title case
// e.g., "overhead-light" -> "Overhead Light"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
