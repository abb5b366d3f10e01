package scene

import (
	"fmt"
	"sort"
	"strings"

	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name   string
	Camera renderer.CameraConfig   // Camera and sampling settings
	World  *geometry.HittableList // Objects in the scene
}

// SceneInfo describes a registered scene
type SceneInfo struct {
	ID          string `json:"id"`          // Name passed to NewScene
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"`
}

type sceneEntry struct {
	description string
	build       func() *Scene
}

var registry = map[string]sceneEntry{
	"default": {"Ground with diffuse, hollow glass and metal spheres", NewDefaultScene},
	"spheres": {"Field of small random spheres around three large ones", NewSpheresScene},
	"dof":     {"Default scene with strong depth of field", NewDepthOfFieldScene},
	"quads":   {"Five colored quads around a box", NewQuadsScene},
	"empty":   {"No geometry, background gradient only", NewEmptyScene},
}

// NewScene builds the scene registered under name
func NewScene(name string) (*Scene, error) {
	entry, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (available: %s)", name, strings.Join(SceneNames(), ", "))
	}
	return entry.build(), nil
}

// SceneNames returns the registered scene names in sorted order
func SceneNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListScenes returns metadata for every registered scene, sorted by ID
func ListScenes() []SceneInfo {
	names := SceneNames()
	scenes := make([]SceneInfo, 0, len(names))
	for _, name := range names {
		scenes = append(scenes, SceneInfo{
			ID:          name,
			DisplayName: titleCase(name),
			Description: registry[name].description,
		})
	}
	return scenes
}

// titleCase converts dash or underscore separated names to Title Case
func titleCase(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
