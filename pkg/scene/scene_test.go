package scene

import (
	"sort"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

func TestNewScene_AllRegistered(t *testing.T) {
	for _, name := range SceneNames() {
		t.Run(name, func(t *testing.T) {
			s, err := NewScene(name)
			if err != nil {
				t.Fatalf("NewScene(%q) failed: %v", name, err)
			}
			if s.Name != name {
				t.Errorf("Expected scene name %q, got %q", name, s.Name)
			}
			if s.World == nil {
				t.Fatal("Scene world should not be nil")
			}
			if name != "empty" && s.World.Len() == 0 {
				t.Error("Scene should contain geometry")
			}
			camera := renderer.NewCamera(s.Camera)
			if camera.ImageHeight() < 1 {
				t.Errorf("Invalid image height %d", camera.ImageHeight())
			}
		})
	}
}

func TestNewScene_Unknown(t *testing.T) {
	if _, err := NewScene("cornell-dragon"); err == nil {
		t.Error("Expected error for unknown scene")
	}
}

func TestNewScene_CaseInsensitive(t *testing.T) {
	s, err := NewScene(" Default ")
	if err != nil {
		t.Fatalf("NewScene failed: %v", err)
	}
	if s.Name != "default" {
		t.Errorf("Expected default scene, got %q", s.Name)
	}
}

func TestListScenes_Sorted(t *testing.T) {
	scenes := ListScenes()
	if len(scenes) != 5 {
		t.Fatalf("Expected 5 scenes, got %d", len(scenes))
	}
	if !sort.SliceIsSorted(scenes, func(i, j int) bool { return scenes[i].ID < scenes[j].ID }) {
		t.Errorf("Scenes not sorted: %v", scenes)
	}
	for _, info := range scenes {
		if info.DisplayName == "" || info.Description == "" {
			t.Errorf("Scene %q missing metadata", info.ID)
		}
	}
}

func TestSpheresScene_Deterministic(t *testing.T) {
	a := NewSpheresScene()
	b := NewSpheresScene()
	if a.World.Len() != b.World.Len() {
		t.Fatalf("Sphere field differs between builds: %d vs %d", a.World.Len(), b.World.Len())
	}
	// Ground, three large spheres and at least most of the 484 grid cells
	if a.World.Len() < 400 {
		t.Errorf("Expected a dense sphere field, got %d objects", a.World.Len())
	}

	ray := core.NewRay(core.NewVec3(13, 2, 3), core.NewVec3(-13, -2, -3))
	hitA, okA := a.World.Hit(ray, core.NewInterval(0.001, 1e9))
	hitB, okB := b.World.Hit(ray, core.NewInterval(0.001, 1e9))
	if okA != okB || (okA && hitA.T != hitB.T) {
		t.Error("Identical rays should hit identical geometry")
	}
}

func TestDepthOfFieldScene_HasAperture(t *testing.T) {
	s := NewDepthOfFieldScene()
	if s.Camera.DefocusAngle <= 0 {
		t.Error("Depth of field scene should have a positive defocus angle")
	}
	if NewDefaultScene().Camera.DefocusAngle != 0 {
		t.Error("Default scene should be a pinhole camera")
	}
}

func TestTitleCase(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"dof", "Dof"},
		{"random_spheres", "Random Spheres"},
		{"UPPER-case", "Upper Case"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			if result := titleCase(tc.input); result != tc.expected {
				t.Errorf("titleCase(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}
