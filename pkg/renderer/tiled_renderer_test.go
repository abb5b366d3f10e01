package renderer

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
)

// recordingLogger captures log output for assertions
type recordingLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, strings.TrimSpace(strings.ReplaceAll(fmt.Sprintf(format, args...), "\r", "")))
}

func (l *recordingLogger) contains(substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// createTestWorld builds a small scene with every material kind
func createTestWorld() *geometry.HittableList {
	world := geometry.NewHittableList()
	world.Add(geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, material.NewLambertian(core.NewVec3(0.8, 0.8, 0))))
	world.Add(geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))))
	world.Add(geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, material.NewDielectric(1.5)))
	world.Add(geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)))
	return world
}

func createTestCamera(width int, aspectRatio float64, samples int) *Camera {
	config := DefaultCameraConfig()
	config.ImageWidth = width
	config.AspectRatio = aspectRatio
	config.SamplesPerPixel = samples
	config.MaxDepth = 8
	return NewCamera(config)
}

func TestTiledRenderer_FrameShape(t *testing.T) {
	camera := createTestCamera(16, 16.0/9.0, 2)
	tr := NewTiledRenderer(camera, ScheduleConfig{Workers: 3, Seed: 7}, nil)

	frame, stats := tr.Render(createTestWorld())

	if frame.Width != 16 || frame.Height != 9 {
		t.Fatalf("Expected 16x9 frame, got %dx%d", frame.Width, frame.Height)
	}
	if len(frame.Pixels) != 16*9 {
		t.Fatalf("Expected %d pixels, got %d", 16*9, len(frame.Pixels))
	}
	if stats.TotalPixels != 144 || stats.TotalSamples != 288 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(stats.RowsPerWorker) != 3 || stats.RowsPerWorker[0] != 3 || stats.RowsPerWorker[2] != 3 {
		t.Errorf("Expected 3 rows per worker, got %v", stats.RowsPerWorker)
	}
	if stats.Seed != 7 {
		t.Errorf("Expected seed 7 in stats, got %d", stats.Seed)
	}
}

func TestTiledRenderer_WorkerCountDoesNotChangeOutput(t *testing.T) {
	camera := createTestCamera(20, 2.0, 3)
	world := createTestWorld()

	reference, _ := NewTiledRenderer(camera, ScheduleConfig{Workers: 1, Seed: 42}, nil).Render(world)

	configs := []ScheduleConfig{
		{Workers: 2, Seed: 42},
		{Workers: 3, Seed: 42},
		{Workers: 10, Seed: 42},
		{Workers: 25, Seed: 42}, // More workers than rows
		{Workers: 4, Seed: 42, Schedule: ScheduleQueue},
	}

	for _, config := range configs {
		frame, _ := NewTiledRenderer(camera, config, nil).Render(world)
		for i := range reference.Pixels {
			if frame.Pixels[i] != reference.Pixels[i] {
				t.Fatalf("workers=%d schedule=%s: pixel %d differs: %v vs %v",
					config.Workers, config.Schedule, i, frame.Pixels[i], reference.Pixels[i])
			}
		}
	}
}

func TestTiledRenderer_ConcatenatesInRowOrder(t *testing.T) {
	camera := createTestCamera(6, 0.5, 1) // 6x12
	world := createTestWorld()
	frame, _ := NewTiledRenderer(camera, ScheduleConfig{Workers: 5, Seed: 99}, nil).Render(world)

	// Re-render single rows directly and compare against their slot in the frame
	for _, j := range []int{0, 1, 5, 11} {
		random := newRowRandom(99, j)
		for i := 0; i < frame.Width; i++ {
			expected := camera.RenderPixel(i, j, world, random).Multiply(camera.PixelSamplesScale())
			if frame.At(i, j) != expected {
				t.Fatalf("Pixel (%d,%d) out of place: %v vs %v", i, j, frame.At(i, j), expected)
			}
		}
	}
}

func TestTiledRenderer_EmptySceneMatchesBackground(t *testing.T) {
	const eps = 1e-12
	// 2x2 image, 1 sample, depth 1, default look direction, nothing to hit
	config := DefaultCameraConfig()
	config.ImageWidth = 2
	config.AspectRatio = 1
	config.SamplesPerPixel = 1
	config.MaxDepth = 1
	camera := NewCamera(config)
	world := geometry.NewHittableList()

	for _, seed := range []int64{1, 2} {
		frame, _ := NewTiledRenderer(camera, ScheduleConfig{Workers: 2, Seed: seed}, nil).Render(world)
		if len(frame.Pixels) != 4 {
			t.Fatalf("Expected 4 pixels, got %d", len(frame.Pixels))
		}

		for j := 0; j < 2; j++ {
			random := newRowRandom(seed, j)
			for i := 0; i < 2; i++ {
				expected := Background(camera.GetRay(i, j, random))
				got := frame.At(i, j)
				if got != expected {
					t.Errorf("seed=%d pixel (%d,%d): expected %v, got %v", seed, i, j, expected, got)
				}
				if got.X < 0.5-eps || got.X > 1+eps || got.Y < 0.7-eps || got.Y > 1+eps || math.Abs(got.Z-1) > eps {
					t.Errorf("seed=%d pixel (%d,%d) outside gradient bounds: %v", seed, i, j, got)
				}
			}
		}
	}
}

func TestTiledRenderer_EmptySceneIndependentOfSampleCount(t *testing.T) {
	world := geometry.NewHittableList()
	for _, samples := range []int{1, 4, 16} {
		camera := createTestCamera(8, 1, samples)
		frame, _ := NewTiledRenderer(camera, ScheduleConfig{Workers: 2, Seed: 5}, nil).Render(world)
		for _, p := range frame.Pixels {
			if p.X < 0.5-1e-9 || p.X > 1+1e-9 || p.Y < 0.7-1e-9 || p.Y > 1+1e-9 || p.Z < 1-1e-9 || p.Z > 1+1e-9 {
				t.Fatalf("samples=%d: pixel %v outside gradient bounds", samples, p)
			}
		}
	}
}

func TestTiledRenderer_QueueScheduleStats(t *testing.T) {
	camera := createTestCamera(4, 0.25, 1) // 4x16
	tr := NewTiledRenderer(camera, ScheduleConfig{Workers: 3, Seed: 1, Schedule: ScheduleQueue}, nil)
	_, stats := tr.Render(nil)

	total := 0
	for _, rows := range stats.RowsPerWorker {
		total += rows
	}
	if total != 16 {
		t.Errorf("Queue schedule rendered %d rows, want 16", total)
	}
	if stats.Schedule != ScheduleQueue {
		t.Errorf("Expected queue schedule in stats, got %s", stats.Schedule)
	}
}

func TestTiledRenderer_ReportsProgress(t *testing.T) {
	logger := &recordingLogger{}
	camera := createTestCamera(4, 1, 1)
	NewTiledRenderer(camera, ScheduleConfig{Workers: 2, Seed: 3}, logger).Render(nil)

	if !logger.contains("Remaining scanlines: 0") {
		t.Errorf("Expected final countdown line, got %v", logger.lines)
	}
	if !logger.contains("Done.") {
		t.Errorf("Expected completion line, got %v", logger.lines)
	}
}

func TestTiledRenderer_ZeroSeedUsesClock(t *testing.T) {
	camera := createTestCamera(2, 1, 1)
	_, stats := NewTiledRenderer(camera, ScheduleConfig{Workers: 1}, nil).Render(nil)
	if stats.Seed == 0 {
		t.Error("Expected a clock-derived seed when none is configured")
	}
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		input     string
		expected  Schedule
		expectErr bool
	}{
		{"", ScheduleStatic, false},
		{"static", ScheduleStatic, false},
		{"Queue", ScheduleQueue, false},
		{"stealing", ScheduleStatic, true},
	}

	for _, tt := range tests {
		got, err := ParseSchedule(tt.input)
		if (err != nil) != tt.expectErr {
			t.Errorf("ParseSchedule(%q) error = %v, expectErr %v", tt.input, err, tt.expectErr)
		}
		if got != tt.expected {
			t.Errorf("ParseSchedule(%q) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestNewRowRandom_IndependentStreams(t *testing.T) {
	a := newRowRandom(42, 0).Float64()
	b := newRowRandom(42, 1).Float64()
	c := newRowRandom(43, 0).Float64()
	again := newRowRandom(42, 0).Float64()

	if a == b || a == c {
		t.Error("Different rows or seeds should produce different streams")
	}
	if a != again {
		t.Error("The same (seed, row) pair should reproduce its stream")
	}

}
