package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

func createTestFrame(width, height int) *renderer.Frame {
	frame := renderer.NewFrame(width, height)
	for i := range frame.Pixels {
		v := float64(i) / float64(len(frame.Pixels))
		frame.Pixels[i] = core.NewVec3(v, 1-v, 0.5)
	}
	return frame
}

func TestWritePPM(t *testing.T) {
	frame := createTestFrame(3, 2)
	var buf bytes.Buffer
	if err := WritePPM(&buf, frame); err != nil {
		t.Fatalf("WritePPM failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "P3" || lines[1] != "3 2" || lines[2] != "255" {
		t.Fatalf("Unexpected header: %q", lines[:3])
	}
	if len(lines) != 3+6 {
		t.Fatalf("Expected %d lines, got %d", 9, len(lines))
	}
	// First pixel is (0, 1, 0.5)
	if lines[3] != "0 255 181" {
		t.Errorf("Unexpected first pixel line %q", lines[3])
	}
}

func TestWritePPMBinary(t *testing.T) {
	frame := createTestFrame(4, 3)
	var buf bytes.Buffer
	if err := WritePPMBinary(&buf, frame); err != nil {
		t.Fatalf("WritePPMBinary failed: %v", err)
	}

	header := "P6\n4 3\n255\n"
	if !strings.HasPrefix(buf.String(), header) {
		t.Fatalf("Unexpected header %q", buf.String()[:len(header)])
	}
	if buf.Len() != len(header)+4*3*3 {
		t.Errorf("Expected %d bytes, got %d", len(header)+36, buf.Len())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWritePPM_PropagatesWriteErrors(t *testing.T) {
	frame := createTestFrame(2, 2)
	if err := WritePPM(failingWriter{}, frame); err == nil {
		t.Error("Expected error from failing writer")
	}
	if err := WritePPMBinary(failingWriter{}, frame); err == nil {
		t.Error("Expected error from failing writer")
	}
}
