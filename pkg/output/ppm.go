package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// WritePPM writes the frame as a plain-text P3 image, one pixel per line
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	for _, pixel := range frame.Pixels {
		r, g, b := ToRGB(pixel)
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", r, g, b); err != nil {
			return fmt.Errorf("failed to write PPM pixel: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}

// WritePPMBinary writes the frame as a binary P6 image
func WritePPMBinary(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", frame.Width, frame.Height); err != nil {
		return fmt.Errorf("failed to write PPM header: %w", err)
	}

	buf := make([]byte, 0, 3*len(frame.Pixels))
	for _, pixel := range frame.Pixels {
		r, g, b := ToRGB(pixel)
		buf = append(buf, r, g, b)
	}
	if _, err := bw.Write(buf); err != nil {
		return fmt.Errorf("failed to write PPM pixels: %w", err)
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM: %w", err)
	}
	return nil
}
