package output

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Format names an output image encoding
type Format string

const (
	FormatPPM       Format = "ppm"
	FormatPPMBinary Format = "ppm-binary"
	FormatPNG       Format = "png"
	FormatJPEG      Format = "jpeg"
	FormatBMP       Format = "bmp"
	FormatTIFF      Format = "tiff"
)

// JPEG quality used for lossy output
const jpegQuality = 95

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatPPM, FormatPPMBinary, FormatPNG, FormatJPEG, FormatBMP, FormatTIFF}
}

// ParseFormat converts a format name into a Format
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ppm", "p3":
		return FormatPPM, nil
	case "ppm-binary", "p6":
		return FormatPPMBinary, nil
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "bmp":
		return FormatBMP, nil
	case "tiff", "tif":
		return FormatTIFF, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("no file extension in %q", path)
	}
	return ParseFormat(ext)
}

// Extension returns the file extension for the format, without a dot
func (f Format) Extension() string {
	switch f {
	case FormatPPMBinary:
		return "ppm"
	case FormatJPEG:
		return "jpg"
	default:
		return string(f)
	}
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatJPEG:
		return "image/jpeg"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	default:
		return "image/x-portable-pixmap"
	}
}

// Encode writes the frame to w in the given format
func Encode(w io.Writer, frame *renderer.Frame, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPPMBinary:
		return WritePPMBinary(w, frame)
	}

	img := ToImage(frame)
	var err error
	switch format {
	case FormatPNG:
		err = imaging.Encode(w, img, imaging.PNG)
	case FormatJPEG:
		err = imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	case FormatBMP:
		err = bmp.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", format, err)
	}
	return nil
}
