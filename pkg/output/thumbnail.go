package output

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Thumbnail scales the frame down to fit within maxSize x maxSize,
// preserving aspect ratio. Frames already small enough are returned at
// their original size.
func Thumbnail(frame *renderer.Frame, maxSize int) image.Image {
	if maxSize < 1 {
		maxSize = 1
	}
	return resize.Thumbnail(uint(maxSize), uint(maxSize), ToImage(frame), resize.Lanczos3)
}
