package output

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// Largest intensity kept before scaling to a byte, so 1.0 maps to 255
const maxIntensity = 0.999

// LinearToGamma applies a gamma 2 transfer to a linear channel value
func LinearToGamma(linear float64) float64 {
	if linear > 0 {
		return math.Sqrt(linear)
	}
	return 0
}

// ToByte converts a linear channel value to an 8-bit gamma-corrected value
func ToByte(linear float64) uint8 {
	intensity := core.NewInterval(0, maxIntensity)
	return uint8(256 * intensity.Clamp(LinearToGamma(linear)))
}

// ToRGB converts a linear color to three gamma-corrected bytes
func ToRGB(c core.Vec3) (uint8, uint8, uint8) {
	return ToByte(c.X), ToByte(c.Y), ToByte(c.Z)
}

// ToImage converts a frame into an opaque NRGBA image
func ToImage(frame *renderer.Frame) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, frame.Width, frame.Height))
	for y := 0; y < frame.Height; y++ {
		for x := 0; x < frame.Width; x++ {
			r, g, b := ToRGB(frame.At(x, y))
			img.SetNRGBA(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}
