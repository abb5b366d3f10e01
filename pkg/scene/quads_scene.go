package scene

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// NewQuadsScene creates five colored quads forming an open box around a
// small white box
func NewQuadsScene() *Scene {
	leftRed := material.NewLambertian(core.NewVec3(1.0, 0.2, 0.2))
	backGreen := material.NewLambertian(core.NewVec3(0.2, 1.0, 0.2))
	rightBlue := material.NewLambertian(core.NewVec3(0.2, 0.2, 1.0))
	upperOrange := material.NewLambertian(core.NewVec3(1.0, 0.5, 0.0))
	lowerTeal := material.NewLambertian(core.NewVec3(0.2, 0.8, 0.8))
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))

	world := geometry.NewHittableList(
		geometry.NewQuad(core.NewVec3(-3, -2, 5), core.NewVec3(0, 0, -4), core.NewVec3(0, 4, 0), leftRed),
		geometry.NewQuad(core.NewVec3(-2, -2, 0), core.NewVec3(4, 0, 0), core.NewVec3(0, 4, 0), backGreen),
		geometry.NewQuad(core.NewVec3(3, -2, 1), core.NewVec3(0, 0, 4), core.NewVec3(0, 4, 0), rightBlue),
		geometry.NewQuad(core.NewVec3(-2, 3, 1), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, 4), upperOrange),
		geometry.NewQuad(core.NewVec3(-2, -3, 5), core.NewVec3(4, 0, 0), core.NewVec3(0, 0, -4), lowerTeal),
		geometry.NewBox(core.NewVec3(-0.75, -2, 1.5), core.NewVec3(0.75, -0.5, 3), white),
	)

	config := renderer.DefaultCameraConfig()
	config.AspectRatio = 1.0
	config.ImageWidth = 400
	config.SamplesPerPixel = 100
	config.MaxDepth = 50
	config.VFov = 80
	config.LookFrom = core.NewVec3(0, 0, 9)
	config.LookAt = core.NewVec3(0, 0, 0)
	config.VUp = core.NewVec3(0, 1, 0)

	return &Scene{
		Name:   "quads",
		Camera: config,
		World:  world,
	}
}
