package scene

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
	"github.com/df07/go-tiled-pathtracer/pkg/geometry"
	"github.com/df07/go-tiled-pathtracer/pkg/material"
	"github.com/df07/go-tiled-pathtracer/pkg/renderer"
)

// defaultCamera frames the three spheres from above and to the left
func defaultCamera() renderer.CameraConfig {
	config := renderer.DefaultCameraConfig()
	config.AspectRatio = 16.0 / 9.0
	config.ImageWidth = 400
	config.SamplesPerPixel = 100
	config.MaxDepth = 50
	config.VFov = 20
	config.LookFrom = core.NewVec3(-2, 2, 1)
	config.LookAt = core.NewVec3(0, 0, -1)
	config.VUp = core.NewVec3(0, 1, 0)
	return config
}

// newDefaultWorld creates a ground sphere with diffuse, glass and metal spheres
func newDefaultWorld() *geometry.HittableList {
	materialGround := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0))
	materialCenter := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	materialGlass := material.NewDielectric(1.5)
	materialBubble := material.NewDielectric(1.0 / 1.5)
	materialMetal := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 1.0)

	return geometry.NewHittableList(
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, materialGround),
		geometry.NewSphere(core.NewVec3(0, 0, -1.2), 0.5, materialCenter),
		// Hollow glass: air bubble inside a solid glass sphere
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.5, materialGlass),
		geometry.NewSphere(core.NewVec3(-1, 0, -1), 0.4, materialBubble),
		geometry.NewSphere(core.NewVec3(1, 0, -1), 0.5, materialMetal),
	)
}

// NewDefaultScene creates a default scene with spheres, ground, and camera
func NewDefaultScene() *Scene {
	return &Scene{
		Name:   "default",
		Camera: defaultCamera(),
		World:  newDefaultWorld(),
	}
}

// NewDepthOfFieldScene is the default scene with a wide aperture focused on
// the center sphere
func NewDepthOfFieldScene() *Scene {
	config := defaultCamera()
	config.DefocusAngle = 10.0
	config.FocusDist = 3.4

	return &Scene{
		Name:   "dof",
		Camera: config,
		World:  newDefaultWorld(),
	}
}

// NewEmptyScene has no geometry, so every pixel is the background
func NewEmptyScene() *Scene {
	return &Scene{
		Name:   "empty",
		Camera: renderer.DefaultCameraConfig(),
		World:  geometry.NewHittableList(),
	}
}
