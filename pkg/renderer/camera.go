package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// ShadowAcneEpsilon is the smallest ray parameter accepted as a hit. It keeps
// a scattered ray from intersecting the surface it just left.
const ShadowAcneEpsilon = 0.001

// CameraConfig contains all camera configuration parameters. It is read once
// by NewCamera and never consulted again while rendering.
type CameraConfig struct {
	AspectRatio     float64   // Width over height
	ImageWidth      int       // Rendered image width in pixels
	VFov            float64   // Vertical field of view in degrees
	SamplesPerPixel int       // Random samples for each pixel
	MaxDepth        int       // Maximum number of ray bounces
	LookFrom        core.Vec3 // Eye position
	LookAt          core.Vec3 // Point the camera looks at
	VUp             core.Vec3 // Camera-relative up hint
	DefocusAngle    float64   // Variation angle of rays through each pixel, 0 disables depth of field
	FocusDist       float64   // Distance from LookFrom to the plane of perfect focus
}

// DefaultCameraConfig returns the defaults a bare camera starts with
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		AspectRatio:     1.0,
		ImageWidth:      100,
		VFov:            90,
		SamplesPerPixel: 10,
		MaxDepth:        10,
		LookFrom:        core.NewVec3(0, 0, 0),
		LookAt:          core.NewVec3(0, 0, -1),
		VUp:             core.NewVec3(0, 1, 0),
		DefocusAngle:    0,
		FocusDist:       10,
	}
}

// CameraState is everything derived from a CameraConfig at initialization
type CameraState struct {
	ImageHeight       int       // Rendered image height
	PixelSamplesScale float64   // Color scale factor for a sum of pixel samples
	Center            core.Vec3 // Camera center
	Pixel00Loc        core.Vec3 // Location of pixel 0, 0
	PixelDeltaU       core.Vec3 // Offset to pixel to the right
	PixelDeltaV       core.Vec3 // Offset to pixel below
	U, V, W           core.Vec3 // Camera frame basis vectors
	DefocusDiskU      core.Vec3 // Defocus disk horizontal radius
	DefocusDiskV      core.Vec3 // Defocus disk vertical radius
}

// Camera generates rays and shades them. The derived state is computed once
// in NewCamera and is read-only afterwards, so a single Camera can be shared
// by any number of render goroutines.
type Camera struct {
	config CameraConfig
	state  CameraState
}

// NewCamera clamps degenerate configuration values and derives the camera state
func NewCamera(config CameraConfig) *Camera {
	config = sanitizeConfig(config)
	return &Camera{
		config: config,
		state:  initialize(config),
	}
}

// sanitizeConfig replaces values that would break the projection with the
// smallest valid ones
func sanitizeConfig(config CameraConfig) CameraConfig {
	if config.ImageWidth < 1 {
		config.ImageWidth = 1
	}
	if config.SamplesPerPixel < 1 {
		config.SamplesPerPixel = 1
	}
	if config.MaxDepth < 0 {
		config.MaxDepth = 0
	}
	if config.AspectRatio <= 0 || math.IsNaN(config.AspectRatio) {
		config.AspectRatio = 1.0
	}
	if config.FocusDist <= 0 {
		config.FocusDist = 1.0
	}
	return config
}

// ImageHeight returns max(1, floor(width / aspectRatio))
func ImageHeight(width int, aspectRatio float64) int {
	return max(1, int(float64(width)/aspectRatio))
}

// initialize is a pure function of the configuration
func initialize(config CameraConfig) CameraState {
	imageHeight := ImageHeight(config.ImageWidth, config.AspectRatio)
	center := config.LookFrom

	// Viewport dimensions on the focus plane
	theta := core.DegreesToRadians(config.VFov)
	h := math.Tan(theta / 2)
	viewportHeight := 2 * h * config.FocusDist
	viewportWidth := viewportHeight * (float64(config.ImageWidth) / float64(imageHeight))

	// Orthonormal basis for the camera frame
	w := config.LookFrom.Subtract(config.LookAt).Normalize()
	u := config.VUp.Cross(w).Normalize()
	v := w.Cross(u)

	// Vectors across the horizontal and down the vertical viewport edges
	viewportU := u.Multiply(viewportWidth)
	viewportV := v.Negate().Multiply(viewportHeight)

	pixelDeltaU := viewportU.Divide(float64(config.ImageWidth))
	pixelDeltaV := viewportV.Divide(float64(imageHeight))

	viewportUpperLeft := center.
		Subtract(w.Multiply(config.FocusDist)).
		Subtract(viewportU.Divide(2)).
		Subtract(viewportV.Divide(2))
	pixel00Loc := viewportUpperLeft.Add(pixelDeltaU.Add(pixelDeltaV).Multiply(0.5))

	defocusRadius := config.FocusDist * math.Tan(core.DegreesToRadians(config.DefocusAngle/2))

	return CameraState{
		ImageHeight:       imageHeight,
		PixelSamplesScale: 1.0 / float64(config.SamplesPerPixel),
		Center:            center,
		Pixel00Loc:        pixel00Loc,
		PixelDeltaU:       pixelDeltaU,
		PixelDeltaV:       pixelDeltaV,
		U:                 u,
		V:                 v,
		W:                 w,
		DefocusDiskU:      u.Multiply(defocusRadius),
		DefocusDiskV:      v.Multiply(defocusRadius),
	}
}

func (c *Camera) Config() CameraConfig       { return c.config }
func (c *Camera) State() CameraState         { return c.state }
func (c *Camera) ImageWidth() int            { return c.config.ImageWidth }
func (c *Camera) ImageHeight() int           { return c.state.ImageHeight }
func (c *Camera) SamplesPerPixel() int       { return c.config.SamplesPerPixel }
func (c *Camera) MaxDepth() int              { return c.config.MaxDepth }
func (c *Camera) PixelSamplesScale() float64 { return c.state.PixelSamplesScale }
func (c *Camera) Center() core.Vec3          { return c.state.Center }

// GetRay constructs a ray originating from the defocus disk and directed at
// a randomly sampled point around pixel (i, j)
func (c *Camera) GetRay(i, j int, random *rand.Rand) core.Ray {
	offsetX, offsetY := sampleSquare(random)
	pixelSample := c.state.Pixel00Loc.
		Add(c.state.PixelDeltaU.Multiply(float64(i) + offsetX)).
		Add(c.state.PixelDeltaV.Multiply(float64(j) + offsetY))

	rayOrigin := c.state.Center
	if c.config.DefocusAngle > 0 {
		rayOrigin = c.defocusDiskSample(random)
	}

	return core.NewRay(rayOrigin, pixelSample.Subtract(rayOrigin))
}

// sampleSquare returns an offset in the [-.5,-.5]-[+.5,+.5) unit square
func sampleSquare(random *rand.Rand) (float64, float64) {
	return random.Float64() - 0.5, random.Float64() - 0.5
}

// defocusDiskSample returns a random point on the camera defocus disk
func (c *Camera) defocusDiskSample(random *rand.Rand) core.Vec3 {
	p := core.RandomInUnitDisk(random)
	return c.state.Center.
		Add(c.state.DefocusDiskU.Multiply(p.X)).
		Add(c.state.DefocusDiskV.Multiply(p.Y))
}

// RayColor returns the radiance carried back along ray. A depth of zero
// truncates the path and contributes no light.
func (c *Camera) RayColor(ray core.Ray, depth int, world core.Shape, random *rand.Rand) core.Vec3 {
	if depth <= 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}

	if world != nil {
		if hit, isHit := world.Hit(ray, core.NewInterval(ShadowAcneEpsilon, math.Inf(1))); isHit {
			if hit.Material == nil {
				return core.Vec3{X: 0, Y: 0, Z: 0}
			}
			scatter, didScatter := hit.Material.Scatter(ray, *hit, random)
			if !didScatter {
				return core.Vec3{X: 0, Y: 0, Z: 0} // Material absorbed the ray
			}
			return scatter.Attenuation.MultiplyVec(c.RayColor(scatter.Scattered, depth-1, world, random))
		}
	}

	return Background(ray)
}

var (
	horizonColor = core.NewVec3(1.0, 1.0, 1.0)
	zenithColor  = core.NewVec3(0.5, 0.7, 1.0)
)

// Background returns the sky gradient for a ray that escapes the scene
func Background(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()

	// Map the y-component from [-1,1] to [0,1]
	a := 0.5 * (unitDirection.Y + 1.0)

	// Linear interpolation: (1-a)*horizon + a*zenith
	return horizonColor.Multiply(1.0 - a).Add(zenithColor.Multiply(a))
}

// RenderPixel returns the unscaled sum of SamplesPerPixel shaded samples for pixel (i, j)
func (c *Camera) RenderPixel(i, j int, world core.Shape, random *rand.Rand) core.Vec3 {
	colorAccum := core.Vec3{X: 0, Y: 0, Z: 0}
	for sample := 0; sample < c.config.SamplesPerPixel; sample++ {
		ray := c.GetRay(i, j, random)
		colorAccum = colorAccum.Add(c.RayColor(ray, c.config.MaxDepth, world, random))
	}
	return colorAccum
}
