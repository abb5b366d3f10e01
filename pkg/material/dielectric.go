package material

import (
	"math"
	"math/rand"

	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Dielectric represents a clear material like glass or water
type Dielectric struct {
	RefractiveIndex float64 // Index of refraction relative to the enclosing medium
}

// NewDielectric creates a new dielectric material
func NewDielectric(refractiveIndex float64) *Dielectric {
	return &Dielectric{RefractiveIndex: refractiveIndex}
}

// Scatter implements the Material interface for dielectric scattering
func (d *Dielectric) Scatter(rayIn core.Ray, hit core.HitRecord, random *rand.Rand) (core.ScatterResult, bool) {
	ri := d.RefractiveIndex
	if hit.FrontFace {
		ri = 1.0 / d.RefractiveIndex
	}

	unitDirection := rayIn.Direction.Normalize()
	cosTheta := math.Min(unitDirection.Negate().Dot(hit.Normal), 1.0)
	sinTheta := math.Sqrt(1.0 - cosTheta*cosTheta)

	var direction core.Vec3
	cannotRefract := ri*sinTheta > 1.0
	if cannotRefract || reflectance(cosTheta, ri) > random.Float64() {
		direction = unitDirection.Reflect(hit.Normal)
	} else {
		direction = unitDirection.Refract(hit.Normal, ri)
	}

	return core.ScatterResult{
		Attenuation: core.NewVec3(1, 1, 1), // Glass absorbs nothing
		Scattered:   core.NewRay(hit.Point, direction),
	}, true
}

// reflectance uses Schlick's approximation for the Fresnel factor
func reflectance(cosine, refractionRatio float64) float64 {
	r0 := (1 - refractionRatio) / (1 + refractionRatio)
	r0 = r0 * r0
	return r0 + (1-r0)*math.Pow(1-cosine, 5)
}
