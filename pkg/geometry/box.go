package geometry

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// Box is an axis-aligned box made of six quads
type Box struct {
	faces *HittableList
}

// NewBox creates the box spanning the two opposite corners a and b
func NewBox(a, b core.Vec3, material core.Material) *Box {
	lo := core.NewVec3(min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z))
	hi := core.NewVec3(max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z))

	dx := core.NewVec3(hi.X-lo.X, 0, 0)
	dy := core.NewVec3(0, hi.Y-lo.Y, 0)
	dz := core.NewVec3(0, 0, hi.Z-lo.Z)

	faces := NewHittableList(
		NewQuad(core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy, material),         // front
		NewQuad(core.NewVec3(hi.X, lo.Y, hi.Z), dz.Negate(), dy, material), // right
		NewQuad(core.NewVec3(hi.X, lo.Y, lo.Z), dx.Negate(), dy, material), // back
		NewQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dz, dy, material),          // left
		NewQuad(core.NewVec3(lo.X, hi.Y, hi.Z), dx, dz.Negate(), material), // top
		NewQuad(core.NewVec3(lo.X, lo.Y, lo.Z), dx, dz, material),          // bottom
	)

	return &Box{faces: faces}
}

// Hit tests the ray against all six faces
func (b *Box) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	return b.faces.Hit(ray, rayT)
}
