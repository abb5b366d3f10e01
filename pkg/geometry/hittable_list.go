package geometry

import (
	"github.com/df07/go-tiled-pathtracer/pkg/core"
)

// HittableList is a composite shape returning the nearest hit of its children
type HittableList struct {
	Shapes []core.Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...core.Shape) *HittableList {
	return &HittableList{Shapes: append([]core.Shape(nil), shapes...)}
}

// Add appends a shape to the list
func (l *HittableList) Add(shape core.Shape) {
	l.Shapes = append(l.Shapes, shape)
}

// Clear removes every shape
func (l *HittableList) Clear() {
	l.Shapes = nil
}

// Len returns the number of direct children
func (l *HittableList) Len() int {
	return len(l.Shapes)
}

// Hit checks every child and keeps the closest intersection
func (l *HittableList) Hit(ray core.Ray, rayT core.Interval) (*core.HitRecord, bool) {
	var closestHit *core.HitRecord
	closestSoFar := rayT.Max

	for _, shape := range l.Shapes {
		if hit, isHit := shape.Hit(ray, rayT.WithMax(closestSoFar)); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
