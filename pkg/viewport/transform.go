// Package viewport maps between world and screen coordinates and finds the
// node under the pointer.
package viewport

import (
	"math"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// Zoom limits and step.
const (
	ScaleMin      = 0.1
	ScaleMax      = 20.0
	ZoomIntensity = 0.1
)

// Direction of a zoom step.
type Direction int

const (
	ZoomIn Direction = iota
	ZoomOut
)

// Size is a viewport size in screen pixels.
type Size struct {
	W, H float64
}

// Transform is an affine world->screen mapping: screen = world*Scale + Offset.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Identity returns the unit transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// ToScreen maps a world point to the screen.
func (t Transform) ToScreen(p geom.Point) geom.Point {
	return geom.Point{
		X: p.X*t.Scale + t.OffsetX,
		Y: p.Y*t.Scale + t.OffsetY,
	}
}

// ToWorld maps a screen point back to world space.
func (t Transform) ToWorld(p geom.Point) geom.Point {
	return geom.Point{
		X: (p.X - t.OffsetX) / t.Scale,
		Y: (p.Y - t.OffsetY) / t.Scale,
	}
}

// Pan moves the map by a screen-space delta. There is no clamping.
func (t *Transform) Pan(dx, dy float64) {
	t.OffsetX += dx
	t.OffsetY += dy
}

// ZoomAt rescales by one step around a screen point, keeping the world point
// under it fixed. The offset is derived from the clamped scale so the pivot
// holds at the zoom limits too.
func (t *Transform) ZoomAt(p geom.Point, dir Direction) {
	world := t.ToWorld(p)

	scale := t.Scale
	if dir == ZoomIn {
		scale *= 1 + ZoomIntensity
	} else {
		scale *= 1 - ZoomIntensity
	}
	scale = math.Max(ScaleMin, math.Min(scale, ScaleMax))

	t.Scale = scale
	t.OffsetX = p.X - world.X*scale
	t.OffsetY = p.Y - world.Y*scale
}

// Fit scales and centres pts inside size, leaving padding on every side.
// A single point (zero-area box) falls back to scale 1. With no points the
// transform is left as it is.
func (t *Transform) Fit(pts []geom.Point, size Size, padding float64) {
	box, ok := geom.BoundsOf(pts)
	if !ok {
		return
	}

	w, h := box.Width(), box.Height()
	scaleX := (size.W - padding*2) / w
	scaleY := (size.H - padding*2) / h

	// A flat box is still fitted along its one real axis.
	var scale float64
	switch {
	case w > 0 && h > 0:
		scale = math.Min(scaleX, scaleY)
	case w > 0:
		scale = scaleX
	case h > 0:
		scale = scaleY
	default:
		scale = 1
	}
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		// viewport smaller than the padding
		scale = 1
	}

	t.Scale = scale
	t.OffsetX = (size.W-w*scale)/2 - box.MinX*scale
	t.OffsetY = (size.H-h*scale)/2 - box.MinY*scale
}
