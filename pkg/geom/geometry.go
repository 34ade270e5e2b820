// Geometric primitives shared by the viewport, animator and renderers.
// Points are plain float pairs; rectangles are centre-anchored like the
// label boxes they mostly describe.

package geom

import "math"

// Point represents a 2D coordinate, in world or screen space depending on use.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{p.X + dx, p.Y + dy}
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Lerp interpolates between a and b. t=0 gives a, t=1 gives b.
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
	}
}

// Bounds is an axis-aligned box given by its corners.
type Bounds struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoundsOf returns the bounding box of pts. ok is false for an empty slice.
func BoundsOf(pts []Point) (b Bounds, ok bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}

	b = Bounds{pts[0].X, pts[0].Y, pts[0].X, pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b, true
}

// Width of the box.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the box.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Center of the box.
func (b Bounds) Center() Point {
	return Point{(b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2}
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y float64 // Center
	W, H float64 // Full width and height
}

// Min returns the top-left corner.
func (r Rect) Min() Point {
	return Point{r.X - r.W/2, r.Y - r.H/2}
}

// Contains reports whether p lies inside or on the rectangle.
func (r Rect) Contains(p Point) bool {
	return math.Abs(p.X-r.X) <= r.W/2 && math.Abs(p.Y-r.Y) <= r.H/2
}

// RectOverlap returns the overlap area between two rectangles.
// Returns 0 if they don't overlap.
func RectOverlap(a, b Rect) float64 {
	// Half dimensions
	aHalfW, aHalfH := a.W/2, a.H/2
	bHalfW, bHalfH := b.W/2, b.H/2

	// Check for separation
	dx := math.Abs(a.X - b.X)
	dy := math.Abs(a.Y - b.Y)

	overlapX := (aHalfW + bHalfW) - dx
	overlapY := (aHalfH + bHalfH) - dy

	if overlapX <= 0 || overlapY <= 0 {
		return 0
	}

	return overlapX * overlapY
}

// LabelPlacer manages label placement with collision avoidance.
type LabelPlacer struct {
	obstacles []Rect
}

// NewLabelPlacer creates a LabelPlacer with initial obstacles (node markers).
func NewLabelPlacer(obstacles []Rect) *LabelPlacer {
	own := make([]Rect, len(obstacles))
	copy(own, obstacles)
	return &LabelPlacer{obstacles: own}
}

// PlaceLabel finds the best position for a label next to an anchor point.
// Returns the centre position for the label and records it as an obstacle.
func (lp *LabelPlacer) PlaceLabel(anchor Point, labelW, labelH, gap float64) Point {
	// Right of the marker reads best on a map, so it goes first.
	candidates := []Point{
		{anchor.X + labelW/2 + gap, anchor.Y}, // right
		{anchor.X, anchor.Y - labelH/2 - gap}, // above
		{anchor.X, anchor.Y + labelH/2 + gap}, // below
		{anchor.X - labelW/2 - gap, anchor.Y}, // left
		// diagonals
		{anchor.X + labelW/2 + gap, anchor.Y - labelH/2 - gap}, // top-right
		{anchor.X - labelW/2 - gap, anchor.Y - labelH/2 - gap}, // top-left
		{anchor.X + labelW/2 + gap, anchor.Y + labelH/2 + gap}, // bottom-right
		{anchor.X - labelW/2 - gap, anchor.Y + labelH/2 + gap}, // bottom-left
	}

	bestPos := candidates[0]
	bestOverlap := math.MaxFloat64

	for _, pos := range candidates {
		labelRect := Rect{pos.X, pos.Y, labelW, labelH}

		totalOverlap := 0.0
		for _, obs := range lp.obstacles {
			totalOverlap += RectOverlap(labelRect, obs)
		}

		if totalOverlap == 0 {
			lp.obstacles = append(lp.obstacles, labelRect)
			return pos
		}

		if totalOverlap < bestOverlap {
			bestOverlap = totalOverlap
			bestPos = pos
		}
	}

	// Use best available position (may have overlap)
	lp.obstacles = append(lp.obstacles, Rect{bestPos.X, bestPos.Y, labelW, labelH})
	return bestPos
}
