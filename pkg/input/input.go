// Package input turns raw pointer events into pan deltas and clicks.
package input

import (
	"math"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// ClickThreshold is the travel in pixels below which a press-release pair
// counts as a click.
const ClickThreshold = 5.0

// Disambiguator separates drags from clicks. Travel is the sum of per-move
// step lengths, not net displacement, so a press that wanders and returns is
// still a drag.
//
// The zero value is ready to use.
type Disambiguator struct {
	dragging bool
	travel   float64
	last     geom.Point
}

// Dragging reports whether a press is in progress.
func (d *Disambiguator) Dragging() bool { return d.dragging }

// Travel returns the accumulated travel of the current press.
func (d *Disambiguator) Travel() float64 { return d.travel }

// PointerDown starts a press at p.
func (d *Disambiguator) PointerDown(p geom.Point) {
	d.dragging = true
	d.travel = 0
	d.last = p
}

// PointerMove records a move to p. While a press is in progress it returns
// the screen delta to pan by; otherwise ok is false.
func (d *Disambiguator) PointerMove(p geom.Point) (dx, dy float64, ok bool) {
	if !d.dragging {
		return 0, 0, false
	}
	dx, dy = p.X-d.last.X, p.Y-d.last.Y
	d.travel += math.Hypot(dx, dy)
	d.last = p
	return dx, dy, true
}

// PointerUp ends the press. It reports whether the press was a click; the
// caller hit-tests at the release position.
func (d *Disambiguator) PointerUp() (click bool) {
	click = d.dragging && d.travel < ClickThreshold
	d.dragging = false
	return click
}

// PointerLeave ends a press without producing a click, for when the
// pointer leaves the surface mid-drag.
func (d *Disambiguator) PointerLeave() {
	d.dragging = false
}
