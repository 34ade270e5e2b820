// Package anim animates travel along a route.
//
// An Animator holds progress over the route's edges. A FrameTask drives an
// Animator from a Scheduler's frame callbacks until the route is complete.
package anim

import (
	"math"
	"slices"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
)

// DefaultSpeed is the animation speed in edges per second.
const DefaultSpeed = 2.0

var (
	ErrShortPath = errors.New("path needs at least two nodes")
	ErrBadSpeed  = errors.New("speed must be positive and finite")
)

// snap absorbs the rounding left by scaling elapsed time into progress.
const snap = 1e-9

// Animator tracks progress along a path. Progress runs over [0, len-1]: its
// integer part counts fully drawn edges, its fraction is the position along
// the current edge.
type Animator struct {
	ids     []graph.NodeID
	speed   float64
	elapsed time.Duration
	prog    float64
	active  bool
}

// New returns an active Animator at the start of ids.
func New(ids []graph.NodeID, speed float64) (*Animator, error) {
	if len(ids) < 2 {
		return nil, errors.Wrapf(ErrShortPath, "got %d", len(ids))
	}
	if speed <= 0 || math.IsInf(speed, 0) || math.IsNaN(speed) {
		return nil, errors.Wrapf(ErrBadSpeed, "got %v", speed)
	}
	return &Animator{
		ids:    slices.Clone(ids),
		speed:  speed,
		active: true,
	}, nil
}

// IDs returns the path.
func (a *Animator) IDs() []graph.NodeID { return slices.Clone(a.ids) }

// Speed returns the speed in edges per second.
func (a *Animator) Speed() float64 { return a.speed }

// Progress returns the current progress.
func (a *Animator) Progress() float64 { return a.prog }

// Active reports whether the animation still has ground to cover.
func (a *Animator) Active() bool { return a.active }

// Duration returns the time the whole path takes at the animator's speed.
func (a *Animator) Duration() time.Duration {
	return time.Duration(float64(a.last()) / a.speed * float64(time.Second))
}

func (a *Animator) last() float64 { return float64(len(a.ids) - 1) }

// Advance moves progress forward by dt. Reaching the end clamps progress and
// deactivates the animator; later calls do nothing. Negative dt is ignored.
func (a *Animator) Advance(dt time.Duration) {
	if !a.active || dt <= 0 {
		return
	}
	// Progress is derived from total elapsed time so the result does not
	// depend on how the time was split into steps.
	a.elapsed += dt
	a.prog = a.speed * a.elapsed.Seconds()
	if end := a.last(); a.prog >= end-snap*end {
		a.prog = end
		a.active = false
	}
}

// Finish jumps to the end of the path.
func (a *Animator) Finish() {
	a.prog = a.last()
	a.active = false
}

// Segment returns the index of the edge being drawn and the fraction along
// it. At the end of the path it returns the last node's index and 0.
func (a *Animator) Segment() (int, float64) {
	i := int(math.Floor(a.prog))
	if i >= len(a.ids)-1 {
		return len(a.ids) - 1, 0
	}
	return i, a.prog - float64(i)
}

// Projector gives the screen position of a node, false if it is unknown.
type Projector func(graph.NodeID) (geom.Point, bool)

// Trace is the drawable part of a path in screen space.
type Trace struct {
	Points []geom.Point // polyline from the first node to the head
	Head   geom.Point   // moving marker
}

// Empty reports whether there is nothing to draw.
func (t Trace) Empty() bool { return len(t.Points) == 0 }

// Query returns the polyline through the completed nodes plus the head
// interpolated along the current edge. Interpolation happens between screen
// positions so on-screen speed does not change with zoom. Nodes project
// cannot place are skipped.
func (a *Animator) Query(project Projector) Trace {
	i, frac := a.Segment()

	var tr Trace
	for _, id := range a.ids[:i+1] {
		if p, ok := project(id); ok {
			tr.Points = append(tr.Points, p)
		}
	}
	if len(tr.Points) == 0 {
		return tr
	}
	tr.Head = tr.Points[len(tr.Points)-1]

	if i+1 < len(a.ids) {
		from, okFrom := project(a.ids[i])
		to, okTo := project(a.ids[i+1])
		if okFrom && okTo {
			tr.Head = geom.Lerp(from, to, frac)
			tr.Points = append(tr.Points, tr.Head)
		}
	}
	return tr
}

// FullTrace returns the whole path as a static polyline.
func FullTrace(ids []graph.NodeID, project Projector) Trace {
	var tr Trace
	for _, id := range ids {
		if p, ok := project(id); ok {
			tr.Points = append(tr.Points, p)
		}
	}
	if len(tr.Points) > 0 {
		tr.Head = tr.Points[len(tr.Points)-1]
	}
	return tr
}
