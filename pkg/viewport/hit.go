package viewport

import (
	"math"

	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
)

// HitTester finds the node under a screen point.
type HitTester struct {
	NodeRadius float64 // marker radius in world-scaled pixels
	MinRadius  float64 // floor so nodes stay clickable when zoomed out
	Factor     float64 // share of the scaled marker that counts as a hit
}

// DefaultHitTester matches the marker size the renderer draws.
func DefaultHitTester() HitTester {
	return HitTester{
		NodeRadius: 6,
		MinRadius:  10,
		Factor:     0.5,
	}
}

// Radius returns the hit radius in screen pixels at the given scale.
func (h HitTester) Radius(scale float64) float64 {
	return math.Max(h.MinRadius, h.NodeRadius*scale*h.Factor)
}

// Hit returns the node nearest to p whose screen distance is within the hit
// radius. Ties keep the node that comes first in the graph.
func (h HitTester) Hit(g *graph.Graph, t Transform, p geom.Point) (graph.Node, bool) {
	radius := h.Radius(t.Scale)

	var best graph.Node
	bestDist := math.Inf(1)
	found := false
	for _, n := range g.Nodes() {
		d := geom.Dist(t.ToScreen(n.Pos()), p)
		if d > radius {
			continue
		}
		if d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	return best, found
}
