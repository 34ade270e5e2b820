package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
)

func testGraph(t *testing.T, nodes ...graph.Node) *graph.Graph {
	t.Helper()
	g, err := graph.New(nodes, nil)
	require.NoError(t, err)
	return g
}

func TestHitRadius(t *testing.T) {
	h := DefaultHitTester()
	tests := []struct {
		scale float64
		want  float64
	}{
		{0.1, 10},
		{1, 10},
		{3, 10},
		{4, 12},
		{20, 60},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, h.Radius(tt.scale), 1e-9, "scale %v", tt.scale)
	}
}

func TestHit(t *testing.T) {
	g := testGraph(t,
		graph.Node{ID: 1, X: 0, Y: 0},
		graph.Node{ID: 2, X: 100, Y: 0},
	)
	h := DefaultHitTester()
	tr := Identity()

	tests := []struct {
		name   string
		at     geom.Point
		want   graph.NodeID
		wantOK bool
	}{
		{"on node", geom.Pt(0, 0), 1, true},
		{"inside radius", geom.Pt(6, 8), 1, true},
		{"on the radius", geom.Pt(100, 10), 2, true},
		{"outside radius", geom.Pt(50, 0), 0, false},
		{"just outside", geom.Pt(0, 10.01), 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := h.Hit(g, tr, tt.at)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.want, n.ID)
			}
		})
	}
}

func TestHitPicksNearest(t *testing.T) {
	g := testGraph(t,
		graph.Node{ID: 1, X: 0, Y: 0},
		graph.Node{ID: 2, X: 8, Y: 0},
	)
	n, ok := DefaultHitTester().Hit(g, Identity(), geom.Pt(5, 0))
	require.True(t, ok)
	assert.Equal(t, graph.NodeID(2), n.ID)
}

func TestHitTieKeepsInsertionOrder(t *testing.T) {
	g := testGraph(t,
		graph.Node{ID: 7, X: 10, Y: 0},
		graph.Node{ID: 3, X: -10, Y: 0},
	)
	tr := Transform{Scale: 0.5}
	n, ok := DefaultHitTester().Hit(g, tr, geom.Pt(0, 0))
	require.True(t, ok)
	assert.Equal(t, graph.NodeID(7), n.ID)
}

func TestHitUsesScreenSpace(t *testing.T) {
	g := testGraph(t, graph.Node{ID: 1, X: 10, Y: 10})
	tr := Transform{Scale: 4, OffsetX: 100, OffsetY: 50}

	// node sits at (140, 90) on screen, radius is 12 at this scale
	_, ok := DefaultHitTester().Hit(g, tr, geom.Pt(151, 90))
	assert.True(t, ok)
	_, ok = DefaultHitTester().Hit(g, tr, geom.Pt(10, 10))
	assert.False(t, ok)
}

func TestHitEmptyGraph(t *testing.T) {
	_, ok := DefaultHitTester().Hit(graph.Empty(), Identity(), geom.Pt(0, 0))
	assert.False(t, ok)
}
