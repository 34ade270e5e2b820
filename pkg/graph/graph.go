// Package graph provides the spot/path graph shown on the map.
//
// A Graph is built once by New (or one of the loaders) and is read-only
// afterwards. Nodes keep their insertion order, which other packages rely on
// for deterministic tie-breaking.
package graph

import (
	"slices"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/ha1tch/campusmap/pkg/geom"
)

// NodeID identifies a node. IDs are unique within a Graph.
type NodeID int64

// Category classifies nodes for display.
type Category string

const (
	CategorySpot     Category = "spot"
	CategoryWaypoint Category = "waypoint"
)

// ParseCategory maps a raw category string onto a Category. Named kinds of
// place (canteen, building, sight) are all spots.
func ParseCategory(raw string) Category {
	switch raw {
	case "waypoint", "junction":
		return CategoryWaypoint
	default:
		return CategorySpot
	}
}

// Node is a place on the map in world coordinates.
type Node struct {
	ID       NodeID
	X, Y     float64
	Name     string
	Category Category
	Kind     string // raw category as delivered, e.g. "canteen"
	Desc     string
}

// Pos returns the node's world position.
func (n Node) Pos() geom.Point {
	return geom.Point{X: n.X, Y: n.Y}
}

// IsSpot reports whether the node is a named place rather than a waypoint.
func (n Node) IsSpot() bool {
	return n.Category != CategoryWaypoint
}

// Edge is an undirected connection between two nodes.
type Edge struct {
	U, V     NodeID
	Dist     float64 // physical length, 0 if unknown
	Type     string  // transport type, e.g. "walk"
	Crowding float64 // congestion factor, 1 if unknown
}

var (
	ErrUnknownNode   = errors.New("unknown node")
	ErrDuplicateNode = errors.New("duplicate node id")
)

// Graph is an immutable set of nodes and edges with id lookup.
type Graph struct {
	nodes []Node
	index map[NodeID]int
	edges []Edge
	topo  *simple.UndirectedGraph
}

// New validates nodes and edges and builds a Graph. Edge endpoints must
// reference existing nodes. Self-loops are kept for drawing but carry no
// adjacency.
func New(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes: slices.Clone(nodes),
		index: make(map[NodeID]int, len(nodes)),
		edges: slices.Clone(edges),
		topo:  simple.NewUndirectedGraph(),
	}

	for i, n := range g.nodes {
		if _, dup := g.index[n.ID]; dup {
			return nil, errors.Wrapf(ErrDuplicateNode, "node %d", n.ID)
		}
		if n.Category == "" {
			g.nodes[i].Category = CategorySpot
		}
		g.index[n.ID] = i
		g.topo.AddNode(simple.Node(n.ID))
	}

	for i, e := range g.edges {
		if _, ok := g.index[e.U]; !ok {
			return nil, errors.Wrapf(ErrUnknownNode, "edge %d: u=%d", i, e.U)
		}
		if _, ok := g.index[e.V]; !ok {
			return nil, errors.Wrapf(ErrUnknownNode, "edge %d: v=%d", i, e.V)
		}
		if e.U == e.V {
			continue
		}
		g.topo.SetEdge(simple.Edge{F: simple.Node(e.U), T: simple.Node(e.V)})
	}

	return g, nil
}

// Empty returns a graph with no nodes, used when loading fails.
func Empty() *Graph {
	g, _ := New(nil, nil)
	return g
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns the edges in load order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Node looks up a node by id.
func (g *Graph) Node(id NodeID) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id NodeID) bool {
	_, ok := g.index[id]
	return ok
}

// HasEdge reports whether u and v are joined by an edge.
func (g *Graph) HasEdge(u, v NodeID) bool {
	if !g.Has(u) || !g.Has(v) {
		return false
	}
	return g.topo.HasEdgeBetween(int64(u), int64(v))
}

// Degree returns the number of distinct neighbours of id.
func (g *Graph) Degree(id NodeID) int {
	if !g.Has(id) {
		return 0
	}
	return g.topo.From(int64(id)).Len()
}

// Positions returns the world positions of all nodes in insertion order.
func (g *Graph) Positions() []geom.Point {
	pts := make([]geom.Point, len(g.nodes))
	for i, n := range g.nodes {
		pts[i] = n.Pos()
	}
	return pts
}

// Bounds returns the bounding box of all node positions.
func (g *Graph) Bounds() (geom.Bounds, bool) {
	return geom.BoundsOf(g.Positions())
}

// Name returns the display name for id, or "Unknown".
func (g *Graph) Name(id NodeID) string {
	if n, ok := g.Node(id); ok {
		return n.Name
	}
	return "Unknown"
}
