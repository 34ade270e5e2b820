// Package render draws the map.
//
// Engine.Render is a pure function of a Scene: it reads the graph, view,
// selection and path and issues drawing calls on a Canvas, back to front.
// Backends for PNG, SVG and the terminal implement Canvas; Recorder captures
// the calls for tests.
package render

import (
	"image"
	"image/color"

	"github.com/ha1tch/campusmap/pkg/anim"
	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/selection"
	"github.com/ha1tch/campusmap/pkg/viewport"
)

// Scene is everything one frame is drawn from.
type Scene struct {
	Graph      *graph.Graph
	View       viewport.Transform
	Selection  selection.Machine
	Path       []graph.NodeID
	Anim       *anim.Animator // nil draws Path statically
	Background image.Image    // nil uses the theme's fallback fill
}

// Options controls marker and label geometry in screen pixels.
type Options struct {
	NodeRadius     float64
	EndpointRadius float64 // start and end markers
	HeadRadius     float64 // moving marker on an animated path
	EdgeWidth      float64
	PathWidth      float64
	EdgeAlpha      float64 // edge mesh opacity
	LabelPad       float64 // plaque padding around text
	LabelGap       float64 // gap between marker and plaque
	Labels         bool
}

// DefaultOptions returns the standard marker sizes.
func DefaultOptions() Options {
	return Options{
		NodeRadius:     6,
		EndpointRadius: 9,
		HeadRadius:     5,
		EdgeWidth:      2,
		PathWidth:      4,
		EdgeAlpha:      0.5,
		LabelPad:       3,
		LabelGap:       4,
		Labels:         true,
	}
}

// Engine draws scenes with a theme and options.
type Engine struct {
	Theme   Theme
	Options Options
}

// NewEngine returns an Engine with the default theme and options.
func NewEngine() *Engine {
	return &Engine{Theme: DefaultTheme(), Options: DefaultOptions()}
}

type marker struct {
	node   graph.Node
	at     geom.Point
	radius float64
}

// Render draws s on c: background, edge mesh, path, node markers, labels.
func (e *Engine) Render(c Canvas, s Scene) {
	g := s.Graph
	if g == nil {
		g = graph.Empty()
	}
	project := func(id graph.NodeID) (geom.Point, bool) {
		n, ok := g.Node(id)
		if !ok {
			return geom.Point{}, false
		}
		return s.View.ToScreen(n.Pos()), true
	}

	c.BeginLayer(LayerBackground)
	c.Clear(e.Theme.Background)
	if s.Background != nil {
		// image pixels are world units anchored at the world origin
		c.Image(s.Background, s.View.ToScreen(geom.Point{}), s.View.Scale)
	}
	c.EndLayer()

	c.BeginLayer(LayerEdges)
	mesh := Stroke{Color: WithAlpha(e.Theme.Edge, e.Options.EdgeAlpha), Width: e.Options.EdgeWidth}
	for _, edge := range g.Edges() {
		a, okA := project(edge.U)
		b, okB := project(edge.V)
		if okA && okB {
			c.Line(a, b, mesh)
		}
	}
	c.EndLayer()

	if len(s.Path) > 0 {
		c.BeginLayer(LayerPath)
		e.drawPath(c, s, project)
		c.EndLayer()
	}

	markers := e.markers(g, s)

	c.BeginLayer(LayerNodes)
	onPath := make(map[graph.NodeID]bool, len(s.Path))
	for _, id := range s.Path {
		onPath[id] = true
	}
	for _, m := range markers {
		c.Circle(m.at, m.radius, e.markerColor(m.node.ID, s.Selection, onPath))
	}
	c.EndLayer()

	if e.Options.Labels {
		c.BeginLayer(LayerLabels)
		e.drawLabels(c, markers)
		c.EndLayer()
	}
}

func (e *Engine) drawPath(c Canvas, s Scene, project anim.Projector) {
	var tr anim.Trace
	if s.Anim != nil {
		tr = s.Anim.Query(project)
	} else {
		tr = anim.FullTrace(s.Path, project)
	}
	if tr.Empty() {
		return
	}
	c.Polyline(tr.Points, Stroke{Color: e.Theme.Path, Width: e.Options.PathWidth})
	if s.Anim != nil && s.Anim.Active() {
		c.Circle(tr.Head, e.Options.HeadRadius, e.Theme.Path)
	}
}

// markers returns the nodes to draw: spots plus any selected endpoint.
func (e *Engine) markers(g *graph.Graph, s Scene) []marker {
	var out []marker
	for _, n := range g.Nodes() {
		selected := s.Selection.Is(n.ID)
		if !n.IsSpot() && !selected {
			continue
		}
		r := e.Options.NodeRadius
		if selected {
			r = e.Options.EndpointRadius
		}
		out = append(out, marker{node: n, at: s.View.ToScreen(n.Pos()), radius: r})
	}
	return out
}

func (e *Engine) markerColor(id graph.NodeID, sel selection.Machine, onPath map[graph.NodeID]bool) color.NRGBA {
	if start, ok := sel.Start(); ok && start == id {
		return e.Theme.Start
	}
	if end, ok := sel.End(); ok && end == id {
		return e.Theme.End
	}
	if onPath[id] {
		return e.Theme.Path
	}
	return e.Theme.Node
}

// drawLabels places a plaque beside each named marker, avoiding markers and
// labels already placed.
func (e *Engine) drawLabels(c Canvas, markers []marker) {
	obstacles := make([]geom.Rect, 0, len(markers))
	for _, m := range markers {
		obstacles = append(obstacles, geom.Rect{X: m.at.X, Y: m.at.Y, W: m.radius * 2, H: m.radius * 2})
	}
	placer := geom.NewLabelPlacer(obstacles)

	pad := e.Options.LabelPad
	for _, m := range markers {
		if m.node.Name == "" {
			continue
		}
		w, h := c.MeasureText(m.node.Name)
		pw, ph := w+pad*2, h+pad*2
		at := placer.PlaceLabel(m.at, pw, ph, m.radius+e.Options.LabelGap)
		c.Rect(geom.Rect{X: at.X, Y: at.Y, W: pw, H: ph}, e.Theme.Plaque)
		c.Text(at, m.node.Name, e.Theme.Text)
	}
}
