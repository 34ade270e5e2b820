// Package mapctl owns the interactive map state and the operations front
// ends call: fitting, drawing, pointer and wheel handling, route playback and
// selection reset.
//
// A Controller is not safe for concurrent use. Every method must be called
// from the goroutine that owns it (the UI event loop); asynchronous work such
// as loading or routing runs elsewhere and hands its result back to that loop.
package mapctl

import (
	"image"
	"slices"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/ha1tch/campusmap/pkg/anim"
	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/input"
	"github.com/ha1tch/campusmap/pkg/logging"
	"github.com/ha1tch/campusmap/pkg/render"
	"github.com/ha1tch/campusmap/pkg/selection"
	"github.com/ha1tch/campusmap/pkg/viewport"
)

var (
	ErrDataLoad   = errors.New("map data failed to load")
	ErrNotReady   = errors.New("start and end must both be selected")
	ErrStaleRoute = errors.New("route no longer matches the selection")
)

// DefaultPadding is the fit margin in screen pixels.
const DefaultPadding = 50.0

// Options configures a Controller.
type Options struct {
	Padding float64
	Speed   float64 // animation speed in edges per second
	Hit     viewport.HitTester
	Engine  *render.Engine
	Logger  *zap.SugaredLogger
	OnFrame func() // called after each animation frame, typically to redraw
}

// DefaultOptions returns the standard settings.
func DefaultOptions() Options {
	return Options{
		Padding: DefaultPadding,
		Speed:   anim.DefaultSpeed,
		Hit:     viewport.DefaultHitTester(),
	}
}

// Route is the last route applied, kept for the result panel.
type Route struct {
	Request   graph.RouteRequest
	IDs       []graph.NodeID
	Names     []string
	TotalCost float64
	Unit      string
}

// Controller is the single owner of the map state.
type Controller struct {
	opts  Options
	sched anim.Scheduler
	log   *zap.SugaredLogger

	graph      *graph.Graph
	background image.Image
	view       viewport.Transform
	size       viewport.Size

	input input.Disambiguator
	sel   selection.Machine

	path  []graph.NodeID
	anim  *anim.Animator
	task  *anim.FrameTask
	route *Route

	focus    graph.Node
	hasFocus bool
	loading  int
}

// New returns a Controller with an empty graph. Animation frames are
// requested from sched.
func New(sched anim.Scheduler, opts Options) *Controller {
	def := DefaultOptions()
	if opts.Padding < 0 {
		opts.Padding = def.Padding
	}
	if opts.Speed <= 0 {
		opts.Speed = def.Speed
	}
	if opts.Hit == (viewport.HitTester{}) {
		opts.Hit = def.Hit
	}
	if opts.Engine == nil {
		opts.Engine = render.NewEngine()
	}
	log := opts.Logger
	if log == nil {
		log = logging.Logger
	}
	return &Controller{
		opts:  opts,
		sched: sched,
		log:   log,
		graph: graph.Empty(),
		view:  viewport.Identity(),
	}
}

// Graph returns the current graph.
func (c *Controller) Graph() *graph.Graph { return c.graph }

// View returns the current transform.
func (c *Controller) View() viewport.Transform { return c.view }

// Size returns the viewport size last passed to Fit or Resize.
func (c *Controller) Size() viewport.Size { return c.size }

// Selection returns a copy of the selection.
func (c *Controller) Selection() selection.Machine { return c.sel }

// Path returns the active path, empty when there is none.
func (c *Controller) Path() []graph.NodeID { return slices.Clone(c.path) }

// Animator returns the animator of the active path, if any.
func (c *Controller) Animator() *anim.Animator { return c.anim }

// Animating reports whether frames are being scheduled.
func (c *Controller) Animating() bool { return c.task.Active() }

// Route returns the last applied route.
func (c *Controller) Route() (Route, bool) {
	if c.route == nil {
		return Route{}, false
	}
	return *c.route, true
}

// Focus returns the node last clicked, for the info panel.
func (c *Controller) Focus() (graph.Node, bool) { return c.focus, c.hasFocus }

// Fit sets the viewport size and fits the whole graph into it.
func (c *Controller) Fit(size viewport.Size) {
	c.size = size
	c.view.Fit(c.graph.Positions(), size, c.opts.Padding)
	c.log.Debugw("fit", "nodes", c.graph.Len(), "scale", c.view.Scale)
}

// Resize refits to a new viewport size.
func (c *Controller) Resize(size viewport.Size) {
	c.Fit(size)
}

// Scene returns what Render would draw.
func (c *Controller) Scene() render.Scene {
	return render.Scene{
		Graph:      c.graph,
		View:       c.view,
		Selection:  c.sel,
		Path:       c.path,
		Anim:       c.anim,
		Background: c.background,
	}
}

// Render draws the current state on canvas.
func (c *Controller) Render(canvas render.Canvas) {
	c.opts.Engine.Render(canvas, c.Scene())
}

// HandlePointerDown starts a press.
func (c *Controller) HandlePointerDown(p geom.Point) {
	c.input.PointerDown(p)
}

// HandlePointerMove pans while a press is in progress. It reports whether
// the view changed.
func (c *Controller) HandlePointerMove(p geom.Point) bool {
	dx, dy, ok := c.input.PointerMove(p)
	if !ok {
		return false
	}
	c.view.Pan(dx, dy)
	return dx != 0 || dy != 0
}

// HandlePointerUp ends a press. A click on a node updates the selection; the
// transition is returned, Ignore when the press was a drag or hit nothing.
func (c *Controller) HandlePointerUp(p geom.Point) selection.Transition {
	if !c.input.PointerUp() {
		return selection.Ignore
	}
	n, ok := c.opts.Hit.Hit(c.graph, c.view, p)
	if !ok {
		return selection.Ignore
	}
	return c.click(n)
}

// HandlePointerLeave ends a press without a click.
func (c *Controller) HandlePointerLeave() {
	c.input.PointerLeave()
}

// HandleWheel zooms one step around p.
func (c *Controller) HandleWheel(p geom.Point, dir viewport.Direction) {
	c.view.ZoomAt(p, dir)
}

// Click selects node id as if it had been clicked on the map.
func (c *Controller) Click(id graph.NodeID) (selection.Transition, error) {
	n, ok := c.graph.Node(id)
	if !ok {
		return selection.Ignore, errors.Wrapf(graph.ErrUnknownNode, "node %d", id)
	}
	return c.click(n), nil
}

func (c *Controller) click(n graph.Node) selection.Transition {
	c.focus, c.hasFocus = n, true

	tr := c.sel.Click(n.ID)
	if tr.Changed() && len(c.path) > 0 {
		c.clearPath()
	}
	c.log.Debugw("click", "node", n.ID, "transition", tr.String(), "state", c.sel.State().String())
	return tr
}

// ResetSelection clears the selection, the path and its animation, the
// route and the focused node.
func (c *Controller) ResetSelection() {
	c.sel.Reset()
	c.clearPath()
	c.focus, c.hasFocus = graph.Node{}, false
}

func (c *Controller) clearPath() {
	c.task.Cancel()
	c.task, c.anim, c.path, c.route = nil, nil, nil, nil
}

// StartAnimation replaces the active path with ids and animates it. An empty
// ids clears the path. Any running animation is cancelled first.
func (c *Controller) StartAnimation(ids []graph.NodeID) error {
	if len(ids) == 0 {
		c.task.Cancel()
		c.task, c.anim, c.path = nil, nil, nil
		return nil
	}
	for _, id := range ids {
		if !c.graph.Has(id) {
			return errors.Wrapf(graph.ErrUnknownNode, "path node %d", id)
		}
	}
	a, err := anim.New(ids, c.opts.Speed)
	if err != nil {
		return err
	}

	c.task.Cancel()
	c.anim = a
	c.path = a.IDs()
	c.task = anim.Start(a, c.sched, func(*anim.Animator) {
		if c.opts.OnFrame != nil {
			c.opts.OnFrame()
		}
	})
	c.log.Debugw("animation started", "path_len", len(ids), "speed", c.opts.Speed)
	return nil
}

// RouteRequest builds a navigation request for the current selection.
func (c *Controller) RouteRequest(strategy graph.Strategy, transport graph.Transport) (graph.RouteRequest, error) {
	start, okStart := c.sel.Start()
	end, okEnd := c.sel.End()
	if !okStart || !okEnd {
		return graph.RouteRequest{}, ErrNotReady
	}
	return graph.RouteRequest{StartID: start, EndID: end, Strategy: strategy, Transport: transport}, nil
}

// ApplyRoute installs a routing response computed for req and starts its
// animation. Responses for a selection that has since changed are dropped
// with ErrStaleRoute. Hops without a graph edge are logged and drawn
// straight.
func (c *Controller) ApplyRoute(req graph.RouteRequest, resp graph.RouteResponse) error {
	start, okStart := c.sel.Start()
	end, okEnd := c.sel.End()
	if !okStart || !okEnd || start != req.StartID || end != req.EndID {
		return errors.Wrapf(ErrStaleRoute, "route %d->%d", req.StartID, req.EndID)
	}

	missing, err := resp.Validate(c.graph)
	if err != nil {
		return errors.Wrap(err, "route response")
	}
	for _, hop := range missing {
		c.log.Warnw("route hop has no edge", "from", hop[0], "to", hop[1])
	}

	if err := c.StartAnimation(resp.PathIDs); err != nil {
		return err
	}
	c.route = &Route{
		Request:   req,
		IDs:       slices.Clone(resp.PathIDs),
		Names:     slices.Clone(resp.PathNames),
		TotalCost: resp.TotalCost,
		Unit:      resp.Unit(req.Strategy),
	}
	c.log.Infow("route applied", "path_len", len(resp.PathIDs), "cost", resp.TotalCost)
	return nil
}

// SetGraph replaces the graph, clears everything that referred to the old
// one and refits when a viewport size is known.
func (c *Controller) SetGraph(g *graph.Graph) {
	if g == nil {
		g = graph.Empty()
	}
	c.graph = g
	c.ResetSelection()
	if c.size != (viewport.Size{}) {
		c.Fit(c.size)
	}
	c.log.Infow("graph loaded", "nodes", g.Len(), "edges", g.EdgeCount())
}

// SetBackground replaces the background image; nil falls back to the fill.
func (c *Controller) SetBackground(img image.Image) {
	c.background = img
}

// BeginLoad marks an asynchronous load or route request as pending.
func (c *Controller) BeginLoad() { c.loading++ }

// EndLoad marks a pending operation as finished.
func (c *Controller) EndLoad() {
	if c.loading > 0 {
		c.loading--
	}
}

// Loading reports whether any asynchronous operation is pending.
func (c *Controller) Loading() bool { return c.loading > 0 }

// LoadFailed records a failed load of what ("graph" or "background"). The
// current state stays as it is. The returned error, marked ErrDataLoad, is
// the single message to show.
func (c *Controller) LoadFailed(what string, err error) error {
	c.log.Errorw("load failed", "what", what, "err", err)
	wrapped := errors.Mark(errors.Wrapf(err, "load %s", what), ErrDataLoad)
	if what == "background" {
		return errors.WithHint(wrapped, "the map is drawn without its background image")
	}
	return errors.WithHint(wrapped, "check the routing service address or the graph file path")
}
