package mapctl

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ha1tch/campusmap/pkg/anim"
	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/render"
	"github.com/ha1tch/campusmap/pkg/selection"
	"github.com/ha1tch/campusmap/pkg/viewport"
)

var screen = viewport.Size{W: 300, H: 300}

func line(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(
		[]graph.Node{
			{ID: 1, X: 0, Y: 0, Name: "Gate"},
			{ID: 2, X: 100, Y: 0, Name: "Library"},
			{ID: 3, X: 100, Y: 100, Name: "Canteen"},
		},
		[]graph.Edge{{U: 1, V: 2}, {U: 2, V: 3}},
	)
	require.NoError(t, err)
	return g
}

func newController(t *testing.T, g *graph.Graph) (*Controller, *anim.ManualScheduler) {
	t.Helper()
	sched := &anim.ManualScheduler{}
	opts := DefaultOptions()
	opts.Speed = 1
	opts.Logger = zap.NewNop().Sugar()
	c := New(sched, opts)
	c.SetGraph(g)
	c.Fit(screen)
	return c, sched
}

// tap presses and releases on node id without moving.
func tap(c *Controller, id graph.NodeID) selection.Transition {
	n, _ := c.Graph().Node(id)
	p := c.View().ToScreen(n.Pos())
	c.HandlePointerDown(p)
	return c.HandlePointerUp(p)
}

func TestClickScenario(t *testing.T) {
	g, err := graph.New(
		[]graph.Node{{ID: 1, X: 0, Y: 0}, {ID: 2, X: 100, Y: 0}},
		[]graph.Edge{{U: 1, V: 2}},
	)
	require.NoError(t, err)
	c, _ := newController(t, g)

	_, err = c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)
	assert.True(t, errors.Is(err, ErrNotReady))

	assert.Equal(t, selection.SetStart, tap(c, 1))
	start, ok := c.Selection().Start()
	require.True(t, ok)
	assert.Equal(t, graph.NodeID(1), start)

	assert.Equal(t, selection.SetEnd, tap(c, 2))
	end, ok := c.Selection().End()
	require.True(t, ok)
	assert.Equal(t, graph.NodeID(2), end)

	req, err := c.RouteRequest(graph.StrategyTime, graph.TransportBike)
	require.NoError(t, err)
	assert.Equal(t, graph.RouteRequest{StartID: 1, EndID: 2, Strategy: graph.StrategyTime, Transport: graph.TransportBike}, req)
}

func TestFitContainsNodes(t *testing.T) {
	c, _ := newController(t, line(t))
	for _, n := range c.Graph().Nodes() {
		p := c.View().ToScreen(n.Pos())
		assert.GreaterOrEqual(t, p.X, 50-1e-9)
		assert.LessOrEqual(t, p.X, 250+1e-9)
		assert.GreaterOrEqual(t, p.Y, 50-1e-9)
		assert.LessOrEqual(t, p.Y, 250+1e-9)
	}
}

func TestDragPansWithoutClick(t *testing.T) {
	c, _ := newController(t, line(t))
	before := c.View()

	n, _ := c.Graph().Node(1)
	p := c.View().ToScreen(n.Pos())
	c.HandlePointerDown(p)
	assert.True(t, c.HandlePointerMove(p.Add(20, 0)))
	assert.True(t, c.HandlePointerMove(p.Add(20, 10)))
	assert.Equal(t, selection.Ignore, c.HandlePointerUp(p.Add(20, 10)))

	assert.InDelta(t, before.OffsetX+20, c.View().OffsetX, 1e-9)
	assert.InDelta(t, before.OffsetY+10, c.View().OffsetY, 1e-9)
	assert.Equal(t, selection.Idle, c.Selection().State())
}

func TestHoverMoveDoesNotPan(t *testing.T) {
	c, _ := newController(t, line(t))
	before := c.View()
	assert.False(t, c.HandlePointerMove(geom.Pt(10, 10)))
	assert.Equal(t, before, c.View())
}

func TestPointerLeaveCancelsClick(t *testing.T) {
	c, _ := newController(t, line(t))
	n, _ := c.Graph().Node(1)
	p := c.View().ToScreen(n.Pos())

	c.HandlePointerDown(p)
	c.HandlePointerLeave()
	assert.Equal(t, selection.Ignore, c.HandlePointerUp(p))
	assert.Equal(t, selection.Idle, c.Selection().State())
}

func TestClickOnEmptySpace(t *testing.T) {
	c, _ := newController(t, line(t))
	c.HandlePointerDown(geom.Pt(0, 299))
	assert.Equal(t, selection.Ignore, c.HandlePointerUp(geom.Pt(0, 299)))
	_, ok := c.Focus()
	assert.False(t, ok)
}

func TestWheelZoomKeepsPivot(t *testing.T) {
	c, _ := newController(t, line(t))
	p := geom.Pt(123, 77)
	world := c.View().ToWorld(p)

	c.HandleWheel(p, viewport.ZoomIn)
	got := c.View().ToScreen(world)
	assert.InDelta(t, p.X, got.X, 1e-9)
	assert.InDelta(t, p.Y, got.Y, 1e-9)
}

func TestApplyRouteAnimates(t *testing.T) {
	frames := 0
	sched := &anim.ManualScheduler{}
	opts := DefaultOptions()
	opts.Speed = 1
	opts.Logger = zap.NewNop().Sugar()
	opts.OnFrame = func() { frames++ }
	c := New(sched, opts)
	c.SetGraph(line(t))
	c.Fit(screen)

	tap(c, 1)
	tap(c, 3)
	req, err := c.RouteRequest(graph.StrategyTime, graph.TransportWalk)
	require.NoError(t, err)

	resp := graph.RouteResponse{
		PathIDs:   []graph.NodeID{1, 2, 3},
		PathNames: []string{"Gate", "Library", "Canteen"},
		TotalCost: 142.6,
	}
	require.NoError(t, c.ApplyRoute(req, resp))

	route, ok := c.Route()
	require.True(t, ok)
	assert.Equal(t, "秒", route.Unit)
	assert.Equal(t, []string{"Gate", "Library", "Canteen"}, route.Names)
	assert.Equal(t, []graph.NodeID{1, 2, 3}, c.Path())
	assert.True(t, c.Animating())

	sched.Frame(0)
	sched.Frame(time.Second)
	sched.Frame(2500 * time.Millisecond)
	assert.Equal(t, 2.0, c.Animator().Progress())
	assert.False(t, c.Animating())
	assert.Zero(t, sched.Pending())
	assert.Equal(t, 3, frames)

	rec := render.NewRecorder()
	c.Render(rec)
	path := rec.In(render.LayerPath)
	require.Len(t, path, 1)
	assert.Equal(t, []geom.Point{{X: 50, Y: 50}, {X: 250, Y: 50}, {X: 250, Y: 250}}, path[0].Points)
	assert.Equal(t, []render.Layer{
		render.LayerBackground, render.LayerEdges, render.LayerPath, render.LayerNodes, render.LayerLabels,
	}, rec.Layers())
}

func TestDeselectStartLeavesEnd(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)

	assert.Equal(t, selection.ClearStart, tap(c, 1))
	sel := c.Selection()
	assert.Equal(t, selection.EndOnly, sel.State())
	_, ok := sel.Start()
	assert.False(t, ok)
	assert.True(t, sel.Is(3))

	assert.Equal(t, selection.ClearEnd, tap(c, 3))
	assert.Equal(t, selection.Idle, c.Selection().State())
	assert.False(t, c.Selection().Ready())
}

func TestApplyRouteRejects(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)
	req, err := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)
	require.NoError(t, err)

	err = c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 99}})
	assert.True(t, errors.Is(err, graph.ErrUnknownNode))
	assert.Empty(t, c.Path(), "failed route leaves no path")

	stale := req
	stale.EndID = 2
	err = c.ApplyRoute(stale, graph.RouteResponse{PathIDs: []graph.NodeID{1, 2}})
	assert.True(t, errors.Is(err, ErrStaleRoute))
	assert.Empty(t, c.Path())
}

func TestApplyRouteToleratesMissingEdge(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)
	req, _ := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)

	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 3}}))
	assert.Equal(t, []graph.NodeID{1, 3}, c.Path())
}

func TestEmptyRouteClearsPath(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)
	req, _ := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)

	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 2, 3}}))
	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{}))
	assert.Empty(t, c.Path())
	assert.False(t, c.Animating())
	route, ok := c.Route()
	require.True(t, ok)
	assert.Equal(t, "米", route.Unit)
}

func TestSecondRouteSupersedesFirst(t *testing.T) {
	c, sched := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)
	req, _ := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)

	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 2, 3}}))
	sched.Frame(0)
	first := c.Animator()

	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 3}}))
	second := c.Animator()
	require.NotSame(t, first, second)

	sched.Frame(500 * time.Millisecond)
	sched.Frame(time.Second)
	assert.Zero(t, first.Progress(), "old chain exits without advancing")
	assert.InDelta(t, 0.5, second.Progress(), 1e-9)
	assert.Equal(t, 1, sched.Pending(), "one frame in flight")
}

func TestDeselectClearsPath(t *testing.T) {
	c, sched := newController(t, line(t))
	tap(c, 1)
	tap(c, 3)
	req, _ := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)
	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 2, 3}}))

	assert.Equal(t, selection.Ignore, tap(c, 2), "third node is ignored")
	assert.NotEmpty(t, c.Path())

	assert.Equal(t, selection.ClearEnd, tap(c, 3))
	assert.Empty(t, c.Path())
	assert.Nil(t, c.Animator())
	_, ok := c.Route()
	assert.False(t, ok)

	sched.Frame(0)
	assert.Zero(t, sched.Pending(), "cancelled task does not reschedule")
}

func TestResetSelection(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	tap(c, 2)
	req, _ := c.RouteRequest(graph.StrategyDistance, graph.TransportWalk)
	require.NoError(t, c.ApplyRoute(req, graph.RouteResponse{PathIDs: []graph.NodeID{1, 2}}))

	focus, ok := c.Focus()
	require.True(t, ok)
	assert.Equal(t, "Library", focus.Name)

	c.ResetSelection()
	assert.Equal(t, selection.Idle, c.Selection().State())
	assert.Empty(t, c.Path())
	assert.False(t, c.Animating())
	_, ok = c.Focus()
	assert.False(t, ok)
}

func TestStartAnimationValidates(t *testing.T) {
	c, _ := newController(t, line(t))
	assert.True(t, errors.Is(c.StartAnimation([]graph.NodeID{1}), anim.ErrShortPath))
	assert.True(t, errors.Is(c.StartAnimation([]graph.NodeID{1, 7}), graph.ErrUnknownNode))
	assert.Empty(t, c.Path())
}

func TestClickByID(t *testing.T) {
	c, _ := newController(t, line(t))
	tr, err := c.Click(2)
	require.NoError(t, err)
	assert.Equal(t, selection.SetStart, tr)

	_, err = c.Click(42)
	assert.True(t, errors.Is(err, graph.ErrUnknownNode))
}

func TestSetGraphResetsAndRefits(t *testing.T) {
	c, _ := newController(t, line(t))
	tap(c, 1)
	c.HandleWheel(geom.Pt(10, 10), viewport.ZoomIn)

	g, err := graph.New([]graph.Node{{ID: 9, X: 5, Y: 5}, {ID: 10, X: 15, Y: 5}}, nil)
	require.NoError(t, err)
	c.SetGraph(g)

	assert.Equal(t, selection.Idle, c.Selection().State())
	p := c.View().ToScreen(geom.Pt(10, 5))
	assert.InDelta(t, 150, p.X, 1e-9)
	assert.InDelta(t, 150, p.Y, 1e-9)
}

func TestLoadFailedKeepsState(t *testing.T) {
	c, _ := newController(t, line(t))
	c.BeginLoad()
	assert.True(t, c.Loading())

	err := c.LoadFailed("graph", errors.New("connection refused"))
	c.EndLoad()

	assert.True(t, errors.Is(err, ErrDataLoad))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NotEmpty(t, errors.GetAllHints(err))
	assert.Equal(t, 3, c.Graph().Len())
	assert.False(t, c.Loading())
}

func TestRenderWithoutData(t *testing.T) {
	c := New(&anim.ManualScheduler{}, DefaultOptions())
	c.Fit(screen)
	rec := render.NewRecorder()
	c.Render(rec)
	require.NotEmpty(t, rec.Directives)
	assert.Equal(t, render.OpClear, rec.Directives[0].Op)
}

func TestLoadAssets(t *testing.T) {
	g := line(t)
	a := LoadAssets(context.Background(),
		func(context.Context) (*graph.Graph, error) { return g, nil },
		func(context.Context) (image.Image, error) { return nil, errors.New("404") },
	)
	assert.Same(t, g, a.Graph)
	assert.Error(t, a.BackgroundErr)

	c := New(&anim.ManualScheduler{}, DefaultOptions())
	c.Fit(screen)
	errs := c.Apply(a)
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], ErrDataLoad))
	assert.Equal(t, 3, c.Graph().Len())
	assert.Nil(t, c.Scene().Background)
}

func TestGraphFailureDoesNotCancelBackground(t *testing.T) {
	graphFailed := make(chan struct{})
	a := LoadAssets(context.Background(),
		func(context.Context) (*graph.Graph, error) {
			defer close(graphFailed)
			return nil, errors.New("connection refused")
		},
		func(ctx context.Context) (image.Image, error) {
			<-graphFailed
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
		},
	)
	assert.Error(t, a.GraphErr)
	assert.NoError(t, a.BackgroundErr)
	assert.NotNil(t, a.Background)
}

func TestLoadAssetsSkipsNilLoaders(t *testing.T) {
	a := LoadAssets(context.Background(), nil, func(context.Context) (image.Image, error) {
		return image.NewRGBA(image.Rect(0, 0, 2, 2)), nil
	})
	assert.Nil(t, a.Graph)
	assert.NoError(t, a.GraphErr)
	assert.NotNil(t, a.Background)
}
