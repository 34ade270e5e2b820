package main

import (
	"context"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/ha1tch/campusmap/pkg/anim"
	"github.com/ha1tch/campusmap/pkg/config"
	"github.com/ha1tch/campusmap/pkg/geom"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/mapctl"
	"github.com/ha1tch/campusmap/pkg/render"
	"github.com/ha1tch/campusmap/pkg/routeclient"
	"github.com/ha1tch/campusmap/pkg/selection"
	"github.com/ha1tch/campusmap/pkg/viewport"
	"github.com/ha1tch/campusmap/pkg/watch"
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// chrome is the rows below the map: help bar and status bar.
const chrome = 2

const (
	requestTimeout = 15 * time.Second
	postBackoff    = 10 * time.Millisecond
)

// Viewer is the terminal front end. All fields are owned by the event loop;
// background work reaches it through post.
type Viewer struct {
	screen tcell.Screen
	ctl    *mapctl.Controller
	cfg    config.Config
	client *routeclient.Client
	log    *zap.SugaredLogger

	strategy  graph.Strategy
	transport graph.Transport

	pressed     bool // button 1 held, press started on the map
	message     string
	messageType MessageType
	showPanel   bool

	done chan struct{} // closed when run returns
}

func newViewer(screen tcell.Screen, cfg config.Config, log *zap.SugaredLogger) (*Viewer, error) {
	theme := render.DefaultTheme()
	if err := theme.Apply(cfg.Theme); err != nil {
		return nil, errors.Wrap(err, "theme")
	}
	engine := &render.Engine{Theme: theme, Options: terminalOptions()}

	v := &Viewer{
		screen:    screen,
		cfg:       cfg,
		client:    routeclient.New(cfg.API.BaseURL, cfg.API.Token),
		log:       log,
		strategy:  graph.Strategy(cfg.Map.Strategy),
		transport: graph.Transport(cfg.Map.Transport),
		showPanel: true,
		done:      make(chan struct{}),
	}
	sched := &anim.TickScheduler{Interval: cfg.Animation.FrameInterval(), Post: v.post}
	v.ctl = mapctl.New(sched, mapctl.Options{
		Padding: terminalPadding(cfg.Map.Padding),
		Speed:   cfg.Animation.Speed,
		Hit:     viewport.HitTester{NodeRadius: 2, MinRadius: 4, Factor: 0.5},
		Engine:  engine,
		Logger:  log,
	})
	v.ctl.Fit(v.mapSize())
	return v, nil
}

// terminalOptions scales the marker sizes down to braille dots.
func terminalOptions() render.Options {
	o := render.DefaultOptions()
	o.NodeRadius = 1.5
	o.EndpointRadius = 2.5
	o.HeadRadius = 1.5
	o.EdgeWidth = 1
	o.PathWidth = 1
	o.LabelPad = 0
	o.LabelGap = 2
	return o
}

// terminalPadding converts the configured pixel padding to dots, at most
// two cells.
func terminalPadding(px float64) float64 {
	return math.Min(px/8, 2*dotsY)
}

// post runs fn on the event loop. A full queue is retried until the loop
// takes the event or exits.
func (v *Viewer) post(fn func()) {
	ev := tcell.NewEventInterrupt(fn)
	if v.screen.PostEvent(ev) == nil {
		return
	}
	go func() {
		for {
			select {
			case <-v.done:
				return
			case <-time.After(postBackoff):
			}
			if v.screen.PostEvent(ev) == nil {
				return
			}
		}
	}()
}

// mapSize is the map area in dots.
func (v *Viewer) mapSize() viewport.Size {
	w, h := v.screen.Size()
	return viewport.Size{W: float64(w * dotsX), H: float64(max(h-chrome, 0) * dotsY)}
}

// toDots maps a cell to the dot at its centre.
func toDots(x, y int) geom.Point {
	return geom.Pt(float64(x*dotsX)+dotsX/2, float64(y*dotsY)+dotsY/2)
}

func (v *Viewer) run() {
	defer close(v.done)
	for {
		v.draw()
		v.screen.Show()

		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			v.screen.Sync()
			v.ctl.Resize(v.mapSize())
		case *tcell.EventKey:
			if v.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			v.handleMouse(ev)
		case *tcell.EventFocus:
			if !ev.Focused {
				v.leave()
			}
		case *tcell.EventInterrupt:
			if fn, ok := ev.Data().(func()); ok {
				fn()
			}
		}
	}
}

func (v *Viewer) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		v.reset()
		return false
	case tcell.KeyEnter:
		v.navigate()
		return false
	case tcell.KeyRune:
	default:
		return false
	}

	switch ev.Rune() {
	case 'q':
		return true
	case 'r':
		v.reset()
	case 'n':
		v.navigate()
	case 's':
		if v.strategy == graph.StrategyDistance {
			v.strategy = graph.StrategyTime
		} else {
			v.strategy = graph.StrategyDistance
		}
		v.showMessage("Strategy: "+string(v.strategy), MsgInfo)
	case 't':
		if v.transport == graph.TransportWalk {
			v.transport = graph.TransportBike
		} else {
			v.transport = graph.TransportWalk
		}
		v.showMessage("Transport: "+string(v.transport), MsgInfo)
	case 'f':
		v.ctl.Fit(v.mapSize())
	case '+', '=':
		v.zoomCentre(viewport.ZoomIn)
	case '-':
		v.zoomCentre(viewport.ZoomOut)
	case 'i':
		v.showPanel = !v.showPanel
	}
	return false
}

func (v *Viewer) zoomCentre(dir viewport.Direction) {
	s := v.mapSize()
	v.ctl.HandleWheel(geom.Pt(s.W/2, s.H/2), dir)
}

func (v *Viewer) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	_, h := v.screen.Size()
	onMap := y < h-chrome
	p := toDots(x, y)

	if onMap && buttons&tcell.WheelUp != 0 {
		v.ctl.HandleWheel(p, viewport.ZoomIn)
		return
	}
	if onMap && buttons&tcell.WheelDown != 0 {
		v.ctl.HandleWheel(p, viewport.ZoomOut)
		return
	}

	down := buttons&tcell.Button1 != 0
	switch {
	case down && !v.pressed:
		if onMap {
			v.pressed = true
			v.ctl.HandlePointerDown(p)
		}
	case down && v.pressed:
		if !onMap {
			v.leave()
			return
		}
		v.ctl.HandlePointerMove(p)
	case !down && v.pressed:
		v.pressed = false
		v.clicked(v.ctl.HandlePointerUp(p))
	}
}

// leave ends a press without a click.
func (v *Viewer) leave() {
	if v.pressed {
		v.pressed = false
		v.ctl.HandlePointerLeave()
	}
}

func (v *Viewer) clicked(tr selection.Transition) {
	if !tr.Changed() {
		return
	}
	n, _ := v.ctl.Focus()
	switch tr {
	case selection.SetStart:
		v.showMessage("Start: "+n.Name, MsgSuccess)
	case selection.SetEnd:
		v.showMessage("End: "+n.Name+"  (Enter to navigate)", MsgSuccess)
	case selection.ClearStart:
		v.showMessage("Start cleared", MsgInfo)
	case selection.ClearEnd:
		v.showMessage("End cleared", MsgInfo)
	}
}

func (v *Viewer) reset() {
	v.ctl.ResetSelection()
	v.showMessage("Selection cleared", MsgInfo)
}

// navigate asks the routing service for the selected route. The reply is
// applied on the loop; replies for an outdated selection are dropped.
func (v *Viewer) navigate() {
	req, err := v.ctl.RouteRequest(v.strategy, v.transport)
	if err != nil {
		v.showMessage("Select a start and an end first", MsgError)
		return
	}
	v.ctl.BeginLoad()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		resp, err := v.client.Navigate(ctx, req)
		v.post(func() { v.routeDone(req, resp, err) })
	}()
}

func (v *Viewer) routeDone(req graph.RouteRequest, resp graph.RouteResponse, err error) {
	v.ctl.EndLoad()
	if err != nil {
		v.log.Errorw("navigate failed", "start", req.StartID, "end", req.EndID, "err", err)
		v.showMessage("Route failed: "+errors.UnwrapAll(err).Error(), MsgError)
		return
	}
	if err := v.ctl.ApplyRoute(req, resp); err != nil {
		if errors.Is(err, mapctl.ErrStaleRoute) {
			return
		}
		v.showMessage("Bad route: "+err.Error(), MsgError)
		return
	}
	r, _ := v.ctl.Route()
	if len(r.IDs) == 0 {
		v.showMessage("No route found", MsgInfo)
		return
	}
	v.showMessage(fmt.Sprintf("Route: %.0f %s, %d stops", math.Round(r.TotalCost), r.Unit, len(r.IDs)), MsgSuccess)
}

// load fetches the graph and background concurrently.
func (v *Viewer) load() {
	var loadImage mapctl.ImageLoader
	if bg := v.cfg.Map.Background; bg != "" {
		loadImage = func(ctx context.Context) (image.Image, error) { return render.LoadImage(ctx, bg) }
	}
	v.ctl.BeginLoad()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		assets := mapctl.LoadAssets(ctx, v.loadGraph, loadImage)
		v.post(func() {
			v.ctl.EndLoad()
			if errs := v.ctl.Apply(assets); len(errs) > 0 {
				v.showMessage(errors.UnwrapAll(errs[0]).Error()+" ("+errors.FlattenHints(errs[0])+")", MsgError)
				return
			}
			v.showMessage(fmt.Sprintf("Loaded %d places", v.ctl.Graph().Len()), MsgInfo)
		})
	}()
}

func (v *Viewer) loadGraph(ctx context.Context) (*graph.Graph, error) {
	if path := v.cfg.Map.Graph; path != "" {
		return graph.Load(path)
	}
	return v.client.Graph(ctx)
}

// watchGraph reloads the graph file whenever it changes on disk.
func (v *Viewer) watchGraph() (*watch.Watcher, error) {
	w, err := watch.New(v.cfg.Map.Graph,
		watch.WithOnChange(func() {
			g, err := graph.Load(v.cfg.Map.Graph)
			v.post(func() { v.reloaded(g, err) })
		}),
		watch.WithOnError(func(err error) {
			v.post(func() { v.showMessage("Watch: "+err.Error(), MsgError) })
		}),
	)
	if err != nil {
		return nil, err
	}
	return w, w.Start()
}

func (v *Viewer) reloaded(g *graph.Graph, err error) {
	if err != nil {
		err = v.ctl.LoadFailed("graph", err)
		v.showMessage(errors.UnwrapAll(err).Error(), MsgError)
		return
	}
	v.ctl.SetGraph(g)
	v.showMessage(fmt.Sprintf("Reloaded %d places", g.Len()), MsgSuccess)
}

func (v *Viewer) showMessage(msg string, msgType MessageType) {
	v.message = msg
	v.messageType = msgType
}
