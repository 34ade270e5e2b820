package mapctl

import (
	"context"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/ha1tch/campusmap/pkg/graph"
)

// GraphLoader fetches a graph, from a file or the routing service.
type GraphLoader func(ctx context.Context) (*graph.Graph, error)

// ImageLoader fetches the background image.
type ImageLoader func(ctx context.Context) (image.Image, error)

// Assets is the outcome of LoadAssets. Each part carries its own error so a
// missing background never hides a good graph.
type Assets struct {
	Graph         *graph.Graph
	GraphErr      error
	Background    image.Image
	BackgroundErr error
}

// LoadAssets runs the graph and background loads concurrently and waits for
// both. A nil loader is skipped. It touches no Controller state; the caller
// applies the result on the owning loop with Apply.
func LoadAssets(ctx context.Context, loadGraph GraphLoader, loadImage ImageLoader) Assets {
	var a Assets
	// Neither load cancels the other. A failed graph still lets the
	// background arrive, so errors stay in Assets and never reach the group.
	var g errgroup.Group

	if loadGraph != nil {
		g.Go(func() error {
			a.Graph, a.GraphErr = loadGraph(ctx)
			return nil
		})
	}
	if loadImage != nil {
		g.Go(func() error {
			a.Background, a.BackgroundErr = loadImage(ctx)
			return nil
		})
	}

	_ = g.Wait()
	return a
}

// Apply installs loaded assets. Failed parts leave the current state in
// place; their errors, marked ErrDataLoad, are returned for display.
func (c *Controller) Apply(a Assets) []error {
	var errs []error
	if a.GraphErr != nil {
		errs = append(errs, c.LoadFailed("graph", a.GraphErr))
	} else if a.Graph != nil {
		c.SetGraph(a.Graph)
	}
	if a.BackgroundErr != nil {
		errs = append(errs, c.LoadFailed("background", a.BackgroundErr))
	} else if a.Background != nil {
		c.SetBackground(a.Background)
	}
	return errs
}
