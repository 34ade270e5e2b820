package main

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/anim"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/logging"
	"github.com/ha1tch/campusmap/pkg/mapctl"
	"github.com/ha1tch/campusmap/pkg/render"
	"github.com/ha1tch/campusmap/pkg/viewport"
)

type renderFlags struct {
	output     string
	width      int
	height     int
	fontSize   float64
	background string
	path       string
	navigate   string
	at         time.Duration
	noLabels   bool
}

func renderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the map to PNG or SVG",
		Long: "Render the map fitted to the output size. --path draws a route from\n" +
			"node ids, --navigate asks the routing service for one. With --at the\n" +
			"route is drawn as it looks that far into its animation.",
		Example: "  campusmap render -o map.png\n" +
			"  campusmap render -g campus.json --path 1,4,7 --at 1.5s -o route.svg\n" +
			"  campusmap render --navigate 3,12 -o route.png",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "map.png", "output file (.png or .svg)")
	cmd.Flags().IntVar(&f.width, "width", 1024, "width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 768, "height in pixels")
	cmd.Flags().Float64Var(&f.fontSize, "font-size", render.DefaultFontSize, "label font size")
	cmd.Flags().StringVar(&f.background, "background", "", "background image file or URL (overrides config)")
	cmd.Flags().StringVar(&f.path, "path", "", "comma-separated node ids to draw as a route")
	cmd.Flags().StringVar(&f.navigate, "navigate", "", "START,END ids to route through the routing service")
	cmd.Flags().DurationVar(&f.at, "at", -1, "animation time to draw; default draws the whole route")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit spot labels")
	cmd.MarkFlagsMutuallyExclusive("path", "navigate")
	return cmd
}

func runRender(ctx context.Context, f renderFlags) error {
	if f.width <= 0 || f.height <= 0 {
		return errors.Newf("size must be positive, got %dx%d", f.width, f.height)
	}
	ext := strings.ToLower(filepath.Ext(f.output))
	if ext != ".png" && ext != ".svg" {
		return errors.WithHint(errors.Newf("unsupported output %q", f.output), "use a .png or .svg file name")
	}

	theme := render.DefaultTheme()
	if err := theme.Apply(cfg.Theme); err != nil {
		return errors.Wrap(err, "theme")
	}
	engine := render.NewEngine()
	engine.Theme = theme
	engine.Options.Labels = !f.noLabels

	opts := mapctl.DefaultOptions()
	opts.Padding = cfg.Map.Padding
	opts.Speed = cfg.Animation.Speed
	opts.Engine = engine
	opts.Logger = logging.Logger
	c := mapctl.New(&anim.ManualScheduler{}, opts)
	c.Fit(viewport.Size{W: float64(f.width), H: float64(f.height)})

	bg := f.background
	if bg == "" {
		bg = cfg.Map.Background
	}
	var loadImage mapctl.ImageLoader
	if bg != "" {
		loadImage = func(ctx context.Context) (image.Image, error) { return render.LoadImage(ctx, bg) }
	}
	assets := mapctl.LoadAssets(ctx, loadGraph, loadImage)
	if assets.GraphErr != nil {
		return c.LoadFailed("graph", assets.GraphErr)
	}
	for _, err := range c.Apply(assets) {
		Warn.Fprintf(os.Stderr, "  %v\n", err)
	}

	if err := drawRoute(ctx, c, f); err != nil {
		return err
	}
	if a := c.Animator(); a != nil {
		if f.at >= 0 {
			a.Advance(f.at)
		} else {
			a.Finish()
		}
	}

	out, err := os.Create(f.output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer out.Close()

	if ext == ".svg" {
		sc := render.NewSVGCanvas(out, f.width, f.height, f.fontSize)
		c.Render(sc)
		sc.Close()
	} else {
		rc := render.NewRasterCanvas(f.width, f.height, f.fontSize)
		c.Render(rc)
		if err := rc.WritePNG(out); err != nil {
			return errors.Wrap(err, "write png")
		}
	}
	if err := out.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}

	fmt.Printf("  %s %s (%dx%d, %d nodes)\n", statusIcon(true), f.output, f.width, f.height, c.Graph().Len())
	return nil
}

// drawRoute selects the route's endpoints and installs its path.
func drawRoute(ctx context.Context, c *mapctl.Controller, f renderFlags) error {
	switch {
	case f.path != "":
		ids, err := parseIDs(f.path)
		if err != nil {
			return err
		}
		if len(ids) < 2 {
			return errors.Wrapf(anim.ErrShortPath, "--path %q", f.path)
		}
		if err := selectEnds(c, ids[0], ids[len(ids)-1]); err != nil {
			return err
		}
		return c.StartAnimation(ids)

	case f.navigate != "":
		ids, err := parseIDs(f.navigate)
		if err != nil {
			return err
		}
		if len(ids) != 2 {
			return errors.Newf("--navigate needs START,END, got %q", f.navigate)
		}
		if err := selectEnds(c, ids[0], ids[1]); err != nil {
			return err
		}
		req, err := c.RouteRequest(graph.Strategy(cfg.Map.Strategy), graph.Transport(cfg.Map.Transport))
		if err != nil {
			return err
		}
		resp, err := client().Navigate(ctx, req)
		if err != nil {
			return err
		}
		if err := c.ApplyRoute(req, resp); err != nil {
			return err
		}
		if r, ok := c.Route(); ok {
			printRoute(r)
		}
	}
	return nil
}

func selectEnds(c *mapctl.Controller, start, end graph.NodeID) error {
	if _, err := c.Click(start); err != nil {
		return err
	}
	if start == end {
		return nil
	}
	_, err := c.Click(end)
	return err
}

// parseIDs parses a comma-separated id list.
func parseIDs(s string) ([]graph.NodeID, error) {
	var ids []graph.NodeID
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "node id %q", part)
		}
		ids = append(ids, graph.NodeID(v))
	}
	return ids, nil
}
