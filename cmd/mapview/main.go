// Command mapview is an interactive campus map for the terminal. Click two
// places to choose a start and an end, press Enter to ask the routing service
// for a route and watch it being drawn.
package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/config"
	"github.com/ha1tch/campusmap/pkg/logging"
)

func main() {
	var (
		configPath string
		watchFile  bool
		background string
	)

	cmd := &cobra.Command{
		Use:          "mapview [graph-file]",
		Short:        "Interactive campus map in the terminal",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.Path()
			}
			cfg, err := config.LoadFrom(path)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				cfg.Map.Graph = args[0]
			}
			if background != "" {
				cfg.Map.Background = background
			}
			if watchFile && cfg.Map.Graph == "" {
				return errors.New("--watch needs a graph file")
			}
			return run(cfg, watchFile)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "config file (default ~/.campusmap.toml)")
	cmd.Flags().BoolVarP(&watchFile, "watch", "w", false, "reload the graph file when it changes")
	cmd.Flags().StringVar(&background, "background", "", "background image file or URL")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, watchFile bool) error {
	// The terminal belongs to the screen; log only to a file.
	if cfg.Log.File != "" {
		flush, err := logging.Initialize(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.Log.File})
		if err != nil {
			return err
		}
		defer flush()
	} else {
		logging.Discard()
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return errors.Wrap(err, "init screen")
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()
	screen.Clear()

	v, err := newViewer(screen, cfg, logging.Logger)
	if err != nil {
		return err
	}
	if watchFile {
		w, err := v.watchGraph()
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	v.load()
	v.run()
	return nil
}
