// Command campusmap inspects campus map data, asks the routing service for
// routes and renders the map to PNG or SVG.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/config"
	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/logging"
	"github.com/ha1tch/campusmap/pkg/routeclient"
)

var version = "0.3.0"

var (
	cfg        config.Config
	configPath string
	graphPath  string
	apiURL     string
	logLevel   string
	flushLog   = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "campusmap",
	Short:         "campusmap - campus map and route toolkit",
	Long:          Brand.Sprint("campusmap") + " - inspect, route and render campus maps",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.Path()
		}
		c, err := config.LoadFrom(path)
		if err != nil {
			return err
		}
		if graphPath != "" {
			c.Map.Graph = graphPath
		}
		if apiURL != "" {
			c.API.BaseURL = apiURL
		}
		if logLevel != "" {
			c.Log.Level = logLevel
		}
		cfg = c

		flush, err := logging.Initialize(logging.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON, File: cfg.Log.File})
		if err != nil {
			return err
		}
		flushLog = flush
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		flushLog()
	},
}

func init() {
	rootCmd.SetVersionTemplate("campusmap {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.campusmap.toml)")
	rootCmd.PersistentFlags().StringVarP(&graphPath, "graph", "g", "", "graph file (.json, .yaml, .db); default fetches from the API")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "routing service base URL")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")

	rootCmd.AddCommand(
		infoCmd(),
		validateCmd(),
		renderCmd(),
		routeCmd(),
		dotCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		Bad.Fprintf(os.Stderr, "campusmap: %v\n", err)
		if hint := errors.FlattenHints(err); hint != "" {
			fmt.Fprintln(os.Stderr, Subtle.Sprint("  "+hint))
		}
		os.Exit(1)
	}
}

func client() *routeclient.Client {
	return routeclient.New(cfg.API.BaseURL, cfg.API.Token)
}

// loadGraph reads the configured graph file, or fetches the graph from the
// routing service when none is set.
func loadGraph(ctx context.Context) (*graph.Graph, error) {
	if cfg.Map.Graph != "" {
		g, err := graph.Load(cfg.Map.Graph)
		return g, errors.Wrapf(err, "graph %s", cfg.Map.Graph)
	}
	g, err := client().Graph(ctx)
	return g, errors.Wrapf(err, "graph from %s", cfg.API.BaseURL)
}

func source() string {
	if cfg.Map.Graph != "" {
		return cfg.Map.Graph
	}
	return cfg.API.BaseURL + "/graph"
}
