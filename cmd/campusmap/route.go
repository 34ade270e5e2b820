package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/graph"
	"github.com/ha1tch/campusmap/pkg/mapctl"
)

func routeCmd() *cobra.Command {
	var strategy, transport string

	cmd := &cobra.Command{
		Use:   "route START END",
		Short: "Ask the routing service for a route between two nodes",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(strings.Join(args, ","))
			if err != nil {
				return err
			}
			if len(ids) != 2 {
				return errors.Newf("need two node ids, got %q", args)
			}
			if strategy == "" {
				strategy = cfg.Map.Strategy
			}
			if transport == "" {
				transport = cfg.Map.Transport
			}

			req := graph.RouteRequest{
				StartID:   ids[0],
				EndID:     ids[1],
				Strategy:  graph.Strategy(strategy),
				Transport: graph.Transport(transport),
			}
			resp, err := client().Navigate(cmd.Context(), req)
			if err != nil {
				return err
			}
			printRoute(mapctl.Route{
				Request:   req,
				IDs:       resp.PathIDs,
				Names:     resp.PathNames,
				TotalCost: resp.TotalCost,
				Unit:      resp.Unit(req.Strategy),
			})
			return nil
		},
	}
	cmd.Flags().StringVar(&strategy, "strategy", "", "dist or time (default from config)")
	cmd.Flags().StringVar(&transport, "transport", "", "walk or bike (default from config)")
	return cmd
}

// printRoute prints the rounded cost and the numbered steps.
func printRoute(r mapctl.Route) {
	if len(r.IDs) == 0 {
		fmt.Printf("  %s no route from %d to %d\n", Warn.Sprint("!"), r.Request.StartID, r.Request.EndID)
		return
	}
	fmt.Printf("%s %s %s\n\n", Brand.Sprint("route"),
		fmt.Sprintf("%.0f %s", math.Round(r.TotalCost), r.Unit),
		Subtle.Sprintf("(%s, %s)", r.Request.Strategy, r.Request.Transport))
	for i, id := range r.IDs {
		name := fmt.Sprintf("#%d", id)
		if i < len(r.Names) && r.Names[i] != "" {
			name = r.Names[i]
		}
		fmt.Printf("  %2d. %s\n", i+1, name)
	}
}
