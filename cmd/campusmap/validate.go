package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/graph"
)

var errInvalid = errors.New("graph has problems")

// problem is one finding; errors fail validation, warnings do not.
type problem struct {
	fatal bool
	msg   string
}

func validateCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a graph for problems",
		Long: "Load the graph and report duplicate ids, dangling edges, self-loops,\n" +
			"isolated nodes and unnamed spots. Warnings fail only with --strict.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context())
			if err != nil {
				fmt.Printf("  %s %v\n", statusIcon(false), err)
				return errors.Mark(err, errInvalid)
			}
			probs := checkGraph(g)
			fatal := false
			for _, p := range probs {
				icon := Warn.Sprint("!")
				if p.fatal {
					icon = statusIcon(false)
				}
				fatal = fatal || p.fatal || strict
				fmt.Printf("  %s %s\n", icon, p.msg)
			}
			if fatal {
				return errors.Wrapf(errInvalid, "%d finding(s)", len(probs))
			}
			fmt.Printf("  %s %s: %d nodes, %d edges\n", statusIcon(true), source(), g.Len(), g.EdgeCount())
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as errors")
	return cmd
}

// checkGraph reports what graph.New tolerates but the map would show badly.
func checkGraph(g *graph.Graph) []problem {
	var out []problem
	for _, e := range g.Edges() {
		if e.U == e.V {
			out = append(out, problem{msg: fmt.Sprintf("edge %d-%d is a self-loop", e.U, e.V)})
		}
		if e.Dist < 0 {
			out = append(out, problem{fatal: true, msg: fmt.Sprintf("edge %d-%d has negative dist %.1f", e.U, e.V, e.Dist)})
		}
	}
	for _, n := range g.Nodes() {
		if g.Degree(n.ID) == 0 {
			out = append(out, problem{msg: fmt.Sprintf("node %d (%s) is not connected", n.ID, n.Name)})
		}
		if n.IsSpot() && n.Name == "" {
			out = append(out, problem{msg: fmt.Sprintf("spot %d has no name", n.ID)})
		}
	}
	return out
}
