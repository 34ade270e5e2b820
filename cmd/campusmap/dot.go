package main

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/graph"
)

func dotCmd() *cobra.Command {
	var output, title, path string

	cmd := &cobra.Command{
		Use:     "dot",
		Short:   "Export the graph as Graphviz DOT with pinned positions",
		Example: "  campusmap dot -g campus.json | neato -n -Tpng -o campus.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context())
			if err != nil {
				return err
			}
			var ids []graph.NodeID
			if path != "" {
				if ids, err = parseIDs(path); err != nil {
					return err
				}
			}
			dot := graph.GenerateDOT(g, title, ids)
			if output == "" {
				fmt.Print(dot)
				return nil
			}
			if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
				return errors.Wrap(err, "write dot")
			}
			fmt.Printf("  %s %s\n", statusIcon(true), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&title, "title", "", "graph title")
	cmd.Flags().StringVar(&path, "path", "", "comma-separated node ids to highlight")
	return cmd
}
