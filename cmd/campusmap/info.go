package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ha1tch/campusmap/pkg/graph"
)

func infoCmd() *cobra.Command {
	var showEdges bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show graph statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGraph(cmd.Context())
			if err != nil {
				return err
			}
			printInfo(g, showEdges)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showEdges, "edges", false, "list every edge with its attributes")
	return cmd
}

type graphStats struct {
	spots, waypoints int
	kinds            map[string]int
	types            map[string]int
	totalDist        float64
	maxCrowding      float64
	isolated         []graph.NodeID
}

func collectStats(g *graph.Graph) graphStats {
	s := graphStats{kinds: map[string]int{}, types: map[string]int{}}
	for _, n := range g.Nodes() {
		if n.IsSpot() {
			s.spots++
		} else {
			s.waypoints++
		}
		if n.Kind != "" {
			s.kinds[n.Kind]++
		}
		if g.Degree(n.ID) == 0 {
			s.isolated = append(s.isolated, n.ID)
		}
	}
	for _, e := range g.Edges() {
		s.totalDist += e.Dist
		if e.Type != "" {
			s.types[e.Type]++
		}
		if e.Crowding > s.maxCrowding {
			s.maxCrowding = e.Crowding
		}
	}
	return s
}

func printInfo(g *graph.Graph, showEdges bool) {
	s := collectStats(g)

	fmt.Printf("%s %s\n\n", Brand.Sprint("graph"), Subtle.Sprint(source()))
	fmt.Printf("  Nodes:     %d (%d spots, %d waypoints)\n", g.Len(), s.spots, s.waypoints)
	fmt.Printf("  Edges:     %d\n", g.EdgeCount())
	if b, ok := g.Bounds(); ok {
		fmt.Printf("  Bounds:    (%.1f, %.1f) - (%.1f, %.1f), %.1f x %.1f\n",
			b.MinX, b.MinY, b.MaxX, b.MaxY, b.Width(), b.Height())
	}
	if s.totalDist > 0 {
		fmt.Printf("  Length:    %.1f\n", s.totalDist)
	}
	if s.maxCrowding > 0 {
		fmt.Printf("  Crowding:  max %.2f\n", s.maxCrowding)
	}
	if len(s.isolated) > 0 {
		fmt.Printf("  Isolated:  %s\n", Warn.Sprint(len(s.isolated)))
	}

	if len(s.kinds) > 0 {
		fmt.Println()
		table([]string{"KIND", "COUNT"}, countRows(s.kinds))
	}
	if len(s.types) > 0 {
		fmt.Println()
		table([]string{"EDGE TYPE", "COUNT"}, countRows(s.types))
	}

	if showEdges {
		fmt.Println()
		var rows [][]string
		for _, e := range g.Edges() {
			rows = append(rows, []string{
				fmt.Sprintf("%s (%d)", g.Name(e.U), e.U),
				fmt.Sprintf("%s (%d)", g.Name(e.V), e.V),
				strconv.FormatFloat(e.Dist, 'f', 1, 64),
				e.Type,
				strconv.FormatFloat(e.Crowding, 'f', 2, 64),
			})
		}
		table([]string{"FROM", "TO", "DIST", "TYPE", "CROWDING"}, rows)
	}
}

func countRows(m map[string]int) [][]string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, strconv.Itoa(m[k])})
	}
	return rows
}
