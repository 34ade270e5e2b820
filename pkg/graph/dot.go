package graph

import (
	"fmt"
	"strings"
)

// GenerateDOT converts g to Graphviz DOT. Node positions are pinned, so the
// output is meant for `neato -n`. Hops of path are drawn highlighted.
func GenerateDOT(g *Graph, title string, path []NodeID) string {
	var sb strings.Builder

	sb.WriteString("graph Campus {\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [color=\"#9ca3af\"];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	onPath := make(map[[2]NodeID]bool, len(path))
	for i := 0; i+1 < len(path); i++ {
		onPath[hop(path[i], path[i+1])] = true
	}

	for _, n := range g.nodes {
		// DOT's y axis points up
		y := -n.Y
		if y == 0 {
			y = 0 // no "-0"
		}
		attrs := []string{fmt.Sprintf("pos=\"%g,%g!\"", n.X, y)}
		if n.IsSpot() {
			attrs = append(attrs, "shape=circle", fmt.Sprintf("label=\"%s\"", escapeDOT(n.Name)))
		} else {
			attrs = append(attrs, "shape=point")
		}
		sb.WriteString(fmt.Sprintf("    n%d [%s];\n", n.ID, strings.Join(attrs, ", ")))
	}
	sb.WriteString("\n")

	for _, e := range g.edges {
		var attrs []string
		if e.Dist > 0 {
			attrs = append(attrs, fmt.Sprintf("label=\"%g\"", e.Dist))
		}
		if onPath[hop(e.U, e.V)] {
			attrs = append(attrs, "color=\"#f59e0b\"", "penwidth=3")
		}
		if len(attrs) == 0 {
			sb.WriteString(fmt.Sprintf("    n%d -- n%d;\n", e.U, e.V))
			continue
		}
		sb.WriteString(fmt.Sprintf("    n%d -- n%d [%s];\n", e.U, e.V, strings.Join(attrs, ", ")))
	}

	sb.WriteString("}\n")
	return sb.String()
}

// hop orders an undirected pair.
func hop(u, v NodeID) [2]NodeID {
	if u > v {
		u, v = v, u
	}
	return [2]NodeID{u, v}
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
