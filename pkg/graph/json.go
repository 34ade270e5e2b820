package graph

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// document is the wire representation shared by the /graph response and
// graph files on disk.
type document struct {
	Nodes []docNode `json:"nodes" yaml:"nodes"`
	Edges []docEdge `json:"edges" yaml:"edges"`
}

type docNode struct {
	ID       NodeID  `json:"id" yaml:"id"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Name     string  `json:"name" yaml:"name"`
	Category string  `json:"category" yaml:"category"`
	Desc     string  `json:"desc,omitempty" yaml:"desc,omitempty"`
}

type docEdge struct {
	U        NodeID   `json:"u" yaml:"u"`
	V        NodeID   `json:"v" yaml:"v"`
	Dist     *float64 `json:"dist,omitempty" yaml:"dist,omitempty"`
	Type     string   `json:"type,omitempty" yaml:"type,omitempty"`
	Crowding *float64 `json:"crowding,omitempty" yaml:"crowding,omitempty"`
}

func (d document) build() (*Graph, error) {
	nodes := make([]Node, 0, len(d.Nodes))
	for _, dn := range d.Nodes {
		nodes = append(nodes, Node{
			ID:       dn.ID,
			X:        dn.X,
			Y:        dn.Y,
			Name:     dn.Name,
			Category: ParseCategory(dn.Category),
			Kind:     dn.Category,
			Desc:     dn.Desc,
		})
	}

	edges := make([]Edge, 0, len(d.Edges))
	for _, de := range d.Edges {
		e := Edge{U: de.U, V: de.V, Type: de.Type, Crowding: 1}
		if de.Dist != nil {
			e.Dist = *de.Dist
		}
		if de.Crowding != nil {
			e.Crowding = *de.Crowding
		}
		edges = append(edges, e)
	}

	return New(nodes, edges)
}

// ParseJSON parses a graph from JSON.
func ParseJSON(data []byte) (*Graph, error) {
	var d document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode graph json")
	}
	return d.build()
}

// ParseYAML parses a graph from YAML with the same field names as JSON.
func ParseYAML(data []byte) (*Graph, error) {
	var d document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, errors.Wrap(err, "decode graph yaml")
	}
	return d.build()
}

// ToJSON converts a graph to JSON.
func ToJSON(g *Graph, pretty bool) ([]byte, error) {
	var d document
	for _, n := range g.nodes {
		kind := n.Kind
		if kind == "" {
			kind = string(n.Category)
		}
		d.Nodes = append(d.Nodes, docNode{
			ID:       n.ID,
			X:        n.X,
			Y:        n.Y,
			Name:     n.Name,
			Category: kind,
			Desc:     n.Desc,
		})
	}
	for _, e := range g.edges {
		de := docEdge{U: e.U, V: e.V, Type: e.Type}
		if e.Dist != 0 {
			dist := e.Dist
			de.Dist = &dist
		}
		if e.Crowding != 1 {
			crowding := e.Crowding
			de.Crowding = &crowding
		}
		d.Edges = append(d.Edges, de)
	}

	if pretty {
		return json.MarshalIndent(d, "", "  ")
	}
	return json.Marshal(d)
}

// Load reads a graph file, choosing the decoder from the extension:
// .json, .yaml/.yml, or .db/.sqlite/.sqlite3.
func Load(path string) (*Graph, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read graph file")
	}

	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}
