package graph

import (
	"database/sql"
	"net/url"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// LoadSQLite reads a graph from a SQLite database with the tables
//
//	nodes(id INTEGER, x REAL, y REAL, name TEXT, category TEXT, "desc" TEXT)
//	edges(u INTEGER, v INTEGER, dist REAL, type TEXT, crowding REAL)
//
// Nodes are read in rowid order so insertion order survives a round trip.
func LoadSQLite(path string) (*Graph, error) {
	db, err := sql.Open("sqlite", sqliteDSN(path))
	if err != nil {
		return nil, errors.Wrap(err, "open graph database")
	}
	defer db.Close()

	nodes, err := readNodes(db)
	if err != nil {
		return nil, err
	}
	edges, err := readEdges(db)
	if err != nil {
		return nil, err
	}
	return New(nodes, edges)
}

// sqliteDSN builds a read-only URI for path, escaping '?' and '#'.
func sqliteDSN(path string) string {
	u := url.URL{Scheme: "file", Opaque: (&url.URL{Path: path}).EscapedPath(), RawQuery: "mode=ro"}
	return u.String()
}

func readNodes(db *sql.DB) ([]Node, error) {
	rows, err := db.Query(`SELECT id, x, y, name, category, "desc" FROM nodes ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "query nodes")
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var n Node
		var kind, desc sql.NullString
		if err := rows.Scan(&n.ID, &n.X, &n.Y, &n.Name, &kind, &desc); err != nil {
			return nil, errors.Wrap(err, "scan node")
		}
		n.Kind = kind.String
		n.Category = ParseCategory(kind.String)
		n.Desc = desc.String
		nodes = append(nodes, n)
	}
	return nodes, errors.Wrap(rows.Err(), "read nodes")
}

func readEdges(db *sql.DB) ([]Edge, error) {
	rows, err := db.Query(`SELECT u, v, dist, type, crowding FROM edges ORDER BY rowid`)
	if err != nil {
		return nil, errors.Wrap(err, "query edges")
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var dist, crowding sql.NullFloat64
		var typ sql.NullString
		if err := rows.Scan(&e.U, &e.V, &dist, &typ, &crowding); err != nil {
			return nil, errors.Wrap(err, "scan edge")
		}
		e.Dist = dist.Float64
		e.Type = typ.String
		e.Crowding = 1
		if crowding.Valid {
			e.Crowding = crowding.Float64
		}
		edges = append(edges, e)
	}
	return edges, errors.Wrap(rows.Err(), "read edges")
}
