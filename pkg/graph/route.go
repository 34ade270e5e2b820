package graph

import (
	"github.com/cockroachdb/errors"
)

// Strategy selects what the routing service minimises.
type Strategy string

const (
	StrategyDistance Strategy = "dist"
	StrategyTime     Strategy = "time"
)

// Transport selects the mode of travel.
type Transport string

const (
	TransportWalk Transport = "walk"
	TransportBike Transport = "bike"
)

// RouteRequest is the body of a navigation request.
type RouteRequest struct {
	StartID   NodeID    `json:"start_id"`
	EndID     NodeID    `json:"end_id"`
	Strategy  Strategy  `json:"strategy"`
	Transport Transport `json:"transport"`
}

// RouteResponse is the routing service's answer.
type RouteResponse struct {
	PathIDs   []NodeID `json:"path_ids"`
	PathNames []string `json:"path_names"`
	TotalCost float64  `json:"total_cost"`
	CostUnit  string   `json:"cost_unit,omitempty"`
}

var ErrBadRoute = errors.New("malformed route")

// Unit returns the cost unit, falling back on the strategy when the service
// left it out: seconds for time, metres otherwise.
func (r RouteResponse) Unit(s Strategy) string {
	if r.CostUnit != "" {
		return r.CostUnit
	}
	if s == StrategyTime {
		return "秒"
	}
	return "米"
}

// Validate checks a response against the graph it was computed on: the path
// is empty or has at least two ids, every id exists, and names line up with
// ids. It returns the hops that are not joined by an edge; those are
// tolerated because the service owns the topology.
func (r RouteResponse) Validate(g *Graph) (missingHops [][2]NodeID, err error) {
	if len(r.PathIDs) == 1 {
		return nil, errors.Wrap(ErrBadRoute, "path has a single node")
	}
	if len(r.PathNames) != 0 && len(r.PathNames) != len(r.PathIDs) {
		return nil, errors.Wrapf(ErrBadRoute, "%d names for %d ids", len(r.PathNames), len(r.PathIDs))
	}
	for _, id := range r.PathIDs {
		if !g.Has(id) {
			return nil, errors.Wrapf(ErrUnknownNode, "path node %d", id)
		}
	}
	for i := 0; i+1 < len(r.PathIDs); i++ {
		u, v := r.PathIDs[i], r.PathIDs[i+1]
		if !g.HasEdge(u, v) {
			missingHops = append(missingHops, [2]NodeID{u, v})
		}
	}
	return missingHops, nil
}
