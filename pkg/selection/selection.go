// Package selection tracks the start and end nodes picked on the map.
package selection

import (
	"fmt"

	"github.com/ha1tch/campusmap/pkg/graph"
)

// State names the four reachable combinations of endpoints.
type State int

const (
	Idle      State = iota // nothing selected
	StartOnly              // start chosen, waiting for an end
	EndOnly                // start was cleared while an end remained
	Ready                  // both chosen, navigation possible
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case StartOnly:
		return "start-only"
	case EndOnly:
		return "end-only"
	case Ready:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Transition is what a click did to the selection.
type Transition int

const (
	Ignore     Transition = iota // click left the selection unchanged
	SetStart                     // node became the start
	SetEnd                       // node became the end
	ClearStart                   // start was deselected
	ClearEnd                     // end was deselected
)

func (t Transition) String() string {
	switch t {
	case Ignore:
		return "ignore"
	case SetStart:
		return "set-start"
	case SetEnd:
		return "set-end"
	case ClearStart:
		return "clear-start"
	case ClearEnd:
		return "clear-end"
	}
	return fmt.Sprintf("Transition(%d)", int(t))
}

// Changed reports whether the transition altered the selection.
func (t Transition) Changed() bool { return t != Ignore }

// Clears reports whether the transition left an endpoint empty.
func (t Transition) Clears() bool { return t == ClearStart || t == ClearEnd }

// Machine holds the selection. Start and end are never the same node.
// The zero value is Idle.
type Machine struct {
	start, end       graph.NodeID
	hasStart, hasEnd bool
}

// State returns the current state.
func (m Machine) State() State {
	switch {
	case m.hasStart && m.hasEnd:
		return Ready
	case m.hasStart:
		return StartOnly
	case m.hasEnd:
		return EndOnly
	}
	return Idle
}

// Start returns the start node, if any.
func (m Machine) Start() (graph.NodeID, bool) { return m.start, m.hasStart }

// End returns the end node, if any.
func (m Machine) End() (graph.NodeID, bool) { return m.end, m.hasEnd }

// Ready reports whether both endpoints are set.
func (m Machine) Ready() bool { return m.hasStart && m.hasEnd }

// Is reports whether id is the start or the end.
func (m Machine) Is(id graph.NodeID) bool {
	return (m.hasStart && m.start == id) || (m.hasEnd && m.end == id)
}

// Click applies a click on node n.
//
// An empty start is filled first. With a start and no end, any other node
// becomes the end. Clicking a selected node deselects it. A third node while
// both endpoints are set is ignored; clear an endpoint or Reset first.
func (m *Machine) Click(n graph.NodeID) Transition {
	switch {
	case m.hasStart && m.start == n:
		m.start, m.hasStart = 0, false
		return ClearStart
	case m.hasEnd && m.end == n:
		m.end, m.hasEnd = 0, false
		return ClearEnd
	case !m.hasStart:
		m.start, m.hasStart = n, true
		return SetStart
	case !m.hasEnd:
		m.end, m.hasEnd = n, true
		return SetEnd
	default:
		return Ignore
	}
}

// Reset clears both endpoints.
func (m *Machine) Reset() {
	*m = Machine{}
}
