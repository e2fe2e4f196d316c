package ownership

import (
	"fmt"
	"sync"
)

// Graph records outlives constraints between values: an edge from a referent
// to a dependent means the dependent holds a reference into the referent, so
// the referent is expected to remain valid while the dependent can read it.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores one entry per instantiated value, keyed by value ID.
	nodes map[string]*graphNode
}

// graphNode is a single vertex. It is un-exported to enforce interaction via
// the public API (using value IDs), not by direct struct manipulation.
type graphNode struct {
	id string
	// requiredBy holds the values that read this value through a reference.
	requiredBy map[string]*graphNode
}

// NewGraph creates and returns an initialized, empty Graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]*graphNode),
	}
}

// AddValue adds a vertex for the given value ID. Adding the same ID twice
// does nothing.
func (g *Graph) AddValue(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &graphNode{
		id:         id,
		requiredBy: make(map[string]*graphNode),
	}
}

// AddConstraint records that dependentID holds a reference into referentID.
// An error is returned if either value is unknown or if the constraint would
// make a value its own referent.
func (g *Graph) AddConstraint(referentID, dependentID string) error {
	if referentID == dependentID {
		return fmt.Errorf("value %s cannot hold a reference to itself", referentID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	referent, ok := g.nodes[referentID]
	if !ok {
		return fmt.Errorf("referent value not found: %s", referentID)
	}

	dependent, ok := g.nodes[dependentID]
	if !ok {
		return fmt.Errorf("dependent value not found: %s", dependentID)
	}

	referent.requiredBy[dependentID] = dependent

	return nil
}

// DetectCycles checks the constraint graph for cycles. A cycle would mean a
// value is required to outlive itself, which no destruction order satisfies.
func (g *Graph) DetectCycles() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	// Classic depth-first search with two marker sets:
	// permanent: fully visited, known cycle-free.
	// temporary: currently on the recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *graphNode) error
	visit = func(n *graphNode) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return fmt.Errorf("outlives cycle detected involving value '%s'", n.id)
		}

		temporary[n.id] = true

		for _, dep := range n.requiredBy {
			if err := visit(dep); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, n := range g.nodes {
		if !permanent[n.id] {
			if err := visit(n); err != nil {
				return err
			}
		}
	}

	return nil
}
