// Package dag models the dependency graph implied by a batch of tasks.
// It supports cycle detection with a concrete witness path, reverse
// dependency queries, and dangling edge reporting.
package dag

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// ErrDuplicateNode is returned when adding a node that already exists.
var ErrDuplicateNode = errors.New("duplicate node")

// Edge is a single dependency edge: From depends on To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph of task dependencies. Edges point from a node
// to its dependencies: if A depends on B, there is an edge from A to B.
//
// Unlike an acyclic graph, a Graph accepts cycles and self-loops so they can
// be reported, and it accepts edges whose target was never added as a node.
// Such dangling edges contribute no outgoing edges of their own.
type Graph struct {
	// order holds node IDs in insertion order; traversals follow it.
	order []string
	nodes map[string]bool
	// adjacency maps nodeID → dependency IDs in declaration order,
	// duplicates preserved.
	adjacency map[string][]string
	// reverse maps nodeID → set of node IDs that depend on it.
	reverse map[string]map[string]bool
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     make(map[string]bool),
		adjacency: make(map[string][]string),
		reverse:   make(map[string]map[string]bool),
	}
}

// FromDependencies builds the graph for a batch of tasks. Task i becomes
// node strconv.Itoa(i), and each of its declared dependencies becomes an
// edge in declaration order. Dependency IDs are not checked against the
// batch; see Dangling.
func FromDependencies(deps [][]string) *Graph {
	g := New()
	for i := range deps {
		// IDs are unique by construction.
		_ = g.AddNode(strconv.Itoa(i))
	}
	for i, list := range deps {
		from := strconv.Itoa(i)
		for _, dep := range list {
			g.AddEdge(from, dep)
		}
	}
	return g
}

// AddNode adds a node with the given ID. Returns ErrDuplicateNode if a node
// with that ID already exists.
func (g *Graph) AddNode(id string) error {
	if g.nodes[id] {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, id)
	}
	g.nodes[id] = true
	g.order = append(g.order, id)
	return nil
}

// AddEdge records that from depends on to. Neither endpoint has to exist,
// self-loops are kept, and repeated edges are appended again so the
// declared dependency list round-trips unchanged.
func (g *Graph) AddEdge(from, to string) {
	g.adjacency[from] = append(g.adjacency[from], to)
	if g.reverse[to] == nil {
		g.reverse[to] = make(map[string]bool)
	}
	g.reverse[to][from] = true
}

// Has reports whether id was added as a node.
func (g *Graph) Has(id string) bool {
	return g.nodes[id]
}

// Nodes returns all node IDs in insertion order.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Dependencies returns the declared dependencies of id in declaration
// order, including duplicates and dangling IDs.
func (g *Graph) Dependencies(id string) []string {
	deps := g.adjacency[id]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, len(deps))
	copy(out, deps)
	return out
}

// Dependents returns the distinct node IDs that depend directly on id,
// sorted alphabetically. A self-loop counts the node as its own dependent.
func (g *Graph) Dependents(id string) []string {
	set := g.reverse[id]
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for dep := range set {
		if g.nodes[dep] {
			out = append(out, dep)
		}
	}
	sort.Strings(out)
	return out
}

// Dangling returns every edge whose target is not a node of the graph, in
// node order and then declaration order.
func (g *Graph) Dangling() []Edge {
	var out []Edge
	for _, id := range g.order {
		for _, dep := range g.adjacency[id] {
			if !g.nodes[dep] {
				out = append(out, Edge{From: id, To: dep})
			}
		}
	}
	return out
}
