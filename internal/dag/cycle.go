package dag

import "slices"

// FindCycle returns one dependency cycle as an ordered list of node IDs, or
// nil if the graph is acyclic. Each ID in the result depends on the next,
// and the last depends on the first.
//
// The search is a depth-first walk that starts from nodes in insertion
// order and follows edges in declaration order, so the witness is
// deterministic for a given graph. Only the first cycle reached is
// reported. A node that lists itself yields a one-node cycle.
func (g *Graph) FindCycle() []string {
	visited := make(map[string]bool, len(g.nodes))
	onStack := make(map[string]bool)
	var path []string

	var visit func(id string) []string
	visit = func(id string) []string {
		visited[id] = true
		onStack[id] = true
		path = append(path, id)

		for _, dep := range g.adjacency[id] {
			if !visited[dep] {
				if cycle := visit(dep); cycle != nil {
					return cycle
				}
				continue
			}
			if onStack[dep] {
				start := slices.Index(path, dep)
				return slices.Clone(path[start:])
			}
		}

		onStack[id] = false
		path = path[:len(path)-1]
		return nil
	}

	for _, id := range g.order {
		if visited[id] {
			continue
		}
		if cycle := visit(id); cycle != nil {
			return cycle
		}
	}
	return nil
}

// DetectCycle builds the graph for a batch of dependency lists and returns
// its first cycle, or nil if there is none.
func DetectCycle(deps [][]string) []string {
	return FromDependencies(deps).FindCycle()
}
