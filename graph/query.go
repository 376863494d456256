package graph

import "sort"

// Get returns the node for a recipe name, or nil if not found.
func (g *Graph) Get(name string) *Node {
	return g.Nodes[name]
}

// Contains reports whether the graph has a node for the given name.
func (g *Graph) Contains(name string) bool {
	_, ok := g.Nodes[name]
	return ok
}

// DirectDeps returns the names of a node's direct dependencies, in edge
// order. Returns nil for an unknown name.
func (g *Graph) DirectDeps(name string) []string {
	node := g.Nodes[name]
	if node == nil {
		return nil
	}
	deps := make([]string, 0, len(node.Edges))
	for _, edge := range node.Edges {
		deps = append(deps, edge.To)
	}
	return deps
}

// DirectDepsOfKind returns the direct dependencies reachable over edges
// carrying the given kind.
func (g *Graph) DirectDepsOfKind(name string, kind EdgeKind) []string {
	node := g.Nodes[name]
	if node == nil {
		return nil
	}
	var deps []string
	for _, edge := range node.Edges {
		if edge.HasKind(kind) {
			deps = append(deps, edge.To)
		}
	}
	return deps
}

// DirectDependents returns the names of nodes that directly depend on the
// given node, sorted lexicographically.
func (g *Graph) DirectDependents(name string) []string {
	node := g.Nodes[name]
	if node == nil {
		return nil
	}
	dependents := append([]string(nil), node.Dependents...)
	sort.Strings(dependents)
	return dependents
}

// TransitiveDeps returns all transitive dependencies of a node in
// breadth-first order.
func (g *Graph) TransitiveDeps(name string) []string {
	var result []string
	visited := map[string]bool{name: true}

	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.Nodes[current]
		if node == nil {
			continue
		}
		for _, edge := range node.Edges {
			if !visited[edge.To] {
				visited[edge.To] = true
				result = append(result, edge.To)
				queue = append(queue, edge.To)
			}
		}
	}
	return result
}

// Leaves returns the names of nodes with no dependencies, sorted
// lexicographically.
func (g *Graph) Leaves() []string {
	var leaves []string
	for name, node := range g.Nodes {
		if len(node.Edges) == 0 {
			leaves = append(leaves, name)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Explain returns the expansion paths that pulled a node into the graph.
// Each path reads root-first, e.g. "<root> -> fyaml -> cmake". Returns nil
// for an unknown name.
func (g *Graph) Explain(name string) []string {
	node := g.Nodes[name]
	if node == nil {
		return nil
	}
	paths := append([]string(nil), node.RequiredBy...)
	sort.Strings(paths)
	return paths
}

// Stats summarizes the graph.
type Stats struct {
	// TotalSpecs is the total node count.
	TotalSpecs int

	// DirectDependencies is the number of direct dependencies of the root.
	DirectDependencies int

	// TransitiveDependencies counts everything below the direct deps.
	TransitiveDependencies int

	// BuildOnly counts nodes reachable from the root exclusively over
	// build edges.
	BuildOnly int
}

// ComputeStats derives summary statistics for the graph.
func (g *Graph) ComputeStats() Stats {
	stats := Stats{TotalSpecs: len(g.Nodes)}

	root := g.Nodes[g.Root]
	if root == nil {
		return stats
	}
	stats.DirectDependencies = len(root.Edges)
	stats.TransitiveDependencies = len(g.TransitiveDeps(g.Root)) - stats.DirectDependencies
	if stats.TransitiveDependencies < 0 {
		stats.TransitiveDependencies = 0
	}

	for _, name := range g.Names() {
		if name == g.Root {
			continue
		}
		if g.buildOnly(name) {
			stats.BuildOnly++
		}
	}
	return stats
}

// buildOnly reports whether every edge into the node carries only the build
// kind.
func (g *Graph) buildOnly(name string) bool {
	node := g.Nodes[name]
	if node == nil || len(node.Dependents) == 0 {
		return false
	}
	for _, dependent := range node.Dependents {
		depNode := g.Nodes[dependent]
		if depNode == nil {
			continue
		}
		for _, edge := range depNode.Edges {
			if edge.To != name {
				continue
			}
			for _, kind := range edge.Kinds {
				if kind != KindBuild {
					return false
				}
			}
		}
	}
	return true
}
