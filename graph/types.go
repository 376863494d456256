package graph

import (
	"fmt"
	"sort"
)

// EdgeKind classifies a dependency edge.
type EdgeKind string

const (
	// KindBuild marks a dependency needed only while building (e.g. cmake).
	KindBuild EdgeKind = "build"

	// KindLink marks a dependency linked into the produced artifacts.
	KindLink EdgeKind = "link"

	// KindRun marks a dependency needed at run time.
	KindRun EdgeKind = "run"
)

// Compiler identifies the compiler a spec is concretized for.
type Compiler struct {
	// Name is the compiler family, e.g. "gcc".
	Name string

	// Version is the compiler release, e.g. "12.1.0".
	Version string
}

// String returns the "name@version" form, or just the name when the version
// is unknown.
func (c Compiler) String() string {
	if c.Version == "" {
		return c.Name
	}
	return c.Name + "@" + c.Version
}

// Spec is one fully concretized recipe: identity, pinned version, complete
// variant assignment and the build environment facts. Specs are immutable
// once the resolver has finalized the graph.
type Spec struct {
	// Name is the recipe name.
	Name string

	// Version is the selected version identifier.
	Version string

	// Digest is the sha256 of the source archive for fixed versions.
	// Empty for branch versions.
	Digest string

	// Branch is the floating branch reference for branch versions.
	// Empty for fixed versions.
	Branch string

	// URL is the source archive location for fixed versions.
	URL string

	// Git is the repository location for branch versions.
	Git string

	// Compiler the spec is concretized for.
	Compiler Compiler

	// Platform the spec is concretized for.
	Platform string

	// Variants is the complete variant assignment. Boolean variants carry
	// "true"/"false".
	Variants map[string]string
}

// Key returns the "name@version" identity of the spec.
func (s *Spec) Key() string {
	return s.Name + "@" + s.Version
}

// Edge is a resolved dependency edge from one node to another.
type Edge struct {
	// To is the name of the dependency node.
	To string

	// Kinds are the dependency kinds this edge carries.
	Kinds []EdgeKind
}

// HasKind reports whether the edge carries the given kind.
func (e Edge) HasKind(k EdgeKind) bool {
	for _, kind := range e.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Node is one spec in the resolved graph together with its edges.
type Node struct {
	// Spec is the concrete spec this node represents.
	Spec *Spec

	// Edges are the direct dependencies, in the order the resolver first
	// encountered them.
	Edges []Edge

	// Dependents are the names of nodes that depend on this one.
	Dependents []string

	// RequiredBy records the expansion paths that reached this node, for
	// diagnostics. The root node has a single "<root>" entry.
	RequiredBy []string

	// IsRoot is true for the root node.
	IsRoot bool
}

// Graph is a resolved, acyclic dependency graph keyed by recipe name. One
// node per name: the resolver guarantees a single version per recipe in any
// given graph.
type Graph struct {
	// Root is the name of the root node.
	Root string

	// Nodes contains all nodes, keyed by recipe name.
	Nodes map[string]*Node
}

// New creates an empty graph with the given root name.
func New(root string) *Graph {
	return &Graph{
		Root:  root,
		Nodes: make(map[string]*Node),
	}
}

// Add inserts a node for the given spec and returns it. Adding a name that
// already exists returns an error: the resolver memoizes nodes and must
// never insert twice.
func (g *Graph) Add(spec *Spec) (*Node, error) {
	if _, exists := g.Nodes[spec.Name]; exists {
		return nil, fmt.Errorf("graph: node %q already present", spec.Name)
	}
	node := &Node{
		Spec:   spec,
		IsRoot: spec.Name == g.Root,
	}
	g.Nodes[spec.Name] = node
	return node, nil
}

// Connect records a dependency edge from one node to another. Connecting the
// same pair again merges the edge kinds instead of duplicating the edge.
func (g *Graph) Connect(from, to string, kinds []EdgeKind) error {
	fromNode, ok := g.Nodes[from]
	if !ok {
		return fmt.Errorf("graph: unknown node %q", from)
	}
	toNode, ok := g.Nodes[to]
	if !ok {
		return fmt.Errorf("graph: unknown node %q", to)
	}
	if from == to {
		return fmt.Errorf("graph: self edge on %q", from)
	}

	for i := range fromNode.Edges {
		if fromNode.Edges[i].To != to {
			continue
		}
		fromNode.Edges[i].Kinds = mergeKinds(fromNode.Edges[i].Kinds, kinds)
		return nil
	}

	fromNode.Edges = append(fromNode.Edges, Edge{To: to, Kinds: append([]EdgeKind(nil), kinds...)})
	toNode.Dependents = append(toNode.Dependents, from)
	return nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.Nodes)
}

// Names returns all node names in lexicographic order.
func (g *Graph) Names() []string {
	names := make([]string, 0, len(g.Nodes))
	for name := range g.Nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func mergeKinds(existing, extra []EdgeKind) []EdgeKind {
	for _, k := range extra {
		found := false
		for _, have := range existing {
			if have == k {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, k)
		}
	}
	return existing
}
