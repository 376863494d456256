package graph

import (
	"fmt"
	"sort"
	"strings"
)

// String renders the graph as an indented dependency tree rooted at Root.
// Output is deterministic: children are ordered by name. Nodes already
// printed higher up are marked with "(*)" and not expanded again.
func (g *Graph) String() string {
	var sb strings.Builder
	printed := make(map[string]bool)
	g.writeTree(&sb, g.Root, 0, printed)
	return sb.String()
}

func (g *Graph) writeTree(sb *strings.Builder, name string, depth int, printed map[string]bool) {
	node := g.Nodes[name]
	if node == nil {
		return
	}

	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(node.Spec.Key())
	if variants := formatVariants(node.Spec.Variants); variants != "" {
		sb.WriteString(" ")
		sb.WriteString(variants)
	}
	if printed[name] {
		sb.WriteString(" (*)\n")
		return
	}
	sb.WriteString("\n")
	printed[name] = true

	children := append([]Edge(nil), node.Edges...)
	sort.Slice(children, func(i, j int) bool { return children[i].To < children[j].To })
	for _, edge := range children {
		g.writeTree(sb, edge.To, depth+1, printed)
	}
}

// ToDOT renders the graph in Graphviz DOT format with deterministic node and
// edge ordering. Edge labels carry the dependency kinds.
func (g *Graph) ToDOT() string {
	var sb strings.Builder
	sb.WriteString("digraph deps {\n")
	sb.WriteString("  rankdir=LR;\n")

	for _, name := range g.Names() {
		node := g.Nodes[name]
		shape := "box"
		if node.IsRoot {
			shape = "doubleoctagon"
		}
		fmt.Fprintf(&sb, "  %q [label=%q, shape=%s];\n", name, node.Spec.Key(), shape)
	}

	for _, name := range g.Names() {
		node := g.Nodes[name]
		edges := append([]Edge(nil), node.Edges...)
		sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
		for _, edge := range edges {
			fmt.Fprintf(&sb, "  %q -> %q [label=%q];\n", name, edge.To, formatKinds(edge.Kinds))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// formatVariants renders a variant assignment in spack-like "+name"/"~name"
// notation for booleans and "name=value" for enums, sorted by variant name.
func formatVariants(variants map[string]string) string {
	if len(variants) == 0 {
		return ""
	}
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	for _, name := range names {
		switch variants[name] {
		case "true":
			sb.WriteString("+" + name)
		case "false":
			sb.WriteString("~" + name)
		default:
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(name + "=" + variants[name])
		}
	}
	return sb.String()
}

func formatKinds(kinds []EdgeKind) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, string(k))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
