// Package graph defines the resolved dependency graph of concrete build
// specs.
//
// Nodes are concrete specs: one recipe pinned to a version, a full variant
// assignment and the compiler/platform facts of the build. Edges carry the
// dependency kinds (build, link, run) declared on the recipe, so consumers
// can filter the graph (for example, dropping build-only edges when
// computing a runtime closure).
//
// The graph is produced by the resolver and is immutable from then on. It
// supports bidirectional traversal (dependencies and dependents) and
// deterministic text and DOT rendering.
package graph
