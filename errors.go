package gobuildplan

import (
	"fmt"
	"strings"

	"github.com/hpcforge/go-buildplan/constraint"
)

// DuplicateRecipeError is returned by Register when a recipe name is
// already present in the registry.
type DuplicateRecipeError struct {
	// Name is the recipe name.
	Name string
}

func (e *DuplicateRecipeError) Error() string {
	return fmt.Sprintf("recipe %q already registered", e.Name)
}

// UnknownRecipeError is returned when a recipe name is not in the registry.
type UnknownRecipeError struct {
	// Name is the recipe name that was looked up.
	Name string

	// RequestedBy is the expansion path that needed the recipe, empty for
	// direct lookups.
	RequestedBy string
}

func (e *UnknownRecipeError) Error() string {
	if e.RequestedBy == "" {
		return fmt.Sprintf("unknown recipe %q", e.Name)
	}
	return fmt.Sprintf("unknown recipe %q (required by %s)", e.Name, e.RequestedBy)
}

// InvalidRecipeError is returned by Register when a recipe violates its
// structural invariants (duplicate version identifiers, duplicate variant
// names, malformed versions or defines).
type InvalidRecipeError struct {
	// Name is the recipe name.
	Name string

	// Reason describes the violated invariant.
	Reason string
}

func (e *InvalidRecipeError) Error() string {
	return fmt.Sprintf("invalid recipe %q: %s", e.Name, e.Reason)
}

// UnknownVariantError is returned when a requested variant is not declared
// by the root recipe.
type UnknownVariantError struct {
	Recipe  string
	Variant string
}

func (e *UnknownVariantError) Error() string {
	return fmt.Sprintf("recipe %q declares no variant %q", e.Recipe, e.Variant)
}

// VariantConflictError is returned when two expansion paths require
// incompatible values for the same variant of the same recipe. Expansion
// stops immediately: the graph is structurally invalid.
type VariantConflictError struct {
	// Recipe is the recipe whose variant is contested.
	Recipe string

	// Variant is the contested variant name.
	Variant string

	// FirstPath requested FirstValue, SecondPath requested SecondValue.
	FirstPath   string
	FirstValue  string
	SecondPath  string
	SecondValue string
}

func (e *VariantConflictError) Error() string {
	return fmt.Sprintf("variant conflict on %s: %s requires %s=%s, %s requires %s=%s",
		e.Recipe, e.FirstPath, e.Variant, e.FirstValue, e.SecondPath, e.Variant, e.SecondValue)
}

// CyclicDependencyError is returned when expansion reaches a recipe that is
// an ancestor of itself on the current expansion path.
type CyclicDependencyError struct {
	// Cycle is the dependency path forming the cycle, e.g.
	// ["<root>", "a", "b", "a"].
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	if len(e.Cycle) == 0 {
		return "dependency cycle detected"
	}
	return "dependency cycle detected: " + formatPath(e.Cycle)
}

// UnsatisfiableConstraintError is returned when no version of a recipe
// satisfies a dependency edge's constraint, or when the version already
// selected for the recipe fails a constraint introduced by a later edge.
type UnsatisfiableConstraintError struct {
	// Recipe is the target recipe.
	Recipe string

	// Constraint is the edge constraint that could not be satisfied.
	Constraint string

	// RequestedBy is the expansion path carrying the constraint.
	RequestedBy string

	// Selected is the already-selected version that fails the constraint,
	// empty when no candidate satisfied it in the first place.
	Selected string
}

func (e *UnsatisfiableConstraintError) Error() string {
	if e.Selected != "" {
		return fmt.Sprintf("recipe %q already resolved to %s, which does not satisfy %q (required by %s)",
			e.Recipe, e.Selected, e.Constraint, e.RequestedBy)
	}
	want := e.Constraint
	if want == "" {
		want = "any version"
	}
	return fmt.Sprintf("no version of %q satisfies %q (required by %s)",
		e.Recipe, want, e.RequestedBy)
}

// ResolutionError aggregates every conflict violation found in a fully
// expanded graph. No partial result accompanies it: resolution is
// all-or-nothing.
type ResolutionError struct {
	// Violations are all triggered conflict rules and validation
	// failures, across every node of the graph.
	Violations []constraint.Violation
}

func (e *ResolutionError) Error() string {
	if len(e.Violations) == 1 {
		return "resolution failed: " + e.Violations[0].String()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "resolution failed with %d violations:", len(e.Violations))
	for _, v := range e.Violations {
		sb.WriteString("\n  - ")
		sb.WriteString(v.String())
	}
	return sb.String()
}

// PlanCompilationError is returned when the compiler is handed a graph that
// is not a DAG. The resolver's cycle check makes this unreachable in normal
// operation; seeing it means an internal invariant was violated.
type PlanCompilationError struct {
	// Remaining are the nodes that could not be ordered, sorted by name.
	Remaining []string
}

func (e *PlanCompilationError) Error() string {
	return fmt.Sprintf("plan compilation failed: graph is not acyclic, %d nodes unorderable: %s",
		len(e.Remaining), strings.Join(e.Remaining, ", "))
}

// formatPath joins an expansion path for display.
// Example: ["<root>", "a", "b", "a"] -> "<root> -> a -> b -> a".
func formatPath(path []string) string {
	return strings.Join(path, " -> ")
}
