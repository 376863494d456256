package gobuildplan

import (
	"fmt"
	"sort"

	"github.com/hpcforge/go-buildplan/constraint"
)

// ConstraintEngine evaluates conflict rules and variant-domain validity for
// concrete specs. It is stateless; a single engine serves any number of
// resolve runs.
type ConstraintEngine struct{}

// NewConstraintEngine creates a constraint engine.
func NewConstraintEngine() *ConstraintEngine {
	return &ConstraintEngine{}
}

// Check evaluates every conflict rule of the spec's recipe against the
// spec's facts, in declaration order, and validates that the spec's variant
// assignment covers every declared variant with an in-domain value. All
// violations are collected; nothing short-circuits.
//
// The error return is reserved for malformed predicates, which indicate a
// broken recipe rather than an invalid configuration.
func (e *ConstraintEngine) Check(recipe *Recipe, spec *ConcreteSpec) ([]ConflictViolation, error) {
	var violations []ConflictViolation

	for _, v := range recipe.Variants {
		value, ok := spec.Variants[v.Name]
		if !ok {
			violations = append(violations, syntheticViolation(recipe.Name,
				fmt.Sprintf("variant %q has no assigned value", v.Name)))
			continue
		}
		if !v.InDomain(value) {
			violations = append(violations, syntheticViolation(recipe.Name,
				fmt.Sprintf("variant %q value %q outside its domain", v.Name, value)))
		}
	}
	for _, name := range sortedKeys(spec.Variants) {
		if recipe.Variant(name) == nil {
			violations = append(violations, syntheticViolation(recipe.Name,
				fmt.Sprintf("assignment sets undeclared variant %q", name)))
		}
	}

	facts := constraint.Facts{
		CompilerName:    spec.Compiler.Name,
		CompilerVersion: spec.Compiler.Version,
		Platform:        spec.Platform,
		Variants:        spec.Variants,
	}
	ruleViolations, err := constraint.CheckRules(recipe.Name, recipe.Conflicts, facts)
	if err != nil {
		return nil, err
	}
	return append(violations, ruleViolations...), nil
}

// CheckEdge validates that a dependency edge's required variant settings
// reference variants the target recipe declares, with in-domain values.
func (e *ConstraintEngine) CheckEdge(owner *Recipe, edge DependencyEdge, target *Recipe) []ConflictViolation {
	var violations []ConflictViolation
	for _, name := range sortedKeys(edge.Variants) {
		value := edge.Variants[name]
		decl := target.Variant(name)
		if decl == nil {
			violations = append(violations, syntheticViolation(owner.Name,
				fmt.Sprintf("dependency %q requires undeclared variant %q", edge.Name, name)))
			continue
		}
		if !decl.InDomain(value) {
			violations = append(violations, syntheticViolation(owner.Name,
				fmt.Sprintf("dependency %q requires variant %s=%s outside its domain", edge.Name, name, value)))
		}
	}
	return violations
}

// syntheticViolation wraps a validation failure in the violation shape so
// callers see one aggregated failure set.
func syntheticViolation(recipe, message string) ConflictViolation {
	return ConflictViolation{
		Recipe: recipe,
		Rule:   constraint.Rule{When: constraint.AllOf{}, Message: message},
	}
}

func sortedKeys(m VariantAssignment) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
