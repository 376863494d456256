// Package gobuildplan resolves declarative package recipes into concrete,
// dependency-ordered build plans.
//
// A Recipe declares what can be built: versions, build-time variants,
// dependency edges with version constraints, and conflict rules over the
// compiler and platform. The resolver concretizes a root recipe and its
// transitive dependencies into an acyclic graph of concrete specs, and the
// compiler orders that graph into a deterministic BuildPlan whose per-node
// build arguments an external executor maps onto real build-tool
// invocations.
//
// # Quick Start
//
//	registry := gobuildplan.NewRecipeRegistry()
//	if err := registry.Register(recipe); err != nil { ... }
//
//	opts := gobuildplan.ResolutionOptions{
//	    Compiler: gobuildplan.Compiler{Name: "gcc", Version: "12.1.0"},
//	    Platform: "linux",
//	}
//	plan, result, err := gobuildplan.Plan(registry, "fyaml", nil, opts)
//
// Recipes can also be loaded from HCL files via the recipefile package, and
// plans serialized via the planfile package.
//
// # Determinism
//
// Resolution and compilation are pure functions of their inputs: the same
// registry, root and options always produce a byte-identical plan. Ties in
// the topological order are broken by recipe name.
//
// # Errors
//
// Structural problems (cycles, variant conflicts, unsatisfiable version
// constraints) fail fast. Conflict-rule violations are collected across the
// entire graph and returned as one ResolutionError, so a single run reports
// the complete failure set. No partial plan is ever returned.
package gobuildplan

// Resolve concretizes rootName against the registry with the requested
// variants overlaid on the root recipe's defaults.
func Resolve(registry *RecipeRegistry, rootName string, requested VariantAssignment, opts ResolutionOptions) (*Result, error) {
	return NewDependencyResolver(registry, opts).Resolve(rootName, requested)
}

// Plan resolves rootName and compiles the resulting graph in one call.
// It returns the plan together with the resolution result (graph and
// warnings).
func Plan(registry *RecipeRegistry, rootName string, requested VariantAssignment, opts ResolutionOptions) (*BuildPlan, *Result, error) {
	result, err := Resolve(registry, rootName, requested, opts)
	if err != nil {
		return nil, nil, err
	}
	plan, err := NewBuildPlanCompiler(registry).Compile(result.Graph)
	if err != nil {
		return nil, nil, err
	}
	return plan, result, nil
}
