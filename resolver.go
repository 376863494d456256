package gobuildplan

import (
	"errors"
	"fmt"

	"github.com/hpcforge/go-buildplan/constraint"
	"github.com/hpcforge/go-buildplan/graph"
	"github.com/hpcforge/go-buildplan/version"
)

// DependencyResolver turns a root recipe plus requested variants into a
// fully concretized dependency graph.
//
// Resolution proceeds in three phases:
//  1. Expansion: starting from the root, dependency edges are walked
//     depth-first in declaration order. Each target recipe gets exactly one
//     node (memoized by name); its version is the highest one satisfying
//     the first edge's constraint, with digest-verified releases preferred
//     over floating branches. Later edges to the same recipe must be
//     compatible with the existing node or expansion fails fast.
//  2. Validation: every node's conflict rules are evaluated against the
//     compiler/platform facts, and variant assignments are domain-checked.
//     Violations are collected across the whole graph, not one at a time.
//  3. Finalization: with zero violations, the graph is returned together
//     with any warnings (floating branches, placeholder digests).
//
// Resolution is a pure, synchronous computation: no I/O, no goroutines.
// The registry must not be mutated during a resolve call.
type DependencyResolver struct {
	registry *RecipeRegistry
	engine   *ConstraintEngine
	opts     ResolutionOptions
}

// NewDependencyResolver creates a resolver over the given registry.
func NewDependencyResolver(registry *RecipeRegistry, opts ResolutionOptions) *DependencyResolver {
	return &DependencyResolver{
		registry: registry,
		engine:   NewConstraintEngine(),
		opts:     opts,
	}
}

// Result is a successful resolution: the concretized graph plus non-fatal
// warnings gathered along the way.
type Result struct {
	// Graph is the acyclic dependency graph of concrete specs.
	Graph *graph.Graph

	// Warnings lists non-fatal findings, e.g. selected floating branches
	// or placeholder digests under UnverifiedWarn.
	Warnings []string
}

// rootPath is the head of every expansion path.
const rootPath = "<root>"

// resolveState carries the mutable state of one resolve call.
type resolveState struct {
	r *DependencyResolver
	g *graph.Graph

	// variantSetBy records, per recipe and variant, the path that
	// explicitly required the current value. Defaults have no entry.
	variantSetBy map[string]map[string]string

	violations []constraint.Violation
	warnings   []string
}

// Resolve builds the dependency graph for rootName with the requested
// variants overlaid on the root recipe's defaults.
//
// Failure modes: UnknownRecipeError and UnknownVariantError for bad inputs;
// CyclicDependencyError and VariantConflictError fail fast during
// expansion; UnsatisfiableConstraintError when version selection fails; and
// ResolutionError aggregating every conflict violation after the graph is
// fully expanded. No partial graph is ever returned.
func (r *DependencyResolver) Resolve(rootName string, requested VariantAssignment) (*Result, error) {
	rootRecipe, err := r.registry.Lookup(rootName)
	if err != nil {
		return nil, err
	}

	for _, name := range sortedKeys(requested) {
		decl := rootRecipe.Variant(name)
		if decl == nil {
			return nil, &UnknownVariantError{Recipe: rootName, Variant: name}
		}
		if !decl.InDomain(requested[name]) {
			return nil, fmt.Errorf("requested variant %s=%s outside the domain of recipe %q",
				name, requested[name], rootName)
		}
	}

	st := &resolveState{
		r:            r,
		g:            graph.New(rootName),
		variantSetBy: make(map[string]map[string]string),
	}

	assignment := rootRecipe.DefaultAssignment()
	for name, value := range requested {
		assignment[name] = value
		st.setVariantOrigin(rootName, name, rootPath)
	}

	rootNode, err := st.addNode(rootRecipe, "", assignment, rootPath)
	if err != nil {
		return nil, err
	}
	if err := st.expand(rootRecipe, rootNode, []string{rootPath, rootName}); err != nil {
		return nil, err
	}

	// Phase 2: validate every node, collecting the complete violation set.
	for _, name := range st.g.Names() {
		node := st.g.Get(name)
		recipe, err := r.registry.Lookup(name)
		if err != nil {
			return nil, err
		}
		nodeViolations, err := r.engine.Check(recipe, node.Spec)
		if err != nil {
			return nil, err
		}
		st.violations = append(st.violations, nodeViolations...)
	}
	if len(st.violations) > 0 {
		return nil, &ResolutionError{Violations: st.violations}
	}

	return &Result{Graph: st.g, Warnings: st.warnings}, nil
}

// expand walks rec's dependency edges depth-first, growing the graph.
// path is the name chain from the root to rec, "<root>" first.
func (st *resolveState) expand(rec *Recipe, node *graph.Node, path []string) error {
	for _, edge := range rec.Dependencies {
		if st.r.opts.OmitBuildDeps && edge.buildOnly() {
			continue
		}

		// A name recurring on the current expansion path is a cycle;
		// a name merely seen before is a shared dependency (DAG).
		for _, ancestor := range path[1:] {
			if ancestor == edge.Name {
				return &CyclicDependencyError{Cycle: append(append([]string(nil), path...), edge.Name)}
			}
		}

		target, err := st.r.registry.Lookup(edge.Name)
		if err != nil {
			var unknown *UnknownRecipeError
			if errors.As(err, &unknown) {
				return &UnknownRecipeError{Name: edge.Name, RequestedBy: formatPath(path)}
			}
			return err
		}

		edgePath := formatPath(append(append([]string(nil), path...), edge.Name))
		st.violations = append(st.violations, st.r.engine.CheckEdge(rec, edge, target)...)

		if existing := st.g.Get(edge.Name); existing != nil {
			if err := st.mergeIntoExisting(existing, edge, edgePath); err != nil {
				return err
			}
			if err := st.g.Connect(node.Spec.Name, edge.Name, edge.EffectiveKinds()); err != nil {
				return err
			}
			existing.RequiredBy = append(existing.RequiredBy, edgePath)
			continue
		}

		assignment := target.DefaultAssignment()
		for name, value := range edge.Variants {
			assignment[name] = value
		}
		for _, name := range sortedKeys(edge.Variants) {
			st.setVariantOrigin(edge.Name, name, edgePath)
		}

		child, err := st.addNode(target, edge.Constraint, assignment, edgePath)
		if err != nil {
			return err
		}
		if err := st.g.Connect(node.Spec.Name, edge.Name, edge.EffectiveKinds()); err != nil {
			return err
		}
		if err := st.expand(target, child, append(append([]string(nil), path...), edge.Name)); err != nil {
			return err
		}
	}
	return nil
}

// mergeIntoExisting reconciles a new edge with the memoized node for its
// target: the required variants must agree with the node's assignment and
// the already-selected version must satisfy the edge's constraint.
func (st *resolveState) mergeIntoExisting(existing *graph.Node, edge DependencyEdge, edgePath string) error {
	spec := existing.Spec
	for _, name := range sortedKeys(edge.Variants) {
		value := edge.Variants[name]
		current, ok := spec.Variants[name]
		if !ok {
			// Undeclared variant; already reported by CheckEdge.
			continue
		}
		if current != value {
			return &VariantConflictError{
				Recipe:      spec.Name,
				Variant:     name,
				FirstPath:   st.variantOrigin(spec.Name, name, existing),
				FirstValue:  current,
				SecondPath:  edgePath,
				SecondValue: value,
			}
		}
		st.setVariantOrigin(spec.Name, name, edgePath)
	}

	if edge.Constraint != "" {
		if spec.Branch != "" {
			return &UnsatisfiableConstraintError{
				Recipe:      spec.Name,
				Constraint:  edge.Constraint,
				RequestedBy: edgePath,
				Selected:    spec.Version,
			}
		}
		c, err := version.ParseConstraint(edge.Constraint)
		if err != nil {
			return err
		}
		v, err := version.Parse(spec.Version)
		if err != nil || !version.Satisfies(v, c) {
			return &UnsatisfiableConstraintError{
				Recipe:      spec.Name,
				Constraint:  edge.Constraint,
				RequestedBy: edgePath,
				Selected:    spec.Version,
			}
		}
	}
	return nil
}

// addNode selects a version for the recipe and inserts its concrete spec
// into the graph.
func (st *resolveState) addNode(recipe *Recipe, constraintStr string, assignment VariantAssignment, requiredBy string) (*graph.Node, error) {
	selected, err := st.selectVersion(recipe, constraintStr, requiredBy)
	if err != nil {
		return nil, err
	}

	spec := &graph.Spec{
		Name:     recipe.Name,
		Version:  selected.ID,
		Digest:   selected.SHA256,
		Branch:   selected.Branch,
		URL:      recipe.URL,
		Git:      recipe.Git,
		Compiler: st.r.opts.Compiler,
		Platform: st.r.opts.Platform,
		Variants: assignment,
	}
	node, err := st.g.Add(spec)
	if err != nil {
		return nil, err
	}
	node.RequiredBy = append(node.RequiredBy, requiredBy)
	return node, nil
}

// selectVersion picks the version to build for a recipe.
//
// Among versions satisfying the constraint, the highest fixed release wins;
// a floating branch is chosen only when no fixed release is eligible, and a
// branch never satisfies a non-empty constraint (its contents are unknown
// until build time). Unverified placeholder digests are filtered out under
// UnverifiedRefuse and warned about under UnverifiedWarn.
func (st *resolveState) selectVersion(recipe *Recipe, constraintStr, requiredBy string) (Version, error) {
	var c version.Constraint
	if constraintStr != "" {
		parsed, err := version.ParseConstraint(constraintStr)
		if err != nil {
			return Version{}, err
		}
		c = parsed
	}

	var best Version
	var bestParsed version.Version
	found := false
	for _, candidate := range recipe.Versions {
		if candidate.IsBranch() {
			continue
		}
		if st.r.opts.Unverified == UnverifiedRefuse && candidate.IsUnverified() {
			continue
		}
		parsed, err := version.Parse(candidate.ID)
		if err != nil {
			// Non-semver fixed identifiers cannot be ordered or
			// constraint-matched; skip them.
			continue
		}
		if constraintStr != "" && !version.Satisfies(parsed, c) {
			continue
		}
		if !found || version.Compare(parsed, bestParsed) > 0 {
			best = candidate
			bestParsed = parsed
			found = true
		}
	}

	if found {
		if best.IsUnverified() && st.r.opts.Unverified == UnverifiedWarn {
			st.warnings = append(st.warnings,
				fmt.Sprintf("recipe %q: selected version %s carries a placeholder digest", recipe.Name, best.ID))
		}
		return best, nil
	}

	// Fall back to a floating branch only when nothing constrains the
	// version: a branch cannot be known to satisfy a constraint.
	if constraintStr == "" {
		for _, candidate := range recipe.Versions {
			if candidate.IsBranch() {
				st.warnings = append(st.warnings,
					fmt.Sprintf("recipe %q: selected floating branch version %s", recipe.Name, candidate.ID))
				return candidate, nil
			}
		}
	}

	return Version{}, &UnsatisfiableConstraintError{
		Recipe:      recipe.Name,
		Constraint:  constraintStr,
		RequestedBy: requiredBy,
	}
}

func (st *resolveState) setVariantOrigin(recipe, variant, path string) {
	if st.variantSetBy[recipe] == nil {
		st.variantSetBy[recipe] = make(map[string]string)
	}
	if _, ok := st.variantSetBy[recipe][variant]; !ok {
		st.variantSetBy[recipe][variant] = path
	}
}

// variantOrigin names the path responsible for a variant's current value:
// the first explicit setter, or the node's first requester when the value
// is still the recipe default.
func (st *resolveState) variantOrigin(recipe, variant string, node *graph.Node) string {
	if origin, ok := st.variantSetBy[recipe][variant]; ok {
		return origin
	}
	if len(node.RequiredBy) > 0 {
		return node.RequiredBy[0] + " (default)"
	}
	return "(default)"
}
