package gobuildplan

import (
	"sort"

	"github.com/hpcforge/go-buildplan/graph"
)

// BuildPlanCompiler turns a resolved graph into a deterministic,
// dependency-ordered build plan with per-node build arguments.
type BuildPlanCompiler struct {
	registry *RecipeRegistry
}

// NewBuildPlanCompiler creates a compiler over the registry the graph was
// resolved against. The registry supplies each recipe's build-argument
// translations.
func NewBuildPlanCompiler(registry *RecipeRegistry) *BuildPlanCompiler {
	return &BuildPlanCompiler{registry: registry}
}

// Compile orders the graph topologically (Kahn's algorithm, ties broken by
// recipe name) and derives each node's build arguments from its variant
// assignment. Two compilations of the same graph produce byte-identical
// plans.
//
// Compile fails with PlanCompilationError only when the graph is not a DAG,
// which the resolver's cycle check rules out; hitting it means an internal
// invariant was violated.
func (c *BuildPlanCompiler) Compile(g *graph.Graph) (*BuildPlan, error) {
	// Count unprocessed dependencies per node; a node is ready once all
	// of its dependencies are in the plan.
	pending := make(map[string]int, g.Len())
	for name, node := range g.Nodes {
		pending[name] = len(node.Edges)
	}

	var ready []string
	for name, count := range pending {
		if count == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	plan := &BuildPlan{
		Root:  g.Root,
		Nodes: make([]PlanNode, 0, g.Len()),
	}

	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]

		node := g.Get(name)
		planNode, err := c.compileNode(node)
		if err != nil {
			return nil, err
		}
		plan.Nodes = append(plan.Nodes, planNode)

		released := false
		for _, dependent := range node.Dependents {
			pending[dependent]--
			if pending[dependent] == 0 {
				ready = append(ready, dependent)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(plan.Nodes) != g.Len() {
		var remaining []string
		for name, count := range pending {
			if count > 0 {
				remaining = append(remaining, name)
			}
		}
		sort.Strings(remaining)
		return nil, &PlanCompilationError{Remaining: remaining}
	}

	return plan, nil
}

// compileNode derives a plan node from a graph node: build arguments from
// the recipe's defines, source location from the selected version, and the
// sorted dependency list.
func (c *BuildPlanCompiler) compileNode(node *graph.Node) (PlanNode, error) {
	recipe, err := c.registry.Lookup(node.Spec.Name)
	if err != nil {
		return PlanNode{}, err
	}

	args := make(map[string]string, len(recipe.Defines))
	for _, d := range recipe.Defines {
		switch {
		case d.FromVariant != "":
			value := node.Spec.Variants[d.FromVariant]
			decl := recipe.Variant(d.FromVariant)
			if decl != nil && decl.IsBool() {
				if value == "true" {
					args[d.Key] = "ON"
				} else {
					args[d.Key] = "OFF"
				}
			} else {
				args[d.Key] = value
			}
		case d.When != "":
			if node.Spec.Variants[d.When] == "true" {
				args[d.Key] = d.Value
			}
		default:
			args[d.Key] = d.Value
		}
	}

	if len(args) == 0 {
		args = nil
	}
	variants := VariantAssignment(node.Spec.Variants).Clone()
	if len(variants) == 0 {
		variants = nil
	}

	dependsOn := make([]string, 0, len(node.Edges))
	for _, edge := range node.Edges {
		dependsOn = append(dependsOn, edge.To)
	}
	sort.Strings(dependsOn)
	if len(dependsOn) == 0 {
		dependsOn = nil
	}

	source := SourceRef{}
	if node.Spec.Branch != "" {
		source.Git = node.Spec.Git
		source.Branch = node.Spec.Branch
	} else {
		source.URL = node.Spec.URL
		source.SHA256 = node.Spec.Digest
	}

	return PlanNode{
		Name:      node.Spec.Name,
		Version:   node.Spec.Version,
		Variants:  variants,
		Args:      args,
		Source:    source,
		DependsOn: dependsOn,
	}, nil
}
