package gobuildplan

import (
	"errors"
	"testing"

	"github.com/hpcforge/go-buildplan/graph"
)

func resolveAndCompile(t *testing.T, registry *RecipeRegistry, root string, requested VariantAssignment, opts ResolutionOptions) *BuildPlan {
	t.Helper()
	result, err := NewDependencyResolver(registry, opts).Resolve(root, requested)
	if err != nil {
		t.Fatalf("Resolve(%s): %v", root, err)
	}
	plan, err := NewBuildPlanCompiler(registry).Compile(result.Graph)
	if err != nil {
		t.Fatalf("Compile(%s): %v", root, err)
	}
	return plan
}

func planIndex(plan *BuildPlan) map[string]int {
	index := make(map[string]int, len(plan.Nodes))
	for i, n := range plan.Nodes {
		index[n.Name] = i
	}
	return index
}

func TestCompileOrdersDependenciesFirst(t *testing.T) {
	plan := resolveAndCompile(t, diamondRegistry(t), "app", nil, ResolutionOptions{})

	if len(plan.Nodes) != 4 {
		t.Fatalf("plan has %d nodes, want 4: %s", len(plan.Nodes), plan)
	}
	if plan.Root != "app" {
		t.Errorf("Root = %s, want app", plan.Root)
	}

	index := planIndex(plan)
	for _, n := range plan.Nodes {
		for _, dep := range n.DependsOn {
			if index[dep] >= index[n.Name] {
				t.Errorf("%s builds at %d before its dependency %s at %d",
					n.Name, index[n.Name], dep, index[dep])
			}
		}
	}
	if plan.Nodes[len(plan.Nodes)-1].Name != "app" {
		t.Errorf("root is not last: %s", plan)
	}
}

func TestCompileDeterministic(t *testing.T) {
	registry := diamondRegistry(t)

	first := resolveAndCompile(t, registry, "app", nil, ResolutionOptions{}).String()
	for i := 0; i < 20; i++ {
		again := resolveAndCompile(t, registry, "app", nil, ResolutionOptions{}).String()
		if again != first {
			t.Fatalf("run %d produced a different plan:\n%s\n%s", i, first, again)
		}
	}
	// Ready nodes are released in name order, so the diamond's order is
	// fully pinned, not merely any valid topological sort.
	want := "zlib@1.0.0 -> libbar@1.0.0 -> libfoo@1.0.0 -> app@1.0.0"
	if first != want {
		t.Errorf("plan = %s, want %s", first, want)
	}
}

func TestCompileFyamlArgs(t *testing.T) {
	registry := fyamlRegistry(t)
	opts := ResolutionOptions{Compiler: gcc("12.1.0"), Platform: "linux"}

	plan := resolveAndCompile(t, registry, "fyaml", nil, opts)
	index := planIndex(plan)
	node := plan.Nodes[index["fyaml"]]

	wantArgs := map[string]string{
		"BUILD_SHARED_LIBS":      "ON",
		"FYAML_BUILD_EXAMPLES":   "ON",
		"CMAKE_Fortran_STANDARD": "2003",
	}
	for key, want := range wantArgs {
		if got := node.Args[key]; got != want {
			t.Errorf("args[%s] = %q, want %q", key, got, want)
		}
	}
	if _, present := node.Args["FYAML_BUILD_TESTS"]; present {
		t.Error("FYAML_BUILD_TESTS emitted although tests is disabled")
	}

	if len(node.DependsOn) != 1 || node.DependsOn[0] != "cmake" {
		t.Errorf("DependsOn = %v, want [cmake]", node.DependsOn)
	}
	if node.Source.SHA256 != placeholderDigest || node.Source.URL == "" {
		t.Errorf("fixed-version source = %+v", node.Source)
	}
}

// With build-only edges omitted, fyaml compiles to a single-node plan
// carrying exactly the arguments its variant defaults imply.
func TestCompileFyamlRuntimeClosure(t *testing.T) {
	registry := fyamlRegistry(t)
	opts := ResolutionOptions{
		Compiler:      gcc("12.1.0"),
		Platform:      "linux",
		OmitBuildDeps: true,
	}

	plan := resolveAndCompile(t, registry, "fyaml", nil, opts)
	if len(plan.Nodes) != 1 {
		t.Fatalf("plan has %d nodes, want 1: %s", len(plan.Nodes), plan)
	}

	node := plan.Nodes[0]
	if node.Args["BUILD_SHARED_LIBS"] != "ON" || node.Args["FYAML_BUILD_EXAMPLES"] != "ON" {
		t.Errorf("args = %v", node.Args)
	}
	if _, present := node.Args["FYAML_BUILD_TESTS"]; present {
		t.Error("FYAML_BUILD_TESTS emitted although tests is disabled")
	}
	if len(node.DependsOn) != 0 {
		t.Errorf("DependsOn = %v, want none", node.DependsOn)
	}
}

func TestCompileGatedDefine(t *testing.T) {
	registry := fyamlRegistry(t)
	opts := ResolutionOptions{Compiler: gcc("12.1.0"), Platform: "linux"}

	plan := resolveAndCompile(t, registry, "fyaml", VariantAssignment{"tests": "true", "shared": "false"}, opts)
	node := plan.Nodes[planIndex(plan)["fyaml"]]

	if got := node.Args["FYAML_BUILD_TESTS"]; got != "ON" {
		t.Errorf("FYAML_BUILD_TESTS = %q, want ON when tests is enabled", got)
	}
	if got := node.Args["BUILD_SHARED_LIBS"]; got != "OFF" {
		t.Errorf("BUILD_SHARED_LIBS = %q, want OFF", got)
	}
}

func TestCompileEnumDefine(t *testing.T) {
	registry := NewRecipeRegistry()
	pkg := validRecipe("pkg")
	pkg.Variants = []Variant{
		{Name: "build_type", Default: "Release", Values: []string{"Debug", "Release", "RelWithDebInfo"}},
	}
	pkg.Defines = []BuildDefine{{Key: "CMAKE_BUILD_TYPE", FromVariant: "build_type"}}
	mustRegister(t, registry, pkg)

	plan := resolveAndCompile(t, registry, "pkg", VariantAssignment{"build_type": "Debug"}, ResolutionOptions{})
	if got := plan.Nodes[0].Args["CMAKE_BUILD_TYPE"]; got != "Debug" {
		t.Errorf("CMAKE_BUILD_TYPE = %q, want the enum value passed through", got)
	}
}

func TestCompileBranchSource(t *testing.T) {
	registry := NewRecipeRegistry()
	pkg := validRecipe("pkg")
	pkg.Git = "https://example.com/pkg.git"
	pkg.Versions = []Version{{ID: "develop", Branch: "develop"}}
	mustRegister(t, registry, pkg)

	plan := resolveAndCompile(t, registry, "pkg", nil, ResolutionOptions{})
	source := plan.Nodes[0].Source
	if source.Git != "https://example.com/pkg.git" || source.Branch != "develop" {
		t.Errorf("branch source = %+v", source)
	}
	if source.URL != "" || source.SHA256 != "" {
		t.Errorf("branch source carries archive fields: %+v", source)
	}
}

// The resolver never emits a cyclic graph, so this drives the compiler with
// a hand-built one to cover the failure path.
func TestCompileCyclicGraph(t *testing.T) {
	g := graph.New("a")
	for _, name := range []string{"a", "b"} {
		if _, err := g.Add(&graph.Spec{Name: name, Version: "1.0.0"}); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := g.Connect("a", "b", nil); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Connect("b", "a", nil); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	_, err := NewBuildPlanCompiler(NewRecipeRegistry()).Compile(g)
	var planErr *PlanCompilationError
	if !errors.As(err, &planErr) {
		t.Fatalf("expected PlanCompilationError, got %v", err)
	}
	if len(planErr.Remaining) != 2 {
		t.Errorf("Remaining = %v, want both nodes", planErr.Remaining)
	}
}

func TestPlanConvenience(t *testing.T) {
	registry := fyamlRegistry(t)
	opts := ResolutionOptions{Compiler: gcc("12.1.0"), Platform: "linux"}

	plan, result, err := Plan(registry, "fyaml", nil, opts)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if result == nil || result.Graph.Len() != len(plan.Nodes) {
		t.Errorf("plan and graph disagree on node count")
	}
	if plan.Nodes[len(plan.Nodes)-1].Name != "fyaml" {
		t.Errorf("root is not last: %s", plan)
	}
}
