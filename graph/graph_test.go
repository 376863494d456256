package graph

import (
	"reflect"
	"strings"
	"testing"
)

// buildDiamond constructs:
//
//	app -> libfoo (link) -> zlib (link)
//	app -> libbar (link) -> zlib (link)
//	app -> cmake (build)
func buildDiamond(t *testing.T) *Graph {
	t.Helper()
	g := New("app")

	specs := []*Spec{
		{Name: "app", Version: "1.0.0", Variants: map[string]string{"shared": "true"}},
		{Name: "libfoo", Version: "2.1.0", Variants: map[string]string{}},
		{Name: "libbar", Version: "0.9.0", Variants: map[string]string{}},
		{Name: "zlib", Version: "1.3.1", Variants: map[string]string{}},
		{Name: "cmake", Version: "3.27.0", Variants: map[string]string{}},
	}
	for _, spec := range specs {
		if _, err := g.Add(spec); err != nil {
			t.Fatalf("Add(%s): %v", spec.Name, err)
		}
	}

	edges := []struct {
		from, to string
		kinds    []EdgeKind
	}{
		{"app", "libfoo", []EdgeKind{KindLink}},
		{"app", "libbar", []EdgeKind{KindLink}},
		{"app", "cmake", []EdgeKind{KindBuild}},
		{"libfoo", "zlib", []EdgeKind{KindLink}},
		{"libbar", "zlib", []EdgeKind{KindLink}},
	}
	for _, e := range edges {
		if err := g.Connect(e.from, e.to, e.kinds); err != nil {
			t.Fatalf("Connect(%s, %s): %v", e.from, e.to, err)
		}
	}
	return g
}

func TestAddDuplicate(t *testing.T) {
	g := New("app")
	if _, err := g.Add(&Spec{Name: "app", Version: "1.0.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := g.Add(&Spec{Name: "app", Version: "2.0.0"}); err == nil {
		t.Fatal("expected error on duplicate Add")
	}
}

func TestConnectErrors(t *testing.T) {
	g := New("app")
	if _, err := g.Add(&Spec{Name: "app", Version: "1.0.0"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := g.Connect("app", "missing", []EdgeKind{KindLink}); err == nil {
		t.Error("expected error for unknown destination")
	}
	if err := g.Connect("missing", "app", []EdgeKind{KindLink}); err == nil {
		t.Error("expected error for unknown source")
	}
	if err := g.Connect("app", "app", []EdgeKind{KindLink}); err == nil {
		t.Error("expected error for self edge")
	}
}

func TestConnectMergesKinds(t *testing.T) {
	g := New("app")
	for _, name := range []string{"app", "fortran"} {
		if _, err := g.Add(&Spec{Name: name, Version: "1.0.0"}); err != nil {
			t.Fatalf("Add(%s): %v", name, err)
		}
	}
	if err := g.Connect("app", "fortran", []EdgeKind{KindBuild}); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := g.Connect("app", "fortran", []EdgeKind{KindBuild, KindLink}); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	node := g.Get("app")
	if len(node.Edges) != 1 {
		t.Fatalf("got %d edges, want 1 merged edge", len(node.Edges))
	}
	if !node.Edges[0].HasKind(KindBuild) || !node.Edges[0].HasKind(KindLink) {
		t.Errorf("merged edge kinds = %v, want build+link", node.Edges[0].Kinds)
	}
	if deps := g.Get("fortran").Dependents; len(deps) != 1 {
		t.Errorf("dependents = %v, want single entry", deps)
	}
}

func TestQueries(t *testing.T) {
	g := buildDiamond(t)

	if got := g.DirectDeps("app"); !reflect.DeepEqual(got, []string{"libfoo", "libbar", "cmake"}) {
		t.Errorf("DirectDeps(app) = %v", got)
	}
	if got := g.DirectDepsOfKind("app", KindBuild); !reflect.DeepEqual(got, []string{"cmake"}) {
		t.Errorf("DirectDepsOfKind(app, build) = %v", got)
	}
	if got := g.DirectDependents("zlib"); !reflect.DeepEqual(got, []string{"libbar", "libfoo"}) {
		t.Errorf("DirectDependents(zlib) = %v", got)
	}
	if got := g.TransitiveDeps("app"); !reflect.DeepEqual(got, []string{"libfoo", "libbar", "cmake", "zlib"}) {
		t.Errorf("TransitiveDeps(app) = %v", got)
	}
	if got := g.Leaves(); !reflect.DeepEqual(got, []string{"cmake", "zlib"}) {
		t.Errorf("Leaves = %v", got)
	}
	if g.DirectDeps("missing") != nil {
		t.Error("DirectDeps on unknown name must return nil")
	}
	if !g.Contains("zlib") || g.Contains("missing") {
		t.Error("Contains misbehaves")
	}
}

func TestComputeStats(t *testing.T) {
	g := buildDiamond(t)
	stats := g.ComputeStats()

	if stats.TotalSpecs != 5 {
		t.Errorf("TotalSpecs = %d, want 5", stats.TotalSpecs)
	}
	if stats.DirectDependencies != 3 {
		t.Errorf("DirectDependencies = %d, want 3", stats.DirectDependencies)
	}
	if stats.TransitiveDependencies != 1 {
		t.Errorf("TransitiveDependencies = %d, want 1", stats.TransitiveDependencies)
	}
	if stats.BuildOnly != 1 {
		t.Errorf("BuildOnly = %d, want 1 (cmake)", stats.BuildOnly)
	}
}

func TestStringDeterministic(t *testing.T) {
	g := buildDiamond(t)

	first := g.String()
	for i := 0; i < 10; i++ {
		if got := g.String(); got != first {
			t.Fatalf("String() not deterministic:\n%s\nvs\n%s", first, got)
		}
	}

	if !strings.HasPrefix(first, "app@1.0.0 +shared\n") {
		t.Errorf("unexpected root line:\n%s", first)
	}
	// zlib appears twice, the second time marked as already printed.
	if strings.Count(first, "zlib@1.3.1") != 2 || !strings.Contains(first, "(*)") {
		t.Errorf("shared node rendering wrong:\n%s", first)
	}
}

func TestToDOT(t *testing.T) {
	g := buildDiamond(t)
	dot := g.ToDOT()

	if !strings.HasPrefix(dot, "digraph deps {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Fatalf("malformed DOT:\n%s", dot)
	}
	if !strings.Contains(dot, `"app" [label="app@1.0.0", shape=doubleoctagon];`) {
		t.Errorf("missing root node declaration:\n%s", dot)
	}
	if !strings.Contains(dot, `"app" -> "cmake" [label="build"];`) {
		t.Errorf("missing labeled edge:\n%s", dot)
	}
	if dot != g.ToDOT() {
		t.Error("ToDOT() not deterministic")
	}
}

func TestFormatVariants(t *testing.T) {
	tests := []struct {
		name     string
		variants map[string]string
		want     string
	}{
		{"empty", nil, ""},
		{"bools", map[string]string{"shared": "true", "tests": "false"}, "+shared~tests"},
		{"enum", map[string]string{"build_type": "Release"}, "build_type=Release"},
		{"mixed", map[string]string{"shared": "true", "build_type": "Debug"}, "build_type=Debug+shared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatVariants(tt.variants); got != tt.want {
				t.Errorf("formatVariants = %q, want %q", got, tt.want)
			}
		})
	}
}
