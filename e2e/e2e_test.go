// Package e2e drives the full pipeline: recipe files on disk, registry
// loading, resolution, plan compilation and plan file round-tripping.
package e2e

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gobuildplan "github.com/hpcforge/go-buildplan"
	"github.com/hpcforge/go-buildplan/planfile"
	"github.com/hpcforge/go-buildplan/recipefile"
)

const fyamlRecipes = `
recipe "fyaml" {
  homepage = "https://github.com/GEOS-ESM/fyaml"
  url      = "https://github.com/GEOS-ESM/fyaml/archive/refs/tags/v0.2.0.tar.gz"
  git      = "https://github.com/GEOS-ESM/fyaml.git"

  version "main" {
    branch = "main"
  }

  version "0.2.0" {
    sha256 = "0000000000000000000000000000000000000000000000000000000000000000"
  }

  variant "tests" {
    default = false
  }

  variant "examples" {
    default = true
  }

  variant "shared" {
    default = true
  }

  depends_on "cmake" {
    kinds      = ["build"]
    constraint = ">=3.12"
  }

  conflicts {
    compiler   = "gcc"
    constraint = "<=10"
    message    = "fyaml requires GCC 11 or later"
  }

  define "BUILD_SHARED_LIBS" {
    from_variant = "shared"
  }

  define "FYAML_BUILD_EXAMPLES" {
    from_variant = "examples"
  }

  define "FYAML_BUILD_TESTS" {
    value = "ON"
    when  = "tests"
  }
}

recipe "cmake" {
  url = "https://cmake.org/files/v3.30/cmake-3.30.2.tar.gz"

  version "3.30.2" {
    sha256 = "abababababababababababababababababababababababababababababababab"
  }
}
`

func writeRecipes(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "recipes.hcl"), []byte(fyamlRecipes), 0o644))
	return dir
}

func TestFullPipeline(t *testing.T) {
	dir := writeRecipes(t)

	registry, err := recipefile.LoadRegistry(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	opts := gobuildplan.ResolutionOptions{
		Compiler: gobuildplan.Compiler{Name: "gcc", Version: "12.1.0"},
		Platform: "linux",
	}
	plan, result, err := gobuildplan.Plan(registry, "fyaml", gobuildplan.VariantAssignment{"tests": "true"}, opts)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Graph.Len())
	require.Len(t, plan.Nodes, 2)
	assert.Equal(t, "cmake", plan.Nodes[0].Name)
	assert.Equal(t, "fyaml", plan.Nodes[1].Name)

	fyaml := plan.Nodes[1]
	assert.Equal(t, "0.2.0", fyaml.Version)
	assert.Equal(t, "ON", fyaml.Args["BUILD_SHARED_LIBS"])
	assert.Equal(t, "ON", fyaml.Args["FYAML_BUILD_EXAMPLES"])
	assert.Equal(t, "ON", fyaml.Args["FYAML_BUILD_TESTS"])

	planPath := filepath.Join(t.TempDir(), "fyaml.plan.json")
	doc := planfile.New(plan, opts.Compiler, opts.Platform)
	require.NoError(t, doc.WriteFile(planPath))

	loaded, err := planfile.ReadFile(planPath)
	require.NoError(t, err)
	assert.Equal(t, plan, loaded.Plan())

	wantDigest, err := doc.Digest()
	require.NoError(t, err)
	gotDigest, err := loaded.Digest()
	require.NoError(t, err)
	assert.Equal(t, wantDigest, gotDigest)
}

func TestPipelineIsDeterministic(t *testing.T) {
	dir := writeRecipes(t)
	opts := gobuildplan.ResolutionOptions{
		Compiler: gobuildplan.Compiler{Name: "gcc", Version: "12.1.0"},
		Platform: "linux",
	}

	digest := func() string {
		registry, err := recipefile.LoadRegistry(dir)
		require.NoError(t, err)
		plan, _, err := gobuildplan.Plan(registry, "fyaml", nil, opts)
		require.NoError(t, err)
		d, err := planfile.New(plan, opts.Compiler, opts.Platform).Digest()
		require.NoError(t, err)
		return d
	}

	first := digest()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, digest())
	}
}

func TestPipelineRejectsOldCompiler(t *testing.T) {
	dir := writeRecipes(t)

	registry, err := recipefile.LoadRegistry(dir)
	require.NoError(t, err)

	_, _, err = gobuildplan.Plan(registry, "fyaml", nil, gobuildplan.ResolutionOptions{
		Compiler: gobuildplan.Compiler{Name: "gcc", Version: "9.4.0"},
		Platform: "linux",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GCC 11 or later")
}
