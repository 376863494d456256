package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	gobuildplan "github.com/hpcforge/go-buildplan"
	"github.com/hpcforge/go-buildplan/recipefile"
)

// Resolution flags shared by resolve, plan and graph.
var (
	compilerSpec  string
	platform      string
	variantFlags  []string
	omitBuildDeps bool
	unverified    string
)

// addResolutionFlags wires the shared resolution flags onto a command.
func addResolutionFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&compilerSpec, "compiler", "", "compiler fact as name@version, e.g. gcc@12.1.0")
	cmd.Flags().StringVar(&platform, "platform", "linux", "platform fact")
	cmd.Flags().StringArrayVar(&variantFlags, "variant", nil, "root variant as name=value (repeatable)")
	cmd.Flags().BoolVar(&omitBuildDeps, "omit-build-deps", false, "drop build-only dependency edges")
	cmd.Flags().StringVar(&unverified, "unverified", "allow", "placeholder-digest handling: allow, warn or refuse")
}

// loadRegistry parses every recipe under the recipes directory.
func loadRegistry() (*gobuildplan.RecipeRegistry, error) {
	var opts []recipefile.Option
	if verbose {
		opts = append(opts, recipefile.WithLogger(slog.New(log.Default())))
	}
	registry, err := recipefile.LoadRegistry(recipesDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading recipes from %s: %w", recipesDir, err)
	}
	log.Debug("recipes loaded", "dir", recipesDir, "count", registry.Len())
	return registry, nil
}

// resolutionOptions builds ResolutionOptions from the shared flags.
func resolutionOptions() (gobuildplan.ResolutionOptions, error) {
	opts := gobuildplan.ResolutionOptions{
		Platform:      platform,
		OmitBuildDeps: omitBuildDeps,
	}

	if compilerSpec != "" {
		compiler, err := parseCompiler(compilerSpec)
		if err != nil {
			return opts, err
		}
		opts.Compiler = compiler
	}

	switch unverified {
	case "allow":
		opts.Unverified = gobuildplan.UnverifiedAllow
	case "warn":
		opts.Unverified = gobuildplan.UnverifiedWarn
	case "refuse":
		opts.Unverified = gobuildplan.UnverifiedRefuse
	default:
		return opts, fmt.Errorf("invalid --unverified value %q (want allow, warn or refuse)", unverified)
	}

	return opts, nil
}

// parseCompiler splits a "name@version" compiler spec.
func parseCompiler(spec string) (gobuildplan.Compiler, error) {
	name, ver, ok := strings.Cut(spec, "@")
	if !ok || name == "" || ver == "" {
		return gobuildplan.Compiler{}, fmt.Errorf("invalid compiler %q (want name@version)", spec)
	}
	return gobuildplan.Compiler{Name: name, Version: ver}, nil
}

// parseVariants turns repeated name=value flags into an assignment.
func parseVariants(flags []string) (gobuildplan.VariantAssignment, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	assignment := make(gobuildplan.VariantAssignment, len(flags))
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")
		if !ok || name == "" || value == "" {
			return nil, fmt.Errorf("invalid variant %q (want name=value)", flag)
		}
		assignment[name] = value
	}
	return assignment, nil
}

// resolveFromFlags runs a resolve with the shared flag state and reports
// warnings through the logger.
func resolveFromFlags(rootName string) (*gobuildplan.RecipeRegistry, *gobuildplan.Result, error) {
	registry, err := loadRegistry()
	if err != nil {
		return nil, nil, err
	}
	opts, err := resolutionOptions()
	if err != nil {
		return nil, nil, err
	}
	requested, err := parseVariants(variantFlags)
	if err != nil {
		return nil, nil, err
	}

	result, err := gobuildplan.Resolve(registry, rootName, requested, opts)
	if err != nil {
		return nil, nil, err
	}
	for _, warning := range result.Warnings {
		log.Warn(warning)
	}
	return registry, result, nil
}
