package gobuildplan

import (
	"fmt"
	"strings"

	"github.com/hpcforge/go-buildplan/constraint"
	"github.com/hpcforge/go-buildplan/graph"
)

// ConcreteSpec is an alias for graph.Spec: one fully resolved recipe
// instance (pinned version, complete variant assignment, compiler and
// platform facts).
type ConcreteSpec = graph.Spec

// Compiler is an alias for graph.Compiler.
type Compiler = graph.Compiler

// EdgeKind is an alias for graph.EdgeKind.
type EdgeKind = graph.EdgeKind

// Dependency edge kinds.
const (
	DepBuild = graph.KindBuild
	DepLink  = graph.KindLink
	DepRun   = graph.KindRun
)

// ConflictRule is an alias for constraint.Rule: a predicate that invalidates
// a configuration, plus the message shown when it fires.
type ConflictRule = constraint.Rule

// ConflictViolation is an alias for constraint.Violation.
type ConflictViolation = constraint.Violation

// Recipe is the declarative description of one buildable package: metadata,
// the versions that can be built, the build-time variants, dependency edges,
// conflict rules and the variant-to-build-argument translations.
//
// Recipes are pure data. They carry no behavior beyond validation; anything
// that executes (fetching sources, running the build tool, post-install
// checks) belongs to the external build executor.
type Recipe struct {
	// Name is the unique recipe name.
	Name string `json:"name"`

	// Homepage is the project homepage, informational only.
	Homepage string `json:"homepage,omitempty"`

	// URL is the source archive location for fixed versions.
	URL string `json:"url,omitempty"`

	// Git is the repository location for branch versions.
	Git string `json:"git,omitempty"`

	// License is an SPDX license expression.
	License string `json:"license,omitempty"`

	// Maintainers lists the recipe maintainers.
	Maintainers []string `json:"maintainers,omitempty"`

	// Versions lists the buildable versions, newest first by convention.
	// Version identifiers must be unique within the recipe.
	Versions []Version `json:"versions"`

	// Variants declares the build-time options. Variant names must be
	// unique within the recipe.
	Variants []Variant `json:"variants,omitempty"`

	// Dependencies declares edges to other recipes.
	Dependencies []DependencyEdge `json:"dependencies,omitempty"`

	// Conflicts declares configurations this recipe cannot be built in.
	Conflicts []ConflictRule `json:"-"`

	// Defines declares how variants translate to build-tool arguments.
	Defines []BuildDefine `json:"defines,omitempty"`
}

// Variant returns the declared variant with the given name, or nil.
func (r *Recipe) Variant(name string) *Variant {
	for i := range r.Variants {
		if r.Variants[i].Name == name {
			return &r.Variants[i]
		}
	}
	return nil
}

// DefaultAssignment returns a fresh assignment with every declared variant
// at its default value.
func (r *Recipe) DefaultAssignment() VariantAssignment {
	assignment := make(VariantAssignment, len(r.Variants))
	for _, v := range r.Variants {
		assignment[v.Name] = v.Default
	}
	return assignment
}

// placeholderDigest is the all-zero sha256 some recipes carry before a
// release digest is known. Versions with it are treated as unverified.
const placeholderDigest = "0000000000000000000000000000000000000000000000000000000000000000"

// Version is one buildable version of a recipe. Exactly one resolution
// strategy applies: either SHA256 is set (a fixed, digest-verified release)
// or Branch is set (a floating reference resolved at build time).
type Version struct {
	// ID is the version identifier, e.g. "0.2.0" or "main".
	ID string `json:"id"`

	// SHA256 is the source archive digest for fixed versions.
	SHA256 string `json:"sha256,omitempty"`

	// Branch is the branch name for floating versions.
	Branch string `json:"branch,omitempty"`
}

// IsBranch reports whether the version is a floating branch reference.
func (v Version) IsBranch() bool {
	return v.Branch != ""
}

// IsUnverified reports whether a fixed version carries the all-zero
// placeholder digest instead of a real one.
func (v Version) IsUnverified() bool {
	return !v.IsBranch() && v.SHA256 == placeholderDigest
}

func (v Version) validate() error {
	if v.ID == "" {
		return fmt.Errorf("version with empty identifier")
	}
	if v.Branch != "" && v.SHA256 != "" {
		return fmt.Errorf("version %q has both a digest and a branch", v.ID)
	}
	if v.Branch == "" && v.SHA256 == "" {
		return fmt.Errorf("version %q has neither a digest nor a branch", v.ID)
	}
	if v.SHA256 != "" && len(v.SHA256) != 64 {
		return fmt.Errorf("version %q has a malformed sha256 digest", v.ID)
	}
	return nil
}

// Variant is a named build-time option. A variant is boolean unless Values
// enumerates an explicit domain.
type Variant struct {
	// Name is the variant name, unique within the recipe.
	Name string `json:"name"`

	// Default is the default value: "true"/"false" for boolean variants,
	// one of Values for enumerated ones.
	Default string `json:"default"`

	// Description explains the variant to the user.
	Description string `json:"description,omitempty"`

	// Values is the enumerated value domain. Empty means boolean.
	Values []string `json:"values,omitempty"`
}

// IsBool reports whether the variant is boolean (no enumerated domain).
func (v Variant) IsBool() bool {
	return len(v.Values) == 0
}

// InDomain reports whether value is valid for this variant.
func (v Variant) InDomain(value string) bool {
	if v.IsBool() {
		return value == "true" || value == "false"
	}
	for _, allowed := range v.Values {
		if allowed == value {
			return true
		}
	}
	return false
}

// VariantAssignment maps variant names to values for one concrete build.
// Boolean variants carry "true"/"false".
type VariantAssignment map[string]string

// Clone returns a copy of the assignment.
func (a VariantAssignment) Clone() VariantAssignment {
	clone := make(VariantAssignment, len(a))
	for k, v := range a {
		clone[k] = v
	}
	return clone
}

// DependencyEdge declares that a recipe needs another recipe, with an
// optional version constraint and required variant settings on the target.
type DependencyEdge struct {
	// Name is the target recipe name.
	Name string `json:"name"`

	// Kinds classifies the dependency. Empty defaults to build+link.
	Kinds []EdgeKind `json:"kinds,omitempty"`

	// Constraint restricts the target version, e.g. ">=3.12". Empty
	// accepts any version.
	Constraint string `json:"constraint,omitempty"`

	// Variants are variant settings the target must be built with.
	Variants VariantAssignment `json:"variants,omitempty"`
}

// EffectiveKinds returns the edge kinds, applying the build+link default.
func (e DependencyEdge) EffectiveKinds() []EdgeKind {
	if len(e.Kinds) == 0 {
		return []EdgeKind{DepBuild, DepLink}
	}
	return e.Kinds
}

// buildOnly reports whether the edge is needed only at build time.
func (e DependencyEdge) buildOnly() bool {
	for _, k := range e.EffectiveKinds() {
		if k != DepBuild {
			return false
		}
	}
	return true
}

// BuildDefine declares one build-tool argument of a recipe. Exactly one of
// Value and FromVariant is set:
//
//   - FromVariant derives the value from a variant: boolean variants map to
//     ON/OFF, enumerated variants pass their value through.
//   - Value is a fixed value; with When set, the define is emitted only when
//     the named boolean variant is enabled.
type BuildDefine struct {
	// Key is the build argument name, e.g. "BUILD_SHARED_LIBS".
	Key string `json:"key"`

	// Value is a fixed argument value.
	Value string `json:"value,omitempty"`

	// FromVariant derives the value from the named variant.
	FromVariant string `json:"from_variant,omitempty"`

	// When gates a fixed define on a boolean variant being enabled.
	When string `json:"when,omitempty"`
}

// SourceRef tells the build executor where a plan node's sources come from.
type SourceRef struct {
	// URL and SHA256 locate and verify a fixed-version archive.
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
	SHA256 string `json:"sha256,omitempty" yaml:"sha256,omitempty"`

	// Git and Branch locate a floating-version checkout.
	Git    string `json:"git,omitempty" yaml:"git,omitempty"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
}

// PlanNode is one entry of a BuildPlan: a concrete spec with its compiled
// build arguments and source location.
type PlanNode struct {
	// Name is the recipe name.
	Name string `json:"name" yaml:"name"`

	// Version is the pinned version identifier.
	Version string `json:"version" yaml:"version"`

	// Variants is the complete variant assignment.
	Variants VariantAssignment `json:"variants,omitempty" yaml:"variants,omitempty"`

	// Args maps build-argument names to values, e.g.
	// "BUILD_SHARED_LIBS" -> "ON".
	Args map[string]string `json:"args,omitempty" yaml:"args,omitempty"`

	// Source locates the node's sources.
	Source SourceRef `json:"source" yaml:"source"`

	// DependsOn lists the names of nodes that must be built first,
	// sorted lexicographically.
	DependsOn []string `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
}

// Key returns the "name@version" identity of the node.
func (n PlanNode) Key() string {
	return n.Name + "@" + n.Version
}

// BuildPlan is the dependency-ordered build sequence emitted by the
// compiler. For every edge u -> v in the resolved graph, v's node appears
// before u's. The ordering is deterministic: two compilations of the same
// graph produce byte-identical plans.
type BuildPlan struct {
	// Root is the recipe the plan was compiled for.
	Root string `json:"root" yaml:"root"`

	// Nodes is the build order, dependencies first.
	Nodes []PlanNode `json:"nodes" yaml:"nodes"`
}

// Keys returns the "name@version" sequence of the plan, in build order.
func (p *BuildPlan) Keys() []string {
	keys := make([]string, 0, len(p.Nodes))
	for _, n := range p.Nodes {
		keys = append(keys, n.Key())
	}
	return keys
}

// String renders the plan order as a single arrow-separated line.
func (p *BuildPlan) String() string {
	return strings.Join(p.Keys(), " -> ")
}
