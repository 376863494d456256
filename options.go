package gobuildplan

// UnverifiedVersionBehavior controls how versions carrying the all-zero
// placeholder digest are handled during version selection.
type UnverifiedVersionBehavior int

const (
	// UnverifiedAllow selects unverified versions silently (default).
	UnverifiedAllow UnverifiedVersionBehavior = iota

	// UnverifiedWarn selects unverified versions but appends a warning to
	// the resolution result.
	UnverifiedWarn

	// UnverifiedRefuse treats unverified versions as ineligible. If no
	// other version satisfies an edge, resolution fails.
	UnverifiedRefuse
)

// ResolutionOptions configures a resolve run. The compiler and platform
// facts feed conflict-rule evaluation; they are inputs to resolution, not
// something the resolver detects.
type ResolutionOptions struct {
	// Compiler is the compiler the graph is concretized for.
	Compiler Compiler

	// Platform is the target platform identifier, e.g. "linux".
	Platform string

	// OmitBuildDeps drops edges that carry only the build kind, the way a
	// runtime-closure query would. Default is to keep them.
	OmitBuildDeps bool

	// Unverified controls placeholder-digest version handling.
	// Default is UnverifiedAllow.
	Unverified UnverifiedVersionBehavior
}
