package planfile

import (
	"fmt"

	gobuildplan "github.com/hpcforge/go-buildplan"
)

// FormatVersion is the current plan file schema version.
const FormatVersion = 1

// Document is the on-disk form of a compiled build plan: the plan itself
// plus the resolution facts it was concretized for.
type Document struct {
	// Version is the plan file schema version.
	Version int `json:"planFileVersion" yaml:"plan_file_version"`

	// Root is the recipe the plan was compiled for.
	Root string `json:"root" yaml:"root"`

	// Compiler is the "name@version" compiler fact, empty if none was set.
	Compiler string `json:"compiler,omitempty" yaml:"compiler,omitempty"`

	// Platform is the platform fact, empty if none was set.
	Platform string `json:"platform,omitempty" yaml:"platform,omitempty"`

	// Nodes is the build order, dependencies first.
	Nodes []gobuildplan.PlanNode `json:"nodes" yaml:"nodes"`
}

// New wraps a compiled plan in a document carrying the given facts.
func New(plan *gobuildplan.BuildPlan, compiler gobuildplan.Compiler, platform string) *Document {
	doc := &Document{
		Version:  FormatVersion,
		Root:     plan.Root,
		Platform: platform,
		Nodes:    plan.Nodes,
	}
	if compiler.Name != "" {
		doc.Compiler = compiler.String()
	}
	return doc
}

// Plan returns the build plan stored in the document.
func (d *Document) Plan() *gobuildplan.BuildPlan {
	return &gobuildplan.BuildPlan{
		Root:  d.Root,
		Nodes: d.Nodes,
	}
}

// validate checks the structural sanity of a parsed document.
func (d *Document) validate() error {
	if d.Version != FormatVersion {
		return fmt.Errorf("unsupported plan file version %d (want %d)", d.Version, FormatVersion)
	}
	if d.Root == "" {
		return fmt.Errorf("plan file has no root")
	}
	seen := make(map[string]bool, len(d.Nodes))
	rootPresent := false
	for _, n := range d.Nodes {
		if n.Name == "" {
			return fmt.Errorf("plan node with empty name")
		}
		if seen[n.Name] {
			return fmt.Errorf("duplicate plan node %q", n.Name)
		}
		seen[n.Name] = true
		if n.Name == d.Root {
			rootPresent = true
		}
		for _, dep := range n.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("node %q depends on %q which does not precede it", n.Name, dep)
			}
		}
	}
	if len(d.Nodes) > 0 && !rootPresent {
		return fmt.Errorf("root %q missing from plan nodes", d.Root)
	}
	return nil
}
