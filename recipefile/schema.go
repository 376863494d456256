package recipefile

import (
	"github.com/hashicorp/hcl/v2"
)

// rootFile is the top-level structure of a recipe file.
type rootFile struct {
	Recipes []*recipeBlock `hcl:"recipe,block"`
}

// recipeBlock is one recipe block. Attribute and block names mirror the
// recipe model one to one.
type recipeBlock struct {
	Name        string   `hcl:"name,label"`
	Homepage    string   `hcl:"homepage,optional"`
	URL         string   `hcl:"url,optional"`
	Git         string   `hcl:"git,optional"`
	License     string   `hcl:"license,optional"`
	Maintainers []string `hcl:"maintainers,optional"`

	Versions  []*versionBlock  `hcl:"version,block"`
	Variants  []*variantBlock  `hcl:"variant,block"`
	DependsOn []*dependsBlock  `hcl:"depends_on,block"`
	Conflicts []*conflictBlock `hcl:"conflicts,block"`
	Defines   []*defineBlock   `hcl:"define,block"`
}

type versionBlock struct {
	ID     string `hcl:"id,label"`
	SHA256 string `hcl:"sha256,optional"`
	Branch string `hcl:"branch,optional"`
}

// variantBlock declares a build-time option. The default is captured as an
// expression so that booleans can be written unquoted; it is converted to
// the model's string form after decoding.
type variantBlock struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default"`
	Description string         `hcl:"description,optional"`
	Values      []string       `hcl:"values,optional"`
}

// dependsBlock declares an edge to another recipe. The variants attribute
// is an object whose values may be booleans or strings, e.g.
// { shared = true, build_type = "Release" }.
type dependsBlock struct {
	Name       string         `hcl:"name,label"`
	Kinds      []string       `hcl:"kinds,optional"`
	Constraint string         `hcl:"constraint,optional"`
	Variants   hcl.Expression `hcl:"variants,optional"`
}

// conflictBlock declares one conflict rule. All present conditions must
// hold for the rule to fire; a block with no condition is rejected.
type conflictBlock struct {
	Message    string         `hcl:"message"`
	Compiler   string         `hcl:"compiler,optional"`
	Constraint string         `hcl:"constraint,optional"`
	Platform   string         `hcl:"platform,optional"`
	Variants   hcl.Expression `hcl:"variants,optional"`
}

type defineBlock struct {
	Key         string `hcl:"key,label"`
	Value       string `hcl:"value,optional"`
	FromVariant string `hcl:"from_variant,optional"`
	When        string `hcl:"when,optional"`
}
