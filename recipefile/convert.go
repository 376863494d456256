package recipefile

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	gobuildplan "github.com/hpcforge/go-buildplan"
	"github.com/hpcforge/go-buildplan/constraint"
)

// convertRecipe maps a decoded recipe block onto the recipe model. It
// reports only conversion-level problems; model invariants are left to
// registry validation.
func convertRecipe(block *recipeBlock) (*gobuildplan.Recipe, error) {
	recipe := &gobuildplan.Recipe{
		Name:        block.Name,
		Homepage:    block.Homepage,
		URL:         block.URL,
		Git:         block.Git,
		License:     block.License,
		Maintainers: block.Maintainers,
	}

	for _, v := range block.Versions {
		recipe.Versions = append(recipe.Versions, gobuildplan.Version{
			ID:     v.ID,
			SHA256: v.SHA256,
			Branch: v.Branch,
		})
	}

	for _, v := range block.Variants {
		def, err := exprToString(v.Default)
		if err != nil {
			return nil, fmt.Errorf("variant %q default: %w", v.Name, err)
		}
		recipe.Variants = append(recipe.Variants, gobuildplan.Variant{
			Name:        v.Name,
			Default:     def,
			Description: v.Description,
			Values:      v.Values,
		})
	}

	for _, d := range block.DependsOn {
		edge, err := convertEdge(d)
		if err != nil {
			return nil, fmt.Errorf("depends_on %q: %w", d.Name, err)
		}
		recipe.Dependencies = append(recipe.Dependencies, edge)
	}

	for i, c := range block.Conflicts {
		rule, err := convertConflict(c)
		if err != nil {
			return nil, fmt.Errorf("conflicts block %d: %w", i+1, err)
		}
		recipe.Conflicts = append(recipe.Conflicts, rule)
	}

	for _, d := range block.Defines {
		recipe.Defines = append(recipe.Defines, gobuildplan.BuildDefine{
			Key:         d.Key,
			Value:       d.Value,
			FromVariant: d.FromVariant,
			When:        d.When,
		})
	}

	return recipe, nil
}

func convertEdge(block *dependsBlock) (gobuildplan.DependencyEdge, error) {
	edge := gobuildplan.DependencyEdge{
		Name:       block.Name,
		Constraint: block.Constraint,
	}

	for _, kind := range block.Kinds {
		switch kind {
		case "build":
			edge.Kinds = append(edge.Kinds, gobuildplan.DepBuild)
		case "link":
			edge.Kinds = append(edge.Kinds, gobuildplan.DepLink)
		case "run":
			edge.Kinds = append(edge.Kinds, gobuildplan.DepRun)
		default:
			return edge, fmt.Errorf("unknown dependency kind %q", kind)
		}
	}

	variants, err := exprToAssignment(block.Variants)
	if err != nil {
		return edge, err
	}
	edge.Variants = variants
	return edge, nil
}

// convertConflict builds the rule predicate from the block's conditions.
// Multiple conditions combine conjunctively.
func convertConflict(block *conflictBlock) (gobuildplan.ConflictRule, error) {
	var preds []constraint.Predicate

	if block.Compiler != "" {
		preds = append(preds, constraint.CompilerRange{
			Compiler:   block.Compiler,
			Constraint: block.Constraint,
		})
	} else if block.Constraint != "" {
		return gobuildplan.ConflictRule{}, fmt.Errorf("constraint given without a compiler")
	}

	if block.Platform != "" {
		preds = append(preds, constraint.PlatformIs{Platform: block.Platform})
	}

	variants, err := exprToAssignment(block.Variants)
	if err != nil {
		return gobuildplan.ConflictRule{}, err
	}
	for _, name := range sortedNames(variants) {
		preds = append(preds, constraint.VariantIs{Name: name, Value: variants[name]})
	}

	if len(preds) == 0 {
		return gobuildplan.ConflictRule{}, fmt.Errorf("no condition given")
	}
	if block.Message == "" {
		return gobuildplan.ConflictRule{}, fmt.Errorf("empty message")
	}

	rule := gobuildplan.ConflictRule{Message: block.Message}
	if len(preds) == 1 {
		rule.When = preds[0]
	} else {
		rule.When = constraint.AllOf{Preds: preds}
	}
	return rule, nil
}

// exprToAssignment evaluates an object expression such as
// { shared = true, build_type = "Release" } into a variant assignment.
// A nil or absent expression yields a nil assignment.
func exprToAssignment(expr hcl.Expression) (gobuildplan.VariantAssignment, error) {
	if expr == nil {
		return nil, nil
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("variants: %s", diags.Error())
	}
	if value.IsNull() {
		return nil, nil
	}
	if !value.Type().IsObjectType() && !value.Type().IsMapType() {
		return nil, fmt.Errorf("variants must be an object, got %s", value.Type().FriendlyName())
	}

	assignment := make(gobuildplan.VariantAssignment, value.LengthInt())
	for it := value.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		str, err := valueToString(elem)
		if err != nil {
			return nil, fmt.Errorf("variant %q: %w", key.AsString(), err)
		}
		assignment[key.AsString()] = str
	}
	return assignment, nil
}

// exprToString evaluates a scalar expression to the model's string form:
// booleans become "true"/"false", numbers and strings their literal text.
func exprToString(expr hcl.Expression) (string, error) {
	if expr == nil {
		return "", fmt.Errorf("missing value")
	}
	value, diags := expr.Value(nil)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s", diags.Error())
	}
	return valueToString(value)
}

func valueToString(value cty.Value) (string, error) {
	if value.IsNull() {
		return "", fmt.Errorf("value is null")
	}
	converted, err := convert.Convert(value, cty.String)
	if err != nil {
		return "", fmt.Errorf("cannot convert %s to a string", value.Type().FriendlyName())
	}
	return converted.AsString(), nil
}

func sortedNames(assignment gobuildplan.VariantAssignment) []string {
	names := make([]string, 0, len(assignment))
	for name := range assignment {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
