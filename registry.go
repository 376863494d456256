package gobuildplan

import (
	"fmt"
	"sort"
	"sync"

	"github.com/hpcforge/go-buildplan/version"
)

// RecipeRegistry stores parsed recipes by name. Registration validates the
// recipe's structural invariants; lookups during resolution are read-only,
// so a registry is safe for concurrent use once populated.
type RecipeRegistry struct {
	mu      sync.RWMutex
	recipes map[string]*Recipe
}

// NewRecipeRegistry creates an empty registry.
func NewRecipeRegistry() *RecipeRegistry {
	return &RecipeRegistry{
		recipes: make(map[string]*Recipe),
	}
}

// Register stores a recipe. It fails with DuplicateRecipeError if the name
// is already present and with InvalidRecipeError if the recipe violates its
// invariants.
func (r *RecipeRegistry) Register(recipe *Recipe) error {
	if err := validateRecipe(recipe); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.recipes[recipe.Name]; exists {
		return &DuplicateRecipeError{Name: recipe.Name}
	}
	r.recipes[recipe.Name] = recipe
	return nil
}

// Lookup returns the recipe with the given name, or UnknownRecipeError.
func (r *RecipeRegistry) Lookup(name string) (*Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	recipe, ok := r.recipes[name]
	if !ok {
		return nil, &UnknownRecipeError{Name: name}
	}
	return recipe, nil
}

// Names returns all registered recipe names in lexicographic order.
func (r *RecipeRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.recipes))
	for name := range r.recipes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered recipes.
func (r *RecipeRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.recipes)
}

// validateRecipe enforces the recipe invariants: unique version identifiers,
// one resolution strategy per version, unique variant names, defaults inside
// their variant's domain, well-formed defines and parseable edge constraints.
func validateRecipe(recipe *Recipe) error {
	invalid := func(format string, args ...any) error {
		return &InvalidRecipeError{Name: recipe.Name, Reason: fmt.Sprintf(format, args...)}
	}

	if recipe == nil {
		return &InvalidRecipeError{Reason: "nil recipe"}
	}
	if recipe.Name == "" {
		return &InvalidRecipeError{Reason: "empty recipe name"}
	}
	if len(recipe.Versions) == 0 {
		return invalid("no versions declared")
	}

	seenVersions := make(map[string]bool, len(recipe.Versions))
	for _, v := range recipe.Versions {
		if err := v.validate(); err != nil {
			return invalid("%v", err)
		}
		if seenVersions[v.ID] {
			return invalid("duplicate version %q", v.ID)
		}
		seenVersions[v.ID] = true
	}

	seenVariants := make(map[string]bool, len(recipe.Variants))
	for _, v := range recipe.Variants {
		if v.Name == "" {
			return invalid("variant with empty name")
		}
		if seenVariants[v.Name] {
			return invalid("duplicate variant %q", v.Name)
		}
		seenVariants[v.Name] = true
		if !v.InDomain(v.Default) {
			return invalid("variant %q default %q outside its domain", v.Name, v.Default)
		}
	}

	for _, edge := range recipe.Dependencies {
		if edge.Name == "" {
			return invalid("dependency edge with empty target name")
		}
		if edge.Name == recipe.Name {
			return invalid("dependency edge on itself")
		}
		for _, kind := range edge.Kinds {
			switch kind {
			case DepBuild, DepLink, DepRun:
			default:
				return invalid("dependency %q has unknown kind %q", edge.Name, kind)
			}
		}
		if edge.Constraint != "" {
			if _, err := version.ParseConstraint(edge.Constraint); err != nil {
				return invalid("dependency %q: %v", edge.Name, err)
			}
		}
	}

	for _, d := range recipe.Defines {
		if d.Key == "" {
			return invalid("define with empty key")
		}
		switch {
		case d.FromVariant != "" && d.Value != "":
			return invalid("define %q has both a fixed value and a source variant", d.Key)
		case d.FromVariant == "" && d.Value == "":
			return invalid("define %q has neither a fixed value nor a source variant", d.Key)
		case d.FromVariant != "" && d.When != "":
			return invalid("define %q cannot combine from_variant with a when gate", d.Key)
		}
		if d.FromVariant != "" && !seenVariants[d.FromVariant] {
			return invalid("define %q references undeclared variant %q", d.Key, d.FromVariant)
		}
		if d.When != "" {
			gate := recipe.Variant(d.When)
			if gate == nil {
				return invalid("define %q gated on undeclared variant %q", d.Key, d.When)
			}
			if !gate.IsBool() {
				return invalid("define %q gated on non-boolean variant %q", d.Key, d.When)
			}
		}
	}

	return nil
}
