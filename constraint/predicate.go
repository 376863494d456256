package constraint

import (
	"fmt"
	"strings"
)

// Predicate is a condition over the Facts of a concrete build configuration.
//
// Predicates form a closed set: CompilerRange, PlatformIs, VariantIs and the
// AllOf/AnyOf/Not combinators. The set is deliberately small so that conflict
// rules stay data, not code.
type Predicate interface {
	// String renders the predicate in a compact diagnostic form.
	String() string

	isPredicate()
}

// CompilerRange matches when the configuration's compiler has the given name
// and its version satisfies Constraint. An empty Constraint matches any
// version of that compiler.
type CompilerRange struct {
	// Compiler is the compiler name, e.g. "gcc" or "intel".
	Compiler string

	// Constraint is a version constraint such as "<=10" or ">=2021.10".
	Constraint string
}

// PlatformIs matches when the configuration's platform equals Platform.
type PlatformIs struct {
	// Platform is a platform identifier, e.g. "linux" or "darwin".
	Platform string
}

// VariantIs matches when the named variant is assigned the given value.
// Boolean variants use "true"/"false" values.
type VariantIs struct {
	Name  string
	Value string
}

// AllOf matches when every member predicate matches. An empty AllOf matches.
type AllOf struct {
	Preds []Predicate
}

// AnyOf matches when at least one member predicate matches.
type AnyOf struct {
	Preds []Predicate
}

// Not inverts its member predicate.
type Not struct {
	Pred Predicate
}

func (CompilerRange) isPredicate() {}
func (PlatformIs) isPredicate()    {}
func (VariantIs) isPredicate()     {}
func (AllOf) isPredicate()         {}
func (AnyOf) isPredicate()         {}
func (Not) isPredicate()           {}

func (p CompilerRange) String() string {
	if p.Constraint == "" {
		return "%" + p.Compiler
	}
	return "%" + p.Compiler + "@" + p.Constraint
}

func (p PlatformIs) String() string {
	return "platform=" + p.Platform
}

func (p VariantIs) String() string {
	return p.Name + "=" + p.Value
}

func (p AllOf) String() string {
	return combinatorString("all", p.Preds)
}

func (p AnyOf) String() string {
	return combinatorString("any", p.Preds)
}

func (p Not) String() string {
	if p.Pred == nil {
		return "not()"
	}
	return "not(" + p.Pred.String() + ")"
}

func combinatorString(name string, preds []Predicate) string {
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		parts = append(parts, p.String())
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
}
