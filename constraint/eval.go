package constraint

import (
	"fmt"

	"github.com/hpcforge/go-buildplan/version"
)

// Facts are the concrete properties of one build configuration that
// predicates are evaluated against.
type Facts struct {
	// CompilerName is the compiler family, e.g. "gcc".
	CompilerName string

	// CompilerVersion is the compiler release, e.g. "12.1.0".
	CompilerVersion string

	// Platform is the target platform identifier, e.g. "linux".
	Platform string

	// Variants maps variant names to their assigned values. Boolean
	// variants carry "true"/"false".
	Variants map[string]string
}

// Rule is one declared conflict: a predicate that, when satisfied, makes the
// configuration invalid.
type Rule struct {
	// When is the condition that triggers the conflict.
	When Predicate

	// Message explains the conflict to the user.
	Message string
}

// Violation records one triggered conflict rule.
type Violation struct {
	// Recipe names the recipe whose rule fired.
	Recipe string

	// Rule is the rule that fired.
	Rule Rule
}

func (v Violation) String() string {
	msg := v.Rule.Message
	if msg == "" {
		msg = "conflicts with " + v.Rule.When.String()
	}
	if v.Recipe == "" {
		return msg
	}
	return v.Recipe + ": " + msg
}

// Eval evaluates a predicate against the given facts.
//
// It returns an error only for malformed predicates (nil members or an
// unparseable version constraint), never for a plain non-match.
func Eval(p Predicate, f Facts) (bool, error) {
	switch p := p.(type) {
	case CompilerRange:
		return evalCompilerRange(p, f)
	case PlatformIs:
		return f.Platform == p.Platform, nil
	case VariantIs:
		return f.Variants[p.Name] == p.Value, nil
	case AllOf:
		for _, member := range p.Preds {
			ok, err := Eval(member, f)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case AnyOf:
		for _, member := range p.Preds {
			ok, err := Eval(member, f)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case Not:
		if p.Pred == nil {
			return false, fmt.Errorf("constraint: not() with nil predicate")
		}
		ok, err := Eval(p.Pred, f)
		if err != nil {
			return false, err
		}
		return !ok, nil
	case nil:
		return false, fmt.Errorf("constraint: nil predicate")
	default:
		return false, fmt.Errorf("constraint: unknown predicate type %T", p)
	}
}

func evalCompilerRange(p CompilerRange, f Facts) (bool, error) {
	if f.CompilerName != p.Compiler {
		return false, nil
	}
	if p.Constraint == "" {
		return true, nil
	}
	c, err := version.ParseConstraint(p.Constraint)
	if err != nil {
		return false, err
	}
	v, err := version.Parse(f.CompilerVersion)
	if err != nil {
		// Unparseable compiler version cannot be range-matched.
		return false, nil
	}
	return version.Satisfies(v, c), nil
}

// CheckRules evaluates every rule in declaration order against f and returns
// all violations. Evaluation does not short-circuit: the caller receives the
// complete failure set.
func CheckRules(recipe string, rules []Rule, f Facts) ([]Violation, error) {
	var violations []Violation
	for _, rule := range rules {
		ok, err := Eval(rule.When, f)
		if err != nil {
			return nil, fmt.Errorf("constraint: rule %q of %s: %w", rule.Message, recipe, err)
		}
		if ok {
			violations = append(violations, Violation{Recipe: recipe, Rule: rule})
		}
	}
	return violations, nil
}
