// Package constraint implements conflict-rule evaluation for concrete build
// configurations.
//
// A conflict rule pairs a Predicate with a human-readable message. Predicates
// form a small closed language (compiler version range, platform equality,
// variant equality, and the all-of/any-of/not combinators) evaluated by an
// interpreter against a set of Facts. This keeps package-specific conflict
// logic declarative: the core never executes arbitrary per-package code.
//
// Rules are evaluated in declaration order and every violation is collected
// rather than stopping at the first, so callers always see the complete
// failure set for a configuration.
package constraint
