// Package version implements parsing and comparison of recipe versions and
// the version constraints that dependency edges carry.
//
// Recipe versions come in two shapes: fixed release identifiers ("0.2.0",
// "2021.10") and floating branch references ("main", "develop"). Only fixed
// identifiers participate in constraint matching; a branch reference never
// satisfies a non-empty constraint because its contents are unknown until
// build time.
//
// This is a thin wrapper around github.com/Masterminds/semver/v3.
package version

import (
	"fmt"

	mm "github.com/Masterminds/semver/v3"
)

// Version is a parsed fixed release identifier.
type Version struct {
	v *mm.Version
}

// Constraint is a version constraint as written on a dependency edge.
//
// Examples:
//   - ">=3.12"
//   - ">=1.2.0 <2.0.0"
//   - "^1.0.0"
//   - "~1.4"
type Constraint struct {
	c *mm.Constraints
}

// Parse parses a fixed release identifier. Identifiers with fewer than three
// segments ("3.12", "2021") are accepted the way most packaging ecosystems
// accept them; missing segments are treated as zero.
func Parse(raw string) (Version, error) {
	v, err := mm.NewVersion(raw)
	if err != nil {
		return Version{}, fmt.Errorf("version: parse %q: %w", raw, err)
	}
	return Version{v: v}, nil
}

// MustParse is like Parse but panics on invalid input. For tests and
// compile-time constants only.
func MustParse(raw string) Version {
	v, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseConstraint parses a constraint expression.
func ParseConstraint(raw string) (Constraint, error) {
	c, err := mm.NewConstraint(raw)
	if err != nil {
		return Constraint{}, fmt.Errorf("version: parse constraint %q: %w", raw, err)
	}
	return Constraint{c: c}, nil
}

// MustParseConstraint is like ParseConstraint but panics on invalid input.
func MustParseConstraint(raw string) Constraint {
	c, err := ParseConstraint(raw)
	if err != nil {
		panic(err)
	}
	return c
}

// String returns the canonical form of the version.
func (v Version) String() string {
	if v.v == nil {
		return ""
	}
	return v.v.Original()
}

// IsZero reports whether v is the zero Version (no parsed value).
func (v Version) IsZero() bool {
	return v.v == nil
}

// Satisfies reports whether v satisfies c.
func Satisfies(v Version, c Constraint) bool {
	if v.v == nil || c.c == nil {
		return false
	}
	return c.c.Check(v.v)
}

// Compare compares a and b, returning:
//
//	-1 if a < b
//	 0 if a == b
//	 1 if a > b
//
// A zero Version sorts below any parsed version.
func Compare(a, b Version) int {
	if a.v == nil && b.v == nil {
		return 0
	}
	if a.v == nil {
		return -1
	}
	if b.v == nil {
		return 1
	}
	return a.v.Compare(b.v)
}

// MaxSatisfying returns the highest version in candidates that satisfies c.
//
// If multiple versions compare equal, the first encountered wins.
func MaxSatisfying(c Constraint, candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !Satisfies(candidate, c) {
			continue
		}
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}

// Max returns the highest version in candidates, or a zero Version when
// candidates is empty.
func Max(candidates []Version) (Version, bool) {
	var best Version
	found := false
	for _, candidate := range candidates {
		if !found || Compare(candidate, best) > 0 {
			best = candidate
			found = true
		}
	}
	return best, found
}
