// Package pattern provides the match rules used to decide whether a load
// handler applies to a resource path, and first-class composition of several
// rules into a single superset filter for group dispatch.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a compiled match rule. The zero value matches nothing; use
// Compile or MustCompile to build one. Patterns are immutable after
// construction.
type Pattern struct {
	re  *regexp.Regexp
	src string
}

// Compile builds a Pattern from a regular expression source.
func Compile(src string) (Pattern, error) {
	if src == "" {
		return Pattern{}, fmt.Errorf("pattern source is empty")
	}
	re, err := regexp.Compile(src)
	if err != nil {
		return Pattern{}, fmt.Errorf("compiling pattern %q: %w", src, err)
	}
	return Pattern{re: re, src: src}, nil
}

// MustCompile is Compile for statically known patterns; it panics on error.
func MustCompile(src string) Pattern {
	p, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return p
}

// Match reports whether path satisfies the rule.
func (p Pattern) Match(path string) bool {
	return p.re != nil && p.re.MatchString(path)
}

// Source returns the original rule text.
func (p Pattern) Source() string { return p.src }

// IsZero reports whether the pattern was never compiled.
func (p Pattern) IsZero() bool { return p.re == nil }

// Or combines rules into one rule matching any operand, used as the
// dispatch filter for a handler group. The result is a strict superset of
// every operand: a false negative here would silently keep a handler from
// running. A single operand is returned unchanged so single-member groups
// carry their member's rule verbatim. Operands are wrapped in non-capturing
// groups before alternation so operand precedence survives composition.
func Or(patterns ...Pattern) (Pattern, error) {
	switch len(patterns) {
	case 0:
		return Pattern{}, fmt.Errorf("no patterns to combine")
	case 1:
		if patterns[0].IsZero() {
			return Pattern{}, fmt.Errorf("cannot combine a zero pattern")
		}
		return patterns[0], nil
	}

	parts := make([]string, len(patterns))
	for i, p := range patterns {
		if p.IsZero() {
			return Pattern{}, fmt.Errorf("cannot combine a zero pattern")
		}
		parts[i] = "(?:" + p.src + ")"
	}
	return Compile(strings.Join(parts, "|"))
}
