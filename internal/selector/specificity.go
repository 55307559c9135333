package selector

import (
	"fmt"
	"strconv"
	"strings"
)

// Specificity is the W3C selector specificity 4-tuple. Inline is never set
// by the parser; it exists for callers scoring style="" contexts.
type Specificity struct {
	Inline  int
	IDs     int
	Classes int
	Types   int
}

// Tuple returns the components in comparison order.
func (s Specificity) Tuple() [4]int {
	return [4]int{s.Inline, s.IDs, s.Classes, s.Types}
}

func (s Specificity) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", s.Inline, s.IDs, s.Classes, s.Types)
}

// Compare orders two specificities lexicographically, returning -1, 0 or 1.
// A single ID outweighs any number of classes.
func (s Specificity) Compare(other Specificity) int {
	a, b := s.Tuple(), other.Tuple()
	for i := range a {
		if a[i] != b[i] {
			if a[i] > b[i] {
				return 1
			}
			return -1
		}
	}
	return 0
}

// Exceeds reports whether s is strictly more specific than the threshold.
// Equality is not a violation.
func (s Specificity) Exceeds(threshold Specificity) bool {
	return s.Compare(threshold) > 0
}

// Add sums component-wise.
func (s Specificity) Add(other Specificity) Specificity {
	return Specificity{
		Inline:  s.Inline + other.Inline,
		IDs:     s.IDs + other.IDs,
		Classes: s.Classes + other.Classes,
		Types:   s.Types + other.Types,
	}
}

// Max returns the lexicographically larger of the two.
func (s Specificity) Max(other Specificity) Specificity {
	if s.Compare(other) >= 0 {
		return s
	}
	return other
}

// ParseSpecificity parses the "a,b,c,d" form used for thresholds.
func ParseSpecificity(s string) (Specificity, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Specificity{}, fmt.Errorf("specificity %q: want four comma-separated integers", s)
	}
	var vals [4]int
	for i, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			return Specificity{}, fmt.Errorf("specificity %q: component %q is not an integer", s, part)
		}
		if n < 0 {
			return Specificity{}, fmt.Errorf("specificity %q: component %d is negative", s, n)
		}
		vals[i] = n
	}
	return Specificity{Inline: vals[0], IDs: vals[1], Classes: vals[2], Types: vals[3]}, nil
}

// Calculate computes the specificity of one complex selector. It is total:
// every parsed selector has a specificity.
//
// IDs count on the second component; classes, attribute selectors and
// pseudo-classes on the third; type selectors and pseudo-elements on the
// fourth. The universal selector and combinators count nothing. :where()
// is always zero. :not(), :is(), :has() and the "of S" clause of the nth
// pseudo-classes take the specificity of their most specific argument.
func Calculate(sel Selector) Specificity {
	var sp Specificity
	for _, c := range sel.Compounds {
		for _, s := range c.Simples {
			sp = sp.Add(simpleSpecificity(s))
		}
	}
	return sp
}

func simpleSpecificity(s SimpleSelector) Specificity {
	switch s := s.(type) {
	case IDSelector:
		return Specificity{IDs: 1}
	case ClassSelector:
		return Specificity{Classes: 1}
	case AttributeSelector:
		return Specificity{Classes: 1}
	case PseudoClassSelector:
		return pseudoClassSpecificity(s)
	case TypeSelector:
		return Specificity{Types: 1}
	case PseudoElementSelector:
		return Specificity{Types: 1}
	}
	return Specificity{}
}

func pseudoClassSpecificity(s PseudoClassSelector) Specificity {
	switch strings.ToLower(s.Name) {
	case "where":
		return Specificity{}
	case "not", "is", "has", "nth-child", "nth-last-child":
		// An empty argument list, or an nth form without an "of" clause,
		// counts like an ordinary pseudo-class.
		if len(s.Args) == 0 {
			return Specificity{Classes: 1}
		}
		var max Specificity
		for _, arg := range s.Args {
			max = max.Max(Calculate(arg))
		}
		return max
	}
	return Specificity{Classes: 1}
}
