// Package selector parses CSS selectors and computes their specificity.
package selector

import (
	"fmt"
	"strings"
)

// SelectorList is a comma-separated group of selectors, e.g. "h1, .title".
type SelectorList []Selector

// Selector is one complex selector: compound selectors joined by
// combinators. The first compound has CombinatorNone, except for relative
// selectors inside functional pseudo-classes like :has(> img).
type Selector struct {
	Compounds []CompoundSelector
}

// CompoundSelector is a run of simple selectors with no whitespace between
// them, plus the combinator attaching it to the previous compound.
type CompoundSelector struct {
	Combinator Combinator
	Simples    []SimpleSelector
}

// Combinator joins two compound selectors.
type Combinator int

const (
	CombinatorNone Combinator = iota
	CombinatorDescendant
	CombinatorChild             // >
	CombinatorNextSibling       // +
	CombinatorSubsequentSibling // ~
	CombinatorColumn            // ||
)

// String returns the combinator token, " " for descendant, "" for none.
func (c Combinator) String() string {
	switch c {
	case CombinatorDescendant:
		return " "
	case CombinatorChild:
		return ">"
	case CombinatorNextSibling:
		return "+"
	case CombinatorSubsequentSibling:
		return "~"
	case CombinatorColumn:
		return "||"
	}
	return ""
}

// SimpleSelector is implemented by all simple selector variants.
type SimpleSelector interface {
	simple()
	String() string
}

func (TypeSelector) simple()          {}
func (Universal) simple()             {}
func (IDSelector) simple()            {}
func (ClassSelector) simple()         {}
func (AttributeSelector) simple()     {}
func (PseudoClassSelector) simple()   {}
func (PseudoElementSelector) simple() {}

// TypeSelector matches an element name, e.g. "div".
type TypeSelector struct {
	Name string
}

// Universal is the "*" selector.
type Universal struct{}

// IDSelector matches an id attribute, e.g. "#header".
type IDSelector struct {
	Name string
}

// ClassSelector matches a class attribute, e.g. ".card".
type ClassSelector struct {
	Name string
}

// AttributeSelector matches on an attribute, e.g. [href^="https" i].
type AttributeSelector struct {
	Name  string
	Op    string // "", =, ~=, |=, ^=, $=, *=
	Value string // as written, quotes included
	Flag  string // "", i, s
}

// PseudoClassSelector is a pseudo-class, functional or not. Args holds the
// parsed selector arguments for the forms that take them (:not, :is,
// :where, :has, and the "of S" clause of :nth-child/:nth-last-child);
// other functional pseudo-classes keep only RawArgs.
type PseudoClassSelector struct {
	Name    string       // as written, e.g. "nth-child"
	Func    bool         // written with parentheses
	RawArgs string       // text between the parentheses, verbatim
	Args    SelectorList // nil when the payload has no selector arguments
}

// PseudoElementSelector is a pseudo-element, e.g. ::before. The four
// CSS2-era names (before, after, first-line, first-letter) may be written
// with a single colon; Legacy records that spelling.
type PseudoElementSelector struct {
	Name    string
	Legacy  bool
	Func    bool   // written with parentheses, e.g. ::slotted(...)
	RawArgs string // text between the parentheses, verbatim
}

func (s TypeSelector) String() string  { return s.Name }
func (Universal) String() string       { return "*" }
func (s IDSelector) String() string    { return "#" + s.Name }
func (s ClassSelector) String() string { return "." + s.Name }

func (s AttributeSelector) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(s.Name)
	if s.Op != "" {
		b.WriteString(s.Op)
		b.WriteString(s.Value)
	}
	if s.Flag != "" {
		b.WriteByte(' ')
		b.WriteString(s.Flag)
	}
	b.WriteByte(']')
	return b.String()
}

func (s PseudoClassSelector) String() string {
	if !s.Func {
		return ":" + s.Name
	}
	return ":" + s.Name + "(" + s.RawArgs + ")"
}

func (s PseudoElementSelector) String() string {
	colons := "::"
	if s.Legacy {
		colons = ":"
	}
	if !s.Func {
		return colons + s.Name
	}
	return colons + s.Name + "(" + s.RawArgs + ")"
}

func (c CompoundSelector) String() string {
	var b strings.Builder
	for _, s := range c.Simples {
		b.WriteString(s.String())
	}
	return b.String()
}

// String serializes the selector back to CSS text. Reparsing the result
// yields an equal specificity.
func (s Selector) String() string {
	var b strings.Builder
	for i, c := range s.Compounds {
		switch {
		case i == 0 && c.Combinator == CombinatorNone:
		case i == 0:
			b.WriteString(c.Combinator.String())
			b.WriteByte(' ')
		case c.Combinator == CombinatorDescendant:
			b.WriteByte(' ')
		default:
			b.WriteByte(' ')
			b.WriteString(c.Combinator.String())
			b.WriteByte(' ')
		}
		b.WriteString(c.String())
	}
	return b.String()
}

func (l SelectorList) String() string {
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = s.String()
	}
	return strings.Join(parts, ", ")
}

// ParseError describes one selector that could not be parsed. Other
// selectors in the same list are unaffected.
type ParseError struct {
	Selector string // selector text as written
	Offset   int    // byte offset of the failure within Selector
	Message  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parsing %q: %s", e.Selector, e.Message)
}
