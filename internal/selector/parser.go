package selector

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Parser turns selector text into Selector values. The zero value is not
// usable; construct with NewParser.
type Parser struct {
	log *zap.Logger
}

// NewParser returns a Parser. A nil logger disables debug tracing.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("selector")}
}

var defaultParser = NewParser(nil)

// ParseList parses a comma-separated selector group. Each selector parses
// independently: a malformed selector becomes a ParseError and its siblings
// still come back in order.
func ParseList(s string) (SelectorList, []ParseError) { return defaultParser.ParseList(s) }

// Parse parses exactly one selector.
func Parse(s string) (Selector, error) { return defaultParser.Parse(s) }

func (p *Parser) ParseList(s string) (SelectorList, []ParseError) {
	var list SelectorList
	var errs []ParseError
	for _, seg := range splitTop(s) {
		sel, err := p.parseOne(seg.text, false)
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		list = append(list, sel)
	}
	p.log.Debug("parsed selector list",
		zap.Int("selectors", len(list)),
		zap.Int("errors", len(errs)))
	return list, errs
}

func (p *Parser) Parse(s string) (Selector, error) {
	sel, err := p.parseOne(strings.TrimSpace(s), false)
	if err != nil {
		return Selector{}, *err
	}
	return sel, nil
}

// parseOne parses a single complex selector. relative permits a leading
// combinator, as in the arguments of :has().
func (p *Parser) parseOne(text string, relative bool) (Selector, *ParseError) {
	s := &scanner{src: text}
	sel, err := p.parseComplex(s, relative, false)
	if err == nil && !s.eof() {
		err = &syntaxError{pos: s.pos, msg: fmt.Sprintf("unexpected character %q", s.src[s.pos])}
	}
	if err != nil {
		pe := &ParseError{Selector: text, Offset: err.pos, Message: err.msg}
		p.log.Debug("selector rejected",
			zap.String("selector", text),
			zap.Int("offset", err.pos),
			zap.String("reason", err.msg))
		return Selector{}, pe
	}
	return sel, nil
}

type syntaxError struct {
	pos int
	msg string
}

func (e *syntaxError) Error() string { return e.msg }

// parseComplex reads compound selectors and combinators until the end of
// input, or until a top-level ',' or ')' when nested inside a functional
// pseudo-class. The scanner is left on the terminating character.
func (p *Parser) parseComplex(s *scanner, relative, nested bool) (Selector, *syntaxError) {
	s.skipSpace()
	if s.eof() || (nested && (s.peek() == ',' || s.peek() == ')')) {
		return Selector{}, &syntaxError{pos: s.pos, msg: "empty selector"}
	}

	var sel Selector
	comb := CombinatorNone
	combPos := s.pos
	if c, ok := s.scanCombinator(); ok {
		if !relative {
			return Selector{}, &syntaxError{pos: combPos, msg: "leading combinator"}
		}
		comb = c
		s.skipSpace()
		if s.eof() || (nested && (s.peek() == ',' || s.peek() == ')')) {
			return Selector{}, &syntaxError{pos: s.pos, msg: "trailing combinator"}
		}
	}

	for {
		compound, err := p.parseCompound(s)
		if err != nil {
			return Selector{}, err
		}
		sel.Compounds = append(sel.Compounds, CompoundSelector{Combinator: comb, Simples: compound})

		sawSpace := s.skipSpace()
		if s.eof() || (nested && (s.peek() == ',' || s.peek() == ')')) {
			return sel, nil
		}
		if c, ok := s.scanCombinator(); ok {
			comb = c
			s.skipSpace()
			if s.eof() || (nested && (s.peek() == ',' || s.peek() == ')')) {
				return Selector{}, &syntaxError{pos: s.pos, msg: "trailing combinator"}
			}
		} else if sawSpace {
			comb = CombinatorDescendant
		} else {
			return Selector{}, &syntaxError{pos: s.pos, msg: fmt.Sprintf("unexpected character %q", s.peek())}
		}
	}
}

// parseCompound reads a run of simple selectors with no whitespace between
// them. At least one simple selector is required.
func (p *Parser) parseCompound(s *scanner) ([]SimpleSelector, *syntaxError) {
	var simples []SimpleSelector
	for !s.eof() {
		var sim SimpleSelector
		var err *syntaxError
		switch b := s.peek(); {
		case b == '*':
			s.pos++
			sim = Universal{}
		case b == '.':
			s.pos++
			name, ok := s.scanIdent()
			if !ok {
				return nil, &syntaxError{pos: s.pos, msg: "expected identifier after '.'"}
			}
			sim = ClassSelector{Name: name}
		case b == '#':
			s.pos++
			name, ok := s.scanIdent()
			if !ok {
				return nil, &syntaxError{pos: s.pos, msg: "expected identifier after '#'"}
			}
			sim = IDSelector{Name: name}
		case b == '[':
			sim, err = p.parseAttribute(s)
		case b == ':':
			sim, err = p.parsePseudo(s)
		case s.atIdentStart():
			name, ok := s.scanIdent()
			if !ok {
				return nil, &syntaxError{pos: s.pos, msg: "invalid identifier"}
			}
			sim = TypeSelector{Name: name}
		default:
			if len(simples) == 0 {
				return nil, &syntaxError{pos: s.pos, msg: fmt.Sprintf("unexpected character %q", b)}
			}
			return simples, nil
		}
		if err != nil {
			return nil, err
		}
		simples = append(simples, sim)
	}
	if len(simples) == 0 {
		return nil, &syntaxError{pos: s.pos, msg: "empty selector"}
	}
	return simples, nil
}

// parseAttribute reads an attribute selector from the opening '[' to the
// matching ']'. The matcher value keeps its source quoting.
func (p *Parser) parseAttribute(s *scanner) (SimpleSelector, *syntaxError) {
	open := s.pos
	s.pos++ // [
	s.skipSpace()
	name, ok := s.scanIdent()
	if !ok {
		return nil, &syntaxError{pos: s.pos, msg: "expected attribute name"}
	}
	attr := AttributeSelector{Name: name}
	s.skipSpace()
	if s.eof() {
		return nil, &syntaxError{pos: open, msg: "unbalanced brackets"}
	}
	if s.peek() == ']' {
		s.pos++
		return attr, nil
	}

	switch b := s.peek(); b {
	case '=':
		attr.Op = "="
		s.pos++
	case '~', '|', '^', '$', '*':
		if s.peekAt(1) != '=' {
			return nil, &syntaxError{pos: s.pos, msg: fmt.Sprintf("invalid attribute operator %q", b)}
		}
		attr.Op = string(b) + "="
		s.pos += 2
	default:
		return nil, &syntaxError{pos: s.pos, msg: fmt.Sprintf("expected attribute operator or ']', found %q", b)}
	}

	s.skipSpace()
	if s.peek() == '"' || s.peek() == '\'' {
		val, ok := s.scanString()
		if !ok {
			return nil, &syntaxError{pos: s.pos, msg: "unterminated string"}
		}
		attr.Value = val
	} else {
		val, ok := s.scanIdent()
		if !ok {
			return nil, &syntaxError{pos: s.pos, msg: "expected attribute value"}
		}
		attr.Value = val
	}

	s.skipSpace()
	if s.atIdentStart() {
		flag, _ := s.scanIdent()
		if !strings.EqualFold(flag, "i") && !strings.EqualFold(flag, "s") {
			return nil, &syntaxError{pos: s.pos, msg: fmt.Sprintf("invalid attribute flag %q", flag)}
		}
		attr.Flag = flag
		s.skipSpace()
	}
	if s.eof() || s.peek() != ']' {
		return nil, &syntaxError{pos: open, msg: "unbalanced brackets"}
	}
	s.pos++
	return attr, nil
}

// legacyPseudoElements are the CSS2 pseudo-elements that may be written
// with a single colon.
var legacyPseudoElements = map[string]bool{
	"before":       true,
	"after":        true,
	"first-line":   true,
	"first-letter": true,
}

func (p *Parser) parsePseudo(s *scanner) (SimpleSelector, *syntaxError) {
	s.pos++ // :
	element := false
	if s.peek() == ':' {
		s.pos++
		element = true
	}
	name, ok := s.scanIdent()
	if !ok {
		return nil, &syntaxError{pos: s.pos, msg: "expected identifier after ':'"}
	}

	if s.peek() != '(' {
		if element {
			return PseudoElementSelector{Name: name}, nil
		}
		if legacyPseudoElements[strings.ToLower(name)] {
			return PseudoElementSelector{Name: name, Legacy: true}, nil
		}
		return PseudoClassSelector{Name: name}, nil
	}

	if element {
		raw, err := s.scanBalanced()
		if err != nil {
			return nil, err
		}
		return PseudoElementSelector{Name: name, Func: true, RawArgs: raw}, nil
	}

	switch strings.ToLower(name) {
	case "not", "is", "where", "has":
		return p.parseForwardingArgs(s, name)
	case "nth-child", "nth-last-child":
		return p.parseNthArgs(s, name)
	}
	raw, err := s.scanBalanced()
	if err != nil {
		return nil, err
	}
	return PseudoClassSelector{Name: name, Func: true, RawArgs: raw}, nil
}

// parseForwardingArgs parses the argument list of :not(), :is(), :where()
// and :has() in place, so error offsets stay relative to the enclosing
// selector. Arguments may be relative selectors.
func (p *Parser) parseForwardingArgs(s *scanner, name string) (SimpleSelector, *syntaxError) {
	s.pos++ // (
	start := s.pos
	s.skipSpace()
	if s.eof() {
		return nil, &syntaxError{pos: start - 1, msg: "unbalanced parentheses"}
	}
	if s.peek() == ')' {
		raw := s.src[start:s.pos]
		s.pos++
		return PseudoClassSelector{Name: name, Func: true, RawArgs: raw}, nil
	}

	var args SelectorList
	for {
		sel, err := p.parseComplex(s, true, true)
		if err != nil {
			return nil, err
		}
		args = append(args, sel)
		if s.eof() {
			return nil, &syntaxError{pos: start - 1, msg: "unbalanced parentheses"}
		}
		if s.peek() == ',' {
			s.pos++
			continue
		}
		rawEnd := s.pos
		s.pos++ // )
		return PseudoClassSelector{Name: name, Func: true, RawArgs: s.src[start:rawEnd], Args: args}, nil
	}
}

var anbPattern = regexp.MustCompile(`(?i)^(odd|even|[+-]?\d+|[+-]?\d*n(\s*[+-]\s*\d+)?)$`)

// parseNthArgs handles :nth-child() and :nth-last-child(). The An+B step
// is validated but contributes nothing; a trailing "of S" clause parses as
// a selector list. Without an "of" clause the pseudo-class is ordinary.
func (p *Parser) parseNthArgs(s *scanner, name string) (SimpleSelector, *syntaxError) {
	open := s.pos
	raw, err := s.scanBalanced()
	if err != nil {
		return nil, err
	}
	base := open + 1

	anb, rest, ofIdx := splitNth(raw)
	if !anbPattern.MatchString(strings.TrimSpace(anb)) {
		return nil, &syntaxError{pos: base, msg: fmt.Sprintf("invalid An+B expression %q", strings.TrimSpace(anb))}
	}
	if ofIdx < 0 {
		return PseudoClassSelector{Name: name, Func: true, RawArgs: raw}, nil
	}

	trimmed := strings.TrimLeft(rest, " \t\n\r\f")
	if trimmed == "" {
		return nil, &syntaxError{pos: base + len(raw), msg: "missing selector list after \"of\""}
	}
	restBase := base + ofIdx + len("of") + (len(rest) - len(trimmed))

	var args SelectorList
	for _, seg := range splitTop(trimmed) {
		sub := &scanner{src: seg.text}
		sel, serr := p.parseComplex(sub, true, false)
		if serr == nil && !sub.eof() {
			serr = &syntaxError{pos: sub.pos, msg: fmt.Sprintf("unexpected character %q", sub.src[sub.pos])}
		}
		if serr != nil {
			return nil, &syntaxError{pos: restBase + seg.base + serr.pos, msg: serr.msg}
		}
		args = append(args, sel)
	}
	return PseudoClassSelector{Name: name, Func: true, RawArgs: raw, Args: args}, nil
}

// splitNth splits an nth payload at the first top-level "of" keyword.
// ofIdx is -1 when the payload has no "of" clause.
func splitNth(raw string) (anb, rest string, ofIdx int) {
	depth := 0
	var quote byte
	for i := 0; i < len(raw); i++ {
		b := raw[i]
		switch {
		case quote != 0:
			if b == '\\' {
				i++
			} else if b == quote {
				quote = 0
			}
		case b == '"' || b == '\'':
			quote = b
		case b == '(' || b == '[':
			depth++
		case b == ')' || b == ']':
			depth--
		case depth == 0 && (b == 'o' || b == 'O') && i+1 < len(raw):
			if raw[i+1] != 'f' && raw[i+1] != 'F' {
				continue
			}
			before := i == 0 || isSpace(raw[i-1])
			after := i+2 == len(raw) || isSpace(raw[i+2])
			if before && after {
				return raw[:i], raw[i+2:], i
			}
		}
	}
	return raw, "", -1
}

// span is a substring and its byte offset within the parent string.
type span struct {
	text string
	base int
}

// splitTop splits selector text on top-level commas, honoring parentheses,
// brackets, quotes and backslash escapes. Segments come back trimmed, with
// base adjusted past the leading whitespace. n commas yield n+1 segments,
// empty ones included.
func splitTop(s string) []span {
	var spans []span
	depth := 0
	var quote byte
	start := 0
	emit := func(end int) {
		text := s[start:end]
		trimmed := strings.TrimLeft(text, " \t\n\r\f")
		base := start + (len(text) - len(trimmed))
		spans = append(spans, span{text: strings.TrimRight(trimmed, " \t\n\r\f"), base: base})
	}
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case quote != 0:
			if b == '\\' {
				i++
			} else if b == quote {
				quote = 0
			}
		case b == '\\':
			i++
		case b == '"' || b == '\'':
			quote = b
		case b == '(' || b == '[':
			depth++
		case b == ')' || b == ']':
			depth--
		case b == ',' && depth == 0:
			emit(i)
			start = i + 1
		}
	}
	emit(len(s))
	return spans
}
