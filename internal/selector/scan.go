package selector

import "unicode/utf8"

// scanner is a byte-position lexer over selector text. Multi-byte runes
// matter only inside identifiers, which scanIdent decodes as needed.
type scanner struct {
	src string
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) runeAt(off int) rune {
	if s.pos+off >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.pos+off:])
	return r
}

// skipSpace consumes CSS whitespace and reports whether any was present.
func (s *scanner) skipSpace() bool {
	start := s.pos
	for !s.eof() && isSpace(s.src[s.pos]) {
		s.pos++
	}
	return s.pos > start
}

// scanCombinator consumes an explicit combinator token if one is next.
func (s *scanner) scanCombinator() (Combinator, bool) {
	switch s.peek() {
	case '>':
		s.pos++
		return CombinatorChild, true
	case '+':
		s.pos++
		return CombinatorNextSibling, true
	case '~':
		s.pos++
		return CombinatorSubsequentSibling, true
	case '|':
		if s.peekAt(1) == '|' {
			s.pos += 2
			return CombinatorColumn, true
		}
	}
	return CombinatorNone, false
}

func (s *scanner) atIdentStart() bool {
	switch s.peek() {
	case 0:
		return false
	case '\\':
		return s.pos+1 < len(s.src)
	case '-':
		n := s.peekAt(1)
		if n == '-' || n == '\\' {
			return true
		}
		return isNameStart(s.runeAt(1))
	}
	return isNameStart(s.runeAt(0))
}

// scanIdent reads a CSS identifier, keeping backslash escapes as written.
func (s *scanner) scanIdent() (string, bool) {
	if !s.atIdentStart() {
		return "", false
	}
	start := s.pos
	if s.peek() == '-' {
		s.pos++
	}
	for !s.eof() {
		if s.src[s.pos] == '\\' {
			if s.pos+1 >= len(s.src) {
				break
			}
			s.pos++
			_, size := utf8.DecodeRuneInString(s.src[s.pos:])
			s.pos += size
			continue
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isName(r) {
			break
		}
		s.pos += size
	}
	if s.pos == start {
		return "", false
	}
	return s.src[start:s.pos], true
}

// scanString reads a quoted string, returning it with the quotes on. On
// failure the position is restored to the opening quote.
func (s *scanner) scanString() (string, bool) {
	start := s.pos
	quote := s.src[s.pos]
	s.pos++
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
		case quote:
			s.pos++
			return s.src[start:s.pos], true
		default:
			s.pos++
		}
	}
	s.pos = start
	return "", false
}

// scanBalanced consumes a parenthesized payload, returning the text between
// the parentheses. Nested parentheses and quoted strings are honored.
func (s *scanner) scanBalanced() (string, *syntaxError) {
	open := s.pos
	s.pos++ // (
	start := s.pos
	depth := 1
	for !s.eof() {
		switch s.src[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '"', '\'':
			if _, ok := s.scanString(); !ok {
				return "", &syntaxError{pos: s.pos, msg: "unterminated string"}
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				raw := s.src[start:s.pos]
				s.pos++
				return raw, nil
			}
		}
		s.pos++
	}
	return "", &syntaxError{pos: open, msg: "unbalanced parentheses"}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// isNameStart reports whether r can begin a CSS identifier.
func isNameStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_' || r >= 0x80
}

// isName reports whether r can continue a CSS identifier.
func isName(r rune) bool {
	return isNameStart(r) || (r >= '0' && r <= '9') || r == '-'
}
