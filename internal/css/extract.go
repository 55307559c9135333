// Package css pulls selector text out of stylesheet source. It knows just
// enough CSS structure to find rule preludes: braces, strings, comments
// and at-rules. Selector grammar lives elsewhere.
package css

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RawSelector is candidate selector text found ahead of a declaration
// block, before any selector parsing.
type RawSelector struct {
	Text   string // trimmed prelude text, comments stripped
	Offset int    // byte offset of the first rune of Text in the source
	Line   int    // 1-based line of the first rune of Text
}

// MalformedInputError reports structurally broken CSS: unbalanced braces or
// an unterminated string. Extraction stops at the first such defect.
type MalformedInputError struct {
	Reason string
	Offset int
	Line   int
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed css at line %d (offset %d): %s", e.Line, e.Offset, e.Reason)
}

// Extractor scans stylesheet source for selectors.
type Extractor struct {
	log *zap.Logger
}

// NewExtractor returns an Extractor. A nil logger disables debug tracing.
func NewExtractor(log *zap.Logger) *Extractor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Extractor{log: log.Named("css")}
}

var defaultExtractor = NewExtractor(nil)

// Extract scans src and returns every candidate selector in source order.
func Extract(src string) ([]RawSelector, error) { return defaultExtractor.Extract(src) }

// Extract scans src in a single pass. Text accumulated since the last
// block or statement boundary becomes a candidate when a '{' opens;
// at-rule preludes are dropped but their bodies are scanned, so rules
// nested under @media and friends are still found.
func (e *Extractor) Extract(src string) ([]RawSelector, error) {
	var (
		out       []RawSelector
		buf       strings.Builder
		candOff   = -1 // offset of the first non-space rune in buf
		candLine  int
		line      = 1
		inComment bool
		quote     byte // active string quote, 0 outside strings
		strOff    int
		strLine   int
		opens     []int // offsets of unmatched '{'
		openLines []int
	)
	reset := func() {
		buf.Reset()
		candOff = -1
	}
	mark := func(i int) {
		if candOff < 0 {
			candOff = i
			candLine = line
		}
	}

	for i := 0; i < len(src); i++ {
		b := src[i]
		switch {
		case inComment:
			if b == '*' && i+1 < len(src) && src[i+1] == '/' {
				inComment = false
				i++
			}
		case quote != 0:
			buf.WriteByte(b)
			if b == '\\' && i+1 < len(src) {
				buf.WriteByte(src[i+1])
				if src[i+1] == '\n' {
					line++
				}
				i++
			} else if b == quote {
				quote = 0
			}
		case b == '/' && i+1 < len(src) && src[i+1] == '*':
			inComment = true
			i++
		case b == '"' || b == '\'':
			quote = b
			strOff, strLine = i, line
			mark(i)
			buf.WriteByte(b)
		case b == '{':
			cand := strings.Trim(buf.String(), " \t\r\n\f")
			if cand != "" && !strings.HasPrefix(cand, "@") {
				out = append(out, RawSelector{Text: cand, Offset: candOff, Line: candLine})
			}
			opens = append(opens, i)
			openLines = append(openLines, line)
			reset()
		case b == '}':
			if len(opens) == 0 {
				return nil, &MalformedInputError{Reason: "unbalanced closing brace", Offset: i, Line: line}
			}
			opens = opens[:len(opens)-1]
			openLines = openLines[:len(openLines)-1]
			reset()
		case b == ';':
			reset()
		default:
			if !isSpace(b) {
				mark(i)
			}
			buf.WriteByte(b)
		}
		if b == '\n' {
			line++
		}
	}

	if quote != 0 {
		return nil, &MalformedInputError{Reason: "unterminated string", Offset: strOff, Line: strLine}
	}
	if n := len(opens); n > 0 {
		return nil, &MalformedInputError{Reason: "unclosed block", Offset: opens[n-1], Line: openLines[n-1]}
	}
	e.log.Debug("extracted selectors", zap.Int("count", len(out)), zap.Int("bytes", len(src)))
	return out, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}
