// Package parser turns templated SQL into a segment tree.
//
// The Lexer splits the templated text into positioned raw segments; the
// Parser groups them into statements and bracketed expressions under a single
// file root.
package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/segment"
	"github.com/leapstack-labs/sqlint/pkg/templater"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// ErrNoTemplatedFile is returned when Lex is called without input.
var ErrNoTemplatedFile = errors.New("no templated file to lex")

var comparisonOperators = map[string]struct{}{
	"=": {}, "<>": {}, "!=": {}, "<": {}, ">": {}, "<=": {}, ">=": {}, "<=>": {},
}

// Lexer tokenizes templated SQL into raw segments.
type Lexer struct {
	dialect *dialect.Dialect
}

// NewLexer creates a lexer for the given dialect.
func NewLexer(d *dialect.Dialect) *Lexer {
	return &Lexer{dialect: d}
}

// element is one lexed token before it is positioned.
type element struct {
	typ        segment.Type
	start, end int
	errMsg     string
}

// Lex tokenizes the templated text of tf. Characters that cannot be
// classified become unlexable segments and are reported as violations; the
// returned segments always cover the whole templated text.
func (l *Lexer) Lex(tf *templater.TemplatedFile) ([]*segment.Segment, []*core.SQLLexError, error) {
	if tf == nil {
		return nil, nil, ErrNoTemplatedFile
	}

	sc := &scanner{input: tf.TemplatedStr, d: l.dialect}
	elements := sc.scan()

	segments := make([]*segment.Segment, 0, len(elements))
	var violations []*core.SQLLexError
	for _, el := range elements {
		ts := token.Slice{Start: el.start, Stop: el.end}
		ss := tf.TemplatedSliceToSourceSlice(ts)
		pos := tf.SourcePosition(ss.Start)
		marker := segment.PositionMarker{
			SourceSlice:    ss,
			TemplatedSlice: ts,
			Line:           pos.Line,
			Column:         pos.Column,
		}
		segments = append(segments, segment.NewRaw(el.typ, tf.TemplatedStr[el.start:el.end], marker))
		if el.errMsg != "" {
			violations = append(violations, core.NewLexError(el.errMsg, pos))
		}
	}
	return segments, violations, nil
}

// scanner walks the input byte by byte, decoding runes only for letters.
type scanner struct {
	input string
	pos   int
	d     *dialect.Dialect
}

func (s *scanner) scan() []element {
	var out []element
	for s.pos < len(s.input) {
		el := s.next()
		// Merge runs of unlexable characters into one element.
		if el.typ == segment.TypeUnlexable && el.errMsg == "" && len(out) > 0 {
			last := &out[len(out)-1]
			if last.typ == segment.TypeUnlexable && last.end == el.start {
				last.end = el.end
				last.errMsg = fmt.Sprintf(ErrUnlexable, s.input[last.start:last.end])
				continue
			}
		}
		if el.typ == segment.TypeUnlexable && el.errMsg == "" {
			el.errMsg = fmt.Sprintf(ErrUnlexable, s.input[el.start:el.end])
		}
		out = append(out, el)
	}
	return out
}

func (s *scanner) next() element {
	start := s.pos
	ch := s.input[s.pos]

	emit := func(typ segment.Type, n int) element {
		s.pos = start + n
		return element{typ: typ, start: start, end: s.pos}
	}

	switch {
	case ch == '\n':
		return emit(segment.TypeNewline, 1)
	case isSpace(ch):
		n := 1
		for start+n < len(s.input) && isSpace(s.input[start+n]) {
			n++
		}
		return emit(segment.TypeWhitespace, n)
	case s.hasLineComment():
		end := strings.IndexByte(s.input[start:], '\n')
		if end < 0 {
			end = len(s.input) - start
		}
		return emit(segment.TypeComment, end)
	case strings.HasPrefix(s.input[start:], "/*"):
		end := strings.Index(s.input[start+2:], "*/")
		if end < 0 {
			el := emit(segment.TypeComment, len(s.input)-start)
			el.errMsg = ErrUnterminatedComment
			return el
		}
		return emit(segment.TypeComment, end+4)
	case s.d.IsStringQuote(ch):
		return s.quoted(ch, ch, segment.TypeQuotedLiteral, ErrUnterminatedString)
	}

	if closing, ok := s.d.IdentifierQuoteFor(ch); ok {
		return s.quoted(ch, closing, segment.TypeQuotedIdentifier, ErrUnterminatedIdentifier)
	}

	switch {
	case isDigit(ch) || (ch == '.' && start+1 < len(s.input) && isDigit(s.input[start+1])):
		return emit(segment.TypeNumericLiteral, s.numberLen())
	case ch == '(':
		return emit(segment.TypeStartBracket, 1)
	case ch == ')':
		return emit(segment.TypeEndBracket, 1)
	case ch == ',':
		return emit(segment.TypeComma, 1)
	case ch == '.':
		return emit(segment.TypeDot, 1)
	case ch == ';':
		return emit(segment.TypeSemicolon, 1)
	}

	if n := s.wordLen(); n > 0 {
		if s.d.IsKeyword(s.input[start : start+n]) {
			return emit(segment.TypeKeyword, n)
		}
		return emit(segment.TypeIdentifier, n)
	}

	for _, op := range s.d.Operators() {
		if strings.HasPrefix(s.input[start:], op) {
			if _, ok := comparisonOperators[op]; ok {
				return emit(segment.TypeComparisonOperator, len(op))
			}
			return emit(segment.TypeOperator, len(op))
		}
	}

	_, size := utf8.DecodeRuneInString(s.input[start:])
	return emit(segment.TypeUnlexable, size)
}

func (s *scanner) hasLineComment() bool {
	for _, marker := range s.d.LineComments() {
		if strings.HasPrefix(s.input[s.pos:], marker) {
			return true
		}
	}
	return false
}

// quoted scans a quoted literal or identifier. A doubled closing quote is an
// escaped quote. Unterminated quotes consume the rest of the input.
func (s *scanner) quoted(open, closing byte, typ segment.Type, unterminated string) element {
	start := s.pos
	i := start + 1
	for i < len(s.input) {
		if s.input[i] == closing {
			if i+1 < len(s.input) && s.input[i+1] == closing && open == closing {
				i += 2
				continue
			}
			s.pos = i + 1
			return element{typ: typ, start: start, end: s.pos}
		}
		i++
	}
	s.pos = len(s.input)
	return element{typ: segment.TypeUnlexable, start: start, end: s.pos, errMsg: unterminated}
}

func (s *scanner) numberLen() int {
	i := s.pos
	for i < len(s.input) && isDigit(s.input[i]) {
		i++
	}
	if i < len(s.input) && s.input[i] == '.' {
		i++
		for i < len(s.input) && isDigit(s.input[i]) {
			i++
		}
	}
	if i < len(s.input) && (s.input[i] == 'e' || s.input[i] == 'E') {
		j := i + 1
		if j < len(s.input) && (s.input[j] == '+' || s.input[j] == '-') {
			j++
		}
		if j < len(s.input) && isDigit(s.input[j]) {
			for j < len(s.input) && isDigit(s.input[j]) {
				j++
			}
			i = j
		}
	}
	return i - s.pos
}

func (s *scanner) wordLen() int {
	i := s.pos
	for i < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[i:])
		first := i == s.pos
		if r == '_' || unicode.IsLetter(r) || (!first && (unicode.IsDigit(r) || r == '$')) {
			i += size
			continue
		}
		break
	}
	return i - s.pos
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
