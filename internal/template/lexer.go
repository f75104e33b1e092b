package template

import (
	"strings"
	"unicode/utf8"
)

// TokenType identifies the type of token.
type TokenType int

// TokenType constants for template token types.
const (
	TokenText TokenType = iota // Literal text (SQL)
	TokenExpr                  // Expression content (between {{ and }})
	TokenStmt                  // Statement content (between {* and *})
	TokenEOF                   // End of input
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "TEXT"
	case TokenExpr:
		return "EXPR"
	case TokenStmt:
		return "STMT"
	case TokenEOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token represents a lexical token.
// Start and End are byte offsets of the whole token in the input, including
// any delimiters, so the templater can map rendered output back to source.
type Token struct {
	Type  TokenType
	Value string
	Pos   Position
	Start int
	End   int
}

// Lexer tokenizes a template string.
type Lexer struct {
	input    string
	file     string
	pos      int // current position in input
	line     int // current line number (1-based)
	col      int // current column number (1-based)
	lastPos  int // offset at start of current token
	lastLine int // line at start of current token
	lastCol  int // column at start of current token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input, file string) *Lexer {
	return &Lexer{
		input: input,
		file:  file,
		line:  1,
		col:   1,
	}
}

// Tokenize converts the input into a slice of tokens.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token

	for {
		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			break
		}
	}

	return tokens, nil
}

// nextToken returns the next token from the input.
func (l *Lexer) nextToken() (Token, error) {
	if l.pos >= len(l.input) {
		return Token{Type: TokenEOF, Pos: l.position(), Start: l.pos, End: l.pos}, nil
	}

	if l.matchString("{{") {
		return l.scanDelimited("{{", "}}", TokenExpr, true, "unclosed expression: missing '}}'")
	}
	if l.matchString("{*") {
		return l.scanDelimited("{*", "*}", TokenStmt, false, "unclosed statement: missing '*}'")
	}

	return l.scanText()
}

// scanText scans literal text until a delimiter or EOF.
func (l *Lexer) scanText() (Token, error) {
	l.markStart()

	for l.pos < len(l.input) {
		if l.matchString("{{") || l.matchString("{*") {
			break
		}
		l.advance()
	}

	if l.pos == l.lastPos {
		return Token{}, NewLexError(l.position(), "unexpected state in lexer")
	}

	return l.emit(TokenText, l.input[l.lastPos:l.pos]), nil
}

// scanDelimited scans a {{ expr }} or {* stmt *} tag. Nested braces are
// tracked for expressions so dict literals do not close the tag early.
func (l *Lexer) scanDelimited(open, closing string, typ TokenType, trackBraces bool, unclosed string) (Token, error) {
	l.markStart()
	l.advanceN(len(open))
	bodyStart := l.pos
	depth := 0

	for l.pos < len(l.input) {
		if depth == 0 && l.matchString(closing) {
			body := strings.TrimSpace(l.input[bodyStart:l.pos])
			l.advanceN(len(closing))
			return l.emit(typ, body), nil
		}
		if trackBraces {
			switch l.peek() {
			case '{':
				depth++
			case '}':
				if depth > 0 {
					depth--
				}
			}
		}
		l.advance()
	}

	return Token{}, NewLexError(l.startPosition(), unclosed)
}

func (l *Lexer) emit(typ TokenType, value string) Token {
	return Token{
		Type:  typ,
		Value: value,
		Pos:   l.startPosition(),
		Start: l.lastPos,
		End:   l.pos,
	}
}

// Helper methods

// peek returns the current rune without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

// advance moves to the next rune, updating position tracking.
func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
}

func (l *Lexer) advanceN(n int) {
	for range n {
		l.advance()
	}
}

// matchString checks if the input at current position matches s.
func (l *Lexer) matchString(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// markStart records the start position for the current token.
func (l *Lexer) markStart() {
	l.lastPos = l.pos
	l.lastLine = l.line
	l.lastCol = l.col
}

// position returns the current position.
func (l *Lexer) position() Position {
	return Position{File: l.file, Line: l.line, Column: l.col}
}

// startPosition returns the position where the current token started.
func (l *Lexer) startPosition() Position {
	return Position{File: l.file, Line: l.lastLine, Column: l.lastCol}
}
