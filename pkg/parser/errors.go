package parser

import (
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// Violation converts the error into a reportable violation.
func (e *ParseError) Violation() *core.SQLParseError {
	return core.NewParseError(e.Message, e.Pos)
}

// Common error messages
const (
	ErrUnexpectedCloseBracket = "unexpected closing bracket"
	ErrUnclosedBracket        = "unclosed bracket"
	ErrUnterminatedString     = "unterminated string literal"
	ErrUnterminatedIdentifier = "unterminated quoted identifier"
	ErrUnterminatedComment    = "unterminated block comment"
	ErrUnlexable              = "unable to lex characters: %q"
)
