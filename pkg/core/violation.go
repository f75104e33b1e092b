package core

import (
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/token"
)

// ViolationKind identifies which stage of the pipeline raised a violation.
type ViolationKind string

// Violation kinds, in pipeline order.
const (
	KindTemplater ViolationKind = "templater"
	KindLex       ViolationKind = "lex"
	KindParse     ViolationKind = "parse"
	KindLint      ViolationKind = "lint"
)

// Violation codes used for non-rule violations.
const (
	CodeTemplater = "TMP"
	CodeLex       = "LXR"
	CodeParse     = "PRS"
)

// Violation is a reportable problem found in a file.
// Violations are never mutated after creation.
type Violation interface {
	error
	Kind() ViolationKind
	Code() string
	Description() string
	Pos() token.Position
	Severity() Severity
	IsFixable() bool
}

// =============================================================================
// Lint violations
// =============================================================================

// SQLLintError is a violation raised by a rule.
type SQLLintError struct {
	RuleID   string
	Message  string
	Position token.Position
	Sev      Severity
	HasFix   bool
	// Internal marks violations created for a rule that failed to crawl.
	Internal bool
}

// NewLintError creates a lint violation for a rule at pos.
func NewLintError(ruleID, msg string, pos token.Position, sev Severity) *SQLLintError {
	return &SQLLintError{RuleID: ruleID, Message: msg, Position: pos, Sev: sev}
}

// WithSeverity returns a copy of the violation with a different severity.
func (e *SQLLintError) WithSeverity(sev Severity) *SQLLintError {
	cp := *e
	cp.Sev = sev
	return &cp
}

// WithFix returns a copy of the violation flagged as fixable or not.
func (e *SQLLintError) WithFix(fixable bool) *SQLLintError {
	cp := *e
	cp.HasFix = fixable
	return &cp
}

func (e *SQLLintError) Error() string {
	return fmt.Sprintf("L:%d P:%d %s %s", e.Position.Line, e.Position.Column, e.RuleID, e.Message)
}

func (e *SQLLintError) Kind() ViolationKind { return KindLint }
func (e *SQLLintError) Code() string        { return e.RuleID }
func (e *SQLLintError) Description() string { return e.Message }
func (e *SQLLintError) Pos() token.Position { return e.Position }
func (e *SQLLintError) Severity() Severity  { return e.Sev }
func (e *SQLLintError) IsFixable() bool     { return e.HasFix }

// =============================================================================
// Pipeline violations
// =============================================================================

// pipelineError is shared by the templater, lexer and parser violations.
type pipelineError struct {
	Message  string
	Position token.Position
}

func (e *pipelineError) Description() string { return e.Message }
func (e *pipelineError) Pos() token.Position { return e.Position }
func (e *pipelineError) Severity() Severity  { return SeverityError }
func (e *pipelineError) IsFixable() bool     { return false }

func (e *pipelineError) format(code string) string {
	if e.Position.IsValid() {
		return fmt.Sprintf("L:%d P:%d %s %s", e.Position.Line, e.Position.Column, code, e.Message)
	}
	return fmt.Sprintf("%s %s", code, e.Message)
}

// SQLTemplaterError is raised when rendering a file fails.
type SQLTemplaterError struct {
	pipelineError
}

// NewTemplaterError creates a templater violation.
func NewTemplaterError(msg string, pos token.Position) *SQLTemplaterError {
	return &SQLTemplaterError{pipelineError{Message: msg, Position: pos}}
}

func (e *SQLTemplaterError) Error() string       { return e.format(CodeTemplater) }
func (e *SQLTemplaterError) Kind() ViolationKind { return KindTemplater }
func (e *SQLTemplaterError) Code() string        { return CodeTemplater }

// SQLLexError is raised for input the lexer cannot classify.
type SQLLexError struct {
	pipelineError
}

// NewLexError creates a lex violation.
func NewLexError(msg string, pos token.Position) *SQLLexError {
	return &SQLLexError{pipelineError{Message: msg, Position: pos}}
}

func (e *SQLLexError) Error() string       { return e.format(CodeLex) }
func (e *SQLLexError) Kind() ViolationKind { return KindLex }
func (e *SQLLexError) Code() string        { return CodeLex }

// SQLParseError is raised when the token stream cannot be parsed.
type SQLParseError struct {
	pipelineError
}

// NewParseError creates a parse violation.
func NewParseError(msg string, pos token.Position) *SQLParseError {
	return &SQLParseError{pipelineError{Message: msg, Position: pos}}
}

func (e *SQLParseError) Error() string       { return e.format(CodeParse) }
func (e *SQLParseError) Kind() ViolationKind { return KindParse }
func (e *SQLParseError) Code() string        { return CodeParse }

// =============================================================================
// User errors
// =============================================================================

// UserError is a fatal configuration or usage problem.
// It is not a violation: it aborts processing of the file it concerns.
type UserError struct {
	Msg string
}

// NewUserError creates a user error with a formatted message.
func NewUserError(format string, args ...any) *UserError {
	return &UserError{Msg: fmt.Sprintf(format, args...)}
}

func (e *UserError) Error() string { return e.Msg }
