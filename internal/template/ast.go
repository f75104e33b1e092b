// Package template tokenizes SQL files containing Starlark template tags.
// It recognises {{ expr }} for expression evaluation and {* stmt *} for
// control flow.
package template

import "strings"

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// StmtKind identifies the type of control flow statement.
type StmtKind int

// StmtKind constants for control flow statement types.
const (
	StmtUnknown StmtKind = iota // Unknown/invalid statement
	StmtFor                     // {* for x in items: *}
	StmtEndFor                  // {* endfor *}
	StmtIf                      // {* if cond: *}
	StmtElif                    // {* elif cond: *}
	StmtElse                    // {* else: *}
	StmtEndIf                   // {* endif *}
)

func (k StmtKind) String() string {
	switch k {
	case StmtFor:
		return "for"
	case StmtEndFor:
		return "endfor"
	case StmtIf:
		return "if"
	case StmtElif:
		return "elif"
	case StmtElse:
		return "else"
	case StmtEndIf:
		return "endif"
	default:
		return "unknown"
	}
}

// ClassifyStmt returns the kind of a statement body such as "for x in y:".
func ClassifyStmt(body string) StmtKind {
	word, _, _ := strings.Cut(strings.TrimSpace(body), " ")
	switch strings.TrimSuffix(word, ":") {
	case "for":
		return StmtFor
	case "endfor":
		return StmtEndFor
	case "if":
		return StmtIf
	case "elif":
		return StmtElif
	case "else":
		return StmtElse
	case "endif":
		return StmtEndIf
	default:
		return StmtUnknown
	}
}
