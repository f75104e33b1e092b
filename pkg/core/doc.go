// Package core defines the shared language of sqlint.
//
// This package contains:
//   - Severity levels and rule metadata (Severity, RuleInfo)
//   - Violation types raised by the templater, lexer, parser and rules
//   - The resolved configuration snapshot (Config) and inline directives
//
// The Golden Rule: pkg/core imports ONLY pkg/token and stdlib.
// All other packages depend on core, not the reverse.
package core
