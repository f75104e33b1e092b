// Package rules provides SQLFluff-style lint rule implementations.
//
// Rules are organized by category following SQLFluff's naming conventions:
//   - layout: Whitespace and line layout (LT01, LT05, LT12)
//   - capitalisation: Keyword case (CP01)
//   - convention: SQL conventions (CV01)
//
// To register all rules with the global lint registry, import this package
// with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlint/pkg/lint/rules"
package rules
