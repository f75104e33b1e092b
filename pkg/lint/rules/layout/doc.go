// Package layout provides lint rules for whitespace and line layout.
// These rules follow SQLFluff's LT (Layout) rule category.
//
// Rules in this package:
//   - LT01: No trailing whitespace
//   - LT05: Line length limit
//   - LT12: Files end with a single newline
package layout
