// Package convention provides lint rules for SQL conventions.
// These rules follow SQLFluff's CV (Convention) rule category.
//
// Rules in this package:
//   - CV01: Consistent not-equal operator
package convention
