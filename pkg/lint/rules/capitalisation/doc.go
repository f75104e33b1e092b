// Package capitalisation provides lint rules for the case of keywords.
// These rules follow SQLFluff's CP (Capitalisation) rule category.
//
// Rules in this package:
//   - CP01: Consistent keyword capitalisation
package capitalisation
