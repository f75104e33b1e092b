// Package dialect provides SQL dialect configuration for the lexer, parser and rules.
//
// This package contains the public contract for dialect definitions. Concrete
// dialects are registered from pkg/dialects/*/ packages.
package dialect

import (
	"slices"
	"sort"
	"strings"
)

// NormalizationStrategy describes how a dialect folds unquoted identifiers.
type NormalizationStrategy int

// Normalization strategies.
const (
	NormCaseInsensitive NormalizationStrategy = iota
	NormLowercase
	NormUppercase
	NormCaseSensitive
)

// QuotePair is a pair of opening and closing quote characters.
type QuotePair struct {
	Open  byte
	Close byte
}

// Dialect represents a SQL dialect configuration.
type Dialect struct {
	Name          string
	Normalization NormalizationStrategy

	keywords         map[string]struct{} // upper-case
	identifierQuotes []QuotePair
	stringQuotes     []byte
	lineComments     []string
	operators        []string // longest first
}

// IsKeyword reports whether word is a keyword in this dialect (case-insensitive).
func (d *Dialect) IsKeyword(word string) bool {
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

// Keywords returns all keywords, sorted.
func (d *Dialect) Keywords() []string {
	out := make([]string, 0, len(d.keywords))
	for kw := range d.keywords {
		out = append(out, kw)
	}
	sort.Strings(out)
	return out
}

// IdentifierQuotes returns the quote pairs that delimit identifiers.
func (d *Dialect) IdentifierQuotes() []QuotePair {
	return d.identifierQuotes
}

// IdentifierQuoteFor returns the closing quote for an identifier opened by c.
func (d *Dialect) IdentifierQuoteFor(c byte) (byte, bool) {
	for _, q := range d.identifierQuotes {
		if q.Open == c {
			return q.Close, true
		}
	}
	return 0, false
}

// IsStringQuote reports whether c opens a string literal.
func (d *Dialect) IsStringQuote(c byte) bool {
	return slices.Contains(d.stringQuotes, c)
}

// LineComments returns the markers that start a line comment.
func (d *Dialect) LineComments() []string {
	return d.lineComments
}

// Operators returns the symbolic operators, longest first.
func (d *Dialect) Operators() []string {
	return d.operators
}

// NormalizeName normalizes an unquoted identifier according to dialect rules.
func (d *Dialect) NormalizeName(name string) string {
	switch d.Normalization {
	case NormUppercase:
		return strings.ToUpper(name)
	case NormLowercase, NormCaseInsensitive:
		return strings.ToLower(name)
	default: // NormCaseSensitive
		return name
	}
}

// GetName returns the dialect name.
func (d *Dialect) GetName() string {
	return d.Name
}

// =============================================================================
// Builder
// =============================================================================

// Builder assembles a Dialect. Builders are not safe for concurrent use.
type Builder struct {
	d *Dialect
}

// NewDialect starts a dialect with no keywords or operators.
func NewDialect(name string) *Builder {
	return &Builder{d: &Dialect{
		Name:     name,
		keywords: make(map[string]struct{}),
	}}
}

// Extends copies everything from parent into the dialect being built.
// Later builder calls add to or override the inherited settings.
func (b *Builder) Extends(parent *Dialect) *Builder {
	for kw := range parent.keywords {
		b.d.keywords[kw] = struct{}{}
	}
	b.d.Normalization = parent.Normalization
	b.d.identifierQuotes = slices.Clone(parent.identifierQuotes)
	b.d.stringQuotes = slices.Clone(parent.stringQuotes)
	b.d.lineComments = slices.Clone(parent.lineComments)
	b.d.operators = slices.Clone(parent.operators)
	return b
}

// Keywords adds keywords.
func (b *Builder) Keywords(kws ...string) *Builder {
	for _, kw := range kws {
		b.d.keywords[strings.ToUpper(kw)] = struct{}{}
	}
	return b
}

// WithoutKeywords removes keywords inherited from a parent dialect.
func (b *Builder) WithoutKeywords(kws ...string) *Builder {
	for _, kw := range kws {
		delete(b.d.keywords, strings.ToUpper(kw))
	}
	return b
}

// IdentifierQuote adds an identifier quote pair, e.g. '"' '"' or '[' ']'.
func (b *Builder) IdentifierQuote(open, closing byte) *Builder {
	b.d.identifierQuotes = append(b.d.identifierQuotes, QuotePair{Open: open, Close: closing})
	return b
}

// StringQuotes adds characters that open string literals.
func (b *Builder) StringQuotes(quotes ...byte) *Builder {
	b.d.stringQuotes = append(b.d.stringQuotes, quotes...)
	return b
}

// LineComments adds line comment markers.
func (b *Builder) LineComments(markers ...string) *Builder {
	b.d.lineComments = append(b.d.lineComments, markers...)
	return b
}

// Operators adds symbolic operators such as "::" or "||".
func (b *Builder) Operators(ops ...string) *Builder {
	for _, op := range ops {
		if !slices.Contains(b.d.operators, op) {
			b.d.operators = append(b.d.operators, op)
		}
	}
	return b
}

// Normalization sets how unquoted identifiers are folded.
func (b *Builder) Normalization(n NormalizationStrategy) *Builder {
	b.d.Normalization = n
	return b
}

// Build finalizes the dialect.
func (b *Builder) Build() *Dialect {
	d := b.d
	// Longest operators first so the lexer matches greedily.
	sort.SliceStable(d.operators, func(i, j int) bool {
		return len(d.operators[i]) > len(d.operators[j])
	})
	b.d = nil
	return d
}
