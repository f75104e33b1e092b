// Package postgres provides the PostgreSQL SQL dialect definition.
package postgres

import (
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/dialects/ansi"
)

func init() {
	dialect.Register(Postgres)
}

// Postgres is the PostgreSQL dialect: ANSI plus ILIKE, RETURNING and the
// :: cast operator. Unquoted identifiers fold to lowercase.
var Postgres = dialect.NewDialect("postgres").
	Extends(ansi.ANSI).
	Keywords("ILIKE", "RETURNING", "SIMILAR", "ISNULL", "NOTNULL", "VARIADIC", "CONFLICT", "DO", "NOTHING").
	Operators("::", "->>", "->", "#>>", "#>", "@>", "<@", "~~*", "~*", "!~*", "!~", "~").
	Normalization(dialect.NormLowercase).
	Build()
