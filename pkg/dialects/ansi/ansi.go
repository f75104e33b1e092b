// Package ansi provides the base ANSI SQL dialect.
//
// This dialect serves as the foundation for all other SQL dialects. Dialects like
// DuckDB or PostgreSQL extend ANSI and add their own keywords and operators.
package ansi

import "github.com/leapstack-labs/sqlint/pkg/dialect"

func init() {
	dialect.Register(ANSI)
}

// Keywords are the reserved and common non-reserved ANSI keywords.
var Keywords = []string{
	"ALL", "ALTER", "AND", "ANY", "AS", "ASC", "BETWEEN", "BY", "CASE", "CAST",
	"CHECK", "COLUMN", "CONSTRAINT", "CREATE", "CROSS", "CURRENT_DATE",
	"CURRENT_TIME", "CURRENT_TIMESTAMP", "DEFAULT", "DELETE", "DESC", "DISTINCT",
	"DROP", "ELSE", "END", "EXCEPT", "EXISTS", "FALSE", "FETCH", "FILTER",
	"FIRST", "FOLLOWING", "FOR", "FOREIGN", "FROM", "FULL", "GRANT", "GROUP",
	"HAVING", "IF", "IN", "INNER", "INSERT", "INTERSECT", "INTERVAL", "INTO",
	"IS", "JOIN", "KEY", "LAST", "LATERAL", "LEFT", "LIKE", "LIMIT", "NATURAL",
	"NOT", "NULL", "NULLS", "OFFSET", "ON", "OR", "ORDER", "OUTER", "OVER",
	"PARTITION", "PRECEDING", "PRIMARY", "RANGE", "RECURSIVE", "REFERENCES",
	"REPLACE", "RIGHT", "ROW", "ROWS", "SELECT", "SET", "TABLE", "THEN", "TO",
	"TRUE", "UNBOUNDED", "UNION", "UNIQUE", "UPDATE", "USING", "VALUES", "VIEW",
	"WHEN", "WHERE", "WINDOW", "WITH",
}

// Operators are the standard ANSI symbolic operators.
var Operators = []string{
	"<>", "!=", "<=", ">=", "||", "=", "<", ">", "+", "-", "*", "/", "%",
}

// ANSI is the base ANSI SQL dialect.
var ANSI = dialect.NewDialect("ansi").
	Keywords(Keywords...).
	IdentifierQuote('"', '"').
	StringQuotes('\'').
	LineComments("--").
	Operators(Operators...).
	Normalization(dialect.NormUppercase).
	Build()
