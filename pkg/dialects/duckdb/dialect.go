// Package duckdb provides the DuckDB SQL dialect definition.
package duckdb

import (
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/dialects/ansi"
)

func init() {
	dialect.Register(DuckDB)
}

// DuckDB extends ANSI with QUALIFY, PIVOT, star modifiers and the :: cast.
var DuckDB = dialect.NewDialect("duckdb").
	Extends(ansi.ANSI).
	Keywords(
		"QUALIFY", "PIVOT", "UNPIVOT", "EXCLUDE", "RENAME", "ILIKE", "GLOB",
		"SEMI", "ANTI", "ASOF", "POSITIONAL", "SUMMARIZE", "DESCRIBE", "MACRO",
	).
	Operators("::", "->", "->>", "**", "//", "^@").
	Normalization(dialect.NormCaseInsensitive).
	Build()
