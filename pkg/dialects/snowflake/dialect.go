// Package snowflake provides the Snowflake SQL dialect definition.
package snowflake

import (
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/dialects/ansi"
)

func init() {
	dialect.Register(Snowflake)
}

// Snowflake extends ANSI with QUALIFY, ILIKE, // comments and the :: cast.
// Unquoted identifiers fold to uppercase.
var Snowflake = dialect.NewDialect("snowflake").
	Extends(ansi.ANSI).
	Keywords("QUALIFY", "ILIKE", "RLIKE", "SAMPLE", "TABLESAMPLE", "MATCH_RECOGNIZE", "FLATTEN").
	LineComments("//").
	Operators("::", "=>").
	Normalization(dialect.NormUppercase).
	Build()
