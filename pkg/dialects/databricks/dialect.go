// Package databricks provides the Databricks (Spark SQL) dialect definition.
package databricks

import (
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/dialects/ansi"
)

func init() {
	dialect.Register(Databricks)
}

// Databricks extends ANSI with backtick identifiers, double-quoted strings
// and Spark keywords.
var Databricks = dialect.NewDialect("databricks").
	Extends(ansi.ANSI).
	Keywords("QUALIFY", "RLIKE", "LATERAL", "CLUSTER", "DISTRIBUTE", "SORT", "PIVOT", "UNPIVOT", "SEMI", "ANTI").
	IdentifierQuote('`', '`').
	StringQuotes('"').
	Operators("::", "<=>").
	Normalization(dialect.NormCaseInsensitive).
	Build()
