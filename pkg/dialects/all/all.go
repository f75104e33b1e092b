// Package all registers every built-in dialect.
package all

import (
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/ansi"       // register ansi
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/databricks" // register databricks
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/duckdb"     // register duckdb
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/postgres"   // register postgres
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/snowflake"  // register snowflake
)
