// Package main provides the CLI for the sqlint SQL linter.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlint/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
