package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

// Validate checks the loaded configuration for values the linter cannot use.
// Dialect and templater names are checked later, per file, since inline
// directives may change them.
func (c *Config) Validate() error {
	if c.OutputFormat != "" && !slices.Contains(OutputFormats, strings.ToLower(c.OutputFormat)) {
		return fmt.Errorf("invalid output format %q (expected one of %s)", c.OutputFormat, strings.Join(OutputFormats, ", "))
	}
	if c.RunawayLimit < 0 {
		return fmt.Errorf("runaway_limit must not be negative, got %d", c.RunawayLimit)
	}
	for id, level := range c.Severity {
		if _, ok := core.ParseSeverity(level); !ok {
			return fmt.Errorf("invalid severity %q for rule %s", level, id)
		}
	}
	return nil
}
