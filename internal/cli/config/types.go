// Package config provides configuration management for the sqlint CLI.
//
// The lint settings themselves are core.Config; this package adds the
// CLI-only fields and the layered loading of defaults, config file,
// environment and flags.
package config

import (
	intconfig "github.com/leapstack-labs/sqlint/internal/config"
	"github.com/leapstack-labs/sqlint/pkg/core"
)

// Config holds all CLI configuration options.
type Config struct {
	core.Config `koanf:",squash"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`

	// ProjectRoot is the directory the config file was found in, or the
	// working directory.
	ProjectRoot string `koanf:"-"`
}

// Lint returns a copy of the lint settings.
func (c *Config) Lint() *core.Config {
	return c.Config.Clone()
}

// Default configuration values.
const (
	DefaultOutput = intconfig.DefaultOutput
	EnvPrefix     = "SQLINT_"
)

// Output formats accepted by --output.
var OutputFormats = []string{"auto", "text", "markdown", "json", "yaml"}
