// Package config holds the configuration defaults and file loading shared by
// the CLI and library callers.
package config

import (
	"github.com/leapstack-labs/sqlint/pkg/core"
)

// Config file names, in lookup order.
const (
	ConfigFileName     = ".sqlint.yaml"
	ConfigFileNameAlt  = ".sqlint.yml"
	ConfigFileNameTOML = ".sqlint.toml"
)

// ConfigFileNames lists the config file names tried in each directory.
var ConfigFileNames = []string{ConfigFileName, ConfigFileNameAlt, ConfigFileNameTOML}

// DefaultOutput selects the output mode from the terminal.
const DefaultOutput = "auto"

// Defaults returns the default configuration as koanf keys.
func Defaults() map[string]any {
	def := core.DefaultConfig()
	return map[string]any{
		"dialect":                   def.Dialect,
		"templater":                 def.Templater,
		"sql_file_exts":             def.SQLFileExts,
		"runaway_limit":             def.RunawayLimit,
		"ignore_file_name":          def.IgnoreFileName,
		"ignore_non_existent_files": def.IgnoreNonExistentFiles,
		"encoding":                  def.Encoding,
		"processes":                 def.Processes,
		"max_line_length":           def.MaxLineLength,
	}
}
