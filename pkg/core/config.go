package core

import (
	"maps"
	"slices"
	"strings"
)

// Configuration defaults.
const (
	DefaultDialect        = "ansi"
	DefaultTemplater      = "raw"
	DefaultRunawayLimit   = 10
	DefaultIgnoreFileName = ".sqlintignore"
	DefaultEncoding       = "utf-8"
	DefaultMaxLineLength  = 80
)

// DefaultSQLFileExts lists the extensions treated as SQL during path discovery.
var DefaultSQLFileExts = []string{".sql", ".sql.j2", ".dml", ".ddl"}

// Config is the resolved configuration snapshot for a lint run.
// Treat a Config as read-only once linting starts; derive variants with Clone.
type Config struct {
	Dialect   string `koanf:"dialect"`
	Templater string `koanf:"templater"`

	// Rules selects rules by ID or group; empty or "all" selects everything.
	Rules        []string `koanf:"rules"`
	ExcludeRules []string `koanf:"exclude_rules"`

	// Severity maps rule ID to severity override (error, warning, info, hint)
	Severity map[string]string `koanf:"severity"`

	// RuleOptions maps rule ID to rule-specific options.
	RuleOptions map[string]map[string]any `koanf:"rule_options"`

	SQLFileExts            []string `koanf:"sql_file_exts"`
	RunawayLimit           int      `koanf:"runaway_limit"`
	IgnoreFileName         string   `koanf:"ignore_file_name"`
	IgnoreNonExistentFiles bool     `koanf:"ignore_non_existent_files"`
	Encoding               string   `koanf:"encoding"`
	Processes              int      `koanf:"processes"`
	MaxLineLength          int      `koanf:"max_line_length"`

	// Vars is the context made available to the templater.
	Vars map[string]any `koanf:"vars"`
}

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Dialect:        DefaultDialect,
		Templater:      DefaultTemplater,
		SQLFileExts:    slices.Clone(DefaultSQLFileExts),
		RunawayLimit:   DefaultRunawayLimit,
		IgnoreFileName: DefaultIgnoreFileName,
		Encoding:       DefaultEncoding,
		Processes:      1,
		MaxLineLength:  DefaultMaxLineLength,
	}
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return DefaultConfig()
	}
	cp := *c
	cp.Rules = slices.Clone(c.Rules)
	cp.ExcludeRules = slices.Clone(c.ExcludeRules)
	cp.SQLFileExts = slices.Clone(c.SQLFileExts)
	cp.Severity = maps.Clone(c.Severity)
	cp.Vars = maps.Clone(c.Vars)
	if c.RuleOptions != nil {
		cp.RuleOptions = make(map[string]map[string]any, len(c.RuleOptions))
		for id, opts := range c.RuleOptions {
			cp.RuleOptions[id] = maps.Clone(opts)
		}
	}
	return &cp
}

// VerifyDialectSpecified returns a UserError when no dialect is configured.
func (c *Config) VerifyDialectSpecified() error {
	if c == nil || strings.TrimSpace(c.Dialect) == "" {
		return NewUserError("no dialect was specified; set 'dialect' in the config file or pass --dialect")
	}
	return nil
}

// RuleOptionsFor returns the options configured for a rule, or nil.
// Keys are matched case-insensitively since koanf lowercases config file keys.
func (c *Config) RuleOptionsFor(ruleID string) map[string]any {
	if c == nil {
		return nil
	}
	if opts, ok := c.RuleOptions[ruleID]; ok {
		return opts
	}
	for id, opts := range c.RuleOptions {
		if strings.EqualFold(id, ruleID) {
			return opts
		}
	}
	return nil
}

// SeverityFor returns the configured severity for a rule, or def when the
// rule has no valid override.
func (c *Config) SeverityFor(ruleID string, def Severity) Severity {
	if c == nil {
		return def
	}
	for id, level := range c.Severity {
		if strings.EqualFold(id, ruleID) {
			if sev, ok := ParseSeverity(level); ok {
				return sev
			}
		}
	}
	return def
}

// RunawayLimitOrDefault returns the configured runaway limit, falling back to
// the default for non-positive values.
func (c *Config) RunawayLimitOrDefault() int {
	if c == nil || c.RunawayLimit <= 0 {
		return DefaultRunawayLimit
	}
	return c.RunawayLimit
}
