package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testFlags() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("dialect", "", "dialect")
	flags.StringSlice("rules", nil, "rules")
	flags.StringSlice("exclude-rules", nil, "excluded rules")
	flags.Int("processes", 1, "processes")
	flags.StringP("output", "o", "", "output")
	flags.BoolP("verbose", "v", false, "verbose")
	return flags
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, core.DefaultDialect, cfg.Dialect)
	assert.Equal(t, core.DefaultRunawayLimit, cfg.RunawayLimit)
	assert.Equal(t, core.DefaultSQLFileExts, cfg.SQLFileExts)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_FlagPrecedence(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), ".sqlint.yaml", "dialect: postgres\nprocesses: 2\n")

	t.Setenv("SQLINT_DIALECT", "duckdb")
	t.Setenv("SQLINT_PROCESSES", "3")

	flags := testFlags()
	require.NoError(t, flags.Set("dialect", "snowflake"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, "snowflake", cfg.Dialect, "flag value should override config file and env var")
	assert.Equal(t, 3, cfg.Processes, "env var should be used when flag is not set")
	assert.Equal(t, cfgPath, GetConfigFileUsed())
	assert.Equal(t, filepath.Dir(cfgPath), cfg.ProjectRoot)
}

func TestLoadConfig_EnvPrecedenceOverFile(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), ".sqlint.yaml", "rules: [LT01]\nexclude_rules: [LT05]\n")

	t.Setenv("SQLINT_RULES", "layout, CP01")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"layout", "CP01"}, cfg.Rules)
	assert.Equal(t, []string{"LT05"}, cfg.ExcludeRules)
}

func TestLoadConfig_ListFlags(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := testFlags()
	require.NoError(t, flags.Set("exclude-rules", "LT05,LT12"))
	require.NoError(t, flags.Set("output", "json"))
	require.NoError(t, flags.Set("verbose", "true"))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, []string{"LT05", "LT12"}, cfg.ExcludeRules)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	nested := filepath.Join(root, "models", "staging")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	writeConfig(t, root, ".sqlint.toml", "dialect = \"databricks\"\n\n[severity]\nLT01 = \"error\"\n")
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "databricks", cfg.Dialect)
	assert.Equal(t, core.SeverityError, cfg.SeverityFor("LT01", core.SeverityWarning))
	assert.Equal(t, filepath.Join(root, ".sqlint.toml"), GetConfigFileUsed())
	assert.Equal(t, root, cfg.ProjectRoot)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errPart string
	}{
		{"bad output", "output: html\n", "invalid output format"},
		{"bad severity", "severity:\n  LT01: loud\n", "invalid severity"},
		{"negative runaway limit", "runaway_limit: -1\n", "runaway_limit"},
		{"malformed yaml", "dialect: [\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			cfgPath := writeConfig(t, t.TempDir(), ".sqlint.yaml", tt.content)

			_, err := LoadConfig(cfgPath, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errPart)
		})
	}

	t.Run("missing explicit file", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestConfig_Lint(t *testing.T) {
	cfg := &Config{Config: *core.DefaultConfig()}
	lint := cfg.Lint()
	lint.Rules = append(lint.Rules, "LT01")
	assert.Empty(t, cfg.Rules, "Lint should return a copy")
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), NewLogger(&buf, false))

	GetLogger(ctx).Debug("hidden")
	GetLogger(ctx).Warn("shown", "file", "a.sql")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "file=a.sql")

	buf.Reset()
	NewLogger(&buf, true).Debug("visible")
	assert.Contains(t, buf.String(), "visible")

	// missing logger falls back to discard
	assert.NotNil(t, GetLogger(context.Background()))
}
