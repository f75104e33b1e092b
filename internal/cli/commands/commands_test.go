package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlint/internal/cli/output"
	"github.com/leapstack-labs/sqlint/internal/cli/testutil"
	intconfig "github.com/leapstack-labs/sqlint/internal/config"
)

// execute runs cmd with args and stdin, returning captured stdout and stderr.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	// Mirror the root command, which silences usage and errors for subcommands.
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func codes(vs []output.ViolationOutput) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.Code)
	}
	return out
}

// ==== errors ====

func TestExitCode(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		silent bool
	}{
		{"nil", nil, ExitOK, false},
		{"violations", errLintIssues, ExitViolations, true},
		{"wrapped violations", fmt.Errorf("run: %w", errLintIssues), ExitViolations, true},
		{"fatal", errFatal("boom %d", 1), ExitError, false},
		{"plain error", errors.New("bad flag"), ExitError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
			assert.Equal(t, tt.silent, IsSilent(tt.err))
		})
	}
	assert.Equal(t, "boom 1", errFatal("boom %d", 1).Error())
}

// ==== lint ====

func TestLintCommand_ExitCodes(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"clean.sql": "SELECT id FROM customers\n",
		"messy.sql": "SELECT id  \nfrom customers\n",
	})
	clean := filepath.Join(dir, "clean.sql")
	messy := filepath.Join(dir, "messy.sql")

	tests := []struct {
		name   string
		args   []string
		code   int
		silent bool
	}{
		{"clean file", []string{clean}, ExitOK, false},
		{"violations", []string{messy}, ExitViolations, true},
		{"nofail", []string{messy, "--nofail"}, ExitOK, false},
		{"severity above warnings", []string{messy, "--severity", "error"}, ExitOK, false},
		{"only one rule", []string{messy, "--only", "CP01"}, ExitViolations, true},
		{"only a rule that passes", []string{messy, "--only", "CV01"}, ExitOK, false},
		{"invalid severity", []string{messy, "--severity", "loud"}, ExitError, false},
		{"missing path", []string{filepath.Join(dir, "missing.sql")}, ExitError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, NewLintCommand(), "", tt.args...)
			assert.Equal(t, tt.code, ExitCode(err), "err: %v", err)
			assert.Equal(t, tt.silent, IsSilent(err))
		})
	}
}

func TestLintCommand_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, _, err := execute(t, NewLintCommand(), "", dir, "-f", "json")
	assert.Equal(t, ExitViolations, ExitCode(err))

	var out output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.NotEmpty(t, out.ID)
	require.Len(t, out.Files, 3)
	assert.Equal(t, 3, out.Summary.Files)
	assert.Equal(t, 2, out.Summary.FilesWithIssue)

	byName := make(map[string]output.FileOutput)
	for _, f := range out.Files {
		byName[filepath.Base(f.Path)] = f
	}
	assert.Empty(t, byName["clean.sql"].Violations)
	assert.ElementsMatch(t, []string{"LT01", "CP01"}, codes(byName["messy.sql"].Violations))
	assert.Contains(t, codes(byName["broken.sql"].Violations), "PRS")
}

func TestLintCommand_Markdown(t *testing.T) {
	dir := testutil.SetupTestProject(t)

	stdout, _, err := execute(t, NewLintCommand(), "", filepath.Join(dir, "models"))
	assert.Equal(t, ExitViolations, ExitCode(err))

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "# Lint Results")
	assert.Contains(t, stdout, "messy.sql")
	assert.Contains(t, stdout, "LT01")
}

func TestLintCommand_Stdin(t *testing.T) {
	stdout, _, err := execute(t, NewLintCommand(), "SELECT a  \n", "-", "--stdin-filename", "query.sql", "-f", "json")
	assert.Equal(t, ExitViolations, ExitCode(err))

	var out output.LintOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out.Files, 1)
	assert.Equal(t, "query.sql", out.Files[0].Path)
	assert.Equal(t, []string{"LT01"}, codes(out.Files[0].Violations))

	_, _, err = execute(t, NewLintCommand(), "SELECT 1\n", "-", "--watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch")
}

// ==== fix ====

func TestFixCommand(t *testing.T) {
	const messy = "SELECT id  \nfrom customers\n"
	const fixed = "SELECT id\nFROM customers\n"

	t.Run("overwrites in place", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"messy.sql": messy})
		stdout, _, err := execute(t, NewFixCommand(), "", dir)
		require.NoError(t, err)
		assert.Equal(t, fixed, testutil.ReadFile(t, filepath.Join(dir, "messy.sql")))
		assert.Contains(t, stdout, "fixed")
	})

	t.Run("suffix keeps the original", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"messy.sql": messy})
		_, _, err := execute(t, NewFixCommand(), "", dir, "--suffix", "_fixed")
		require.NoError(t, err)
		assert.Equal(t, messy, testutil.ReadFile(t, filepath.Join(dir, "messy.sql")))
		assert.Equal(t, fixed, testutil.ReadFile(t, filepath.Join(dir, "messy_fixed.sql")))
	})

	t.Run("check writes nothing", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"messy.sql": messy})
		stdout, _, err := execute(t, NewFixCommand(), "", dir, "--check")
		assert.Equal(t, ExitViolations, ExitCode(err))
		assert.Equal(t, messy, testutil.ReadFile(t, filepath.Join(dir, "messy.sql")))
		assert.Contains(t, stdout, "would be fixed")
	})

	t.Run("unfixable violations remain", func(t *testing.T) {
		long := "SELECT " + strings.Repeat("a", 120) + "\n"
		dir := testutil.WriteFiles(t, map[string]string{"long.sql": long})
		_, _, err := execute(t, NewFixCommand(), "", dir)
		assert.Equal(t, ExitViolations, ExitCode(err))
		assert.Equal(t, long, testutil.ReadFile(t, filepath.Join(dir, "long.sql")))
	})

	t.Run("unparsable file is left alone", func(t *testing.T) {
		dir := testutil.SetupTestProject(t)
		broken := filepath.Join(dir, "broken", "broken.sql")
		_, _, err := execute(t, NewFixCommand(), "", broken)
		assert.Equal(t, ExitViolations, ExitCode(err))
		assert.Equal(t, "SELECT (id FROM customers\n", testutil.ReadFile(t, broken))
	})

	t.Run("json report", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{"messy.sql": messy})
		stdout, _, err := execute(t, NewFixCommand(), "", dir, "-f", "json")
		require.NoError(t, err)

		var out output.LintOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		require.Len(t, out.Files, 1)
		assert.True(t, out.Files[0].Changed)
		assert.Positive(t, out.Summary.FixesApplied)
	})
}

func TestFixCommand_Stdin(t *testing.T) {
	stdout, stderr, err := execute(t, NewFixCommand(), "SELECT a  \nfrom t", "-")
	require.NoError(t, err)
	assert.Equal(t, "SELECT a\nFROM t\n", stdout)
	assert.NotContains(t, stderr, "SELECT a\nFROM t")

	stdout, _, err = execute(t, NewFixCommand(), "SELECT (a\n", "-")
	assert.Equal(t, ExitViolations, ExitCode(err))
	assert.Equal(t, "SELECT (a\n", stdout)
}

// ==== parse ====

func TestParseCommand(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"ok.sql":     "SELECT a FROM t;\n",
		"broken.sql": "SELECT (a\n",
	})

	t.Run("json tree", func(t *testing.T) {
		stdout, _, err := execute(t, NewParseCommand(), "", filepath.Join(dir, "ok.sql"), "-f", "json")
		require.NoError(t, err)

		var out ParseOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		assert.Contains(t, out.Tree, "file")
		assert.Empty(t, out.Violations)
	})

	t.Run("text tree", func(t *testing.T) {
		stdout, _, err := execute(t, NewParseCommand(), "", filepath.Join(dir, "ok.sql"), "-f", "text")
		require.NoError(t, err)
		assert.Contains(t, stdout, "select_statement:")
		assert.Contains(t, stdout, `keyword: "SELECT"`)
	})

	t.Run("code only yaml", func(t *testing.T) {
		stdout, _, err := execute(t, NewParseCommand(), "", filepath.Join(dir, "ok.sql"), "-f", "yaml", "--code-only")
		require.NoError(t, err)

		var out ParseOutput
		require.NoError(t, yaml.Unmarshal([]byte(stdout), &out))
		assert.NotContains(t, stdout, "whitespace")
		assert.NotContains(t, stdout, "newline")
	})

	t.Run("markdown", func(t *testing.T) {
		stdout, _, err := execute(t, NewParseCommand(), "SELECT 1\n", "-")
		require.NoError(t, err)
		testutil.AssertValidMarkdown(t, stdout)
		assert.Contains(t, stdout, "# Parse tree: stdin")
	})

	t.Run("unparsable", func(t *testing.T) {
		stdout, _, err := execute(t, NewParseCommand(), "", filepath.Join(dir, "broken.sql"), "-f", "json")
		assert.Equal(t, ExitViolations, ExitCode(err))

		var out ParseOutput
		require.NoError(t, json.Unmarshal([]byte(stdout), &out))
		assert.Nil(t, out.Tree)
		assert.Equal(t, []string{"PRS"}, codes(out.Violations))
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, NewParseCommand(), "", filepath.Join(dir, "nope.sql"))
		assert.Equal(t, ExitError, ExitCode(err))
	})
}

// ==== render ====

func TestRenderCommand(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{"a.sql": "SELECT 1\n"})

	stdout, _, err := execute(t, NewRenderCommand(), "", filepath.Join(dir, "a.sql"))
	require.NoError(t, err)
	assert.Contains(t, stdout, "SELECT 1")

	stdout, _, err = execute(t, NewRenderCommand(), "SELECT 2", "-")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "```sql\nSELECT 2\n```")

	_, _, err = execute(t, NewRenderCommand(), "", filepath.Join(dir, "nope.sql"))
	assert.Equal(t, ExitError, ExitCode(err))
}

// ==== init ====

func TestInitCommand(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		dir := t.TempDir()
		stdout, _, err := execute(t, NewInitCommand(), "", dir)
		require.NoError(t, err)
		assert.Contains(t, stdout, "initialized")

		data := testutil.ReadFile(t, filepath.Join(dir, intconfig.ConfigFileName))
		assert.True(t, strings.HasPrefix(data, configHeader))

		var got map[string]any
		require.NoError(t, yaml.Unmarshal([]byte(data), &got))
		assert.Equal(t, "ansi", got["dialect"])
		assert.Equal(t, 10, got["runaway_limit"])
	})

	t.Run("toml", func(t *testing.T) {
		dir := t.TempDir()
		_, _, err := execute(t, NewInitCommand(), "", dir, "--toml")
		require.NoError(t, err)

		var got map[string]any
		_, err = toml.DecodeFile(filepath.Join(dir, intconfig.ConfigFileNameTOML), &got)
		require.NoError(t, err)
		assert.Equal(t, "raw", got["templater"])
	})

	t.Run("existing config needs force", func(t *testing.T) {
		dir := testutil.WriteFiles(t, map[string]string{intconfig.ConfigFileName: "dialect: postgres\n"})

		_, _, err := execute(t, NewInitCommand(), "", dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--force")

		_, _, err = execute(t, NewInitCommand(), "", dir, "--force")
		require.NoError(t, err)
		assert.Contains(t, testutil.ReadFile(t, filepath.Join(dir, intconfig.ConfigFileName)), "dialect: ansi")
	})

	t.Run("creates the directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "warehouse")
		_, _, err := execute(t, NewInitCommand(), "", dir)
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, intconfig.ConfigFileName))
	})
}

// ==== dialects ====

func TestDialectsCommand(t *testing.T) {
	stdout, _, err := execute(t, NewDialectsCommand(), "")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	assert.Contains(t, stdout, "# Dialects")
	assert.Contains(t, stdout, "ansi (default)")
	assert.Contains(t, stdout, "postgres")
	assert.Contains(t, stdout, "starlark")
}

func TestDialectsOutput(t *testing.T) {
	r := testutil.NewTestRenderer(output.ModeJSON, false)
	require.NoError(t, r.JSON(DialectsOutput{
		Dialects:   []DialectInfo{{Name: "ansi", Keywords: 3, Default: true}},
		Templaters: []string{"raw"},
	}))

	var out DialectsOutput
	require.NoError(t, json.Unmarshal(r.Out.Bytes(), &out))
	assert.Equal(t, "ansi", out.Dialects[0].Name)
	assert.True(t, out.Dialects[0].Default)
	assert.Equal(t, []string{"raw"}, out.Templaters)
}
