package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// stdinPath selects standard input in place of file paths.
const stdinPath = "-"

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format        string   // Output format override
	Severity      string   // Minimum severity reported: error, warning, info, hint
	Only          []string // Report only these rule codes
	NoFail        bool     // Exit 0 even when violations are found
	Watch         bool     // Re-lint when files change
	StdinFilename string   // Name used for input read from stdin
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint SQL files",
		Long: `Lint SQL files and report rule violations.

Directories are searched for files with a SQL extension, honouring
.sqlintignore files. Use "-" to read SQL from standard input.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON/YAML: Machine-readable format

Exit codes: 0 when clean, 1 when violations are found, 2 on errors.`,
		Example: `  # Lint the current directory
  sqlint lint

  # Lint specific files with a dialect
  sqlint lint models/orders.sql --dialect postgres

  # Lint from stdin
  echo "select 1" | sqlint lint -

  # Only report errors, as JSON
  sqlint lint --severity error -o json

  # Re-lint on every change
  sqlint lint models --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringVar(&opts.Severity, "severity", "", "Minimum severity to report: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil, "Report only these rule codes")
	cmd.Flags().BoolVar(&opts.NoFail, "nofail", false, "Exit 0 even when violations are found")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Watch paths and re-lint on change")
	cmd.Flags().StringVar(&opts.StdinFilename, "stdin-filename", "stdin", "File name reported for input read from stdin")

	return cmd
}

// violationFilter builds the report filter from command options.
func violationFilter(severity string, only []string) (linter.ViolationFilter, error) {
	filter := linter.ViolationFilter{Rules: only}
	if severity != "" {
		sev, ok := core.ParseSeverity(severity)
		if !ok {
			return filter, fmt.Errorf("invalid severity %q (expected error, warning, info or hint)", severity)
		}
		filter.MinSeverity = &sev
	}
	return filter, nil
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	filter, err := violationFilter(opts.Severity, opts.Only)
	if err != nil {
		return err
	}
	l := cmdCtx.NewLinter(filter)

	if isStdin(args) {
		if opts.Watch {
			return fmt.Errorf("--watch cannot be used with stdin")
		}
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		result := l.LintStringWrapped(string(in), opts.StdinFilename, false)
		return reportLint(cmdCtx, result, filter, opts.NoFail)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	lintOnce := func(ctx context.Context) error {
		result, err := l.LintPaths(ctx, paths, false)
		if err != nil {
			return errFatal("%v", err)
		}
		return reportLint(cmdCtx, result, filter, opts.NoFail)
	}

	if !opts.Watch {
		return lintOnce(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return watch(ctx, cmdCtx, paths, func(ctx context.Context) {
		if err := lintOnce(ctx); err != nil && !IsSilent(err) {
			cmdCtx.Renderer.Error(err.Error())
		}
	})
}

// reportLint writes the report and maps the outcome to an exit error.
func reportLint(cmdCtx *CommandContext, result *linter.LintingResult, filter linter.ViolationFilter, noFail bool) error {
	if err := cmdCtx.Renderer.LintReport(result, filter, false); err != nil {
		return err
	}
	if result.HasFatalErrors() {
		return &exitError{code: ExitError, err: fmt.Errorf("some files could not be linted"), silent: true}
	}
	if !noFail && result.NumViolations(filter) > 0 {
		return errLintIssues
	}
	return nil
}

func isStdin(args []string) bool {
	return len(args) == 1 && strings.TrimSpace(args[0]) == stdinPath
}
