package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlint/internal/cli/output"
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// FixOptions holds options for the fix command.
type FixOptions struct {
	Format        string // Output format override
	Suffix        string // Write fixed files next to the originals with this suffix
	Check         bool   // Report what would change without writing
	StdinFilename string // Name used for input read from stdin
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	opts := &FixOptions{}
	cmd := &cobra.Command{
		Use:   "fix [paths...]",
		Short: "Fix SQL files in place",
		Long: `Apply the fixes proposed by lint rules and write the results.

Rules run repeatedly until the file stops changing or the runaway limit
is reached. Fixes that would leave the file unparsable are discarded.
Use "-" to read SQL from standard input and write the fixed SQL to
standard output.

Exit codes: 0 when every violation was fixed, 1 when violations remain
(or, with --check, when files would change), 2 on errors.`,
		Example: `  # Fix every SQL file under models/
  sqlint fix models

  # Write fixed copies as orders_fixed.sql
  sqlint fix models/orders.sql --suffix _fixed

  # Fail in CI when a file is not formatted
  sqlint fix --check

  # Fix from stdin
  cat query.sql | sqlint fix -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFix(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().StringVar(&opts.Suffix, "suffix", "", "Write fixed files with this suffix instead of overwriting")
	cmd.Flags().BoolVar(&opts.Check, "check", false, "Report files that would change without writing them")
	cmd.Flags().StringVar(&opts.StdinFilename, "stdin-filename", "stdin", "File name reported for input read from stdin")

	return cmd
}

func runFix(cmd *cobra.Command, args []string, opts *FixOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	r := cmdCtx.Renderer

	if isStdin(args) {
		return fixStdin(cmd, cmdCtx, opts)
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{"."}
	}

	l := cmdCtx.NewLinter(linter.ViolationFilter{})
	result, err := l.LintPaths(cmd.Context(), paths, true)
	if err != nil {
		return errFatal("%v", err)
	}

	structured := r.EffectiveMode().IsStructured()
	changed := 0
	for _, f := range result.Files() {
		if f.Err != nil {
			continue
		}
		if opts.Check {
			if _, ok := f.FixString(); ok {
				changed++
				if !structured {
					r.StatusLine(f.Path, "warning", "would be fixed")
				}
			}
			continue
		}
		written, err := f.PersistTree(opts.Suffix)
		if err != nil {
			return errFatal("%v", err)
		}
		if written {
			changed++
			cmdCtx.Logger.Debug("fixed file written", "path", f.Path, "fixes", f.Stats.FixesApplied)
			if !structured {
				r.StatusLine(f.Path, "success", "fixed")
			}
		}
	}

	if err := r.LintReport(result, linter.ViolationFilter{}, true); err != nil {
		return err
	}
	if result.HasFatalErrors() {
		return &exitError{code: ExitError, err: fmt.Errorf("some files could not be fixed"), silent: true}
	}
	if opts.Check && changed > 0 {
		return errLintIssues
	}
	if remaining := unfixable(result); remaining > 0 {
		cmdCtx.Logger.Debug("unfixable violations remain", "count", remaining)
		return errLintIssues
	}
	return nil
}

// fixStdin fixes standard input and writes the result to stdout. The report
// goes to stderr so stdout carries only SQL.
func fixStdin(cmd *cobra.Command, cmdCtx *CommandContext, opts *FixOptions) error {
	in, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}

	format := opts.Format
	if format == "" {
		format = cmdCtx.Cfg.OutputFormat
	}
	report := output.NewRenderer(cmd.ErrOrStderr(), cmd.ErrOrStderr(), output.Mode(format))
	cmdCtx = &CommandContext{Cfg: cmdCtx.Cfg, Logger: cmdCtx.Logger, Renderer: report}
	l := cmdCtx.NewLinter(linter.ViolationFilter{})

	file := l.LintString(string(in), opts.StdinFilename, true)
	if file.Err != nil {
		return errFatal("%v", file.Err)
	}

	fixed, _ := file.FixString()
	if file.Tree == nil {
		// unparsable input is echoed unchanged
		fixed = string(in)
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), fixed); err != nil {
		return err
	}
	if unfixableIn(file) > 0 {
		return errLintIssues
	}
	return nil
}

// unfixable counts violations without a fix across a run.
func unfixable(result *linter.LintingResult) int {
	n := 0
	for _, f := range result.Files() {
		n += unfixableIn(f)
	}
	return n
}

func unfixableIn(f *linter.LintedFile) int {
	return len(f.Violations(linter.ViolationFilter{})) - len(f.Violations(linter.ViolationFilter{FixableOnly: true}))
}
