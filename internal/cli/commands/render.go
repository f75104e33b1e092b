package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlint/internal/cli/output"
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// RenderOutput is the structured output of the render command.
type RenderOutput struct {
	Path       string                   `json:"filepath" yaml:"filepath"`
	Templater  string                   `json:"templater" yaml:"templater"`
	SQL        string                   `json:"sql" yaml:"sql"`
	Violations []output.ViolationOutput `json:"violations" yaml:"violations"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	var stdinFilename string
	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render a SQL file with its templater",
		Long: `Render a SQL file with the configured templater and print the SQL
that the linter sees.

This is useful for debugging template issues and understanding which
parts of a file are linted.

Output adapts to environment:
  - Terminal: Plain SQL (suitable for syntax highlighting)
  - Piped/Scripted: Markdown with code block`,
		Example: `  # Render a templated model
  sqlint render models/orders.sql --templater starlark

  # Render as JSON
  sqlint render models/orders.sql -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], stdinFilename)
		},
	}

	cmd.Flags().StringVar(&stdinFilename, "stdin-filename", "stdin", "File name reported for input read from stdin")

	return cmd
}

func runRender(cmd *cobra.Command, path, stdinFilename string) error {
	cmdCtx := NewCommandContext(cmd, "")
	r := cmdCtx.Renderer
	l := linter.New(cmdCtx.Cfg.Lint(), linter.WithLogger(cmdCtx.Logger))

	var (
		rendered *linter.RenderedFile
		err      error
	)
	if path == stdinPath {
		in, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		rendered, err = l.RenderString(string(in), stdinFilename, nil)
	} else {
		rendered, err = l.RenderFile(path)
	}
	if err != nil {
		return errFatal("failed to render %s: %v", path, err)
	}

	out := RenderOutput{
		Path:       rendered.FName,
		Templater:  rendered.Config.Templater,
		Violations: []output.ViolationOutput{},
	}
	if rendered.TemplatedFile != nil {
		out.SQL = rendered.TemplatedFile.TemplatedStr
	}
	for _, v := range rendered.Violations {
		out.Violations = append(out.Violations, output.ViolationOutput{
			Line:        v.Pos().Line,
			Column:      v.Pos().Column,
			Code:        v.Code(),
			Description: v.Description(),
			Severity:    v.Severity().String(),
			Kind:        string(v.Kind()),
		})
	}

	if ok, err := r.Structured(out); ok {
		if err != nil {
			return err
		}
		return renderOutcome(out)
	}

	switch r.EffectiveMode() {
	case output.ModeMarkdown:
		r.Header(1, "Rendered SQL: "+out.Path)
		r.Println("```sql")
		r.Printf("%s", out.SQL)
		if out.SQL != "" && out.SQL[len(out.SQL)-1] != '\n' {
			r.Println("")
		}
		r.Println("```")
	default:
		// Text mode: just output the SQL directly
		r.Printf("%s", out.SQL)
	}

	for _, v := range out.Violations {
		r.Error(fmt.Sprintf("L:%d P:%d %s %s", v.Line, v.Column, v.Code, v.Description))
	}
	return renderOutcome(out)
}

func renderOutcome(out RenderOutput) error {
	if len(out.Violations) > 0 {
		return errLintIssues
	}
	return nil
}
