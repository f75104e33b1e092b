package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/sqlint/internal/cli/output"
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	Format        string // Output format override
	CodeOnly      bool   // Drop whitespace, newlines and comments from the tree
	StdinFilename string // Name used for input read from stdin
}

// ParseOutput is the structured output of the parse command.
type ParseOutput struct {
	Path       string                   `json:"filepath" yaml:"filepath"`
	Tree       map[string]any           `json:"parse_tree" yaml:"parse_tree"`
	Violations []output.ViolationOutput `json:"violations" yaml:"violations"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse <path>",
		Short: "Show the parse tree of a SQL file",
		Long: `Render, lex and parse a SQL file and print the resulting segment tree.

Useful when writing rules or when a file is reported as unparsable.
Use "-" to read SQL from standard input.`,
		Example: `  # Show the tree of a file
  sqlint parse models/orders.sql

  # Tree without whitespace, as YAML
  sqlint parse models/orders.sql --code-only -o yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json, yaml")
	cmd.Flags().BoolVarP(&opts.CodeOnly, "code-only", "c", false, "Only show code segments")
	cmd.Flags().StringVar(&opts.StdinFilename, "stdin-filename", "stdin", "File name reported for input read from stdin")

	return cmd
}

func runParse(cmd *cobra.Command, path string, opts *ParseOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
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
		rendered, err = l.RenderString(string(in), opts.StdinFilename, nil)
	} else {
		rendered, err = l.RenderFile(path)
	}
	if err != nil {
		return errFatal("%v", err)
	}
	parsed := l.ParseRendered(rendered)

	out := ParseOutput{Path: parsed.FName, Violations: []output.ViolationOutput{}}
	if parsed.Tree != nil {
		out.Tree = parsed.Tree.Tuple(opts.CodeOnly)
	}
	for _, v := range parsed.Violations {
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
		return parseOutcome(parsed)
	}

	if r.EffectiveMode() == output.ModeMarkdown {
		r.Header(1, "Parse tree: "+parsed.FName)
		r.Println("```yaml")
		if out.Tree != nil {
			data, err := yaml.Marshal(out.Tree)
			if err != nil {
				return err
			}
			r.Printf("%s", data)
		}
		r.Println("```")
	} else if parsed.Tree != nil {
		r.Printf("%s", stringify(parsed, opts.CodeOnly))
	}

	for _, v := range out.Violations {
		r.Printf("L:%4d | P:%4d | %s | %s\n", v.Line, v.Column, r.Styles().Error.Render(fmt.Sprintf("%-4s", v.Code)), v.Description)
	}
	return parseOutcome(parsed)
}

func stringify(parsed *linter.ParsedString, codeOnly bool) string {
	if !codeOnly {
		return parsed.Tree.Stringify()
	}
	data, err := yaml.Marshal(parsed.Tree.Tuple(true))
	if err != nil {
		return parsed.Tree.Stringify()
	}
	return string(data)
}

func parseOutcome(parsed *linter.ParsedString) error {
	if len(parsed.Violations) > 0 {
		return errLintIssues
	}
	return nil
}
