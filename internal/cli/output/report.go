package output

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/linter"
)

// =============================================================================
// Structured report
// =============================================================================

// ViolationOutput is one violation in a structured report.
type ViolationOutput struct {
	Line        int    `json:"start_line_no" yaml:"start_line_no"`
	Column      int    `json:"start_line_pos" yaml:"start_line_pos"`
	Code        string `json:"code" yaml:"code"`
	Description string `json:"description" yaml:"description"`
	Severity    string `json:"severity" yaml:"severity"`
	Kind        string `json:"kind" yaml:"kind"`
	Fixable     bool   `json:"fixable" yaml:"fixable"`
}

// FileOutput is one file in a structured report.
type FileOutput struct {
	Path       string            `json:"filepath" yaml:"filepath"`
	Violations []ViolationOutput `json:"violations" yaml:"violations"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Changed    bool              `json:"changed" yaml:"changed"`
	Stats      linter.LoopStats  `json:"stats" yaml:"stats"`
}

// LintOutput is the structured report for a run.
type LintOutput struct {
	ID       string         `json:"id" yaml:"id"`
	Files    []FileOutput   `json:"files" yaml:"files"`
	Summary  linter.Summary `json:"summary" yaml:"summary"`
	Duration string         `json:"duration" yaml:"duration"`
}

// NewLintOutput converts a result to its structured report.
func NewLintOutput(result *linter.LintingResult, filter linter.ViolationFilter) LintOutput {
	out := LintOutput{
		ID:       result.ID.String(),
		Files:    []FileOutput{},
		Summary:  result.Summary(),
		Duration: result.Duration.String(),
	}
	for _, f := range result.Files() {
		fo := FileOutput{Path: f.Path, Violations: []ViolationOutput{}, Stats: f.Stats}
		if f.Err != nil {
			fo.Error = f.Err.Error()
		}
		_, fo.Changed = f.FixString()
		for _, v := range f.Violations(filter) {
			fo.Violations = append(fo.Violations, newViolationOutput(v))
		}
		out.Files = append(out.Files, fo)
	}
	return out
}

func newViolationOutput(v core.Violation) ViolationOutput {
	return ViolationOutput{
		Line:        v.Pos().Line,
		Column:      v.Pos().Column,
		Code:        v.Code(),
		Description: v.Description(),
		Severity:    v.Severity().String(),
		Kind:        string(v.Kind()),
		Fixable:     v.IsFixable(),
	}
}

// =============================================================================
// Streaming formatter
// =============================================================================

// Formatter streams per-file results in text mode while a run is in
// progress. In other modes it stays quiet and the report is written by
// LintReport once the run ends.
type Formatter struct {
	r       *Renderer
	filter  linter.ViolationFilter
	verbose bool
	logger  *slog.Logger

	mu sync.Mutex
}

var _ linter.Formatter = (*Formatter)(nil)

// NewFormatter creates a formatter. Verbose mode also reports passing files
// and pipeline steps.
func NewFormatter(r *Renderer, filter linter.ViolationFilter, verbose bool, logger *slog.Logger) *Formatter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Formatter{r: r, filter: filter, verbose: verbose, logger: logger}
}

func (f *Formatter) streaming() bool {
	return f.r.EffectiveMode() == ModeText
}

// DispatchTemplateHeader implements linter.Formatter.
func (f *Formatter) DispatchTemplateHeader(fname string) {
	f.logger.Debug("templating", "file", fname)
	if f.verbose && f.streaming() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.r.Println(f.r.styles.Muted.Render("=== [" + fname + "] templating"))
	}
}

// DispatchParseHeader implements linter.Formatter.
func (f *Formatter) DispatchParseHeader(fname string) {
	f.logger.Debug("parsing", "file", fname)
	if f.verbose && f.streaming() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.r.Println(f.r.styles.Muted.Render("=== [" + fname + "] parsing"))
	}
}

// DispatchFileViolations implements linter.Formatter.
func (f *Formatter) DispatchFileViolations(fname string, file *linter.LintedFile, onlyFixable bool) {
	if !f.streaming() {
		return
	}
	filter := f.filter
	if onlyFixable {
		filter.FixableOnly = true
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.r.fileViolations(fname, file, filter, f.verbose)
}

// fileViolations writes one file block in the style:
//
//	== [models/a.sql] FAIL
//	L:   1 | P:   9 | LT01 | Trailing whitespace.
func (r *Renderer) fileViolations(fname string, file *linter.LintedFile, filter linter.ViolationFilter, verbose bool) {
	s := r.styles
	if file.Err != nil {
		r.Printf("== [%s] %s\n", s.FilePath.Render(fname), s.Error.Render("ERROR"))
		r.Printf("   %s\n", file.Err)
		return
	}

	violations := file.Violations(filter)
	if len(violations) == 0 {
		if verbose {
			r.Printf("== [%s] %s\n", s.FilePath.Render(fname), s.Success.Render("PASS"))
		}
		return
	}

	r.Printf("== [%s] %s\n", s.FilePath.Render(fname), s.Error.Render("FAIL"))
	for _, v := range violations {
		r.Printf("L:%4d | P:%4d | %s | %s\n",
			v.Pos().Line,
			v.Pos().Column,
			severityStyle(s, v.Severity()).Render(fmt.Sprintf("%-4s", v.Code())),
			v.Description(),
		)
	}
}

func severityStyle(s *Styles, sev core.Severity) lipgloss.Style {
	switch sev {
	case core.SeverityError:
		return s.Error
	case core.SeverityWarning:
		return s.Warning
	case core.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}

// SeverityStyle returns the style used for a severity.
func (r *Renderer) SeverityStyle(sev core.Severity) lipgloss.Style {
	return severityStyle(r.styles, sev)
}

// =============================================================================
// End of run report
// =============================================================================

// LintReport writes the end-of-run report. Text mode only writes the
// summary since files were streamed by a Formatter.
func (r *Renderer) LintReport(result *linter.LintingResult, filter linter.ViolationFilter, fixing bool) error {
	if ok, err := r.Structured(NewLintOutput(result, filter)); ok {
		return err
	}

	if r.EffectiveMode() == ModeMarkdown {
		r.lintMarkdown(result, filter)
	}
	r.lintSummary(result, filter, fixing)
	return nil
}

func (r *Renderer) lintMarkdown(result *linter.LintingResult, filter linter.ViolationFilter) {
	r.Println("# Lint Results")
	r.Println("")

	for _, f := range result.Files() {
		if f.Err != nil {
			r.Printf("## `%s`\n\n", f.Path)
			r.Printf("**Error:** %s\n\n", f.Err)
			continue
		}
		violations := f.Violations(filter)
		if len(violations) == 0 {
			continue
		}
		r.Printf("## `%s`\n\n", f.Path)
		rows := make([]table.Row, 0, len(violations))
		for _, v := range violations {
			rows = append(rows, table.Row{v.Pos().Line, v.Pos().Column, v.Code(), v.Severity().String(), v.Description()})
		}
		r.Table(table.Row{"Line", "Pos", "Rule", "Severity", "Description"}, rows)
		r.Println("")
	}
}

func (r *Renderer) lintSummary(result *linter.LintingResult, filter linter.ViolationFilter, fixing bool) {
	sum := result.Summary()
	violations := result.NumViolations(filter)
	s := r.styles

	if r.EffectiveMode() == ModeMarkdown {
		r.Println("## Summary")
		r.Println("")
		r.Printf("- Files: %d\n", sum.Files)
		r.Printf("- Files with issues: %d\n", sum.FilesWithIssue)
		r.Printf("- Violations: %d\n", violations)
		if fixing {
			r.Printf("- Fixes applied: %d\n", sum.FixesApplied)
		}
		if sum.Errors > 0 {
			r.Printf("- Errors: %d\n", sum.Errors)
		}
		return
	}

	r.Println("")
	if violations == 0 && sum.Errors == 0 {
		r.Println(s.Success.Render(fmt.Sprintf("All Finished! %d files checked, no issues found.", sum.Files)))
		return
	}
	line := fmt.Sprintf("All Finished! %d files checked, %d violations in %d files.", sum.Files, violations, sum.FilesWithIssue)
	r.Println(s.Bold.Render(line))
	if fixing {
		r.Println(s.Muted.Render(fmt.Sprintf("%d fixes applied.", sum.FixesApplied)))
	} else if sum.Fixable > 0 {
		r.Println(s.Muted.Render(fmt.Sprintf("%d violations are fixable; run 'sqlint fix' to apply them.", sum.Fixable)))
	}
	if sum.Errors > 0 {
		r.Println(s.Error.Render(fmt.Sprintf("%d files could not be linted.", sum.Errors)))
	}
}
