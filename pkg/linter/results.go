package linter

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
	"github.com/leapstack-labs/sqlint/pkg/templater"
)

// Timing keys.
const (
	StepTemplating = "templating"
	StepLexing     = "lexing"
	StepParsing    = "parsing"
	StepLinting    = "linting"
)

// Timings records the duration of each pipeline step.
type Timings map[string]time.Duration

// Total returns the sum of all steps.
func (t Timings) Total() time.Duration {
	var total time.Duration
	for _, d := range t {
		total += d
	}
	return total
}

// RenderedFile is the output of the templater step.
type RenderedFile struct {
	FName    string
	Source   string
	Encoding string
	// TemplatedFile is nil when the templater produced no output.
	TemplatedFile *templater.TemplatedFile
	Violations    []*core.SQLTemplaterError
	Config        *core.Config
	Dialect       *dialect.Dialect
	Timings       Timings
}

// ParsedString is the output of the parse step.
type ParsedString struct {
	FName         string
	Source        string
	Encoding      string
	TemplatedFile *templater.TemplatedFile
	// Tree is nil when the input had no tokens or could not be parsed.
	Tree *segment.Segment
	// Violations from templating, lexing and parsing.
	Violations []core.Violation
	Config     *core.Config
	Dialect    *dialect.Dialect
	Timings    Timings
}

// HasParseError reports whether parsing failed.
func (p *ParsedString) HasParseError() bool {
	for _, v := range p.Violations {
		if v.Kind() == core.KindParse {
			return true
		}
	}
	return false
}

// LoopStats describes what the lint-fix loop did for one file.
type LoopStats struct {
	Passes            map[lint.Phase]int `json:"passes" yaml:"passes"`
	FixesApplied      int                `json:"fixes_applied" yaml:"fixes_applied"`
	ConflictedAnchors int                `json:"conflicted_anchors" yaml:"conflicted_anchors"`
	RejectedBatches   int                `json:"rejected_batches" yaml:"rejected_batches"`
	RuleFailures      int                `json:"rule_failures" yaml:"rule_failures"`
}

// sortViolations orders violations by position then code.
func sortViolations(vs []core.Violation) {
	slices.SortStableFunc(vs, func(a, b core.Violation) int {
		return cmp.Or(
			cmp.Compare(a.Pos().Line, b.Pos().Line),
			cmp.Compare(a.Pos().Column, b.Pos().Column),
			cmp.Compare(a.Code(), b.Code()),
		)
	})
}

// =============================================================================
// Multi-file results
// =============================================================================

// LintedDir holds the files linted for one input path.
type LintedDir struct {
	Path  string
	Files []*LintedFile
}

// NumViolations counts violations across files.
func (d *LintedDir) NumViolations(filter ViolationFilter) int {
	n := 0
	for _, f := range d.Files {
		n += len(f.Violations(filter))
	}
	return n
}

// LintingResult accumulates the results of a run.
type LintingResult struct {
	ID       uuid.UUID
	Dirs     []*LintedDir
	Started  time.Time
	Duration time.Duration
}

func newLintingResult() *LintingResult {
	return &LintingResult{ID: uuid.New(), Started: time.Now()}
}

func (r *LintingResult) add(dir *LintedDir) {
	r.Dirs = append(r.Dirs, dir)
}

func (r *LintingResult) stop() {
	r.Duration = time.Since(r.Started)
}

// Files returns all linted files in order.
func (r *LintingResult) Files() []*LintedFile {
	var files []*LintedFile
	for _, d := range r.Dirs {
		files = append(files, d.Files...)
	}
	return files
}

// NumViolations counts violations across all files.
func (r *LintingResult) NumViolations(filter ViolationFilter) int {
	n := 0
	for _, d := range r.Dirs {
		n += d.NumViolations(filter)
	}
	return n
}

// Summary aggregates counts over a run.
type Summary struct {
	Files          int `json:"files" yaml:"files"`
	FilesWithIssue int `json:"files_with_issues" yaml:"files_with_issues"`
	Violations     int `json:"violations" yaml:"violations"`
	Fixable        int `json:"fixable" yaml:"fixable"`
	Errors         int `json:"errors" yaml:"errors"`
	FixesApplied   int `json:"fixes_applied" yaml:"fixes_applied"`
}

// Summary returns aggregate counts for the run.
func (r *LintingResult) Summary() Summary {
	var s Summary
	for _, f := range r.Files() {
		s.Files++
		vs := f.Violations(ViolationFilter{})
		if len(vs) > 0 || f.Err != nil {
			s.FilesWithIssue++
		}
		s.Violations += len(vs)
		s.Fixable += len(f.Violations(ViolationFilter{FixableOnly: true}))
		if f.Err != nil {
			s.Errors++
		}
		s.FixesApplied += f.Stats.FixesApplied
	}
	return s
}

// HasFatalErrors reports whether any file failed outright.
func (r *LintingResult) HasFatalErrors() bool {
	for _, f := range r.Files() {
		if f.Err != nil {
			return true
		}
	}
	return false
}
