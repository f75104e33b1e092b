package linter

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlint/internal/testutil"
	"github.com/leapstack-labs/sqlint/pkg/core"
	_ "github.com/leapstack-labs/sqlint/pkg/dialects/all" // register dialects
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	_ "github.com/leapstack-labs/sqlint/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func newTestLinter(t *testing.T, cfg *core.Config, opts ...Option) *Linter {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.NewTestLogger(t))}, opts...)
	return New(cfg, opts...)
}

type violationRow struct {
	Code   string
	Line   int
	Column int
}

func rows(vs []core.Violation) []violationRow {
	out := make([]violationRow, len(vs))
	for i, v := range vs {
		out[i] = violationRow{Code: v.Code(), Line: v.Pos().Line, Column: v.Pos().Column}
	}
	return out
}

// =============================================================================
// Mock rules
// =============================================================================

// togglingRule flips the case of the first keyword on every crawl, so it
// never converges.
func togglingRule(id string, phase lint.Phase, crawls *int) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:            id,
		Name:          "test.toggle",
		Phase:         phase,
		FixCompatible: true,
		Crawl: func(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
			*crawls++
			for _, seg := range ctx.Tree.RawSegments() {
				if !seg.Is(segment.TypeKeyword) {
					continue
				}
				flipped := strings.ToUpper(seg.Raw())
				if flipped == seg.Raw() {
					flipped = strings.ToLower(seg.Raw())
				}
				v := core.NewLintError(id, "toggle", seg.Pos(), core.SeverityWarning).WithFix(true)
				return []*core.SQLLintError{v},
					[]fix.Fix{fix.NewReplace(seg, segment.NewRaw(segment.TypeKeyword, flipped, seg.Marker()))}, nil
			}
			return nil, nil, nil
		},
	})
}

// countingRule reports one violation per crawl and never fixes anything.
func countingRule(id string, crawls *int) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:   id,
		Name: "test.count",
		Crawl: func(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
			*crawls++
			return []*core.SQLLintError{
				core.NewLintError(id, "counted", ctx.Tree.RawSegments()[0].Pos(), core.SeverityInfo),
			}, nil, nil
		},
	})
}

// fixingRule proposes the fixes returned by build for the first leaf of
// type typ.
func fixingRule(id string, typ segment.Type, build func(seg *segment.Segment) []fix.Fix) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:            id,
		Name:          "test.fixing",
		FixCompatible: true,
		Crawl: func(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
			for _, seg := range ctx.Tree.RawSegments() {
				if seg.Is(typ) {
					v := core.NewLintError(id, "fixing", seg.Pos(), core.SeverityWarning).WithFix(true)
					return []*core.SQLLintError{v}, build(seg), nil
				}
			}
			return nil, nil, nil
		},
	})
}

// =============================================================================
// Pipeline
// =============================================================================

func TestNormaliseNewlines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"mixed endings", "SELECT\r\n foo\n FROM \r \n\r bar;", "SELECT\n foo\n FROM \n \n\n bar;"},
		{"unix untouched", "SELECT 1\n", "SELECT 1\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormaliseNewlines(tt.in))
		})
	}
}

func TestLintString_EmptyInput(t *testing.T) {
	l := newTestLinter(t, nil)
	file := l.LintString("", "", false)

	require.NoError(t, file.Err)
	assert.Equal(t, "<string input>", file.Path)
	assert.Nil(t, file.Tree)
	assert.Empty(t, file.Violations(ViolationFilter{}))

	fixed, changed := file.FixString()
	assert.Equal(t, "", fixed)
	assert.False(t, changed)
}

func TestLintString_LintOnly(t *testing.T) {
	l := newTestLinter(t, nil)
	file := l.LintString("SELECT a  \nfrom t", "q.sql", false)
	require.NoError(t, file.Err)

	assert.Equal(t, []violationRow{
		{"LT01", 1, 9},
		{"CP01", 2, 1},
		{"LT12", 2, 6},
	}, rows(file.Violations(ViolationFilter{})))

	assert.Equal(t, 1, file.Stats.Passes[lint.PhaseMain])
	assert.Zero(t, file.Stats.Passes[lint.PhasePost])
	assert.Zero(t, file.Stats.FixesApplied)

	fixed, changed := file.FixString()
	assert.False(t, changed)
	assert.Equal(t, "SELECT a  \nfrom t", fixed)
}

func TestLintString_Fix(t *testing.T) {
	l := newTestLinter(t, nil)
	file := l.LintString("SELECT a  \nfrom t", "q.sql", true)
	require.NoError(t, file.Err)

	fixed, changed := file.FixString()
	assert.True(t, changed)
	assert.Equal(t, "SELECT a\nFROM t\n", fixed)

	// the first pass reports every rule, post-phase ones included
	assert.Equal(t, []violationRow{
		{"LT01", 1, 9},
		{"CP01", 2, 1},
		{"LT12", 2, 6},
	}, rows(file.Violations(ViolationFilter{})))

	assert.Equal(t, 2, file.Stats.Passes[lint.PhaseMain])
	assert.Equal(t, 1, file.Stats.Passes[lint.PhasePost])
	assert.Equal(t, 3, file.Stats.FixesApplied)
	assert.Zero(t, file.Stats.RejectedBatches)
}

func TestLintString_FixIsIdempotent(t *testing.T) {
	l := newTestLinter(t, nil)
	first := l.LintString("select a ,b  \nfrom t where a != 1\n\n\n", "q.sql", true)
	fixed, changed := first.FixString()
	require.True(t, changed)

	second := l.LintString(fixed, "q.sql", true)
	again, changed := second.FixString()
	assert.False(t, changed)
	assert.Equal(t, fixed, again)
}

func TestLintString_FirstPassViolationsOnly(t *testing.T) {
	var crawls int
	l := newTestLinter(t, nil, WithRules(togglingRule("TG01", lint.PhaseMain, &crawls)))

	file := l.LintString("select 1\n", "q.sql", true)
	require.NoError(t, file.Err)

	// the rule fires on every pass but only the first pass is reported
	assert.Len(t, file.Violations(ViolationFilter{}), 1)
	assert.Greater(t, crawls, 1)
}

func TestLintString_ConvergenceBounds(t *testing.T) {
	tests := []struct {
		name       string
		runaway    int
		phase      lint.Phase
		wantMain   int
		wantPost   int
		wantCrawls int
	}{
		{"main hits runaway limit", 0, lint.PhaseMain, core.DefaultRunawayLimit, 0, core.DefaultRunawayLimit},
		{"custom runaway limit", 3, lint.PhaseMain, 3, 0, 3},
		// one crawl on the first main pass, then the post phase limit
		{"post phase capped", 0, lint.PhasePost, 1, PostPhaseLimit, 1 + PostPhaseLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			cfg.RunawayLimit = tt.runaway

			var crawls int
			l := newTestLinter(t, cfg, WithRules(togglingRule("TG01", tt.phase, &crawls)))
			file := l.LintString("select 1\n", "q.sql", true)
			require.NoError(t, file.Err)

			assert.Equal(t, tt.wantMain, file.Stats.Passes[lint.PhaseMain])
			assert.Equal(t, tt.wantPost, file.Stats.Passes[lint.PhasePost])
			assert.Equal(t, tt.wantCrawls, crawls)
		})
	}
}

func TestLintString_LintRunsEveryRuleOnce(t *testing.T) {
	var toggles, counts int
	l := newTestLinter(t, nil, WithRules(
		togglingRule("TG01", lint.PhasePost, &toggles),
		countingRule("CN01", &counts),
	))

	file := l.LintString("select 1\n", "q.sql", false)
	require.NoError(t, file.Err)

	// linting is one pass of every rule
	assert.Equal(t, 1, toggles)
	assert.Equal(t, 1, counts)
	assert.Len(t, file.Violations(ViolationFilter{}), 2)
}

func TestLintString_FixIncompatibleRulesRunOnce(t *testing.T) {
	var toggles, counts int
	cfg := core.DefaultConfig()
	cfg.RunawayLimit = 4
	l := newTestLinter(t, cfg, WithRules(
		togglingRule("TG01", lint.PhaseMain, &toggles),
		countingRule("CN01", &counts),
	))

	file := l.LintString("select 1\n", "q.sql", true)
	require.NoError(t, file.Err)

	assert.Equal(t, 4, toggles)
	assert.Equal(t, 1, counts)
}

func TestLintString_ConflictingFixesSkipped(t *testing.T) {
	conflicting := fixingRule("CF01", segment.TypeIdentifier, func(seg *segment.Segment) []fix.Fix {
		return []fix.Fix{
			fix.NewReplace(seg, segment.NewRaw(segment.TypeIdentifier, "b", seg.Marker())),
			fix.NewDelete(seg),
		}
	})
	l := newTestLinter(t, nil, WithRules(conflicting))

	file := l.LintString("SELECT a\n", "q.sql", true)
	require.NoError(t, file.Err)

	fixed, changed := file.FixString()
	assert.False(t, changed)
	assert.Equal(t, "SELECT a\n", fixed)
	assert.Positive(t, file.Stats.ConflictedAnchors)
	assert.Zero(t, file.Stats.FixesApplied)
}

func TestLintString_InvalidFixesReverted(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  lint.Rule
	}{
		{
			name:  "broken brackets",
			input: "SELECT (a)\n",
			rule: fixingRule("BR01", segment.TypeStartBracket, func(seg *segment.Segment) []fix.Fix {
				return []fix.Fix{fix.NewReplace(seg, segment.NewRaw(segment.TypeIdentifier, "x", seg.Marker()))}
			}),
		},
		{
			name:  "new unlexable text",
			input: "SELECT a\n",
			rule: fixingRule("UL01", segment.TypeIdentifier, func(seg *segment.Segment) []fix.Fix {
				return []fix.Fix{fix.NewReplace(seg, segment.NewRaw(segment.TypeIdentifier, "??", seg.Marker()))}
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLinter(t, nil, WithRules(tt.rule))
			file := l.LintString(tt.input, "q.sql", true)
			require.NoError(t, file.Err)

			fixed, changed := file.FixString()
			assert.False(t, changed)
			assert.Equal(t, tt.input, fixed)
			assert.Positive(t, file.Stats.RejectedBatches)
			// the violation is still reported
			assert.Len(t, file.Violations(ViolationFilter{}), 1)
		})
	}
}

func TestLintString_RuleFailureIsolated(t *testing.T) {
	panicking := lint.WrapRuleDef(lint.RuleDef{
		ID:    "PN01",
		Name:  "test.panic",
		Crawl: func(*lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) { panic("boom") },
	})
	failing := lint.WrapRuleDef(lint.RuleDef{
		ID:   "ER01",
		Name: "test.error",
		Crawl: func(*lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
			return nil, nil, errors.New("bad state")
		},
	})
	lt01, ok := lint.GetRuleByID("LT01")
	require.True(t, ok)

	for _, fixing := range []bool{false, true} {
		l := newTestLinter(t, nil, WithRules(panicking, failing, lt01))
		file := l.LintString("SELECT a  \n", "q.sql", fixing)
		require.NoError(t, file.Err)

		vs := file.Violations(ViolationFilter{})
		require.Len(t, vs, 3)
		codes := []string{vs[0].Code(), vs[1].Code(), vs[2].Code()}
		assert.ElementsMatch(t, []string{"PN01", "ER01", "LT01"}, codes)
		for _, v := range vs {
			if v.Code() == "LT01" {
				continue
			}
			assert.Equal(t, core.SeverityError, v.Severity())
			assert.Contains(t, v.Description(), "failed")
		}
		assert.Equal(t, 2, file.Stats.RuleFailures)

		if fixing {
			fixed, _ := file.FixString()
			assert.Equal(t, "SELECT a\n", fixed)
		}
	}
}

func TestLintString_LaterPassFailureReported(t *testing.T) {
	var crawls int
	flaky := lint.WrapRuleDef(lint.RuleDef{
		ID:            "FL01",
		Name:          "test.flaky",
		FixCompatible: true,
		Crawl: func(*lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
			crawls++
			if crawls > 1 {
				return nil, nil, errors.New("lost track")
			}
			return nil, nil, nil
		},
	})
	var toggles int
	l := newTestLinter(t, nil, WithRules(flaky, togglingRule("TG01", lint.PhaseMain, &toggles)))
	file := l.LintString("select 1\n", "q.sql", true)
	require.NoError(t, file.Err)

	// TG01 never converges, so FL01 keeps failing until the runaway limit
	assert.GreaterOrEqual(t, crawls, 3)
	assert.Equal(t, crawls-1, file.Stats.RuleFailures)

	var failures []core.Violation
	for _, v := range file.Violations(ViolationFilter{}) {
		if v.Code() == "FL01" {
			failures = append(failures, v)
		}
	}
	require.Len(t, failures, 1, "a failing rule is reported once")
	assert.Equal(t, core.SeverityError, failures[0].Severity())
	assert.Contains(t, failures[0].Description(), "rule FL01 failed: lost track")
}

func TestLintString_ParseError(t *testing.T) {
	l := newTestLinter(t, nil)
	file := l.LintString("SELECT (a\n", "q.sql", true)
	require.NoError(t, file.Err)

	assert.Nil(t, file.Tree)
	vs := file.Violations(ViolationFilter{})
	require.Len(t, vs, 1)
	assert.Equal(t, core.CodeParse, vs[0].Code())
	assert.Equal(t, 8, vs[0].Pos().Column)

	fixed, changed := file.FixString()
	assert.False(t, changed)
	assert.Equal(t, "SELECT (a\n", fixed)
}

func TestLintString_LexErrorsStillLint(t *testing.T) {
	l := newTestLinter(t, nil)
	file := l.LintString("SELECT ?? \n", "q.sql", false)
	require.NoError(t, file.Err)

	var codes []string
	for _, v := range file.Violations(ViolationFilter{}) {
		codes = append(codes, v.Code())
	}
	assert.Contains(t, codes, core.CodeLex)
	assert.Contains(t, codes, "LT01")
}

func TestLintString_DialectErrors(t *testing.T) {
	tests := []struct {
		name    string
		dialect string
	}{
		{"missing", ""},
		{"unknown", "oracle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := core.DefaultConfig()
			cfg.Dialect = tt.dialect
			l := newTestLinter(t, cfg)

			file := l.LintString("SELECT 1\n", "q.sql", false)
			var userErr *core.UserError
			require.ErrorAs(t, file.Err, &userErr)
			assert.Empty(t, file.Violations(ViolationFilter{}))

			result := l.LintStringWrapped("SELECT 1\n", "q.sql", false)
			assert.True(t, result.HasFatalErrors())
			assert.Equal(t, 1, result.Summary().Errors)
		})
	}
}

func TestLintString_InlineConfig(t *testing.T) {
	l := newTestLinter(t, nil)
	sql := "-- sqlint:rules:CP01:capitalisation_policy:lower\nSELECT a FROM t\n"
	file := l.LintString(sql, "q.sql", false)
	require.NoError(t, file.Err)

	assert.Equal(t, []violationRow{
		{"CP01", 2, 1},
		{"CP01", 2, 10},
	}, rows(file.Violations(ViolationFilter{})))

	// the base config is untouched
	assert.Nil(t, l.Config().RuleOptions)
}

func TestLintString_SeverityOverride(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Severity = map[string]string{"lt01": "error"}
	l := newTestLinter(t, cfg)

	file := l.LintString("SELECT a  \n", "q.sql", false)
	vs := file.Violations(ViolationFilter{})
	require.Len(t, vs, 1)
	assert.Equal(t, core.SeverityError, vs[0].Severity())

	minErr := core.SeverityError
	assert.Len(t, file.Violations(ViolationFilter{MinSeverity: &minErr}), 1)
	assert.Empty(t, file.Violations(ViolationFilter{Rules: []string{"CP01"}}))
	assert.Len(t, file.Violations(ViolationFilter{FixableOnly: true}), 1)
}

func TestLintString_RuleSelection(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Rules = []string{"layout", "nope"}
	cfg.ExcludeRules = []string{"LT12"}
	l := newTestLinter(t, cfg)

	file := l.LintString("SELECT a  \nfrom t", "q.sql", false)
	assert.Equal(t, []violationRow{{"LT01", 1, 9}}, rows(file.Violations(ViolationFilter{})))
}

func TestLintString_Noqa(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []violationRow
	}{
		{
			name: "line directive for the rule",
			sql:  "SELECT a\nfrom t -- noqa: CP01\n",
			want: []violationRow{},
		},
		{
			name: "line directive for another rule",
			sql:  "SELECT a\nfrom t -- noqa: LT01\n",
			want: []violationRow{{"CP01", 2, 1}},
		},
		{
			name: "bare noqa",
			sql:  "SELECT a\nfrom t -- noqa\n",
			want: []violationRow{},
		},
		{
			name: "disable and enable",
			sql:  "SELECT a\n-- noqa: disable=CP01\nfrom t\n-- noqa: enable=all\nSELECT b from u\n",
			want: []violationRow{{"CP01", 5, 10}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLinter(t, nil)
			file := l.LintString(tt.sql, "q.sql", false)
			require.NoError(t, file.Err)
			assert.Equal(t, tt.want, rows(file.Violations(ViolationFilter{})))
		})
	}
}

func TestLintString_NoqaBlocksFixes(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "bare noqa",
			sql:  "SELECT a\nfrom t -- noqa\n",
			want: "SELECT a\nfrom t -- noqa\n",
		},
		{
			name: "line directive for the rule",
			sql:  "SELECT a\nfrom t -- noqa: CP01\n",
			want: "SELECT a\nfrom t -- noqa: CP01\n",
		},
		{
			name: "line directive for another rule",
			sql:  "SELECT a\nfrom t -- noqa: LT01\n",
			want: "SELECT a\nFROM t -- noqa: LT01\n",
		},
		{
			name: "other lines still fixed",
			sql:  "SELECT a  \nfrom t -- noqa\n",
			want: "SELECT a\nfrom t -- noqa\n",
		},
		{
			name: "disable and enable",
			sql:  "SELECT a\n-- noqa: disable=CP01\nfrom t\n-- noqa: enable=all\nSELECT b from u\n",
			want: "SELECT a\n-- noqa: disable=CP01\nfrom t\n-- noqa: enable=all\nSELECT b FROM u\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLinter(t, nil)
			file := l.LintString(tt.sql, "q.sql", true)
			require.NoError(t, file.Err)

			fixed, changed := file.FixString()
			assert.Equal(t, tt.want, fixed)
			assert.Equal(t, tt.sql != tt.want, changed)
		})
	}
}

func TestParseNoqa(t *testing.T) {
	tests := []struct {
		comment string
		ok      bool
		want    noqaDirective
	}{
		{"-- noqa", true, noqaDirective{line: 3}},
		{"--noqa:LT01, CP01", true, noqaDirective{line: 3, rules: []string{"LT01", "CP01"}}},
		{"-- NOQA: disable=LT01", true, noqaDirective{line: 3, action: noqaDisable, rules: []string{"LT01"}}},
		{"/* noqa: enable=all */", true, noqaDirective{line: 3, action: noqaEnable}},
		{"-- noqa: ignore=LT01", false, noqaDirective{}},
		{"-- noqaxyz", false, noqaDirective{}},
		{"-- plain comment", false, noqaDirective{}},
	}

	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			got, ok := parseNoqa(tt.comment, 3)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLintString_StarlarkTemplate(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Templater = "starlark"
	cfg.Rules = []string{"LT01", "CP01"}
	cfg.Vars = map[string]any{"col": "user_id"}
	l := newTestLinter(t, cfg)

	src := "SELECT {{ col }}  \nfrom t\n"
	file := l.LintString(src, "q.sql", true)
	require.NoError(t, file.Err)

	fixed, changed := file.FixString()
	assert.True(t, changed)
	assert.Equal(t, "SELECT {{ col }}\nFROM t\n", fixed)
}

func TestLintString_UnknownTemplater(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.Templater = "jinja"
	l := newTestLinter(t, cfg)

	file := l.LintString("SELECT 1\n", "q.sql", false)
	var userErr *core.UserError
	assert.ErrorAs(t, file.Err, &userErr)
}

// =============================================================================
// Formatter dispatch
// =============================================================================

type recordingFormatter struct {
	mu      sync.Mutex
	headers []string
	files   []string
}

func (f *recordingFormatter) DispatchTemplateHeader(fname string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers = append(f.headers, "template:"+fname)
}

func (f *recordingFormatter) DispatchParseHeader(fname string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.headers = append(f.headers, "parse:"+fname)
}

func (f *recordingFormatter) DispatchFileViolations(fname string, _ *LintedFile, onlyFixable bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	suffix := ""
	if onlyFixable {
		suffix = " (fix)"
	}
	f.files = append(f.files, fname+suffix)
}

func TestLintString_Dispatch(t *testing.T) {
	rec := &recordingFormatter{}
	l := newTestLinter(t, nil, WithFormatter(rec))

	l.LintString("SELECT 1\n", "q.sql", true)
	assert.Equal(t, []string{"template:q.sql", "parse:q.sql"}, rec.headers)
	assert.Equal(t, []string{"q.sql (fix)"}, rec.files)
}
