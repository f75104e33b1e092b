package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialects/ansi"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	_ "github.com/leapstack-labs/sqlint/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/sqlint/pkg/parser"
	"github.com/leapstack-labs/sqlint/pkg/segment"
	"github.com/leapstack-labs/sqlint/pkg/templater"
)

type ruleResult struct {
	violations []*core.SQLLintError
	fixed      string
	err        error
}

// runRule crawls sql with one rule and applies its fixes once.
func runRule(t *testing.T, sql, ruleID string, opts map[string]any) ruleResult {
	t.Helper()
	rule, ok := lint.GetRuleByID(ruleID)
	require.True(t, ok, "rule %s not registered", ruleID)

	tf := templater.NewTemplatedFile(sql, "test.sql", sql, nil)
	tokens, _, err := parser.NewLexer(ansi.ANSI).Lex(tf)
	require.NoError(t, err)
	tree, err := parser.New(ansi.ANSI).Parse(tokens)
	require.NoError(t, err)

	violations, fixes, err := rule.Crawl(&lint.CrawlContext{
		Dialect: ansi.ANSI,
		Fix:     true,
		Tree:    tree,
		Config:  core.DefaultConfig(),
		Options: opts,
	})
	if err != nil {
		return ruleResult{err: err}
	}

	res := fix.Apply(tree, fix.Resolve(fix.ComputeAnchorEditInfo(fixes)), nil)
	require.True(t, res.Valid, "fixes produced an invalid tree: %v", res.Err)
	return ruleResult{violations: violations, fixed: res.Tree.Raw()}
}

func TestRegisteredRules(t *testing.T) {
	for _, id := range []string{"CP01", "CV01", "LT01", "LT05", "LT12"} {
		r, ok := lint.GetRuleByID(id)
		require.True(t, ok, id)
		assert.NotEmpty(t, r.Description())
	}

	lt12, _ := lint.GetRuleByID("LT12")
	assert.Equal(t, lint.PhasePost, lt12.LintPhase())

	lt05, _ := lint.GetRuleByID("LT05")
	assert.False(t, lt05.IsFixCompatible())
}

func TestLT01_TrailingWhitespace(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantCount int
		wantFixed string
	}{
		{"clean", "SELECT a\nFROM t\n", 0, "SELECT a\nFROM t\n"},
		{"before newline", "SELECT a  \nFROM t\n", 1, "SELECT a\nFROM t\n"},
		{"end of file", "SELECT a\t", 1, "SELECT a"},
		{"several lines", "SELECT a \nFROM t \n", 2, "SELECT a\nFROM t\n"},
		{"inner whitespace kept", "SELECT  a\n", 0, "SELECT  a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRule(t, tt.sql, "LT01", nil)
			require.NoError(t, res.err)
			assert.Len(t, res.violations, tt.wantCount)
			assert.Equal(t, tt.wantFixed, res.fixed)
			for _, v := range res.violations {
				assert.True(t, v.IsFixable())
			}
		})
	}
}

func TestLT05_LongLines(t *testing.T) {
	long := "SELECT aaaaaaaaaa, bbbbbbbbbb, cccccccccc FROM t"

	res := runRule(t, long+"\nSELECT 1\n", "LT05", map[string]any{"max_line_length": 20})
	require.NoError(t, res.err)
	require.Len(t, res.violations, 1)
	assert.Equal(t, 1, res.violations[0].Pos().Line)
	assert.Contains(t, res.violations[0].Message, "(48 > 20)")
	assert.False(t, res.violations[0].IsFixable())

	res = runRule(t, long, "LT05", nil)
	assert.Empty(t, res.violations)

	res = runRule(t, "SELECT 1\n-- a very long comment line here\n", "LT05",
		map[string]any{"max_line_length": "10", "ignore_comment_lines": true})
	require.NoError(t, res.err)
	assert.Empty(t, res.violations)
}

func TestLT12_EndOfFile(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		wantCount int
		wantFixed string
	}{
		{"single newline", "SELECT 1;\n", 0, "SELECT 1;\n"},
		{"missing newline", "SELECT 1", 1, "SELECT 1\n"},
		{"extra newlines", "SELECT 1;\n\n\n", 1, "SELECT 1;\n"},
		{"whitespace after newline", "SELECT 1;\n  ", 1, "SELECT 1;\n"},
		{"no code", "\n\n", 0, "\n\n"},
		{"empty", "", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRule(t, tt.sql, "LT12", nil)
			require.NoError(t, res.err)
			assert.Len(t, res.violations, tt.wantCount)
			assert.Equal(t, tt.wantFixed, res.fixed)
		})
	}
}

func TestCP01_KeywordCapitalisation(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		policy    string
		wantCount int
		wantFixed string
	}{
		{"consistent upper", "SELECT a FROM t", "", 0, "SELECT a FROM t"},
		{"consistent follows first", "select a FROM t WHERE b", "", 2, "select a from t where b"},
		{"upper policy", "select a from t", "upper", 3, "SELECT a FROM t"},
		{"lower policy", "SELECT a From t", "lower", 2, "select a from t"},
		{"capitalise policy", "SELECT a from t", "capitalise", 2, "Select a From t"},
		{"mixed case flagged", "SELECT a FrOm t", "upper", 1, "SELECT a FROM t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts map[string]any
			if tt.policy != "" {
				opts = map[string]any{"capitalisation_policy": tt.policy}
			}
			res := runRule(t, tt.sql, "CP01", opts)
			require.NoError(t, res.err)
			assert.Len(t, res.violations, tt.wantCount)
			assert.Equal(t, tt.wantFixed, res.fixed)
		})
	}

	res := runRule(t, "SELECT 1", "CP01", map[string]any{"capitalisation_policy": "shouty"})
	assert.Error(t, res.err)
}

func TestCP01_IgnoreWords(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		opts      map[string]any
		wantCount int
		wantFixed string
	}{
		{
			name:      "ignored word does not set the policy",
			sql:       "select a FROM t where b",
			opts:      map[string]any{"ignore_words": []string{"select"}},
			wantCount: 1,
			wantFixed: "select a FROM t WHERE b",
		},
		{
			name:      "yaml list compared case-insensitively",
			sql:       "select a from t where b",
			opts:      map[string]any{"capitalisation_policy": "upper", "ignore_words": []any{"Where"}},
			wantCount: 2,
			wantFixed: "SELECT a FROM t where b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runRule(t, tt.sql, "CP01", tt.opts)
			require.NoError(t, res.err)
			assert.Len(t, res.violations, tt.wantCount)
			assert.Equal(t, tt.wantFixed, res.fixed)
		})
	}
}

func TestCV01_NotEqual(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		style     string
		wantCount int
		wantFixed string
	}{
		{"consistent ok", "SELECT a FROM t WHERE a <> 1 AND b <> 2", "", 0, "SELECT a FROM t WHERE a <> 1 AND b <> 2"},
		{"consistent follows first", "SELECT a FROM t WHERE a != 1 AND b <> 2", "", 1, "SELECT a FROM t WHERE a != 1 AND b != 2"},
		{"ansi", "SELECT a FROM t WHERE a != 1", "ansi", 1, "SELECT a FROM t WHERE a <> 1"},
		{"c style", "SELECT a FROM t WHERE a <> 1", "c_style", 1, "SELECT a FROM t WHERE a != 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts map[string]any
			if tt.style != "" {
				opts = map[string]any{"preferred_not_equal_style": tt.style}
			}
			res := runRule(t, tt.sql, "CV01", opts)
			require.NoError(t, res.err)
			assert.Len(t, res.violations, tt.wantCount)
			assert.Equal(t, tt.wantFixed, res.fixed)
		})
	}
}

func TestFixesKeepTypes(t *testing.T) {
	res := runRule(t, "select 1", "CP01", map[string]any{"capitalisation_policy": "upper"})
	require.Len(t, res.violations, 1)

	tf := templater.NewTemplatedFile(res.fixed, "t.sql", res.fixed, nil)
	tokens, _, err := parser.NewLexer(ansi.ANSI).Lex(tf)
	require.NoError(t, err)
	assert.True(t, tokens[0].Is(segment.TypeKeyword))
}
