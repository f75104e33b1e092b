package linter

import (
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/parser"
	"github.com/leapstack-labs/sqlint/pkg/segment"
	"github.com/leapstack-labs/sqlint/pkg/templater"
)

// PostPhaseLimit caps the passes of the post phase.
const PostPhaseLimit = 2

// errRelexUnlexable rejects rewrites that introduce unlexable text.
var errRelexUnlexable = errors.New("rewritten text contains new unlexable characters")

// LintFixParsed runs the lint-fix loop over a parsed file.
//
// Without fixing, rules run once in a single main phase. With fixing, the
// main phase repeats up to the runaway limit and post-phase rules then run
// up to PostPhaseLimit passes; each phase stops at the first pass that
// changes nothing. The first pass runs every rule regardless of phase, and
// only violations from that pass are kept. Rule failures are the exception:
// the first failure of each rule is kept whichever pass it happens on.
// Fixes on lines silenced by noqa are dropped before they are applied.
func (l *Linter) LintFixParsed(parsed *ParsedString, rules lint.RuleSet, fixing bool) *LintedFile {
	file := &LintedFile{
		Path:          parsed.FName,
		Encoding:      parsed.Encoding,
		TemplatedFile: parsed.TemplatedFile,
		Tree:          parsed.Tree,
		Timings:       parsed.Timings,
		Stats:         LoopStats{Passes: map[lint.Phase]int{}},
		violations:    append([]core.Violation(nil), parsed.Violations...),
	}
	if file.Timings == nil {
		file.Timings = Timings{}
	}
	if parsed.Tree == nil {
		sortViolations(file.violations)
		return file
	}

	start := time.Now()
	tree, found := l.runLoop(parsed, rules, fixing, &file.Stats)
	file.Timings[StepLinting] = time.Since(start)
	file.Tree = tree

	found = filterNoqa(parsed.Tree, found)
	for _, v := range found {
		file.violations = append(file.violations, v)
	}
	sortViolations(file.violations)
	return file
}

func (l *Linter) runLoop(parsed *ParsedString, rules lint.RuleSet, fixing bool, stats *LoopStats) (*segment.Segment, []*core.SQLLintError) {
	cfg := parsed.Config
	tree := parsed.Tree
	check := l.validator(parsed.Dialect)
	directives := collectNoqa(parsed.Tree)

	phases := []lint.Phase{lint.PhaseMain}
	if fixing {
		phases = append(phases, lint.PhasePost)
	}

	var found []*core.SQLLintError
	failed := map[string]bool{}
	firstPass := true

	for _, phase := range phases {
		active := rules.Rules()
		if len(phases) > 1 {
			active = rules.ForPhase(phase)
		}
		if len(active) == 0 && !firstPass {
			continue
		}

		limit := 1
		switch {
		case phase == lint.PhasePost:
			limit = PostPhaseLimit
		case fixing:
			limit = cfg.RunawayLimitOrDefault()
		}

		for pass := 0; pass < limit; pass++ {
			changed := false
			current := active
			if firstPass {
				// every rule reports on the first pass, whatever its phase
				current = rules.Rules()
			}
			if len(current) == 0 {
				break
			}
			for _, rule := range current {
				if fixing && !firstPass && !rule.IsFixCompatible() {
					continue
				}

				ctx := &lint.CrawlContext{
					Dialect: parsed.Dialect,
					Fix:     fixing,
					Tree:    tree,
					Config:  cfg,
					Options: cfg.RuleOptionsFor(rule.ID()),
				}
				violations, fixes, failure := lint.SafeCrawl(rule, ctx)
				if failure != nil {
					stats.RuleFailures++
					l.logger.Warn("rule failed", "file", parsed.FName, "rule", rule.ID(), "error", failure.Message)
					// each failing rule is reported once, whichever pass it failed on
					if !failed[rule.ID()] {
						failed[rule.ID()] = true
						found = append(found, failure)
					}
					continue
				}

				if firstPass {
					for _, v := range violations {
						found = append(found, v.WithSeverity(cfg.SeverityFor(rule.ID(), v.Severity())))
					}
				}

				fixes = dropSilencedFixes(directives, rule.ID(), fixes)
				if !fixing || len(fixes) == 0 {
					continue
				}

				plan := fix.Resolve(fix.ComputeAnchorEditInfo(fixes))
				stats.ConflictedAnchors += len(plan.Conflicted)
				if len(plan.Conflicted) > 0 {
					l.logger.Debug("conflicting fixes skipped", "file", parsed.FName, "rule", rule.ID(), "anchors", len(plan.Conflicted))
				}

				res := fix.Apply(tree, plan, check)
				if !res.Valid {
					stats.RejectedBatches++
					l.logger.Warn("fixes rejected, keeping previous tree",
						"file", parsed.FName, "rule", rule.ID(), "phase", phase, "pass", pass+1, "error", res.Err)
					continue
				}
				if res.Applied > 0 {
					tree = res.Tree
					changed = true
					stats.FixesApplied += res.Applied
				}
			}

			stats.Passes[phase]++
			firstPass = false
			if !changed {
				break
			}
			l.logger.Debug("pass changed tree", "file", parsed.FName, "phase", phase, "pass", pass+1)
		}
	}

	return tree, found
}

// validator re-lexes and re-parses the raw text of a rewritten tree.
func (l *Linter) validator(d *dialect.Dialect) fix.Validator {
	return func(tree *segment.Segment) error {
		raw := tree.Raw()
		tf := templater.NewTemplatedFile(raw, "", raw, nil)
		tokens, _, err := parser.NewLexer(d).Lex(tf)
		if err != nil {
			return err
		}
		unlexable := 0
		for _, tok := range tokens {
			if tok.Is(segment.TypeUnlexable) {
				unlexable++
			}
		}
		if unlexable > tree.Count(segment.TypeUnlexable) {
			return errRelexUnlexable
		}
		if _, err := parser.New(d).Parse(tokens); err != nil {
			return fmt.Errorf("reparse: %w", err)
		}
		return nil
	}
}

// LintParsed lints a parsed file with the configured rules, without fixing.
func (l *Linter) LintParsed(parsed *ParsedString) *LintedFile {
	return l.LintFixParsed(parsed, l.RuleSet(parsed.Config), false)
}

// LintRendered parses and lints a rendered file.
func (l *Linter) LintRendered(rendered *RenderedFile, fixing bool) *LintedFile {
	parsed := l.ParseRendered(rendered)
	return l.LintFixParsed(parsed, l.RuleSet(parsed.Config), fixing)
}

// LintString lints a string. Fatal errors are recorded on the result.
func (l *Linter) LintString(in, fname string, fixing bool) *LintedFile {
	if fname == "" {
		fname = "<string input>"
	}
	rendered, err := l.RenderString(in, fname, l.cfg)
	if err != nil {
		l.logger.Error("cannot lint", "file", fname, "error", err)
		return &LintedFile{Path: fname, Err: err, Timings: Timings{}, Stats: LoopStats{Passes: map[lint.Phase]int{}}}
	}
	file := l.LintRendered(rendered, fixing)
	l.dispatch(file, fixing)
	return file
}

// LintStringWrapped lints a string and wraps the result like a path run.
func (l *Linter) LintStringWrapped(in, fname string, fixing bool) *LintingResult {
	result := newLintingResult()
	file := l.LintString(in, fname, fixing)
	result.add(&LintedDir{Path: file.Path, Files: []*LintedFile{file}})
	result.stop()
	return result
}

func (l *Linter) dispatch(file *LintedFile, fixing bool) {
	if l.formatter != nil {
		l.formatter.DispatchFileViolations(file.Path, file, fixing)
	}
}
