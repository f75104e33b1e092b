package linter

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// noqa directive actions.
const (
	noqaLine    = ""
	noqaDisable = "disable"
	noqaEnable  = "enable"
)

// noqaDirective is one parsed `-- noqa` comment.
// A nil rules slice matches every rule.
type noqaDirective struct {
	line   int
	action string
	rules  []string
}

func (d noqaDirective) matches(ruleID string) bool {
	if d.rules == nil {
		return true
	}
	return slices.ContainsFunc(d.rules, func(r string) bool { return strings.EqualFold(r, ruleID) })
}

// parseNoqa reads a directive from comment text. Supported forms:
//
//	-- noqa
//	-- noqa: LT01,CP01
//	-- noqa: disable=LT01
//	-- noqa: enable=all
func parseNoqa(comment string, line int) (noqaDirective, bool) {
	body := strings.TrimSpace(comment)
	switch {
	case strings.HasPrefix(body, "--"):
		body = body[2:]
	case strings.HasPrefix(body, "#"):
		body = body[1:]
	case strings.HasPrefix(body, "/*") && strings.HasSuffix(body, "*/"):
		body = body[2 : len(body)-2]
	default:
		return noqaDirective{}, false
	}
	body = strings.TrimSpace(body)
	if len(body) < 4 || !strings.EqualFold(body[:4], "noqa") {
		return noqaDirective{}, false
	}
	rest := strings.TrimSpace(body[4:])
	d := noqaDirective{line: line}
	if rest == "" {
		return d, true
	}
	if !strings.HasPrefix(rest, ":") {
		return noqaDirective{}, false
	}
	rest = strings.TrimSpace(rest[1:])

	if action, list, ok := strings.Cut(rest, "="); ok {
		action = strings.ToLower(strings.TrimSpace(action))
		if action != noqaDisable && action != noqaEnable {
			return noqaDirective{}, false
		}
		d.action = action
		rest = list
	}

	for _, r := range strings.Split(rest, ",") {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		if strings.EqualFold(r, "all") {
			d.rules = nil
			return d, true
		}
		d.rules = append(d.rules, r)
	}
	// an empty list after "noqa:" leaves rules nil, which matches everything
	return d, true
}

// collectNoqa finds directives in the comments of tree.
func collectNoqa(tree *segment.Segment) []noqaDirective {
	var out []noqaDirective
	for _, seg := range tree.RawSegments() {
		if !seg.Is(segment.TypeComment) {
			continue
		}
		if d, ok := parseNoqa(seg.Raw(), seg.Pos().Line); ok {
			out = append(out, d)
		}
	}
	return out
}

// filterNoqa drops lint violations silenced by noqa comments in tree.
// Internal rule failures are never silenced.
func filterNoqa(tree *segment.Segment, violations []*core.SQLLintError) []*core.SQLLintError {
	directives := collectNoqa(tree)
	if len(directives) == 0 {
		return violations
	}

	out := violations[:0:0]
	for _, v := range violations {
		if v.Internal || !silenced(directives, v.RuleID, v.Position.Line) {
			out = append(out, v)
		}
	}
	return out
}

// dropSilencedFixes removes the fixes of ruleID anchored on lines where
// noqa silences that rule.
func dropSilencedFixes(directives []noqaDirective, ruleID string, fixes []fix.Fix) []fix.Fix {
	if len(directives) == 0 {
		return fixes
	}
	out := fixes[:0:0]
	for _, f := range fixes {
		if f.Anchor != nil && silenced(directives, ruleID, f.Anchor.Pos().Line) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func silenced(directives []noqaDirective, ruleID string, line int) bool {
	disabled := false
	for _, d := range directives {
		if d.line > line || !d.matches(ruleID) {
			continue
		}
		switch d.action {
		case noqaLine:
			if d.line == line {
				return true
			}
		case noqaDisable:
			disabled = true
		case noqaEnable:
			disabled = false
		}
	}
	return disabled
}
