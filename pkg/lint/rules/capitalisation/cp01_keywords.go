package capitalisation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func init() {
	lint.Register(KeywordCapitalisation)
}

// Capitalisation policies.
const (
	PolicyConsistent = "consistent"
	PolicyUpper      = "upper"
	PolicyLower      = "lower"
	PolicyCapitalise = "capitalise"
)

// KeywordCapitalisation enforces the case of keywords.
var KeywordCapitalisation = lint.RuleDef{
	ID:            "CP01",
	Name:          "capitalisation.keywords",
	Group:         "capitalisation",
	Description:   "Inconsistent capitalisation of keywords.",
	Severity:      core.SeverityWarning,
	FixCompatible: true,
	ConfigKeys:    []string{"capitalisation_policy", "ignore_words"},
	Crawl:         crawlKeywordCapitalisation,
	Rationale:     "Mixed keyword case makes queries harder to scan.",
	BadExample:    "SELECT a from t",
	GoodExample:   "SELECT a FROM t",
}

func crawlKeywordCapitalisation(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	policy := strings.ToLower(lint.GetStringOption(ctx.Options, "capitalisation_policy", PolicyConsistent))
	switch policy {
	case PolicyConsistent, PolicyUpper, PolicyLower, PolicyCapitalise:
	default:
		return nil, nil, fmt.Errorf("unknown capitalisation_policy %q", policy)
	}
	ignored := map[string]bool{}
	for _, w := range lint.GetStringSliceOption(ctx.Options, "ignore_words", nil) {
		ignored[strings.ToLower(w)] = true
	}

	var (
		violations []*core.SQLLintError
		fixes      []fix.Fix
	)

	for _, seg := range ctx.Tree.RawSegments() {
		if !seg.Is(segment.TypeKeyword) || ignored[strings.ToLower(seg.Raw())] {
			continue
		}
		style := classify(seg.Raw())
		if policy == PolicyConsistent {
			// the first keyword with a recognisable case sets the policy
			if style != "" {
				policy = style
			}
			continue
		}
		if style == policy || (policy == PolicyCapitalise && isSingleLetter(seg.Raw())) {
			continue
		}

		want := apply(seg.Raw(), policy)
		if want == seg.Raw() {
			continue
		}
		msg := fmt.Sprintf("Keywords must be %s case.", policy)
		if policy == PolicyCapitalise {
			msg = "Keywords must be capitalised."
		}
		violations = append(violations, core.NewLintError("CP01", msg, seg.Pos(), core.SeverityWarning).WithFix(true))
		fixes = append(fixes, fix.NewReplace(seg, segment.NewRaw(segment.TypeKeyword, want, seg.Marker())))
	}

	return violations, fixes, nil
}

// classify returns the policy a keyword already satisfies, or "" when it
// satisfies none.
func classify(raw string) string {
	switch {
	case raw == strings.ToUpper(raw):
		return PolicyUpper
	case raw == strings.ToLower(raw):
		return PolicyLower
	case raw == apply(raw, PolicyCapitalise):
		return PolicyCapitalise
	default:
		return ""
	}
}

func apply(raw, policy string) string {
	switch policy {
	case PolicyUpper:
		return strings.ToUpper(raw)
	case PolicyLower:
		return strings.ToLower(raw)
	case PolicyCapitalise:
		runes := []rune(strings.ToLower(raw))
		if len(runes) > 0 {
			runes[0] = unicode.ToUpper(runes[0])
		}
		return string(runes)
	default:
		return raw
	}
}

func isSingleLetter(raw string) bool {
	return len([]rune(raw)) == 1
}
