package convention

import (
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func init() {
	lint.Register(NotEqualOperator)
}

// Not-equal styles.
const (
	StyleConsistent = "consistent"
	StyleCStyle     = "c_style"
	StyleANSI       = "ansi"
)

var styleOperators = map[string]string{
	StyleCStyle: "!=",
	StyleANSI:   "<>",
}

// NotEqualOperator enforces one not-equal operator.
var NotEqualOperator = lint.RuleDef{
	ID:            "CV01",
	Name:          "convention.not_equal",
	Group:         "convention",
	Description:   "Consistent usage of != or <> for not equal to operator.",
	Severity:      core.SeverityHint,
	FixCompatible: true,
	ConfigKeys:    []string{"preferred_not_equal_style"},
	Crawl:         crawlNotEqualOperator,
	BadExample:    "SELECT * FROM t WHERE a <> 1 AND b != 2",
	GoodExample:   "SELECT * FROM t WHERE a <> 1 AND b <> 2",
}

func crawlNotEqualOperator(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	style := lint.GetStringOption(ctx.Options, "preferred_not_equal_style", StyleConsistent)
	want, ok := styleOperators[style]
	if !ok && style != StyleConsistent {
		return nil, nil, fmt.Errorf("unknown preferred_not_equal_style %q", style)
	}

	var (
		violations []*core.SQLLintError
		fixes      []fix.Fix
	)
	for _, seg := range ctx.Tree.RawSegments() {
		if !seg.Is(segment.TypeComparisonOperator) || (seg.Raw() != "!=" && seg.Raw() != "<>") {
			continue
		}
		if want == "" {
			want = seg.Raw()
			continue
		}
		if seg.Raw() == want {
			continue
		}
		violations = append(violations, core.NewLintError("CV01",
			fmt.Sprintf("Use '%s' instead of '%s'.", want, seg.Raw()), seg.Pos(), core.SeverityHint).WithFix(true))
		fixes = append(fixes, fix.NewReplace(seg, segment.NewRaw(segment.TypeComparisonOperator, want, seg.Marker())))
	}
	return violations, fixes, nil
}
