package layout

import (
	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func init() {
	lint.Register(TrailingWhitespace)
}

// TrailingWhitespace flags whitespace at the end of a line.
var TrailingWhitespace = lint.RuleDef{
	ID:            "LT01",
	Name:          "layout.trailing_whitespace",
	Group:         "layout",
	Description:   "Unnecessary trailing whitespace.",
	Severity:      core.SeverityWarning,
	FixCompatible: true,
	Crawl:         crawlTrailingWhitespace,
	Rationale:     "Trailing whitespace is invisible in most editors and creates noise in diffs.",
	BadExample:    "SELECT a   \nFROM t",
	GoodExample:   "SELECT a\nFROM t",
}

func crawlTrailingWhitespace(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	var (
		violations []*core.SQLLintError
		fixes      []fix.Fix
	)

	leaves := ctx.Tree.RawSegments()
	for i, seg := range leaves {
		if !seg.Is(segment.TypeWhitespace) {
			continue
		}
		atLineEnd := i == len(leaves)-1 || leaves[i+1].Is(segment.TypeNewline)
		if !atLineEnd {
			continue
		}
		violations = append(violations,
			core.NewLintError("LT01", "Unnecessary trailing whitespace.", seg.Pos(), core.SeverityWarning).WithFix(true))
		fixes = append(fixes, fix.NewDelete(seg))
	}

	return violations, fixes, nil
}
