package layout

import (
	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func init() {
	lint.Register(EndOfFile)
}

// EndOfFile requires files to end with exactly one newline.
// It runs in the post phase so it sees the layout left by other fixes.
var EndOfFile = lint.RuleDef{
	ID:            "LT12",
	Name:          "layout.end_of_file",
	Group:         "layout",
	Description:   "Files must end with a single trailing newline.",
	Severity:      core.SeverityWarning,
	Phase:         lint.PhasePost,
	FixCompatible: true,
	Crawl:         crawlEndOfFile,
	BadExample:    "SELECT a FROM t;\n\n\n",
	GoodExample:   "SELECT a FROM t;\n",
}

func crawlEndOfFile(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	tree := ctx.Tree
	leaves := tree.RawSegments()

	hasCode := false
	for _, seg := range leaves {
		if seg.IsCode() {
			hasCode = true
			break
		}
	}
	if !hasCode {
		return nil, nil, nil
	}

	// trailing run of whitespace and newlines
	start := len(leaves)
	for start > 0 && leaves[start-1].Type().IsWhitespace() {
		start--
	}
	run := leaves[start:]

	firstNewline := -1
	newlines := 0
	for i, seg := range run {
		if seg.Is(segment.TypeNewline) {
			newlines++
			if firstNewline < 0 {
				firstNewline = i
			}
		}
	}
	endsWithNewline := len(run) > 0 && run[len(run)-1].Is(segment.TypeNewline)
	if newlines == 1 && endsWithNewline {
		return nil, nil, nil
	}

	last := leaves[len(leaves)-1]
	violation := core.NewLintError("LT12", "Files must end with a single trailing newline.", last.Pos(), core.SeverityWarning).WithFix(true)

	var fixes []fix.Fix
	if firstNewline < 0 {
		newline := segment.NewRaw(segment.TypeNewline, "\n", segment.PositionMarker{})
		fixes = append(fixes, fix.NewCreateAfter(tree.Child(tree.NumChildren()-1), newline))
	} else {
		for _, seg := range run[firstNewline+1:] {
			fixes = append(fixes, fix.NewDelete(seg))
		}
	}

	return []*core.SQLLintError{violation}, fixes, nil
}
