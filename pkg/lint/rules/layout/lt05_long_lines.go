package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

func init() {
	lint.Register(LongLines)
}

// LongLines flags lines longer than max_line_length.
var LongLines = lint.RuleDef{
	ID:          "LT05",
	Name:        "layout.long_lines",
	Group:       "layout",
	Description: "Line is too long.",
	Severity:    core.SeverityWarning,
	ConfigKeys:  []string{"max_line_length", "ignore_comment_lines"},
	Crawl:       crawlLongLines,
	Rationale:   "Long lines are hard to read and review side by side.",
}

type longLinesOptions struct {
	MaxLineLength      int  `mapstructure:"max_line_length"`
	IgnoreCommentLines bool `mapstructure:"ignore_comment_lines"`
}

func crawlLongLines(ctx *lint.CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	opts := longLinesOptions{MaxLineLength: core.DefaultMaxLineLength}
	if ctx.Config != nil && ctx.Config.MaxLineLength > 0 {
		opts.MaxLineLength = ctx.Config.MaxLineLength
	}
	if err := lint.DecodeOptions(ctx.Options, &opts); err != nil {
		return nil, nil, err
	}
	if opts.MaxLineLength <= 0 {
		return nil, nil, nil
	}

	var violations []*core.SQLLintError
	for _, line := range splitLines(ctx.Tree.RawSegments()) {
		length := 0
		onlyComment := true
		for _, seg := range line {
			length += utf8.RuneCountInString(seg.Raw())
			if seg.IsCode() {
				onlyComment = false
			}
		}
		if length <= opts.MaxLineLength {
			continue
		}
		if opts.IgnoreCommentLines && onlyComment {
			continue
		}
		violations = append(violations, core.NewLintError("LT05",
			fmt.Sprintf("Line is too long (%d > %d).", length, opts.MaxLineLength),
			line[0].Pos(), core.SeverityWarning))
	}
	return violations, nil, nil
}

// splitLines groups leaves by line, dropping the newline segments. Comments
// that span lines are counted on the line they start.
func splitLines(leaves []*segment.Segment) [][]*segment.Segment {
	var (
		lines   [][]*segment.Segment
		current []*segment.Segment
	)
	for _, seg := range leaves {
		if seg.Is(segment.TypeNewline) || strings.HasSuffix(seg.Raw(), "\n") {
			if !seg.Is(segment.TypeNewline) {
				current = append(current, seg)
			}
			if len(current) > 0 {
				lines = append(lines, current)
			}
			current = nil
			continue
		}
		current = append(current, seg)
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}
	return lines
}
