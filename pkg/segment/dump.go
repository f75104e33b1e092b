package segment

import (
	"fmt"
	"strings"
)

// Tuple renders the tree as nested single-key maps, suitable for YAML or
// JSON output. Leaves map their type to their raw text; composites map their
// type to a list of children. Non-code leaves are dropped when codeOnly is set.
func (s *Segment) Tuple(codeOnly bool) map[string]any {
	if s.leaf {
		return map[string]any{string(s.typ): s.raw}
	}
	children := make([]any, 0, len(s.children))
	for _, c := range s.children {
		if codeOnly && c.leaf && !c.IsCode() {
			continue
		}
		children = append(children, c.Tuple(codeOnly))
	}
	return map[string]any{string(s.typ): children}
}

// Stringify renders an indented, human-readable view of the tree.
func (s *Segment) Stringify() string {
	var b strings.Builder
	s.Walk(func(seg *Segment, parents []*Segment) bool {
		indent := strings.Repeat("    ", len(parents))
		pos := fmt.Sprintf("[L:%3d, P:%3d]", seg.marker.Line, seg.marker.Column)
		if seg.leaf {
			fmt.Fprintf(&b, "%s|%s%s: %q\n", pos, indent, seg.typ, seg.raw)
		} else {
			fmt.Fprintf(&b, "%s|%s%s:\n", pos, indent, seg.typ)
		}
		return true
	})
	return b.String()
}
