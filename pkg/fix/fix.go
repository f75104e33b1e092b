// Package fix aggregates the edits proposed by rules and applies them to a
// segment tree.
//
// A pass produces an unordered batch of Fix values. ComputeAnchorEditInfo
// groups them by the anchor they target, Resolve turns the groups into a
// Plan with conflicted anchors excluded, and Apply rebuilds the tree with the
// plan applied.
package fix

import (
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// EditKind is the kind of edit a fix makes at its anchor.
type EditKind int

// Edit kinds.
const (
	CreateBefore EditKind = iota
	CreateAfter
	Replace
	Delete
)

func (k EditKind) String() string {
	switch k {
	case CreateBefore:
		return "create_before"
	case CreateAfter:
		return "create_after"
	case Replace:
		return "replace"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// Fix is a single proposed edit anchored to one segment of the tree the
// rule was given.
type Fix struct {
	Kind   EditKind
	Anchor *segment.Segment
	Edit   []*segment.Segment
	RuleID string
}

// NewCreateBefore inserts edit immediately before anchor.
func NewCreateBefore(anchor *segment.Segment, edit ...*segment.Segment) Fix {
	return Fix{Kind: CreateBefore, Anchor: anchor, Edit: edit}
}

// NewCreateAfter inserts edit immediately after anchor.
func NewCreateAfter(anchor *segment.Segment, edit ...*segment.Segment) Fix {
	return Fix{Kind: CreateAfter, Anchor: anchor, Edit: edit}
}

// NewReplace replaces anchor with edit.
func NewReplace(anchor *segment.Segment, edit ...*segment.Segment) Fix {
	return Fix{Kind: Replace, Anchor: anchor, Edit: edit}
}

// NewDelete removes anchor.
func NewDelete(anchor *segment.Segment) Fix {
	return Fix{Kind: Delete, Anchor: anchor}
}

// AnchorID returns the anchor identity, or zero for a fix without anchor.
func (f Fix) AnchorID() segment.Anchor {
	if f.Anchor == nil {
		return 0
	}
	return f.Anchor.Anchor()
}

// Validate reports a fix that cannot be applied: a missing anchor, a
// missing segment in the edit, or an insertion with nothing to insert.
func (f Fix) Validate() error {
	if f.Anchor == nil {
		return fmt.Errorf("%s fix has no anchor", f.Kind)
	}
	for i, s := range f.Edit {
		if s == nil {
			return fmt.Errorf("%s fix at anchor %d: edit segment %d is nil", f.Kind, f.Anchor.Anchor(), i)
		}
	}
	if f.IsCreate() && len(f.Edit) == 0 {
		return fmt.Errorf("%s fix at anchor %d has no segments to insert", f.Kind, f.Anchor.Anchor())
	}
	return nil
}

// IsCreate reports whether the fix inserts segments.
func (f Fix) IsCreate() bool {
	return f.Kind == CreateBefore || f.Kind == CreateAfter
}

// Equal reports whether two fixes make the same edit. The rule that proposed
// them is not compared.
func (f Fix) Equal(other Fix) bool {
	if f.Kind != other.Kind || f.AnchorID() != other.AnchorID() || len(f.Edit) != len(other.Edit) {
		return false
	}
	for i := range f.Edit {
		if f.Edit[i].Type() != other.Edit[i].Type() || f.Edit[i].Raw() != other.Edit[i].Raw() {
			return false
		}
	}
	return true
}

func (f Fix) String() string {
	raw := ""
	for _, s := range f.Edit {
		raw += s.Raw()
	}
	return fmt.Sprintf("%s@%d %q", f.Kind, f.AnchorID(), raw)
}
