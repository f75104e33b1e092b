// Package segment provides the immutable concrete syntax tree that the
// linter crawls and rewrites.
//
// Segments are never mutated after construction. Every segment receives an
// Anchor from a process-wide counter when it is built; anchors are never
// reused, so a fix can name the node it targets without holding a mutable
// reference. Rewrites build new ancestors and share untouched subtrees by
// pointer.
package segment

import (
	"slices"
	"strings"
	"sync/atomic"

	"github.com/leapstack-labs/sqlint/pkg/token"
)

// Anchor is the stable identity of a segment.
type Anchor uint64

var nextAnchor atomic.Uint64

func newAnchor() Anchor {
	return Anchor(nextAnchor.Add(1))
}

// PositionMarker locates a segment in both the source and the templated text.
type PositionMarker struct {
	SourceSlice    token.Slice
	TemplatedSlice token.Slice
	Line           int // 1-based line of the source position
	Column         int // 1-based column of the source position
}

// Position returns the source position of the start of the marker.
func (m PositionMarker) Position() token.Position {
	return token.Position{Line: m.Line, Column: m.Column, Offset: m.SourceSlice.Start}
}

// StartPoint returns a zero-width marker at the start of m.
func (m PositionMarker) StartPoint() PositionMarker {
	m.SourceSlice.Stop = m.SourceSlice.Start
	m.TemplatedSlice.Stop = m.TemplatedSlice.Start
	return m
}

// EndPoint returns a zero-width marker at the end of m.
// The line and column are kept from the start since the end is not tracked.
func (m PositionMarker) EndPoint() PositionMarker {
	m.SourceSlice.Start = m.SourceSlice.Stop
	m.TemplatedSlice.Start = m.TemplatedSlice.Stop
	return m
}

// span merges markers of consecutive segments into one covering marker.
func span(first, last PositionMarker) PositionMarker {
	return PositionMarker{
		SourceSlice:    token.Slice{Start: first.SourceSlice.Start, Stop: last.SourceSlice.Stop},
		TemplatedSlice: token.Slice{Start: first.TemplatedSlice.Start, Stop: last.TemplatedSlice.Stop},
		Line:           first.Line,
		Column:         first.Column,
	}
}

// Segment is a node of the syntax tree.
type Segment struct {
	anchor   Anchor
	typ      Type
	raw      string
	leaf     bool
	children []*Segment
	marker   PositionMarker
}

// NewRaw creates a leaf segment.
func NewRaw(typ Type, raw string, marker PositionMarker) *Segment {
	return &Segment{
		anchor: newAnchor(),
		typ:    typ,
		raw:    raw,
		leaf:   true,
		marker: marker,
	}
}

// NewComposite creates a segment with children. The marker is derived from
// the children; a composite with no children gets a zero marker.
func NewComposite(typ Type, children []*Segment) *Segment {
	return newComposite(typ, slices.Clone(children), PositionMarker{})
}

func newComposite(typ Type, children []*Segment, fallback PositionMarker) *Segment {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(c.raw)
	}
	marker := fallback
	if len(children) > 0 {
		marker = span(children[0].marker, children[len(children)-1].marker)
	}
	return &Segment{
		anchor:   newAnchor(),
		typ:      typ,
		raw:      b.String(),
		children: children,
		marker:   marker,
	}
}

// Anchor returns the segment's stable identity.
func (s *Segment) Anchor() Anchor { return s.anchor }

// Type returns the segment type.
func (s *Segment) Type() Type { return s.typ }

// Is reports whether the segment has any of the given types.
func (s *Segment) Is(types ...Type) bool {
	return slices.Contains(types, s.typ)
}

// Raw returns the segment's text in the templated file.
func (s *Segment) Raw() string { return s.raw }

// IsRaw reports whether the segment is a leaf.
func (s *Segment) IsRaw() bool { return s.leaf }

// IsCode reports whether the segment is neither whitespace nor a comment.
func (s *Segment) IsCode() bool { return !s.typ.IsNonCode() }

// Marker returns the segment's position marker.
func (s *Segment) Marker() PositionMarker { return s.marker }

// Pos returns the source position of the segment start.
func (s *Segment) Pos() token.Position { return s.marker.Position() }

// Children returns a copy of the segment's children.
func (s *Segment) Children() []*Segment { return slices.Clone(s.children) }

// NumChildren returns the number of direct children.
func (s *Segment) NumChildren() int { return len(s.children) }

// Child returns the i-th child.
func (s *Segment) Child(i int) *Segment { return s.children[i] }

// WithChildren returns a new composite of the same type with the given
// children and a fresh anchor. The receiver is unchanged.
func (s *Segment) WithChildren(children []*Segment) *Segment {
	return newComposite(s.typ, slices.Clone(children), s.marker.StartPoint())
}

// WithMarker returns a copy of the segment, with a fresh anchor, positioned
// at m. Children of a composite are repositioned at m too.
func (s *Segment) WithMarker(m PositionMarker) *Segment {
	if s.leaf {
		return &Segment{anchor: newAnchor(), typ: s.typ, raw: s.raw, leaf: true, marker: m}
	}
	children := make([]*Segment, len(s.children))
	for i, c := range s.children {
		children[i] = c.WithMarker(m)
	}
	out := newComposite(s.typ, children, m)
	out.marker = m
	return out
}

// Walk visits the segment and its descendants in document order. Returning
// false from fn skips the children of that segment.
func (s *Segment) Walk(fn func(seg *Segment, parents []*Segment) bool) {
	s.walk(fn, nil)
}

func (s *Segment) walk(fn func(seg *Segment, parents []*Segment) bool, parents []*Segment) {
	if !fn(s, parents) {
		return
	}
	if len(s.children) == 0 {
		return
	}
	parents = append(parents, s)
	for _, c := range s.children {
		c.walk(fn, parents)
	}
}

// RawSegments returns the leaves in document order.
func (s *Segment) RawSegments() []*Segment {
	var out []*Segment
	s.Walk(func(seg *Segment, _ []*Segment) bool {
		if seg.leaf {
			out = append(out, seg)
		}
		return true
	})
	return out
}

// Find returns the descendant (or the segment itself) with the given anchor.
func (s *Segment) Find(a Anchor) *Segment {
	var found *Segment
	s.Walk(func(seg *Segment, _ []*Segment) bool {
		if found != nil {
			return false
		}
		if seg.anchor == a {
			found = seg
			return false
		}
		return true
	})
	return found
}

// Count returns the number of segments of type t in the tree.
func (s *Segment) Count(t Type) int {
	n := 0
	s.Walk(func(seg *Segment, _ []*Segment) bool {
		if seg.typ == t {
			n++
		}
		return true
	})
	return n
}
