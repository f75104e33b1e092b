package fix

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// ErrRootEdit is returned when a plan edits the root of the tree.
var ErrRootEdit = errors.New("edits to the root segment are not allowed")

// Validator checks a rewritten tree. A non-nil error rejects the rewrite.
type Validator func(tree *segment.Segment) error

// Result is the outcome of Apply.
type Result struct {
	// Tree is the rewritten tree, or the input tree when nothing was applied.
	Tree *segment.Segment
	// Applied is the number of anchors edited.
	Applied int
	// Conflicted is the number of anchors excluded from the plan.
	Conflicted int
	// Skipped is the number of planned anchors not reached, either because
	// they are not in the tree or because an ancestor was replaced or deleted.
	Skipped int
	// Valid is false when the rewritten tree failed validation. The caller
	// should keep its previous tree.
	Valid bool
	// Err explains why the result is invalid.
	Err error
}

// Changed reports whether the result holds a new tree worth keeping.
func (r Result) Changed() bool {
	return r.Valid && r.Applied > 0
}

// Apply rewrites tree according to plan. Segments that are not on the path
// to an edited anchor are shared with the input tree. The input tree is not
// modified.
func Apply(tree *segment.Segment, plan Plan, check Validator) Result {
	res := Result{Tree: tree, Conflicted: len(plan.Conflicted), Valid: true}
	if plan.Len() == 0 {
		return res
	}
	if _, ok := plan.Edits[tree.Anchor()]; ok {
		res.Valid = false
		res.Err = ErrRootEdit
		res.Skipped = plan.Len()
		return res
	}

	rw := &rewriter{plan: plan}
	newTree, _ := rw.rebuild(tree)
	res.Applied = rw.applied
	res.Skipped = plan.Len() - rw.applied
	if rw.applied == 0 {
		return res
	}

	res.Tree = newTree
	if err := newTree.Validate(); err != nil {
		res.Valid = false
		res.Err = err
		return res
	}
	if check != nil {
		if err := check(newTree); err != nil {
			res.Valid = false
			res.Err = fmt.Errorf("rewritten tree rejected: %w", err)
		}
	}
	return res
}

type rewriter struct {
	plan    Plan
	applied int
}

// rebuild returns seg with edits applied below it, and whether anything
// changed. Unchanged segments are returned as is.
func (rw *rewriter) rebuild(seg *segment.Segment) (*segment.Segment, bool) {
	if seg.IsRaw() || seg.NumChildren() == 0 {
		return seg, false
	}

	changed := false
	children := make([]*segment.Segment, 0, seg.NumChildren())
	for i := range seg.NumChildren() {
		child := seg.Child(i)
		edit, ok := rw.plan.Edits[child.Anchor()]
		if !ok {
			next, c := rw.rebuild(child)
			changed = changed || c
			children = append(children, next)
			continue
		}

		rw.applied++
		changed = true
		marker := child.Marker()
		children = append(children, positioned(edit.Before, marker.StartPoint())...)
		switch {
		case edit.Delete:
		case edit.Replace:
			children = append(children, positioned(edit.Replacement, marker)...)
		default:
			next, _ := rw.rebuild(child)
			children = append(children, next)
		}
		children = append(children, positioned(edit.After, marker.EndPoint())...)
	}

	if !changed {
		return seg, false
	}
	return seg.WithChildren(children), true
}

// positioned copies segs so they sit at m in the source.
func positioned(segs []*segment.Segment, m segment.PositionMarker) []*segment.Segment {
	out := make([]*segment.Segment, len(segs))
	for i, s := range segs {
		out[i] = s.WithMarker(m)
	}
	return out
}
