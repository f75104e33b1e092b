package segment

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is wrapped by all structural validation errors.
var ErrInvalidTree = errors.New("invalid segment tree")

// Validate checks the structural invariants of a tree rooted at s:
//   - the root is a file and no other file segment appears below it
//   - statements and brackets are not empty
//   - brackets open with a start bracket and close with an end bracket
//   - leaves have no children and composites have no raw text of their own
func (s *Segment) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil root", ErrInvalidTree)
	}
	if s.typ != TypeFile {
		return fmt.Errorf("%w: root is %s, not %s", ErrInvalidTree, s.typ, TypeFile)
	}
	var err error
	s.Walk(func(seg *Segment, parents []*Segment) bool {
		if err != nil {
			return false
		}
		err = seg.validateNode(len(parents) == 0)
		return err == nil
	})
	return err
}

func (s *Segment) validateNode(isRoot bool) error {
	if s.leaf {
		if len(s.children) > 0 {
			return fmt.Errorf("%w: leaf %s has children", ErrInvalidTree, s.typ)
		}
		return nil
	}
	if s.typ == TypeFile && !isRoot {
		return fmt.Errorf("%w: nested %s at line %d", ErrInvalidTree, TypeFile, s.marker.Line)
	}
	if s.typ.IsStatement() && !hasCode(s.children) {
		return fmt.Errorf("%w: empty %s at line %d", ErrInvalidTree, s.typ, s.marker.Line)
	}
	if s.typ == TypeBracketed {
		n := len(s.children)
		if n < 2 || s.children[0].typ != TypeStartBracket || s.children[n-1].typ != TypeEndBracket {
			return fmt.Errorf("%w: unbalanced brackets at line %d", ErrInvalidTree, s.marker.Line)
		}
	}
	return nil
}

func hasCode(children []*Segment) bool {
	for _, c := range children {
		if c.IsCode() {
			return true
		}
	}
	return false
}
