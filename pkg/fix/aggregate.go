package fix

import (
	"slices"

	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// Classification is the outcome of aggregating the fixes for one anchor.
type Classification int

// Classifications.
const (
	// EditPure is any number of creates and nothing else.
	EditPure Classification = iota
	// EditReplace is exactly one replace.
	EditReplace
	// EditDelete is exactly one delete.
	EditDelete
	// EditConflict is anything else. The anchor is left untouched.
	EditConflict
)

func (c Classification) String() string {
	switch c {
	case EditPure:
		return "pure"
	case EditReplace:
		return "replace"
	case EditDelete:
		return "delete"
	default:
		return "conflict"
	}
}

// AnchorEditInfo collects the fixes that target one anchor.
type AnchorEditInfo struct {
	Anchor       segment.Anchor
	CreateBefore int
	CreateAfter  int
	Replace      int
	Delete       int
	// Fixes in submission order, duplicates removed.
	Fixes []Fix
}

// Add records a fix. A fix equal to one already recorded is ignored.
func (a *AnchorEditInfo) Add(f Fix) {
	for _, existing := range a.Fixes {
		if existing.Equal(f) {
			return
		}
	}
	a.Fixes = append(a.Fixes, f)
	switch f.Kind {
	case CreateBefore:
		a.CreateBefore++
	case CreateAfter:
		a.CreateAfter++
	case Replace:
		a.Replace++
	case Delete:
		a.Delete++
	}
}

// Total returns the number of distinct fixes recorded.
func (a *AnchorEditInfo) Total() int {
	return len(a.Fixes)
}

// Classify decides how the anchor's fixes combine.
func (a *AnchorEditInfo) Classify() Classification {
	switch {
	case a.Replace == 0 && a.Delete == 0:
		return EditPure
	case a.Replace == 1 && a.Total() == 1:
		return EditReplace
	case a.Delete == 1 && a.Total() == 1:
		return EditDelete
	default:
		return EditConflict
	}
}

// RuleIDs returns the distinct rules that contributed fixes, in order.
func (a *AnchorEditInfo) RuleIDs() []string {
	var ids []string
	for _, f := range a.Fixes {
		if f.RuleID != "" && !slices.Contains(ids, f.RuleID) {
			ids = append(ids, f.RuleID)
		}
	}
	return ids
}

// ComputeAnchorEditInfo groups fixes by anchor. Fixes without an anchor are
// dropped.
func ComputeAnchorEditInfo(fixes []Fix) map[segment.Anchor]*AnchorEditInfo {
	infos := make(map[segment.Anchor]*AnchorEditInfo)
	for _, f := range fixes {
		id := f.AnchorID()
		if id == 0 {
			continue
		}
		info, ok := infos[id]
		if !ok {
			info = &AnchorEditInfo{Anchor: id}
			infos[id] = info
		}
		info.Add(f)
	}
	return infos
}

// Edit is the resolved directive for one anchor.
type Edit struct {
	Before      []*segment.Segment
	After       []*segment.Segment
	Replacement []*segment.Segment
	Replace     bool
	Delete      bool
}

// Plan is a conflict-free set of edits keyed by anchor.
type Plan struct {
	Edits map[segment.Anchor]Edit
	// Conflicted anchors, sorted. Their fixes are dropped.
	Conflicted []segment.Anchor
}

// Len returns the number of anchors the plan edits.
func (p Plan) Len() int {
	return len(p.Edits)
}

// Resolve turns aggregated fixes into a plan.
func Resolve(infos map[segment.Anchor]*AnchorEditInfo) Plan {
	plan := Plan{Edits: make(map[segment.Anchor]Edit, len(infos))}
	for id, info := range infos {
		switch info.Classify() {
		case EditPure:
			var e Edit
			for _, f := range info.Fixes {
				if f.Kind == CreateBefore {
					e.Before = append(e.Before, f.Edit...)
				} else {
					e.After = append(e.After, f.Edit...)
				}
			}
			plan.Edits[id] = e
		case EditReplace:
			plan.Edits[id] = Edit{Replace: true, Replacement: info.Fixes[0].Edit}
		case EditDelete:
			plan.Edits[id] = Edit{Delete: true}
		default:
			plan.Conflicted = append(plan.Conflicted, id)
		}
	}
	slices.Sort(plan.Conflicted)
	return plan
}
