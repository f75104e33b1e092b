package lint

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

// RuleSet is an ordered, read-only selection of rules. It is shared by all
// files of a run.
type RuleSet struct {
	rules []Rule
}

// NewRuleSet creates a rule set from rules, sorted by ID.
func NewRuleSet(rules ...Rule) RuleSet {
	rs := slices.Clone(rules)
	sortByID(rs)
	return RuleSet{rules: rs}
}

// Rules returns the rules in order.
func (rs RuleSet) Rules() []Rule {
	return slices.Clone(rs.rules)
}

// Len returns the number of rules.
func (rs RuleSet) Len() int {
	return len(rs.rules)
}

// IDs returns the rule IDs in order.
func (rs RuleSet) IDs() []string {
	ids := make([]string, len(rs.rules))
	for i, r := range rs.rules {
		ids[i] = r.ID()
	}
	return ids
}

// ForPhase returns the rules that run in phase.
func (rs RuleSet) ForPhase(phase Phase) []Rule {
	var out []Rule
	for _, r := range rs.rules {
		if r.LintPhase() == phase {
			out = append(out, r)
		}
	}
	return out
}

// SelectRules picks the registered rules enabled by cfg.
//
// cfg.Rules is an allow list of rule IDs, group names or "all"; empty means
// all. cfg.ExcludeRules removes IDs or groups from the selection. Entries
// that match nothing are returned as unknown.
func SelectRules(cfg *core.Config) (RuleSet, []string) {
	all := AllRules()
	if cfg == nil {
		return NewRuleSet(all...), nil
	}

	var unknown []string
	matches := func(selectors []string) map[string]bool {
		ids := make(map[string]bool)
		for _, sel := range selectors {
			sel = strings.TrimSpace(sel)
			if sel == "" {
				continue
			}
			found := false
			for _, r := range all {
				if strings.EqualFold(sel, "all") || strings.EqualFold(sel, r.ID()) ||
					strings.EqualFold(sel, r.Group()) || strings.EqualFold(sel, r.Name()) {
					ids[r.ID()] = true
					found = true
				}
			}
			if !found {
				unknown = append(unknown, sel)
			}
		}
		return ids
	}

	allowed := matches(cfg.Rules)
	excluded := matches(cfg.ExcludeRules)

	var selected []Rule
	for _, r := range all {
		if len(cfg.Rules) > 0 && !allowed[r.ID()] {
			continue
		}
		if excluded[r.ID()] {
			continue
		}
		selected = append(selected, r)
	}
	return NewRuleSet(selected...), unknown
}
