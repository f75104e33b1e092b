package lint

import (
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/sqlint/pkg/core"
)

// globalRegistry is the single global registry for all lint rules.
var globalRegistry = &Registry{
	rules: make(map[string]Rule),
}

// Registry stores registered lint rules for discovery.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule // keyed by upper-cased ID
}

// Register wraps a RuleDef and adds it to the global registry.
// Call this from init() functions in rule packages.
func Register(def RuleDef) {
	RegisterRule(WrapRuleDef(def))
}

// RegisterRule adds a rule to the global registry, replacing any rule with
// the same ID.
func RegisterRule(rule Rule) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules[strings.ToUpper(rule.ID())] = rule
}

// AllRules returns all registered rules sorted by ID.
func AllRules() []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	rules := make([]Rule, 0, len(globalRegistry.rules))
	for _, rule := range globalRegistry.rules {
		rules = append(rules, rule)
	}
	sortByID(rules)
	return rules
}

// GetRuleByID returns a rule by its ID. The lookup is case-insensitive.
func GetRuleByID(id string) (Rule, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	rule, ok := globalRegistry.rules[strings.ToUpper(id)]
	return rule, ok
}

// GetByGroup returns all rules in a specific group, sorted by ID.
func GetByGroup(group string) []Rule {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	var rules []Rule
	for _, rule := range globalRegistry.rules {
		if strings.EqualFold(rule.Group(), group) {
			rules = append(rules, rule)
		}
	}
	sortByID(rules)
	return rules
}

// RuleInfos returns metadata for all registered rules.
func RuleInfos() []core.RuleInfo {
	rules := AllRules()
	infos := make([]core.RuleInfo, len(rules))
	for i, r := range rules {
		infos[i] = GetRuleInfo(r)
	}
	return infos
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.rules)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.rules = make(map[string]Rule)
}

func sortByID(rules []Rule) {
	slices.SortFunc(rules, func(a, b Rule) int {
		return strings.Compare(a.ID(), b.ID())
	})
}
