// Package lint defines the contract between lint rules and the lint-fix loop.
//
// # Crawling
//
// A rule receives a CrawlContext holding a read-only snapshot of the segment
// tree and returns the violations it found plus the fixes it proposes. Fixes
// must anchor segments of that snapshot. Each rule declares a Phase and
// whether it is fix compatible; the loop uses both to schedule it.
//
// # Rule Registration
//
// Rules are automatically registered via init() functions when their packages
// are imported:
//
//	import _ "github.com/leapstack-labs/sqlint/pkg/lint/rules"
//
// # Selecting Rules
//
// SelectRules builds the RuleSet for a configuration:
//
//	cfg := core.DefaultConfig()
//	cfg.Rules = []string{"layout", "CV01"}
//	cfg.ExcludeRules = []string{"LT05"}
//	rules, unknown := lint.SelectRules(cfg)
//
// # Creating Custom Rules
//
// Implement the Rule interface or use RuleDef:
//
//	var MyRule = lint.RuleDef{
//		ID:            "MY01",
//		Name:          "custom.my_rule",
//		Group:         "custom",
//		Description:   "My custom rule description",
//		Severity:      core.SeverityWarning,
//		FixCompatible: true,
//		Crawl:         crawlMyRule,
//	}
//
//	func init() {
//		lint.Register(MyRule)
//	}
package lint
