package lint

import (
	"fmt"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// SafeCrawl runs r.Crawl and isolates failures. A returned error or a panic
// becomes a single internal violation attributed to the rule, and the fixes
// of that call are dropped, as are all of them when any fix is malformed.
// Fixes are stamped with the rule ID.
func SafeCrawl(r Rule, ctx *CrawlContext) (violations []*core.SQLLintError, fixes []fix.Fix, failure *core.SQLLintError) {
	defer func() {
		if rec := recover(); rec != nil {
			violations, fixes = nil, nil
			failure = ruleFailure(r, fmt.Errorf("panic: %v", rec))
		}
	}()

	violations, fixes, err := r.Crawl(ctx)
	if err != nil {
		return nil, nil, ruleFailure(r, err)
	}
	for i := range fixes {
		if err := fixes[i].Validate(); err != nil {
			return nil, nil, ruleFailure(r, err)
		}
		fixes[i].RuleID = r.ID()
	}
	return violations, fixes, nil
}

func ruleFailure(r Rule, err error) *core.SQLLintError {
	v := core.NewLintError(r.ID(), fmt.Sprintf("rule %s failed: %v", r.ID(), err), token.Position{Line: 1, Column: 1}, core.SeverityError)
	v.Internal = true
	return v
}
