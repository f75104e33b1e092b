package lint

import (
	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/fix"
	"github.com/leapstack-labs/sqlint/pkg/segment"
)

// =============================================================================
// Phases
// =============================================================================

// Phase selects when a rule runs in the lint-fix loop.
type Phase string

// Lint phases.
const (
	// PhaseMain rules run first and loop until the tree stops changing.
	PhaseMain Phase = "main"
	// PhasePost rules run after the main phase, and only when fixing.
	PhasePost Phase = "post"
)

// =============================================================================
// Crawl Contract
// =============================================================================

// CrawlContext is everything a rule sees during one crawl.
// The tree is a read-only snapshot; fixes must anchor segments of this tree.
type CrawlContext struct {
	Dialect *dialect.Dialect
	// Fix is true when the caller will apply fixes. Rules may skip computing
	// fixes when it is false.
	Fix    bool
	Tree   *segment.Segment
	Config *core.Config
	// Options are the rule's own options from configuration.
	Options map[string]any
}

// CrawlFunc inspects a tree and returns violations and proposed fixes.
type CrawlFunc func(ctx *CrawlContext) ([]*core.SQLLintError, []fix.Fix, error)

// =============================================================================
// Rule Definitions
// =============================================================================

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the CrawlContext.
type RuleDef struct {
	ID            string        // Unique identifier, e.g., "LT01"
	Name          string        // Human-readable name, e.g., "layout.trailing_whitespace"
	Group         string        // Category, e.g., "layout", "convention"
	Description   string        // Human-readable description
	Severity      core.Severity // Default severity
	Phase         Phase         // Defaults to PhaseMain
	FixCompatible bool          // Whether the rule ever proposes fixes
	Crawl         CrawlFunc     // The crawl function
	ConfigKeys    []string      // Configuration keys this rule accepts

	// Documentation fields for richer rule documentation
	Rationale   string // Why this rule exists, what problems it prevents
	BadExample  string // Code showing the anti-pattern
	GoodExample string // Code showing the correct pattern
}

// =============================================================================
// Rule Interface
// =============================================================================

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "LT01"
	ID() string

	// Name returns the human-readable name, e.g., "layout.trailing_whitespace"
	Name() string

	// Group returns the category, e.g., "layout"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// LintPhase returns the phase the rule runs in.
	LintPhase() Phase

	// IsFixCompatible reports whether the rule ever proposes fixes.
	IsFixCompatible() bool

	// Crawl inspects the tree. It must not retain or modify the tree.
	Crawl(ctx *CrawlContext) ([]*core.SQLLintError, []fix.Fix, error)
}

// Documented is implemented by rules that carry documentation.
type Documented interface {
	Rationale() string
	BadExample() string
	GoodExample() string
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	info := core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Phase:           string(r.LintPhase()),
		FixCompatible:   r.IsFixCompatible(),
	}

	if doc, ok := r.(Documented); ok {
		info.Rationale = doc.Rationale()
		info.BadExample = doc.BadExample()
		info.GoodExample = doc.GoodExample()
	}

	return info
}

// =============================================================================
// Wrapped RuleDef
// =============================================================================

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	if def.Phase == "" {
		def.Phase = PhaseMain
	}
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                     { return w.def.ID }
func (w *wrappedRuleDef) Name() string                   { return w.def.Name }
func (w *wrappedRuleDef) Group() string                  { return w.def.Group }
func (w *wrappedRuleDef) Description() string            { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string           { return w.def.ConfigKeys }
func (w *wrappedRuleDef) LintPhase() Phase               { return w.def.Phase }
func (w *wrappedRuleDef) IsFixCompatible() bool          { return w.def.FixCompatible }

// Documentation methods
func (w *wrappedRuleDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string { return w.def.GoodExample }

func (w *wrappedRuleDef) Crawl(ctx *CrawlContext) ([]*core.SQLLintError, []fix.Fix, error) {
	if w.def.Crawl == nil {
		return nil, nil, nil
	}
	return w.def.Crawl(ctx)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
