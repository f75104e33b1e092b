package linter

import (
	"log/slog"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/lint"
	"github.com/leapstack-labs/sqlint/pkg/templater"
)

// Linter lints SQL strings and files. A Linter is safe for concurrent use
// once constructed.
type Linter struct {
	cfg       *core.Config
	logger    *slog.Logger
	formatter Formatter
	templater templater.Templater
	rules     *lint.RuleSet
}

// Option configures a Linter.
type Option func(*Linter)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Linter) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFormatter sets the formatter that receives per-file output.
func WithFormatter(f Formatter) Option {
	return func(l *Linter) {
		l.formatter = f
	}
}

// WithTemplater overrides the templater named in the config.
func WithTemplater(t templater.Templater) Option {
	return func(l *Linter) {
		l.templater = t
	}
}

// WithRules replaces rule selection with a fixed set of rules.
func WithRules(rules ...lint.Rule) Option {
	return func(l *Linter) {
		rs := lint.NewRuleSet(rules...)
		l.rules = &rs
	}
}

// New creates a Linter. A nil config means defaults.
func New(cfg *core.Config, opts ...Option) *Linter {
	if cfg == nil {
		cfg = core.DefaultConfig()
	}
	l := &Linter{
		cfg:    cfg.Clone(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns a copy of the linter's base configuration.
func (l *Linter) Config() *core.Config {
	return l.cfg.Clone()
}

// RuleSet returns the rules that run for cfg, logging unknown selectors.
func (l *Linter) RuleSet(cfg *core.Config) lint.RuleSet {
	if l.rules != nil {
		return *l.rules
	}
	rs, unknown := lint.SelectRules(cfg)
	for _, sel := range unknown {
		l.logger.Warn("unknown rule selector", "selector", sel)
	}
	return rs
}

func (l *Linter) templaterFor(cfg *core.Config) (templater.Templater, error) {
	if l.templater != nil {
		return l.templater, nil
	}
	t, err := templater.Get(cfg.Templater)
	if err != nil {
		return nil, core.NewUserError("%v", err)
	}
	return t, nil
}
