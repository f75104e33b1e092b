package linter

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/dialect"
	"github.com/leapstack-labs/sqlint/pkg/parser"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// NormaliseNewlines converts \r\n and lone \r line endings to \n.
func NormaliseNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// RenderString renders in with the templater selected by cfg. Inline
// config directives in the file are applied to a copy of cfg first. A
// missing or unknown dialect is a *core.UserError.
func (l *Linter) RenderString(in, fname string, cfg *core.Config) (*RenderedFile, error) {
	if cfg == nil {
		cfg = l.cfg
	}
	in = NormaliseNewlines(in)
	cfg = cfg.ProcessRawFileForConfig(in)

	if err := cfg.VerifyDialectSpecified(); err != nil {
		return nil, err
	}
	d, err := dialect.Lookup(cfg.Dialect)
	if err != nil {
		return nil, core.NewUserError("%v", err)
	}
	tmpl, err := l.templaterFor(cfg)
	if err != nil {
		return nil, err
	}

	if l.formatter != nil {
		l.formatter.DispatchTemplateHeader(fname)
	}

	start := time.Now()
	tf, violations, err := tmpl.Process(in, fname, cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", fname, err)
	}
	elapsed := time.Since(start)

	l.logger.Debug("rendered file", "file", fname, "templater", tmpl.Name(), "violations", len(violations))

	return &RenderedFile{
		FName:         fname,
		Source:        in,
		Encoding:      cfg.Encoding,
		TemplatedFile: tf,
		Violations:    violations,
		Config:        cfg,
		Dialect:       d,
		Timings:       Timings{StepTemplating: elapsed},
	}, nil
}

// RenderFile reads, decodes and renders a file.
func (l *Linter) RenderFile(path string) (*RenderedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	in, err := decode(data, l.cfg.Encoding)
	if err != nil {
		return nil, core.NewUserError("%s: %v", path, err)
	}
	return l.RenderString(in, path, l.cfg)
}

// ParseRendered lexes and parses a rendered file. Parsing is skipped when
// the templater produced nothing or the lexer found no tokens. A parse
// failure is recorded as a violation and leaves Tree nil.
func (l *Linter) ParseRendered(rendered *RenderedFile) *ParsedString {
	parsed := &ParsedString{
		FName:         rendered.FName,
		Source:        rendered.Source,
		Encoding:      rendered.Encoding,
		TemplatedFile: rendered.TemplatedFile,
		Config:        rendered.Config,
		Dialect:       rendered.Dialect,
		Timings:       Timings{},
	}
	for k, v := range rendered.Timings {
		parsed.Timings[k] = v
	}
	for _, v := range rendered.Violations {
		parsed.Violations = append(parsed.Violations, v)
	}

	tf := rendered.TemplatedFile
	if tf == nil {
		l.logger.Debug("templater produced no output, skipping parse", "file", rendered.FName)
		return parsed
	}

	start := time.Now()
	tokens, lexViolations, err := parser.NewLexer(rendered.Dialect).Lex(tf)
	parsed.Timings[StepLexing] = time.Since(start)
	if err != nil {
		parsed.Violations = append(parsed.Violations, core.NewLexError(err.Error(), token.Position{Line: 1, Column: 1}))
		return parsed
	}
	for _, v := range lexViolations {
		parsed.Violations = append(parsed.Violations, v)
	}
	if len(tokens) == 0 {
		l.logger.Debug("no tokens, skipping parse", "file", rendered.FName)
		return parsed
	}

	if l.formatter != nil {
		l.formatter.DispatchParseHeader(rendered.FName)
	}

	start = time.Now()
	tree, err := parser.New(rendered.Dialect).Parse(tokens)
	parsed.Timings[StepParsing] = time.Since(start)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			parsed.Violations = append(parsed.Violations, perr.Violation())
		} else {
			parsed.Violations = append(parsed.Violations, core.NewParseError(err.Error(), token.Position{Line: 1, Column: 1}))
		}
		l.logger.Debug("parse failed", "file", rendered.FName, "error", err)
		return parsed
	}
	parsed.Tree = tree
	return parsed
}

// ParseString renders and parses in.
func (l *Linter) ParseString(in, fname string) (*ParsedString, error) {
	rendered, err := l.RenderString(in, fname, l.cfg)
	if err != nil {
		return nil, err
	}
	return l.ParseRendered(rendered), nil
}
