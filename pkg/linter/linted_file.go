package linter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/core"
	"github.com/leapstack-labs/sqlint/pkg/segment"
	"github.com/leapstack-labs/sqlint/pkg/templater"
	"github.com/leapstack-labs/sqlint/pkg/token"
)

// LintedFile is the result of linting one file.
type LintedFile struct {
	Path     string
	Encoding string
	// Tree is the final tree, after fixes when fixing. Nil when the file
	// could not be parsed.
	Tree          *segment.Segment
	TemplatedFile *templater.TemplatedFile
	Timings       Timings
	Stats         LoopStats
	// Err is a fatal error for this file, such as a missing dialect.
	Err error

	violations []core.Violation
}

// ViolationFilter selects violations.
type ViolationFilter struct {
	// FixableOnly keeps violations with a fix.
	FixableOnly bool
	// Rules keeps violations with one of these codes. Empty keeps all.
	Rules []string
	// MinSeverity drops violations less severe than this, when set.
	MinSeverity *core.Severity
}

func (f ViolationFilter) keep(v core.Violation) bool {
	if f.FixableOnly && !v.IsFixable() {
		return false
	}
	if f.MinSeverity != nil && !v.Severity().AtLeast(*f.MinSeverity) {
		return false
	}
	if len(f.Rules) > 0 {
		for _, code := range f.Rules {
			if strings.EqualFold(code, v.Code()) {
				return true
			}
		}
		return false
	}
	return true
}

// Violations returns the file's violations ordered by position.
func (f *LintedFile) Violations(filter ViolationFilter) []core.Violation {
	out := make([]core.Violation, 0, len(f.violations))
	for _, v := range f.violations {
		if filter.keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// FixString returns the fixed source text and whether it differs from the
// original source.
//
// For a templated file only literal regions are rewritten. Template tags are
// copied from the source unchanged, and edits that land inside rendered
// template output are dropped.
func (f *LintedFile) FixString() (string, bool) {
	if f.Tree == nil || f.TemplatedFile == nil {
		if f.TemplatedFile != nil {
			return f.TemplatedFile.SourceStr, false
		}
		return "", false
	}
	tf := f.TemplatedFile
	if !tf.IsTemplated() {
		fixed := f.Tree.Raw()
		return fixed, fixed != tf.SourceStr
	}

	fixed := patchSource(tf, f.Tree.RawSegments())
	return fixed, fixed != tf.SourceStr
}

// patchSource rebuilds source text from leaves. Source between leaves is
// kept only where it is template code.
func patchSource(tf *templater.TemplatedFile, leaves []*segment.Segment) string {
	var b strings.Builder
	src := tf.SourceStr
	cursor := 0

	for _, leaf := range leaves {
		ss := leaf.Marker().SourceSlice
		if ss.Start > cursor {
			b.WriteString(tf.NonLiteralSource(token.Slice{Start: cursor, Stop: ss.Start}))
			cursor = ss.Start
		}

		if tf.IsSourceSliceLiteral(ss) {
			b.WriteString(leaf.Raw())
		} else if !ss.IsZeroWidth() && ss.Start >= cursor {
			b.WriteString(ss.Of(src))
		}
		cursor = max(cursor, ss.Stop)
	}

	if cursor < len(src) {
		b.WriteString(tf.NonLiteralSource(token.Slice{Start: cursor, Stop: len(src)}))
	}
	return b.String()
}

// PersistTree writes the fixed source next to the original, or over it when
// suffix is empty. It reports whether anything was written.
func (f *LintedFile) PersistTree(suffix string) (bool, error) {
	fixed, changed := f.FixString()
	if !changed {
		return false, nil
	}
	data, err := encode(fixed, f.Encoding)
	if err != nil {
		return false, fmt.Errorf("encoding %s: %w", f.Path, err)
	}

	target := f.Path
	if suffix != "" {
		ext := filepath.Ext(target)
		target = strings.TrimSuffix(target, ext) + suffix + ext
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(target, data, mode); err != nil {
		return false, fmt.Errorf("writing fixed file %s: %w", target, err)
	}
	return true, nil
}
