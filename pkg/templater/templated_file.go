package templater

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlint/pkg/token"
)

// SliceType classifies a region of a templated file.
type SliceType string

// Slice types.
const (
	SliceLiteral   SliceType = "literal"
	SliceTemplated SliceType = "templated"
	SliceBlock     SliceType = "block"
)

// FileSlice maps a region of the source to the templated output it produced.
type FileSlice struct {
	Type           SliceType
	SourceSlice    token.Slice
	TemplatedSlice token.Slice
}

// TemplatedFile is the map between a source file and its rendered text.
// Slices are contiguous and ordered in both source and templated space.
type TemplatedFile struct {
	FName        string
	SourceStr    string
	TemplatedStr string
	Slices       []FileSlice

	sourceNewlines []int
}

// NewTemplatedFile creates a templated file. When slices is nil the file is
// treated as untemplated: one literal slice covering everything.
func NewTemplatedFile(source, fname, templated string, slices []FileSlice) *TemplatedFile {
	if slices == nil {
		slices = []FileSlice{{
			Type:           SliceLiteral,
			SourceSlice:    token.Slice{Start: 0, Stop: len(source)},
			TemplatedSlice: token.Slice{Start: 0, Stop: len(templated)},
		}}
	}
	tf := &TemplatedFile{
		FName:        fname,
		SourceStr:    source,
		TemplatedStr: templated,
		Slices:       slices,
	}
	for i := 0; i < len(source); i++ {
		if source[i] == '\n' {
			tf.sourceNewlines = append(tf.sourceNewlines, i)
		}
	}
	return tf
}

// IsTemplated reports whether any part of the file was produced by a template tag.
func (tf *TemplatedFile) IsTemplated() bool {
	for _, s := range tf.Slices {
		if s.Type != SliceLiteral {
			return true
		}
	}
	return false
}

// SourcePosition returns the line and column of a source offset.
func (tf *TemplatedFile) SourcePosition(offset int) token.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > len(tf.SourceStr) {
		offset = len(tf.SourceStr)
	}
	// Number of newlines strictly before offset.
	line := sort.SearchInts(tf.sourceNewlines, offset)
	col := offset + 1
	if line > 0 {
		col = offset - tf.sourceNewlines[line-1]
	}
	return token.Position{Line: line + 1, Column: col, Offset: offset}
}

// TemplatedSliceToSourceSlice maps a range of the templated text to the
// range of source that produced it. Offsets inside literal slices map one to
// one; offsets inside templated slices widen to the whole tag.
func (tf *TemplatedFile) TemplatedSliceToSourceSlice(ts token.Slice) token.Slice {
	if len(tf.Slices) == 0 {
		return ts
	}
	start := tf.mapStart(ts.Start)
	if ts.IsZeroWidth() {
		return token.Slice{Start: start, Stop: start}
	}
	stop := tf.mapStop(ts.Stop)
	if stop < start {
		stop = start
	}
	return token.Slice{Start: start, Stop: stop}
}

func (tf *TemplatedFile) mapStart(pos int) int {
	for _, s := range tf.Slices {
		t := s.TemplatedSlice
		if t.IsZeroWidth() || pos < t.Start || pos >= t.Stop {
			continue
		}
		if s.Type == SliceLiteral {
			return s.SourceSlice.Start + (pos - t.Start)
		}
		return s.SourceSlice.Start
	}
	// Past the end of the output.
	return tf.Slices[len(tf.Slices)-1].SourceSlice.Stop
}

func (tf *TemplatedFile) mapStop(pos int) int {
	for _, s := range tf.Slices {
		t := s.TemplatedSlice
		if t.IsZeroWidth() || pos <= t.Start || pos > t.Stop {
			continue
		}
		if s.Type == SliceLiteral {
			return s.SourceSlice.Start + (pos - t.Start)
		}
		return s.SourceSlice.Stop
	}
	return tf.Slices[len(tf.Slices)-1].SourceSlice.Stop
}

// IsSourceSliceLiteral reports whether every part of the source range lies
// in literal slices. A zero-width range is literal when it touches a literal
// slice.
func (tf *TemplatedFile) IsSourceSliceLiteral(ss token.Slice) bool {
	if ss.IsZeroWidth() {
		for _, s := range tf.Slices {
			if s.Type == SliceLiteral && ss.Start >= s.SourceSlice.Start && ss.Start <= s.SourceSlice.Stop {
				return true
			}
		}
		return false
	}
	for _, s := range tf.Slices {
		src := s.SourceSlice
		if src.Stop <= ss.Start || src.Start >= ss.Stop {
			continue
		}
		if s.Type != SliceLiteral {
			return false
		}
	}
	return true
}

// NonLiteralSource returns the source text of the non-literal slices that
// overlap ss, in order. Used to carry template tags through a rewrite.
func (tf *TemplatedFile) NonLiteralSource(ss token.Slice) string {
	var b strings.Builder
	for _, s := range tf.Slices {
		src := s.SourceSlice
		if s.Type == SliceLiteral || src.Start < ss.Start || src.Start >= ss.Stop {
			continue
		}
		b.WriteString(src.Of(tf.SourceStr))
	}
	return b.String()
}
