// Package token holds the positional primitives shared by the lexer, the
// segment tree and violation reporting.
package token

import "strings"

// Position represents a location in the source code.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based byte offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// Contains returns true if the span contains the given offset.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start.Offset && offset < s.End.Offset
}

// IsValid returns true if both start and end positions are valid.
func (s Span) IsValid() bool {
	return s.Start.IsValid() && s.End.IsValid()
}

// Slice is a half-open byte range [Start, Stop) into a string.
type Slice struct {
	Start int
	Stop  int
}

// Len returns the number of bytes covered by the slice.
func (s Slice) Len() int {
	return s.Stop - s.Start
}

// IsZeroWidth reports whether the slice covers no bytes.
func (s Slice) IsZeroWidth() bool {
	return s.Stop <= s.Start
}

// Contains reports whether offset falls inside the slice.
func (s Slice) Contains(offset int) bool {
	return offset >= s.Start && offset < s.Stop
}

// Of returns the substring of str covered by the slice, clamped to str.
func (s Slice) Of(str string) string {
	start, stop := clamp(s.Start, len(str)), clamp(s.Stop, len(str))
	if stop < start {
		return ""
	}
	return str[start:stop]
}

// PositionOf computes the line and column of offset within str.
func PositionOf(str string, offset int) Position {
	offset = clamp(offset, len(str))
	prefix := str[:offset]
	line := strings.Count(prefix, "\n") + 1
	col := offset + 1
	if idx := strings.LastIndexByte(prefix, '\n'); idx >= 0 {
		col = offset - idx
	}
	return Position{Line: line, Column: col, Offset: offset}
}

func clamp(v, hi int) int {
	if v < 0 {
		return 0
	}
	if v > hi {
		return hi
	}
	return v
}
