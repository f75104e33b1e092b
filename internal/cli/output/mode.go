// Package output renders CLI results for terminals, pipes and machines.
//
// A Renderer picks its effective mode once: styled text on a terminal,
// markdown when piped, or a structured encoding when asked for one.
package output

import "strings"

// OutputMode selects how results are rendered.
type OutputMode string

// Output modes.
const (
	ModeAuto     OutputMode = "auto"
	ModeText     OutputMode = "text"
	ModeMarkdown OutputMode = "markdown"
	ModeJSON     OutputMode = "json"
	ModeYAML     OutputMode = "yaml"
)

// Mode parses a mode name. Unknown or empty names map to ModeAuto.
func Mode(s string) OutputMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "human":
		return ModeText
	case "markdown", "md":
		return ModeMarkdown
	case "json":
		return ModeJSON
	case "yaml", "yml":
		return ModeYAML
	default:
		return ModeAuto
	}
}

// IsStructured reports whether the mode is a machine-readable encoding.
func (m OutputMode) IsStructured() bool {
	return m == ModeJSON || m == ModeYAML
}

func (m OutputMode) String() string { return string(m) }
