package output

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	colorPrimary = lipgloss.Color("#7AA2F7")
	colorSuccess = lipgloss.Color("#9ECE6A")
	colorWarning = lipgloss.Color("#E0AF68")
	colorError   = lipgloss.Color("#F7768E")
	colorInfo    = lipgloss.Color("#7DCFFF")
	colorMuted   = lipgloss.Color("#737AA2")
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1  lipgloss.Style
	Header2  lipgloss.Style
	Bold     lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	FilePath lipgloss.Style
	Code     lipgloss.Style
}

// NewStyles builds styles bound to a lipgloss renderer, so the color
// profile of the destination writer decides whether escapes are emitted.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1:  lr.NewStyle().Bold(true).Foreground(colorPrimary),
		Header2:  lr.NewStyle().Bold(true).Underline(true),
		Bold:     lr.NewStyle().Bold(true),
		Muted:    lr.NewStyle().Foreground(colorMuted),
		Success:  lr.NewStyle().Foreground(colorSuccess),
		Warning:  lr.NewStyle().Foreground(colorWarning),
		Error:    lr.NewStyle().Foreground(colorError).Bold(true),
		Info:     lr.NewStyle().Foreground(colorInfo),
		FilePath: lr.NewStyle().Bold(true).Foreground(colorInfo),
		Code:     lr.NewStyle().Foreground(colorPrimary),
	}
}
