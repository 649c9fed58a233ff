// Package styles provides the colour palette and lipgloss styles of the TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the colour palette of the TUI.
type Theme struct {
	// Accent marks titles and the selected row.
	Accent lipgloss.Color

	// Speaker colours the author line of a message and the answer rule.
	Speaker lipgloss.Color

	// Text is the default foreground.
	Text lipgloss.Color

	// Muted is used for timestamps, help and details.
	Muted lipgloss.Color

	// Rise and Fall colour metric trends.
	Rise lipgloss.Color
	Fall lipgloss.Color

	// Warning and Error colour notices and failures.
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Border frames the input field.
	Border lipgloss.Color

	// Bar is the status bar background.
	Bar lipgloss.Color
}

// DefaultTheme returns the default palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:  lipgloss.Color("#7C3AED"), // Violet
		Speaker: lipgloss.Color("#0EA5E9"), // Sky
		Text:    lipgloss.Color("#E2E8F0"), // Slate 200
		Muted:   lipgloss.Color("#64748B"), // Slate 500
		Rise:    lipgloss.Color("#22C55E"), // Green
		Fall:    lipgloss.Color("#EF4444"), // Red
		Warning: lipgloss.Color("#F59E0B"), // Amber
		Error:   lipgloss.Color("#F87171"), // Light red
		Border:  lipgloss.Color("#334155"), // Slate 700
		Bar:     lipgloss.Color("#0F172A"), // Slate 900
	}
}

// Styles contains the pre-configured lipgloss styles used by the views.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Help     lipgloss.Style

	// InputField frames the question and path inputs.
	InputField lipgloss.Style

	// StatusBar is the bottom line of every screen.
	StatusBar lipgloss.Style

	// Border frames the conversation viewport.
	Border lipgloss.Style

	// UserMessage and AIMessage render message bodies.
	UserMessage lipgloss.Style
	AIMessage   lipgloss.Style

	// Speaker renders the author line above a message.
	Speaker lipgloss.Style

	// Detail renders citations, chart summaries and confidence.
	Detail lipgloss.Style

	// Rise and Fall render metrics that went up or down.
	Rise lipgloss.Style
	Fall lipgloss.Style
}

// NewStyles creates styles from a theme. A nil theme uses DefaultTheme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	detail := lipgloss.NewStyle().
		Foreground(theme.Muted).
		PaddingLeft(4)

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Accent),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Speaker),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Text),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Text).
			Background(theme.Accent),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error),

		Success: lipgloss.NewStyle().
			Foreground(theme.Rise),

		Warning: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.Bar).
			Padding(0, 1),

		Border: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		UserMessage: lipgloss.NewStyle().
			Foreground(theme.Text).
			PaddingLeft(2),

		AIMessage: lipgloss.NewStyle().
			Foreground(theme.Text).
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(theme.Speaker).
			PaddingLeft(1),

		Speaker: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Speaker),

		Detail: detail,

		Rise: detail.Foreground(theme.Rise),

		Fall: detail.Foreground(theme.Fall),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
