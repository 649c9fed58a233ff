// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// Row is one editable setting.
type Row struct {
	Key   string
	Label string
	Value func(*domain.AppSettings) string
}

// Rows lists the settings shown by the view, in display order.
var Rows = []Row{
	{Key: "service.base_url", Label: "Service URL", Value: func(s *domain.AppSettings) string {
		return s.Service.BaseURL
	}},
	{Key: "service.ask_timeout_seconds", Label: "Ask timeout (seconds)", Value: func(s *domain.AppSettings) string {
		return strconv.Itoa(int(s.Service.AskTimeout / time.Second))
	}},
	{Key: "service.max_attempts", Label: "Max attempts", Value: func(s *domain.AppSettings) string {
		return strconv.Itoa(s.Service.MaxAttempts)
	}},
	{Key: "service.backoff_ms", Label: "Backoff step (ms)", Value: func(s *domain.AppSettings) string {
		return strconv.FormatInt(s.Service.BackoffStep.Milliseconds(), 10)
	}},
	{Key: "service.rate_limit", Label: "Rate limit (req/s, 0 = off)", Value: func(s *domain.AppSettings) string {
		return strconv.FormatFloat(s.Service.RateLimit, 'g', -1, 64)
	}},
	{Key: "service.burst", Label: "Burst", Value: func(s *domain.AppSettings) string {
		return strconv.Itoa(s.Service.Burst)
	}},
	{Key: "documents.retention_days", Label: "Retention (days)", Value: func(s *domain.AppSettings) string {
		return strconv.Itoa(int(s.Documents.Retention / (24 * time.Hour)))
	}},
	{Key: "documents.max", Label: "Max documents (0 = unlimited)", Value: func(s *domain.AppSettings) string {
		return strconv.Itoa(s.Documents.MaxDocuments)
	}},
}

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	rows     []Row
	err      error
	notice   string

	selected int
	editing  bool
	field    *input.Field

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles:          s,
		settingsService: settingsService,
		rows:            visibleRows(settingsService),
		field:           input.NewField(s, "", "", input.DefaultCharLimit),
	}
}

// visibleRows keeps the rows whose key the service recognises.
func visibleRows(svc driving.SettingsService) []Row {
	if svc == nil {
		return Rows
	}
	known := make(map[string]bool)
	for _, key := range svc.Keys() {
		known[key] = true
	}
	rows := make([]Row, 0, len(Rows))
	for _, row := range Rows {
		if known[row.Key] {
			rows = append(rows, row)
		}
	}
	return rows
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	v.editing = false
	v.notice = ""
	v.field.Blur()
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: errors.New("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

func (v *View) saveSetting(key, value string) tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsSaved{Key: key, Err: errors.New("settings service not available")}
		}
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.editing = false
		v.field.Blur()
		v.notice = "Saved " + msg.Key
		return v, v.loadSettings()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKeys(msg)
		}
		return v.handleListKeys(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.field, cmd = v.field.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleListKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case "down", "j":
		if v.selected < len(v.rows)-1 {
			v.selected++
		}
	case "enter":
		if v.settings == nil || len(v.rows) == 0 {
			return v, nil
		}
		row := v.rows[v.selected]
		v.editing = true
		v.notice = ""
		v.err = nil
		v.field.Reset()
		v.field.SetValue(row.Value(v.settings))
		return v, v.field.Focus()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.editing = false
		v.err = nil
		v.field.Blur()
		return v, nil
	case "enter":
		row := v.rows[v.selected]
		return v, v.saveSetting(row.Key, strings.TrimSpace(v.field.Value()))
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		if v.err != nil {
			b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		} else {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] Back"))
		return b.String()
	}

	for i, row := range v.rows {
		cursor := "  "
		style := v.styles.Normal
		if i == v.selected {
			cursor = "> "
			style = v.styles.Selected
		}
		b.WriteString(cursor)
		b.WriteString(style.Render(row.Label))
		b.WriteString(": ")
		b.WriteString(v.styles.Muted.Render(row.Value(v.settings)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if v.editing {
		b.WriteString(v.styles.Subtitle.Render("Edit " + v.rows[v.selected].Label))
		b.WriteString("\n")
		b.WriteString(v.field.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %v", v.err)))
		b.WriteString("\n\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] Save  [esc] Cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Edit  [esc] Back"))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.field.SetWidth(width - 4)
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Settings returns the last loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
