// Package upload provides the PDF upload view for the TUI.
package upload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/localfile"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// tickInterval is how often progress is polled while uploading.
const tickInterval = 150 * time.Millisecond

// InspectFunc turns a path into a file reference.
type InspectFunc func(path string) (domain.FileRef, error)

// View uploads one PDF at a time and reports its progress.
type View struct {
	styles  *styles.Styles
	session driving.UploadSession
	inspect InspectFunc
	ctx     context.Context

	field     *input.Field
	spinner   spinner.Model
	uploading bool
	file      *domain.FileRef
	progress  float64
	document  *domain.Document
	errText   string

	width  int
	height int
	ready  bool
}

// NewView creates a new upload view. A nil inspect uses the local filesystem.
func NewView(s *styles.Styles, session driving.UploadSession, inspect InspectFunc) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if inspect == nil {
		inspect = localfile.Inspect
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:  s,
		session: session,
		inspect: inspect,
		ctx:     context.Background(),
		field:   input.NewField(s, "PDF file", "/path/to/annual-report.pdf", 1024),
		spinner: sp,
	}
}

// WithContext sets the context uploads run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init focuses the path input.
func (v *View) Init() tea.Cmd {
	if v.uploading {
		return tea.Batch(v.spinner.Tick, v.tick())
	}
	return tea.Batch(v.field.Focus(), v.field.Init())
}

func (v *View) tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return messages.UploadTick{}
	})
}

// Update handles messages for the upload view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.UploadTick:
		if !v.uploading || v.session == nil {
			return v, nil
		}
		v.progress = v.session.State().Progress
		return v, v.tick()

	case spinner.TickMsg:
		if !v.uploading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.UploadCompleted:
		return v.handleCompleted(msg)
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.uploading {
			v.session.Cancel()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case "enter":
		if v.uploading {
			return v, nil
		}
		path := strings.Trim(strings.TrimSpace(v.field.Value()), `"'`)
		if path == "" {
			if v.document != nil {
				doc := *v.document
				return v, func() tea.Msg {
					return messages.DocumentSelected{Document: doc}
				}
			}
			return v, nil
		}
		return v, v.start(path)
	}

	if v.uploading {
		return v, nil
	}
	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

// start inspects path and launches the upload.
func (v *View) start(path string) tea.Cmd {
	v.errText = ""
	v.document = nil
	if v.session == nil {
		v.errText = "upload service not available"
		return nil
	}

	file, err := v.inspect(path)
	if err != nil {
		v.errText = fmt.Sprintf("Cannot read %s: %v", path, err)
		return nil
	}

	if v.session.State().Phase.Terminal() {
		if err := v.session.Reset(); err != nil {
			v.errText = domain.UserMessage(err)
			return nil
		}
	}

	v.file = &file
	v.progress = 0
	v.uploading = true
	v.field.Blur()

	session, ctx := v.session, v.ctx
	upload := func() tea.Msg {
		err := session.Select(ctx, file)
		return messages.UploadCompleted{Document: session.Document(), Err: err}
	}
	return tea.Batch(upload, v.spinner.Tick, v.tick())
}

func (v *View) handleCompleted(msg messages.UploadCompleted) (*View, tea.Cmd) {
	v.uploading = false
	focus := v.field.Focus()

	if msg.Err != nil {
		v.errText = domain.UserMessage(msg.Err)
		if v.session != nil {
			if st := v.session.State(); st.Error != "" {
				v.errText = st.Error
			}
		}
		if errors.Is(msg.Err, domain.ErrValidation) {
			v.file = nil
		}
		return v, focus
	}

	v.progress = 100
	v.document = msg.Document
	v.field.Reset()
	return v, focus
}

// View renders the upload view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Upload Report"))
	b.WriteString("\n\n")
	b.WriteString(v.styles.Muted.Render("Upload a PDF annual report to extract its text and start a conversation."))
	b.WriteString("\n\n")
	b.WriteString(v.field.View())
	b.WriteString("\n\n")

	switch {
	case v.uploading:
		name := ""
		if v.file != nil {
			name = v.file.Name
		}
		b.WriteString(fmt.Sprintf("%s Uploading %s... %3.0f%%", v.spinner.View(), name, v.progress))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] Cancel upload"))
		return b.String()

	case v.errText != "":
		b.WriteString(v.styles.Error.Render(v.errText))
		b.WriteString("\n\n")

	case v.document != nil:
		b.WriteString(v.styles.Success.Render(fmt.Sprintf("Stored %s", v.document.Name)))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d characters extracted, expires %s",
			len(v.document.Text), v.document.ExpiresAt.Local().Format("2006-01-02"))))
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[enter] Ask about it  [esc] Back"))
		return b.String()
	}

	b.WriteString(v.styles.Help.Render("[enter] Upload  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.field.SetWidth(width - 4)
}

// Uploading reports whether an upload is running.
func (v *View) Uploading() bool {
	return v.uploading
}

// Document returns the document stored by the last successful upload.
func (v *View) Document() *domain.Document {
	return v.document
}

// ErrorText returns the failure shown to the user, empty if none.
func (v *View) ErrorText() string {
	return v.errText
}
