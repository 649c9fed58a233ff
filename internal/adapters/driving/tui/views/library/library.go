// Package library provides the document library view for the TUI.
package library

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// View lists stored documents and lets the user open or delete one.
type View struct {
	styles       *styles.Styles
	documents    driving.DocumentStore
	conversation driving.ConversationSession
	ctx          context.Context

	list       *list.DocumentList
	confirming bool
	notice     string
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new library view.
func NewView(
	s *styles.Styles,
	documents driving.DocumentStore,
	conversation driving.ConversationSession,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:       s,
		documents:    documents,
		conversation: conversation,
		ctx:          context.Background(),
		list:         list.NewDocumentList(s),
	}
}

// WithContext sets the context used for store calls.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the documents.
func (v *View) Init() tea.Cmd {
	v.confirming = false
	v.notice = ""
	v.err = nil
	return v.loadDocuments()
}

func (v *View) loadDocuments() tea.Cmd {
	return func() tea.Msg {
		if v.documents == nil {
			return messages.ErrorOccurred{Err: errors.New("document service not available")}
		}
		msg := messages.DocumentsLoaded{Documents: v.documents.List(v.ctx)}
		if current := v.documents.Current(v.ctx); current != nil {
			msg.CurrentID = current.ID
		}
		return msg
	}
}

func (v *View) deleteDocument(id string) tea.Cmd {
	return func() tea.Msg {
		if v.conversation == nil {
			return messages.DocumentDeleted{ID: id, Err: errors.New("conversation service not available")}
		}
		return messages.DocumentDeleted{ID: id, Err: v.conversation.DeleteDocument(v.ctx, id)}
	}
}

// Update handles messages for the library view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.DocumentsLoaded:
		v.list.SetDocuments(msg.Documents, msg.CurrentID)
		return v, nil

	case messages.DocumentDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.notice = "Document deleted"
		return v, v.loadDocuments()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k", "down", "j":
		v.list, _ = v.list.Update(msg)
	case "enter":
		if doc := v.list.SelectedDocument(); doc != nil {
			selected := *doc
			return v, func() tea.Msg {
				return messages.DocumentSelected{Document: selected}
			}
		}
	case "d", "delete":
		if v.list.SelectedDocument() != nil {
			v.confirming = true
			v.notice = ""
			v.err = nil
		}
	case "u":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewUpload}
		}
	case "r":
		return v, v.loadDocuments()
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	if msg.String() != "y" {
		return v, nil
	}
	doc := v.list.SelectedDocument()
	if doc == nil {
		return v, nil
	}
	return v, v.deleteDocument(doc.ID)
}

// View renders the library.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Library"))
	b.WriteString("\n\n")
	b.WriteString(v.list.View())
	b.WriteString("\n\n")

	switch {
	case v.confirming:
		name := ""
		if doc := v.list.SelectedDocument(); doc != nil {
			name = doc.Name
		}
		b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete %s and its conversation? [y/N]", name)))
		b.WriteString("\n\n")
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
		b.WriteString("\n\n")
	case v.notice != "":
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n\n")
	}

	b.WriteString(v.styles.Help.Render("[enter] Open  [d] Delete  [u] Upload  [r] Reload  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
}

// Count returns the number of listed documents.
func (v *View) Count() int {
	return v.list.Count()
}

// Confirming reports whether a delete confirmation is pending.
func (v *View) Confirming() bool {
	return v.confirming
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
