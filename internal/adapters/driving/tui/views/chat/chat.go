// Package chat provides the conversation view for the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// QuestionCharLimit bounds a single question.
const QuestionCharLimit = 1000

// View shows the conversation about the active document.
type View struct {
	styles       *styles.Styles
	conversation driving.ConversationSession
	ctx          context.Context

	viewport viewport.Model
	field    *input.Field
	spinner  spinner.Model

	document *domain.Document
	messages []domain.Message
	pending  string
	asking   bool
	seq      int
	notice   string
	errText  string

	suggestions []domain.SuggestedQuestion
	suggestion  int

	width  int
	height int
	ready  bool
}

// NewView creates a new chat view.
func NewView(s *styles.Styles, conversation driving.ConversationSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Subtitle

	return &View{
		styles:       s,
		conversation: conversation,
		ctx:          context.Background(),
		viewport:     viewport.New(80, 16),
		field:        input.NewField(s, "", "Ask about revenue, margins, outlook...", QuestionCharLimit),
		spinner:      sp,
		suggestions:  domain.SuggestedQuestions(),
		suggestion:   -1,
	}
}

// WithContext sets the context questions run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the conversation and focuses the question input.
func (v *View) Init() tea.Cmd {
	v.notice = ""
	v.errText = ""
	v.refresh()
	cmds := []tea.Cmd{v.field.Focus(), v.field.Init()}
	if v.asking {
		cmds = append(cmds, v.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// refresh reloads the document and messages from the session.
func (v *View) refresh() {
	if v.conversation == nil {
		v.document = nil
		v.messages = nil
	} else {
		v.document = v.conversation.ActiveDocument()
		v.messages = v.conversation.Messages()
	}
	v.renderContent()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !v.asking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.AnswerReceived:
		return v.handleAnswer(msg), nil
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if v.asking {
			v.cancel()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "ctrl+x":
		if v.asking {
			v.cancel()
		}
		return v, nil
	case "ctrl+l":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewLibrary}
		}
	case "pgup":
		v.viewport.SetYOffset(v.viewport.YOffset - v.viewport.Height)
		return v, nil
	case "pgdown":
		v.viewport.SetYOffset(v.viewport.YOffset + v.viewport.Height)
		return v, nil
	case "tab":
		v.suggest(1)
		return v, nil
	case "shift+tab":
		v.suggest(-1)
		return v, nil
	case "enter":
		return v, v.send()
	}

	var cmd tea.Cmd
	v.field, cmd = v.field.Update(msg)
	return v, cmd
}

// suggest fills the input with the next or previous suggested question.
func (v *View) suggest(step int) {
	if v.asking || len(v.suggestions) == 0 {
		return
	}
	n := len(v.suggestions)
	if v.suggestion < 0 && step < 0 {
		v.suggestion = 0
	}
	v.suggestion = ((v.suggestion+step)%n + n) % n
	v.field.SetValue(v.suggestions[v.suggestion].Text)
}

// send asks the typed question.
func (v *View) send() tea.Cmd {
	question := strings.TrimSpace(v.field.Value())
	if question == "" || v.asking {
		return nil
	}
	if v.conversation == nil {
		v.errText = "conversation service not available"
		return nil
	}
	if v.document == nil {
		v.errText = "No document selected. Upload a report or open one from the library."
		return nil
	}

	v.seq++
	seq := v.seq
	v.asking = true
	v.pending = question
	v.notice = ""
	v.errText = ""
	v.field.Reset()
	v.suggestion = -1
	v.renderContent()

	conversation, ctx := v.conversation, v.ctx
	ask := func() tea.Msg {
		reply, err := conversation.Ask(ctx, question)
		return messages.AnswerReceived{Seq: seq, Reply: reply, Err: err}
	}
	return tea.Batch(ask, v.spinner.Tick)
}

// cancel abandons the pending question.
func (v *View) cancel() {
	v.conversation.Cancel()
	v.asking = false
	v.pending = ""
	v.notice = "Question cancelled"
	v.refresh()
}

func (v *View) handleAnswer(msg messages.AnswerReceived) *View {
	if msg.Seq != v.seq || !v.asking {
		return v
	}
	v.asking = false
	v.pending = ""

	switch {
	case errors.Is(msg.Err, domain.ErrCanceled):
		v.notice = "Question cancelled"
	case msg.Err != nil:
		v.errText = domain.UserMessage(msg.Err)
	}
	v.refresh()
	return v
}

// View renders the chat view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	title := "Chat"
	if v.document != nil {
		title += " - " + v.document.Name
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	if v.document == nil {
		b.WriteString(v.styles.Warning.Render("No document selected. Upload a report or open one from the library."))
		b.WriteString("\n\n")
	} else {
		b.WriteString(v.viewport.View())
		b.WriteString("\n\n")
	}

	switch {
	case v.asking:
		b.WriteString(v.spinner.View() + " " + v.styles.Muted.Render("Analysing the report..."))
	case v.errText != "":
		b.WriteString(v.styles.Error.Render(v.errText))
	case v.notice != "":
		b.WriteString(v.styles.Muted.Render(v.notice))
	}
	b.WriteString("\n")

	b.WriteString(v.field.View())
	b.WriteString("\n")
	if v.asking {
		b.WriteString(v.styles.Help.Render("[esc] Cancel question  [pgup/pgdown] Scroll"))
	} else {
		b.WriteString(v.styles.Help.Render("[enter] Send  [tab] Suggest  [pgup/pgdown] Scroll  [ctrl+l] Library  [esc] Back"))
	}
	return b.String()
}

// renderContent rebuilds the viewport and keeps it scrolled to the latest message.
func (v *View) renderContent() {
	content := renderConversation(v.styles, v.messages, v.pending, v.viewport.Width)
	if v.pending == "" && !hasQuestion(v.messages) && len(v.suggestions) > 0 {
		if content != "" {
			content += "\n\n"
		}
		content += renderSuggestions(v.styles, v.suggestions)
	}
	v.viewport.SetContent(content)
	v.viewport.GotoBottom()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.viewport.Width = width
	vpHeight := height - 8
	if vpHeight < 3 {
		vpHeight = 3
	}
	v.viewport.Height = vpHeight
	v.field.SetWidth(width - 4)
	v.renderContent()
}

// Asking reports whether a question is pending.
func (v *View) Asking() bool {
	return v.asking
}

// Messages returns the conversation shown by the view.
func (v *View) Messages() []domain.Message {
	return v.messages
}

// Document returns the document the conversation is about, nil if none.
func (v *View) Document() *domain.Document {
	return v.document
}

// ErrorText returns the failure shown to the user, empty if none.
func (v *View) ErrorText() string {
	return v.errText
}

// Suggestion returns the suggested question last placed in the input, if any.
func (v *View) Suggestion() (domain.SuggestedQuestion, bool) {
	if v.suggestion < 0 || v.suggestion >= len(v.suggestions) {
		return domain.SuggestedQuestion{}, false
	}
	return v.suggestions[v.suggestion], true
}

// Notice returns the informational line, empty if none.
func (v *View) Notice() string {
	return v.notice
}
