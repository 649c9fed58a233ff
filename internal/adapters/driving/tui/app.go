package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/views/library"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/views/upload"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// keymap holds the key bindings shown in the status bar.
	keymap *keymap.KeyMap

	menuView     *menu.View
	libraryView  *library.View
	uploadView   *upload.View
	chatView     *chat.View
	settingsView *settings.View

	// statusBar is rendered below the active view.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s),
		libraryView:  library.NewView(s, ports.Documents, ports.Conversation),
		uploadView:   upload.NewView(s, ports.Upload, nil),
		chatView:     chat.NewView(s, ports.Conversation),
		settingsView: settings.NewView(s, ports.Settings),
		statusBar:    status.NewBar(s, km),
		currentView:  messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.libraryView.WithContext(ctx)
	a.uploadView.WithContext(ctx)
	a.chatView.WithContext(ctx)
	return a
}

// WithInspector replaces how the upload view reads file metadata.
func (a *App) WithInspector(inspect upload.InspectFunc) *App {
	a.uploadView = upload.NewView(a.styles, a.ports.Upload, inspect).WithContext(a.ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	a.syncStatus()
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("insightly - Annual Report Insights"),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	a.syncStatus()
	return a, cmd
}

//nolint:gocyclo // central message handler requires complexity
func (a *App) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			a.ports.Conversation.Cancel()
			a.ports.Upload.Cancel()
			return tea.Quit
		}
		a.err = nil
		return a.updateCurrent(msg)

	case messages.ViewChanged:
		return a.switchTo(msg.View)

	case messages.DocumentSelected:
		return a.openDocument(msg.Document)

	case messages.DocumentOpened:
		if msg.Err != nil {
			a.err = msg.Err
			return nil
		}
		return a.switchTo(messages.ViewChat)

	case messages.DocumentsLoaded, messages.DocumentDeleted:
		a.libraryView, cmd = a.libraryView.Update(msg)
		return cmd

	case messages.UploadTick, messages.UploadCompleted:
		// Uploads keep running when the user leaves the upload view.
		a.uploadView, cmd = a.uploadView.Update(msg)
		return cmd

	case messages.AnswerReceived:
		a.chatView, cmd = a.chatView.Update(msg)
		return cmd

	case messages.SettingsLoaded, messages.SettingsSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		if a.currentView == messages.ViewLibrary {
			a.libraryView, cmd = a.libraryView.Update(msg)
		}
		return cmd

	case messages.Quit:
		return tea.Quit
	}

	return a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewLibrary:
		a.libraryView, cmd = a.libraryView.Update(msg)
	case messages.ViewUpload:
		a.uploadView, cmd = a.uploadView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && (key.Type == tea.KeyEsc || key.String() == "q") {
			return a.switchTo(messages.ViewMenu)
		}
	}
	return cmd
}

// switchTo activates view and runs its initialisation.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	switch view {
	case messages.ViewMenu:
		name := ""
		if doc := a.ports.Conversation.ActiveDocument(); doc != nil {
			name = doc.Name
		}
		a.menuView.SetDocument(name)
	case messages.ViewLibrary:
		return a.libraryView.Init()
	case messages.ViewUpload:
		return a.uploadView.Init()
	case messages.ViewChat:
		return a.chatView.Init()
	case messages.ViewSettings:
		return a.settingsView.Init()
	case messages.ViewHelp:
		// Help is static
	}
	return nil
}

// openDocument returns a command that activates doc in the conversation.
func (a *App) openDocument(doc domain.Document) tea.Cmd {
	conversation, ctx := a.ports.Conversation, a.ctx
	return func() tea.Msg {
		err := conversation.SelectDocument(ctx, doc)
		return messages.DocumentOpened{Document: doc, Err: err}
	}
}

// syncStatus reflects session state in the status bar.
func (a *App) syncStatus() {
	a.statusBar.Clear()

	doc := a.ports.Conversation.ActiveDocument()
	if doc != nil {
		a.statusBar.SetDocument(doc.Name)
	} else {
		a.statusBar.SetDocument("")
	}

	switch a.currentView {
	case messages.ViewChat:
		a.statusBar.SetHints(a.keymap.ChatHelp())
	case messages.ViewLibrary:
		a.statusBar.SetHints(a.keymap.LibraryHelp())
	default:
		a.statusBar.SetHints(nil)
	}

	switch {
	case a.err != nil:
		a.statusBar.SetState(status.StateError)
		a.statusBar.SetMessage(domain.UserMessage(a.err))
	case a.chatView.Asking():
		a.statusBar.SetState(status.StateAsking)
	case a.uploadView.Uploading():
		a.statusBar.SetState(status.StateUploading)
		a.statusBar.SetMessage(fmt.Sprintf("%3.0f%%", a.ports.Upload.State().Progress))
	case a.currentView == messages.ViewHelp:
		a.statusBar.SetState(status.StateHelp)
	default:
		a.statusBar.SetState(status.StateReady)
	}
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewLibrary:
		body = a.libraryView.View()
	case messages.ViewUpload:
		body = a.uploadView.View()
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewSettings:
		body = a.settingsView.View()
	case messages.ViewHelp:
		body = a.viewHelp()
	default:
		body = a.menuView.View()
	}
	return body + "\n\n" + a.statusBar.View()
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back to Menu
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Upload:
  (type)      Path to a PDF annual report
  enter       Upload, then enter again to ask about it
  esc         Cancel upload / Back

Chat:
  enter       Send question
  tab         Fill in a suggested question
  ctrl+x      Cancel pending question
  pgup/pgdown Scroll conversation
  ctrl+l      Open library

Library:
  enter       Open document
  d           Delete document
  u           Upload a new report

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true

	viewHeight := height - 2
	a.menuView.SetDimensions(width, viewHeight)
	a.libraryView.SetDimensions(width, viewHeight)
	a.uploadView.SetDimensions(width, viewHeight)
	a.chatView.SetDimensions(width, viewHeight)
	a.settingsView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
