package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/insightly-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

type testPorts struct {
	*Ports
	documents    *MockDocumentStore
	upload       *MockUploadSession
	conversation *MockConversation
}

func newTestPorts() testPorts {
	docs := &MockDocumentStore{Documents: []domain.Document{
		testDocument("doc-1", "annual-2024.pdf"),
		testDocument("doc-2", "annual-2023.pdf"),
	}}
	up := &MockUploadSession{state: domain.IdleUploadState()}
	conv := newMockConversation()
	ports := NewPorts(docs, up, conv)
	ports.Settings = &MockSettingsService{}
	return testPorts{Ports: ports, documents: docs, upload: up, conversation: conv}
}

func newTestApp(t *testing.T) (*App, testPorts) {
	t.Helper()
	ports := newTestPorts()
	app, err := NewApp(ports.Ports)
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, ports
}

// run feeds msg to the app and then every message its commands produce.
// Commands that do not return promptly, such as timers and cursor blinks,
// are dropped.
func run(app *App, msg tea.Msg) {
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0 && steps < 50; steps++ {
		next := queue[0]
		queue = queue[1:]
		_, cmd := app.Update(next)
		queue = append(queue, resolve(cmd)...)
	}
}

func resolve(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(50 * time.Millisecond):
		return nil
	}

	switch m := msg.(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range m {
			msgs = append(msgs, resolve(c)...)
		}
		return msgs
	default:
		return []tea.Msg{m}
	}
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts().Ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Documents: &MockDocumentStore{}})

	assert.ErrorIs(t, err, ErrMissingUploadSession)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := newTestApp(t)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, ctx, app.ctx)
}

func TestApp_Init(t *testing.T) {
	app, _ := newTestApp(t)

	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.Equal(t, 120, app.width)
	assert.Equal(t, 50, app.height)
	assert.Equal(t, 120, app.statusBar.Width())
}

func TestApp_View_MenuWithStatusBar(t *testing.T) {
	app, _ := newTestApp(t)

	output := app.View()

	assert.Contains(t, output, "Insightly")
	assert.Contains(t, output, "Ready")
}

func TestApp_CtrlC_Quits(t *testing.T) {
	app, ports := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, 1, ports.conversation.cancelled)
	assert.Equal(t, 1, ports.upload.cancelled)
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestApp_ViewChanged(t *testing.T) {
	tests := []struct {
		view messages.ViewType
		want string
	}{
		{messages.ViewLibrary, "Library"},
		{messages.ViewUpload, "Upload Report"},
		{messages.ViewChat, "Chat"},
		{messages.ViewSettings, "Settings"},
		{messages.ViewHelp, "Help"},
	}

	for _, tt := range tests {
		t.Run(tt.view.String(), func(t *testing.T) {
			app, _ := newTestApp(t)

			run(app, messages.ViewChanged{View: tt.view})

			assert.Equal(t, tt.view, app.CurrentView())
			assert.Contains(t, app.View(), tt.want)
		})
	}
}

func TestApp_Library_LoadsDocuments(t *testing.T) {
	app, _ := newTestApp(t)

	run(app, messages.ViewChanged{View: messages.ViewLibrary})

	assert.Equal(t, 2, app.libraryView.Count())
	assert.Contains(t, app.View(), "annual-2023.pdf")
}

func TestApp_OpenDocument_SwitchesToChat(t *testing.T) {
	app, ports := newTestApp(t)
	run(app, messages.ViewChanged{View: messages.ViewLibrary})

	run(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	require.NotNil(t, ports.conversation.ActiveDocument())
	assert.Equal(t, "doc-1", ports.conversation.ActiveDocument().ID)
	assert.Contains(t, app.View(), "Chat - annual-2024.pdf")
	assert.Equal(t, "annual-2024.pdf", app.statusBar.Document())
}

func TestApp_OpenDocument_Error(t *testing.T) {
	app, ports := newTestApp(t)
	ports.conversation.selectErr = domain.ErrMissingDocumentText
	run(app, messages.ViewChanged{View: messages.ViewLibrary})

	run(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewLibrary, app.CurrentView())
	assert.ErrorIs(t, app.Err(), domain.ErrMissingDocumentText)
	assert.Equal(t, status.StateError, app.statusBar.State())
}

func TestApp_Chat_AskRoundTrip(t *testing.T) {
	app, ports := newTestApp(t)
	doc := testDocument("doc-1", "annual-2024.pdf")
	ports.conversation.active = &doc
	var asked string
	ports.conversation.askFunc = func(_ context.Context, content string) (*domain.Message, error) {
		asked = content
		return &domain.Message{Sender: domain.SenderAI, Content: "Revenue grew."}, nil
	}
	run(app, messages.ViewChanged{View: messages.ViewChat})

	app.chatView.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Revenue?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, status.StateAsking, app.statusBar.State())
	assert.Contains(t, app.View(), "Thinking...")

	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	app.Update(batch[0]())

	assert.Equal(t, "Revenue?", asked)
	assert.False(t, app.chatView.Asking())
	assert.Equal(t, status.StateReady, app.statusBar.State())
}

func TestApp_UploadMessages_ReachUploadViewFromOtherViews(t *testing.T) {
	app, _ := newTestApp(t)

	doc := testDocument("doc-3", "annual-2025.pdf")
	app.Update(messages.UploadCompleted{Document: &doc})

	require.NotNil(t, app.uploadView.Document())
	assert.Equal(t, "doc-3", app.uploadView.Document().ID)
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Upload_OpenStoredDocument(t *testing.T) {
	app, ports := newTestApp(t)
	run(app, messages.ViewChanged{View: messages.ViewUpload})
	doc := testDocument("doc-3", "annual-2025.pdf")
	app.Update(messages.UploadCompleted{Document: &doc})

	run(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, "doc-3", ports.conversation.ActiveDocument().ID)
}

func TestApp_Upload_StatusShowsProgress(t *testing.T) {
	app, ports := newTestApp(t)
	app = app.WithInspector(func(path string) (domain.FileRef, error) {
		return domain.FileRef{Path: path, Name: "annual-2025.pdf", MIMEType: domain.PDFMIMEType}, nil
	})
	app.SetDimensions(100, 40)
	run(app, messages.ViewChanged{View: messages.ViewUpload})

	app.uploadView.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/tmp/annual-2025.pdf")})
	app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ports.upload.state = domain.UploadState{Phase: domain.UploadUploading, Progress: 55}
	app.Update(messages.UploadTick{})

	assert.True(t, app.uploadView.Uploading())
	assert.Equal(t, status.StateUploading, app.statusBar.State())
	assert.Contains(t, app.statusBar.Message(), "55%")
}

func TestApp_Help_EscapeReturnsToMenu(t *testing.T) {
	app, _ := newTestApp(t)
	run(app, messages.ViewChanged{View: messages.ViewHelp})
	assert.Equal(t, status.StateHelp, app.statusBar.State())

	run(app, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_Menu_ShowsActiveDocument(t *testing.T) {
	app, ports := newTestApp(t)
	doc := testDocument("doc-1", "annual-2024.pdf")
	ports.conversation.active = &doc

	run(app, messages.ViewChanged{View: messages.ViewMenu})

	assert.Contains(t, app.View(), "Current document: annual-2024.pdf")
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)
	run(app, messages.ViewChanged{View: messages.ViewLibrary})

	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	assert.EqualError(t, app.Err(), "disk full")
	assert.Contains(t, app.View(), "Disk full")
}

func TestApp_KeyPress_ClearsError(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.ErrorOccurred{Err: errors.New("disk full")})

	app.Update(tea.KeyMsg{Type: tea.KeyDown})

	assert.NoError(t, app.Err())
}

func TestApp_Settings_Loads(t *testing.T) {
	app, _ := newTestApp(t)

	run(app, messages.ViewChanged{View: messages.ViewSettings})

	require.NotNil(t, app.settingsView.Settings())
	assert.Contains(t, app.View(), domain.DefaultServiceURL)
}
