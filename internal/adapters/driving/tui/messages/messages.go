// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewLibrary lists uploaded documents.
	ViewLibrary
	// ViewUpload selects and uploads a PDF.
	ViewUpload
	// ViewChat is the conversation about the active document.
	ViewChat
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewLibrary:
		return "library"
	case ViewUpload:
		return "upload"
	case ViewChat:
		return "chat"
	case ViewSettings:
		return "settings"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the stored documents.
type DocumentsLoaded struct {
	Documents []domain.Document
	CurrentID string
}

// DocumentSelected signals a document was picked in the library.
type DocumentSelected struct {
	Document domain.Document
}

// DocumentOpened signals the conversation switched to a document.
type DocumentOpened struct {
	Document domain.Document
	Err      error
}

// DocumentDeleted signals a document was deleted.
type DocumentDeleted struct {
	ID  string
	Err error
}

// UploadTick asks the upload view to refresh its progress.
type UploadTick struct{}

// UploadCompleted signals an upload attempt finished.
type UploadCompleted struct {
	Document *domain.Document
	Err      error
}

// AnswerReceived carries the outcome of one question.
// Seq identifies the question so stale answers can be ignored.
type AnswerReceived struct {
	Seq   int
	Reply *domain.Message
	Err   error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals a setting was saved.
type SettingsSaved struct {
	Key string
	Err error
}
