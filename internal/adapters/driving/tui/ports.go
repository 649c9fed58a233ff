// Package tui provides an interactive terminal user interface for insightly.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents lists and reads stored documents.
	Documents driving.DocumentStore

	// Upload drives PDF uploads.
	Upload driving.UploadSession

	// Conversation holds the conversation about the active document.
	Conversation driving.ConversationSession

	// Settings manages application settings. Optional.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	documents driving.DocumentStore,
	upload driving.UploadSession,
	conversation driving.ConversationSession,
) *Ports {
	return &Ports{
		Documents:    documents,
		Upload:       upload,
		Conversation: conversation,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Documents == nil {
		return ErrMissingDocumentStore
	}
	if p.Upload == nil {
		return ErrMissingUploadSession
	}
	if p.Conversation == nil {
		return ErrMissingConversation
	}
	return nil
}
