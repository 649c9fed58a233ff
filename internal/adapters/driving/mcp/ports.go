package mcp

import (
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Documents lists and reads stored documents.
	Documents driving.DocumentStore

	// Conversation answers questions about the active document.
	Conversation driving.ConversationSession
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentStore
	}
	if p.Conversation == nil {
		return ErrMissingConversation
	}
	return nil
}
