package driving

import (
	"context"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// ConversationSession holds the question/answer conversation about one document.
type ConversationSession interface {
	// Restore activates the store's current document, if any.
	Restore(ctx context.Context)

	// SelectDocument activates doc, superseding any pending question.
	// A document without text fails with domain.ErrMissingDocumentText.
	SelectDocument(ctx context.Context, doc domain.Document) error

	// DeleteDocument removes a document and resets the session if it was active.
	DeleteDocument(ctx context.Context, id string) error

	// Ask sends a question and blocks until it is answered, fails or is superseded.
	// It returns the AI message appended for this question.
	Ask(ctx context.Context, content string) (*domain.Message, error)

	// Cancel abandons the pending question without appending anything.
	Cancel()

	// ActiveDocument returns the active document, nil if none.
	ActiveDocument() *domain.Document

	// Messages returns a copy of the conversation.
	Messages() []domain.Message

	// IsAsking reports whether a question is pending.
	IsAsking() bool

	// LastError returns the error of the latest failed operation, nil if none.
	LastError() error
}
