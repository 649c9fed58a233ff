package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// DocumentStore persists uploaded documents and the current-document pointer.
//
// Write operations fail with domain.ErrStorageFault when persistence fails.
// Read operations never fail: corrupt or partial records read as absent.
type DocumentStore interface {
	// Current returns the current document, or nil if none is set or it lacks text.
	Current(ctx context.Context) *domain.Document

	// SetCurrent replaces the current pointer. A nil doc clears it.
	// A document without text fails with domain.ErrInvalidDocumentState.
	SetCurrent(ctx context.Context, doc *domain.Document) error

	// List returns every document with text, most recently saved first.
	List(ctx context.Context) []domain.Document

	// Get returns the usable document with the given id.
	// Returns domain.ErrNotFound if it does not exist or lacks text.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// Save upserts doc by id and makes it the current document.
	// A document without text fails with domain.ErrInvalidDocumentState.
	Save(ctx context.Context, doc domain.Document) error

	// UpdateMessages replaces a document's messages.
	// Unknown ids are ignored. The current copy is kept in sync.
	UpdateMessages(ctx context.Context, id string, messages []domain.Message) error

	// Delete removes a document, clearing the current pointer if it pointed at it.
	Delete(ctx context.Context, id string) error

	// PurgeExpired removes documents with ExpiresAt <= now and reports how many went.
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}
