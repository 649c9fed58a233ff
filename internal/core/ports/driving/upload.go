package driving

import (
	"context"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// UploadSession drives one upload attempt from file selection to a stored document.
type UploadSession interface {
	// Select picks a file and, if it is a PDF, immediately uploads it.
	// Blocks until the attempt reaches processed or failed.
	Select(ctx context.Context, file domain.FileRef) error

	// Cancel aborts an in-flight upload. Its result is discarded.
	Cancel()

	// Reset returns a processed or failed session to idle.
	Reset() error

	// State returns a snapshot of the upload state.
	State() domain.UploadState

	// Document returns the stored document once processed, nil otherwise.
	Document() *domain.Document
}
