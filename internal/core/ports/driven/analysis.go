package driven

import (
	"context"
	"io"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// ProgressFunc receives the transmitted percentage of an upload, 0..100.
type ProgressFunc func(percent float64)

// UploadFile is the payload of a text extraction request.
type UploadFile struct {
	// Name is the file name sent in the multipart header.
	Name string

	// Size is the number of bytes Body yields.
	Size int64

	// Body is the raw file content.
	Body io.Reader
}

// AnalysisService is the remote PDF extraction and question answering capability.
//
// Both calls honour ctx cancellation: a cancelled call returns domain.ErrCanceled
// and its result must not be applied.
type AnalysisService interface {
	// ExtractText uploads a PDF and returns its extracted text.
	// onProgress may be nil. A successful call always reports 100 last.
	ExtractText(ctx context.Context, file UploadFile, onProgress ProgressFunc) (string, error)

	// Answer asks a question about the given document text.
	Answer(ctx context.Context, question, context string) (*domain.Insight, error)
}
