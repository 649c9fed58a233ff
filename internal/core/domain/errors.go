package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Domain errors represent business logic failures.
// Adapters wrap them with context; callers match with errors.Is.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Request errors.

	// ErrValidation indicates a request was rejected before any network activity.
	// It is never retried and is always shown to the user.
	ErrValidation = errors.New("validation failed")

	// ErrNetwork indicates the analysis service could not be reached.
	ErrNetwork = errors.New("network error occurred, please check your internet connection and try again")

	// ErrTimeout indicates a single request attempt exceeded its deadline.
	ErrTimeout = errors.New("the request took too long to complete")

	// ErrServer indicates the analysis service answered with a non-2xx status.
	// Use ServerError for the status code and body.
	ErrServer = errors.New("server error")

	// ErrInvalidResponse indicates a successful status with a malformed body.
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrRetriesExhausted indicates every attempt allowed by the retry policy failed.
	// Use RetriesExhaustedError for the attempt count and last error.
	ErrRetriesExhausted = errors.New("retries exhausted")

	// ErrCanceled indicates the caller cancelled or superseded the request.
	ErrCanceled = errors.New("request cancelled")

	// Data model errors.

	// ErrInvalidDocumentState indicates a write of a document without extracted text.
	ErrInvalidDocumentState = errors.New("document has no text content")

	// ErrMissingDocumentText indicates a document without text was selected.
	ErrMissingDocumentText = errors.New("document text is missing, please try uploading the file again")

	// ErrNoDocumentSelected indicates a question was asked with no usable document open.
	ErrNoDocumentSelected = errors.New("no document selected or document text is missing, please upload or select a valid PDF")

	// ErrStorageFault indicates a local persistence write failed.
	ErrStorageFault = errors.New("storage fault")
)

// ServerError carries the status and body of a non-2xx response.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("server error: %d", e.StatusCode)
	}
	return body
}

// Is reports whether target is ErrServer.
func (e *ServerError) Is(target error) bool {
	return target == ErrServer
}

// RetriesExhaustedError wraps the last failure after the retry budget ran out.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("failed to get answer after %d attempts", e.Attempts)
	}
	return fmt.Sprintf("failed to get answer after %d attempts: %s", e.Attempts, e.Last.Error())
}

// Is reports whether target is ErrRetriesExhausted.
func (e *RetriesExhaustedError) Is(target error) bool {
	return target == ErrRetriesExhausted
}

// Unwrap returns the last underlying error.
func (e *RetriesExhaustedError) Unwrap() error {
	return e.Last
}

// UserMessage renders err as the sentence shown to the user.
// Sentinel prefixes added by wrapping are kept, trailing punctuation is dropped.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimRight(msg, ".")
	if msg == "" {
		return "An unexpected error occurred"
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
