package domain

import "time"

// DefaultRetention is how long an uploaded document is kept before it expires.
const DefaultRetention = 30 * 24 * time.Hour

// Document is an uploaded report with its extracted text and conversation.
// A document is only usable (selectable, askable) when Text is non-empty.
type Document struct {
	// ID is the unique opaque identifier.
	ID string `json:"id"`

	// Name is the original file name.
	Name string `json:"name"`

	// LastModified is the modification time of the uploaded file.
	LastModified time.Time `json:"lastModified"`

	// SizeBytes is the size of the uploaded file.
	SizeBytes int64 `json:"size"`

	// CreatedAt is when the upload completed.
	CreatedAt time.Time `json:"timestamp"`

	// ExpiresAt is when the document becomes eligible for purging.
	ExpiresAt time.Time `json:"expiresAt"`

	// Text is the content extracted by the analysis service.
	Text string `json:"text,omitempty"`

	// Messages is the conversation history in append order.
	Messages []Message `json:"messages"`
}

// HasText reports whether the document carries extracted text.
func (d *Document) HasText() bool {
	return d != nil && d.Text != ""
}

// Expired reports whether the document has expired at now.
func (d *Document) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// Clone returns a copy that shares no slices with d.
func (d Document) Clone() Document {
	d.Messages = CloneMessages(d.Messages)
	return d
}

// FileRef describes a local file chosen for upload.
type FileRef struct {
	// Path is the location on disk.
	Path string

	// Name is the base file name.
	Name string

	// MIMEType is the sniffed content type.
	MIMEType string

	// SizeBytes is the file size.
	SizeBytes int64

	// LastModified is the file modification time.
	LastModified time.Time
}

// PDFMIMEType is the only content type accepted for upload.
const PDFMIMEType = "application/pdf"

// IsPDF reports whether the file was sniffed as a PDF.
func (f FileRef) IsPDF() bool {
	return f.MIMEType == PDFMIMEType
}
