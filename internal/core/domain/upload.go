package domain

// UploadPhase is the position of an upload session in its state machine.
type UploadPhase string

// Upload phases. An upload moves idle -> file_selected -> uploading -> processed|failed.
const (
	UploadIdle         UploadPhase = "idle"
	UploadFileSelected UploadPhase = "file_selected"
	UploadUploading    UploadPhase = "uploading"
	UploadProcessed    UploadPhase = "processed"
	UploadFailed       UploadPhase = "failed"
)

// String returns the string representation.
func (p UploadPhase) String() string {
	return string(p)
}

// Terminal reports whether the phase ends an attempt.
func (p UploadPhase) Terminal() bool {
	return p == UploadProcessed || p == UploadFailed
}

// UploadState is the transient state owned by one upload session.
type UploadState struct {
	// File is the selected file, nil when idle.
	File *FileRef

	// Phase is the current state machine position.
	Phase UploadPhase

	// Progress is the transmitted percentage, 0..100.
	Progress float64

	// Error is the human-readable failure, empty when none.
	Error string
}

// IdleUploadState returns the state of a fresh session.
func IdleUploadState() UploadState {
	return UploadState{Phase: UploadIdle}
}

// IsUploading reports whether a request is in flight.
func (s UploadState) IsUploading() bool {
	return s.Phase == UploadUploading
}

// IsProcessed reports whether the upload completed and the document was stored.
func (s UploadState) IsProcessed() bool {
	return s.Phase == UploadProcessed
}
