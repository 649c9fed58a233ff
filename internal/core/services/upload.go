package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// Ensure UploadSession implements the interface.
var _ driving.UploadSession = (*UploadSession)(nil)

// Upload failure texts shown to the user.
const (
	msgNotPDF          = "Please upload a PDF file"
	msgUploadCancelled = "upload cancelled"
)

var uploadLog = logger.Named("upload")

// UploadSession drives one upload from file selection to a stored document.
// Selecting a PDF starts the upload immediately; Select blocks until the
// attempt reaches processed or failed.
type UploadSession struct {
	mu       sync.Mutex
	state    domain.UploadState
	document *domain.Document
	cancel   context.CancelFunc

	store    driving.DocumentStore
	analysis driven.AnalysisService

	now       func() time.Time
	newID     func() string
	open      func(path string) (io.ReadCloser, error)
	retention time.Duration
	onChange  func(domain.UploadState)
}

// UploadOption configures an UploadSession.
type UploadOption func(*UploadSession)

// WithUploadClock sets the clock used for createdAt and expiresAt.
func WithUploadClock(now func() time.Time) UploadOption {
	return func(s *UploadSession) {
		s.now = now
	}
}

// WithRetention sets how long new documents live. Non-positive keeps the default.
func WithRetention(d time.Duration) UploadOption {
	return func(s *UploadSession) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithFileOpener replaces os.Open for reading the selected file.
func WithFileOpener(open func(path string) (io.ReadCloser, error)) UploadOption {
	return func(s *UploadSession) {
		s.open = open
	}
}

// WithDocumentIDs sets the document id generator.
func WithDocumentIDs(newID func() string) UploadOption {
	return func(s *UploadSession) {
		s.newID = newID
	}
}

// WithUploadObserver registers a callback that receives every state change.
// It is called without the session lock held.
func WithUploadObserver(fn func(domain.UploadState)) UploadOption {
	return func(s *UploadSession) {
		s.onChange = fn
	}
}

// NewUploadSession creates an idle upload session.
func NewUploadSession(
	store driving.DocumentStore,
	analysis driven.AnalysisService,
	opts ...UploadOption,
) *UploadSession {
	s := &UploadSession{
		state:     domain.IdleUploadState(),
		store:     store,
		analysis:  analysis,
		now:       time.Now,
		newID:     uuid.NewString,
		open:      func(path string) (io.ReadCloser, error) { return os.Open(path) },
		retention: domain.DefaultRetention,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select chooses a file and, if it is a PDF, uploads it.
// Returns ErrValidation for non-PDF files and ErrInvalidInput unless idle.
func (s *UploadSession) Select(ctx context.Context, file domain.FileRef) error {
	s.mu.Lock()
	if s.state.Phase != domain.UploadIdle {
		phase := s.state.Phase
		s.mu.Unlock()
		return fmt.Errorf("%w: upload is %s, reset first", domain.ErrInvalidInput, phase)
	}

	if !file.IsPDF() {
		s.state = domain.UploadState{Phase: domain.UploadIdle, Error: msgNotPDF}
		snapshot := s.state
		s.mu.Unlock()
		s.notify(snapshot)
		return fmt.Errorf("%w: %s", domain.ErrValidation, msgNotPDF)
	}

	ref := file
	s.state = domain.UploadState{File: &ref, Phase: domain.UploadFileSelected}
	selected := s.snapshotLocked()

	uploadCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()
	s.notify(selected)

	defer cancel()
	return s.upload(uploadCtx, file)
}

// upload runs the attempt for an already selected file.
func (s *UploadSession) upload(ctx context.Context, file domain.FileRef) error {
	uploadLog.Debug("Uploading %s (%d bytes)", file.Name, file.SizeBytes)

	body, err := s.open(file.Path)
	if err != nil {
		return s.fail(ctx, fmt.Errorf("opening %s: %w", file.Name, err))
	}
	defer body.Close()

	s.update(func(st *domain.UploadState) {
		st.Phase = domain.UploadUploading
		st.Progress = 0
	})

	text, err := s.analysis.ExtractText(ctx, driven.UploadFile{
		Name: file.Name,
		Size: file.SizeBytes,
		Body: body,
	}, func(percent float64) {
		if ctx.Err() != nil {
			return
		}
		s.update(func(st *domain.UploadState) {
			if st.Phase == domain.UploadUploading {
				st.Progress = percent
			}
		})
	})
	if err != nil {
		return s.fail(ctx, err)
	}
	if ctx.Err() != nil {
		return s.fail(ctx, ctx.Err())
	}

	now := s.now()
	doc := domain.Document{
		ID:           s.newID(),
		Name:         file.Name,
		LastModified: file.LastModified,
		SizeBytes:    file.SizeBytes,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.retention),
		Text:         text,
		Messages:     []domain.Message{domain.GreetingMessage(now)},
	}
	if err := s.store.Save(ctx, doc); err != nil {
		return s.fail(ctx, fmt.Errorf("saving document: %w", err))
	}

	s.mu.Lock()
	s.document = &doc
	s.state.Phase = domain.UploadProcessed
	s.state.Progress = 100
	s.state.Error = ""
	s.cancel = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	uploadLog.Info("Stored document %s (%s)", doc.ID, doc.Name)
	return nil
}

// fail moves the session to failed and returns the error for the caller.
func (s *UploadSession) fail(ctx context.Context, err error) error {
	msg := domain.UserMessage(err)
	if ctx.Err() != nil || errors.Is(err, domain.ErrCanceled) {
		msg = msgUploadCancelled
		err = fmt.Errorf("%w: %s", domain.ErrCanceled, msgUploadCancelled)
	}
	uploadLog.Warn("Upload failed: %v", err)

	s.mu.Lock()
	s.state.Phase = domain.UploadFailed
	s.state.Error = msg
	s.cancel = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)

	return err
}

// Cancel aborts an in-flight upload. The session ends in failed.
func (s *UploadSession) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Reset returns a finished session to idle.
func (s *UploadSession) Reset() error {
	s.mu.Lock()
	if !s.state.Phase.Terminal() {
		phase := s.state.Phase
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot reset while %s", domain.ErrInvalidInput, phase)
	}
	s.state = domain.IdleUploadState()
	s.document = nil
	snapshot := s.state
	s.mu.Unlock()
	s.notify(snapshot)
	return nil
}

// State returns a snapshot of the session state.
func (s *UploadSession) State() domain.UploadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Document returns the stored document once processed, nil otherwise.
func (s *UploadSession) Document() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.document == nil {
		return nil
	}
	doc := s.document.Clone()
	return &doc
}

func (s *UploadSession) update(fn func(*domain.UploadState)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snapshot)
}

// snapshotLocked copies the state (caller must hold lock).
func (s *UploadSession) snapshotLocked() domain.UploadState {
	st := s.state
	if st.File != nil {
		file := *st.File
		st.File = &file
	}
	return st
}

func (s *UploadSession) notify(state domain.UploadState) {
	if s.onChange != nil {
		s.onChange(state)
	}
}
