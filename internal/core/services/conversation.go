package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// Ensure ConversationSession implements the interface.
var _ driving.ConversationSession = (*ConversationSession)(nil)

var askLog = logger.Named("ask")

// ConversationSession holds the conversation about the active document.
//
// At most one question is current. A new Ask, Cancel, SelectDocument or
// deletion of the active document bumps the generation; an answer whose
// generation is stale is dropped without touching the messages.
type ConversationSession struct {
	mu         sync.Mutex
	active     *domain.Document
	messages   []domain.Message
	asking     bool
	lastErr    error
	generation uint64
	cancel     context.CancelFunc
	snapshots  uint64

	// persistMu orders writes; persisted holds the newest snapshot written per document.
	persistMu sync.Mutex
	persisted map[string]uint64

	store    driving.DocumentStore
	analysis driven.AnalysisService
	now      func() time.Time
	newID    func() string
}

// ConversationOption configures a ConversationSession.
type ConversationOption func(*ConversationSession)

// WithConversationClock sets the clock used for message timestamps.
func WithConversationClock(now func() time.Time) ConversationOption {
	return func(s *ConversationSession) {
		s.now = now
	}
}

// WithMessageIDs sets the message id generator.
func WithMessageIDs(newID func() string) ConversationOption {
	return func(s *ConversationSession) {
		s.newID = newID
	}
}

// NewConversationSession creates a session with no active document.
func NewConversationSession(
	store driving.DocumentStore,
	analysis driven.AnalysisService,
	opts ...ConversationOption,
) *ConversationSession {
	s := &ConversationSession{
		store:     store,
		analysis:  analysis,
		now:       time.Now,
		newID:     uuid.NewString,
		persisted: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.messages = []domain.Message{domain.GreetingMessage(s.now())}
	return s
}

// Restore activates the store's current document, if any.
func (s *ConversationSession) Restore(ctx context.Context) {
	current := s.store.Current(ctx)
	if current == nil {
		askLog.Debug("No current document to restore")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activateLocked(*current)
	askLog.Debug("Restored document %s with %d messages", current.ID, len(s.messages))
}

// SelectDocument makes doc the active and current document.
func (s *ConversationSession) SelectDocument(ctx context.Context, doc domain.Document) error {
	if !doc.HasText() {
		return domain.ErrMissingDocumentText
	}

	s.mu.Lock()
	s.activateLocked(doc)
	s.mu.Unlock()

	if err := s.store.SetCurrent(ctx, &doc); err != nil {
		return fmt.Errorf("setting current document: %w", err)
	}
	return nil
}

// DeleteDocument removes a document; deleting the active one resets the session.
func (s *ConversationSession) DeleteDocument(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting document %s: %w", id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.ID == id {
		s.supersedeLocked()
		s.active = nil
		s.messages = []domain.Message{domain.GreetingMessage(s.now())}
		s.lastErr = nil
	}
	return nil
}

// Ask sends a question about the active document and appends the answer.
//
// The user message is appended before the request is made. On failure an
// apology message is appended and returned together with the error. A call
// that is cancelled or superseded appends nothing and returns ErrCanceled.
func (s *ConversationSession) Ask(ctx context.Context, content string) (*domain.Message, error) {
	s.mu.Lock()
	if !s.active.HasText() {
		s.lastErr = domain.ErrNoDocumentSelected
		s.mu.Unlock()
		return nil, domain.ErrNoDocumentSelected
	}
	if strings.TrimSpace(content) == "" {
		err := fmt.Errorf("%w: question cannot be empty", domain.ErrValidation)
		s.lastErr = err
		s.mu.Unlock()
		return nil, err
	}

	s.supersedeLocked()
	askCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	gen := s.generation
	s.asking = true
	s.lastErr = nil

	docID, docText := s.active.ID, s.active.Text
	s.appendLocked(domain.Message{
		ID:        s.newID(),
		Content:   content,
		Sender:    domain.SenderUser,
		Timestamp: s.now(),
	})
	pending, pendingSeq := s.snapshotLocked()
	s.mu.Unlock()
	defer cancel()

	s.persist(ctx, docID, pending, pendingSeq)

	askLog.Debug("Asking about %s (generation %d)", docID, gen)
	insight, err := s.analysis.Answer(askCtx, content, docText)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		askLog.Debug("Dropping result of superseded generation %d", gen)
		return nil, fmt.Errorf("%w: question superseded", domain.ErrCanceled)
	}
	s.asking = false
	s.cancel = nil
	if errors.Is(err, domain.ErrCanceled) {
		s.mu.Unlock()
		return nil, err
	}
	if err != nil && ctx.Err() != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", domain.ErrCanceled, ctx.Err())
	}

	var reply domain.Message
	if err != nil {
		askLog.Warn("Answer failed: %v", err)
		s.lastErr = err
		reply = domain.Message{
			ID:        s.newID(),
			Content:   apology(err),
			Sender:    domain.SenderAI,
			Timestamp: s.now(),
		}
	} else {
		reply = insightMessage(s.newID(), s.now(), insight)
	}
	s.appendLocked(reply)
	final, finalSeq := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(ctx, docID, final, finalSeq)
	return &reply, err
}

// Cancel aborts the in-flight question without appending anything.
func (s *ConversationSession) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.asking {
		s.supersedeLocked()
	}
}

// ActiveDocument returns a copy of the active document, nil if none.
func (s *ConversationSession) ActiveDocument() *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil
	}
	doc := s.active.Clone()
	return &doc
}

// Messages returns a copy of the conversation.
func (s *ConversationSession) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.CloneMessages(s.messages)
}

// IsAsking reports whether a question is in flight.
func (s *ConversationSession) IsAsking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.asking
}

// LastError returns the most recent failure, nil if the last action succeeded.
func (s *ConversationSession) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// activateLocked replaces the active document (caller must hold lock).
func (s *ConversationSession) activateLocked(doc domain.Document) {
	s.supersedeLocked()
	doc = doc.Clone()
	s.active = &doc
	if len(doc.Messages) > 0 {
		s.messages = domain.CloneMessages(doc.Messages)
	} else {
		s.messages = []domain.Message{domain.GreetingMessage(s.now())}
		s.active.Messages = domain.CloneMessages(s.messages)
	}
	s.lastErr = nil
}

// supersedeLocked invalidates any in-flight question (caller must hold lock).
func (s *ConversationSession) supersedeLocked() {
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.asking = false
}

// appendLocked adds one message (caller must hold lock).
func (s *ConversationSession) appendLocked(msg domain.Message) {
	s.messages = append(s.messages, msg)
	if s.active != nil {
		s.active.Messages = domain.CloneMessages(s.messages)
	}
}

// snapshotLocked copies the conversation and numbers the copy (caller must hold lock).
func (s *ConversationSession) snapshotLocked() ([]domain.Message, uint64) {
	s.snapshots++
	return domain.CloneMessages(s.messages), s.snapshots
}

// persist writes a numbered snapshot of the conversation. A snapshot older
// than one already written for the same document is dropped, so a slow
// write never overwrites a newer conversation. Failures are logged, the
// in-memory conversation stays authoritative for the session.
func (s *ConversationSession) persist(ctx context.Context, docID string, msgs []domain.Message, seq uint64) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if seq <= s.persisted[docID] {
		askLog.Debug("Skipping stale snapshot %d for %s", seq, docID)
		return
	}
	s.persisted[docID] = seq
	if err := s.store.UpdateMessages(context.WithoutCancel(ctx), docID, msgs); err != nil {
		askLog.Warn("Persisting messages for %s: %v", docID, err)
	}
}

func apology(err error) string {
	return "I apologize, but I'm having trouble processing your question. " +
		domain.UserMessage(err) + ". Please try again in a moment."
}

func insightMessage(id string, now time.Time, insight *domain.Insight) domain.Message {
	msg := domain.Message{
		ID:        id,
		Sender:    domain.SenderAI,
		Timestamp: now,
	}
	if insight == nil {
		return msg
	}
	msg.Content = insight.Answer
	msg.Metrics = insight.Metrics
	msg.Citations = insight.Citations
	msg.Charts = insight.Charts
	msg.Context = insight.Context
	msg.Confidence = insight.Confidence
	return msg
}
