package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
	"github.com/custodia-labs/insightly-cli/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driving.DocumentStore = (*DocumentStore)(nil)

// Record keys in the durable key space.
const (
	KeyCurrentDocument = "insightly_current_pdf"
	KeyDocuments       = "insightly_pdf_documents"
)

// DocumentStore keeps the document list and a denormalised copy of the
// current document in two records. Every mutation updates both copies
// under one lock and in one record store commit so they never drift.
type DocumentStore struct {
	mu           sync.Mutex
	records      driven.RecordStore
	maxDocuments int
}

// DocumentStoreOption configures a DocumentStore.
type DocumentStoreOption func(*DocumentStore)

// WithMaxDocuments bounds the stored list, dropping the oldest entries on Save.
// Zero or negative keeps every document.
func WithMaxDocuments(n int) DocumentStoreOption {
	return func(s *DocumentStore) {
		s.maxDocuments = n
	}
}

// NewDocumentStore creates a document store over the given record store.
func NewDocumentStore(records driven.RecordStore, opts ...DocumentStoreOption) *DocumentStore {
	s := &DocumentStore{records: records}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the current document, or nil if none is usable.
func (s *DocumentStore) Current(ctx context.Context) *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCurrent(ctx)
}

// SetCurrent replaces the current pointer. A nil doc clears it.
func (s *DocumentStore) SetCurrent(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	write, err := encodeCurrent(doc)
	if err != nil {
		return err
	}
	return s.commit(ctx, write)
}

// List returns every document with text, most recently saved first.
func (s *DocumentStore) List(ctx context.Context) []domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readList(ctx)
}

// Get returns the usable document with the given id.
func (s *DocumentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.readList(ctx) {
		if doc.ID == id {
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

// Save upserts doc by id and makes it the current document.
// An existing entry is replaced in place; a new one is prepended.
func (s *DocumentStore) Save(ctx context.Context, doc domain.Document) error {
	if !doc.HasText() {
		return domain.ErrInvalidDocumentState
	}
	doc = doc.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.readList(ctx)
	if i := indexOf(docs, doc.ID); i >= 0 {
		docs[i] = doc
	} else {
		docs = append([]domain.Document{doc}, docs...)
	}
	if s.maxDocuments > 0 && len(docs) > s.maxDocuments {
		logger.Debug("Dropping %d oldest documents", len(docs)-s.maxDocuments)
		docs = docs[:s.maxDocuments]
	}

	list, err := encodeList(docs)
	if err != nil {
		return err
	}
	current, err := encodeCurrent(&doc)
	if err != nil {
		return err
	}
	return s.commit(ctx, list, current)
}

// UpdateMessages replaces a document's messages, keeping the current copy in sync.
func (s *DocumentStore) UpdateMessages(ctx context.Context, id string, messages []domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.readList(ctx)
	i := indexOf(docs, id)
	if i < 0 {
		return nil
	}
	docs[i].Messages = domain.CloneMessages(messages)
	list, err := encodeList(docs)
	if err != nil {
		return err
	}
	writes := []driven.RecordWrite{list}

	if current := s.readCurrent(ctx); current != nil && current.ID == id {
		current.Messages = domain.CloneMessages(messages)
		write, err := encodeCurrent(current)
		if err != nil {
			return err
		}
		writes = append(writes, write)
	}
	return s.commit(ctx, writes...)
}

// Delete removes a document, clearing the current pointer if it pointed at it.
func (s *DocumentStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.readList(ctx)
	kept := docs[:0]
	for _, doc := range docs {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	list, err := encodeList(kept)
	if err != nil {
		return err
	}
	writes := []driven.RecordWrite{list}

	if current := s.readCurrent(ctx); current != nil && current.ID == id {
		writes = append(writes, clearCurrent())
	}
	return s.commit(ctx, writes...)
}

// PurgeExpired removes every document with ExpiresAt <= now.
func (s *DocumentStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.readList(ctx)
	kept := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if !doc.Expired(now) {
			kept = append(kept, doc)
		}
	}
	removed := len(docs) - len(kept)
	list, err := encodeList(kept)
	if err != nil {
		return 0, err
	}
	writes := []driven.RecordWrite{list}

	if current := s.readCurrent(ctx); current != nil && current.Expired(now) {
		writes = append(writes, clearCurrent())
	}
	if err := s.commit(ctx, writes...); err != nil {
		return 0, err
	}

	if removed > 0 {
		logger.Info("Purged %d expired documents", removed)
	}
	return removed, nil
}

// readCurrent loads the current record (caller must hold lock).
// Missing, undecodable or text-less records read as nil.
func (s *DocumentStore) readCurrent(ctx context.Context) *domain.Document {
	data, err := s.records.Get(ctx, KeyCurrentDocument)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading current document: %v", err)
		}
		return nil
	}

	var doc domain.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("Decoding current document: %v", err)
		return nil
	}
	if !doc.HasText() {
		logger.Warn("Current document %s found but missing text content", doc.ID)
		return nil
	}
	return &doc
}

// encodeCurrent builds the write that stores doc as the current record.
// A nil doc clears it.
func encodeCurrent(doc *domain.Document) (driven.RecordWrite, error) {
	if doc == nil {
		return clearCurrent(), nil
	}
	if !doc.HasText() {
		return driven.RecordWrite{}, domain.ErrInvalidDocumentState
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return driven.RecordWrite{}, fmt.Errorf("%w: encoding current document: %w", domain.ErrStorageFault, err)
	}
	return driven.RecordWrite{Key: KeyCurrentDocument, Value: data}, nil
}

func clearCurrent() driven.RecordWrite {
	return driven.RecordWrite{Key: KeyCurrentDocument, Delete: true}
}

// readList loads the document list (caller must hold lock).
// Entries without text are skipped; an undecodable list reads as empty.
func (s *DocumentStore) readList(ctx context.Context) []domain.Document {
	data, err := s.records.Get(ctx, KeyDocuments)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Reading documents: %v", err)
		}
		return []domain.Document{}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		logger.Warn("Decoding documents: %v", err)
		return []domain.Document{}
	}

	docs := make([]domain.Document, 0, len(raw))
	for _, entry := range raw {
		var doc domain.Document
		if err := json.Unmarshal(entry, &doc); err != nil {
			logger.Debug("Skipping corrupt document record: %v", err)
			continue
		}
		if !doc.HasText() || indexOf(docs, doc.ID) >= 0 {
			continue
		}
		docs = append(docs, doc)
	}
	return docs
}

// encodeList builds the write that stores the document list.
func encodeList(docs []domain.Document) (driven.RecordWrite, error) {
	data, err := json.Marshal(docs)
	if err != nil {
		return driven.RecordWrite{}, fmt.Errorf("%w: encoding documents: %w", domain.ErrStorageFault, err)
	}
	return driven.RecordWrite{Key: KeyDocuments, Value: data}, nil
}

// commit applies writes as one unit (caller must hold lock).
func (s *DocumentStore) commit(ctx context.Context, writes ...driven.RecordWrite) error {
	if err := s.records.Commit(ctx, writes...); err != nil {
		return fmt.Errorf("%w: writing documents: %w", domain.ErrStorageFault, err)
	}
	return nil
}

func indexOf(docs []domain.Document, id string) int {
	for i := range docs {
		if docs[i].ID == id {
			return i
		}
	}
	return -1
}
