package services

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driven"
)

var errDiskFull = errors.New("disk full")

// faultyRecordStore wraps a memory store and fails selected operations.
type faultyRecordStore struct {
	*memory.RecordStore
	mu       sync.Mutex
	failGet  bool
	failPut  bool
	failDel  bool
	putCalls int
	commits  int
}

func newFaultyRecordStore() *faultyRecordStore {
	return &faultyRecordStore{RecordStore: memory.NewRecordStore()}
}

func (s *faultyRecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	fail := s.failGet
	s.mu.Unlock()
	if fail {
		return nil, errDiskFull
	}
	return s.RecordStore.Get(ctx, key)
}

func (s *faultyRecordStore) Put(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	s.putCalls++
	fail := s.failPut
	s.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return s.RecordStore.Put(ctx, key, value)
}

func (s *faultyRecordStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	fail := s.failDel
	s.mu.Unlock()
	if fail {
		return errDiskFull
	}
	return s.RecordStore.Delete(ctx, key)
}

// Commit fails the whole batch if any write would fail on its own.
func (s *faultyRecordStore) Commit(ctx context.Context, writes ...driven.RecordWrite) error {
	s.mu.Lock()
	s.commits++
	failPut, failDel := s.failPut, s.failDel
	s.mu.Unlock()
	for _, w := range writes {
		if (w.Delete && failDel) || (!w.Delete && failPut) {
			return errDiskFull
		}
	}
	return s.RecordStore.Commit(ctx, writes...)
}

func (s *faultyRecordStore) setFailPut(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failPut = v
}

// mockAnalysis is a scriptable driven.AnalysisService.
type mockAnalysis struct {
	mu sync.Mutex

	extractFn func(ctx context.Context, file driven.UploadFile, onProgress driven.ProgressFunc) (string, error)
	answerFn  func(ctx context.Context, question, context string) (*domain.Insight, error)

	extractCalls int
	questions    []string
	contexts     []string
	uploaded     []string
}

var _ driven.AnalysisService = (*mockAnalysis)(nil)

func (m *mockAnalysis) ExtractText(
	ctx context.Context, file driven.UploadFile, onProgress driven.ProgressFunc,
) (string, error) {
	body, _ := io.ReadAll(file.Body)
	m.mu.Lock()
	m.extractCalls++
	m.uploaded = append(m.uploaded, string(body))
	fn := m.extractFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, file, onProgress)
	}
	if onProgress != nil {
		onProgress(50)
		onProgress(100)
	}
	return "Revenue grew 12% year over year.", nil
}

func (m *mockAnalysis) Answer(ctx context.Context, question, docContext string) (*domain.Insight, error) {
	m.mu.Lock()
	m.questions = append(m.questions, question)
	m.contexts = append(m.contexts, docContext)
	fn := m.answerFn
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, question, docContext)
	}
	return &domain.Insight{Answer: "Revenue grew 12%."}, nil
}

func (m *mockAnalysis) askedQuestions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.questions...)
}

// fixedClock returns a clock frozen at t that can be advanced.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFixedClock(t time.Time) *fixedClock {
	return &fixedClock{now: t}
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// testDocument builds a stored document with text and the greeting.
func testDocument(id string, created time.Time) domain.Document {
	return domain.Document{
		ID:           id,
		Name:         id + ".pdf",
		LastModified: created,
		SizeBytes:    1024,
		CreatedAt:    created,
		ExpiresAt:    created.Add(domain.DefaultRetention),
		Text:         "Text of " + id,
		Messages:     []domain.Message{domain.GreetingMessage(created)},
	}
}
