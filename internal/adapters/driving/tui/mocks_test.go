package tui

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
	"github.com/custodia-labs/insightly-cli/internal/core/ports/driving"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testDocument(id, name string) domain.Document {
	return domain.Document{
		ID:        id,
		Name:      name,
		CreatedAt: testNow,
		ExpiresAt: testNow.Add(domain.DefaultRetention),
		Text:      "Revenue grew 12%.",
	}
}

// MockDocumentStore implements driving.DocumentStore for testing.
type MockDocumentStore struct {
	Documents []domain.Document
	CurrentID string
}

func (m *MockDocumentStore) Current(_ context.Context) *domain.Document {
	for i := range m.Documents {
		if m.Documents[i].ID == m.CurrentID {
			doc := m.Documents[i]
			return &doc
		}
	}
	return nil
}

func (m *MockDocumentStore) SetCurrent(_ context.Context, doc *domain.Document) error {
	m.CurrentID = ""
	if doc != nil {
		m.CurrentID = doc.ID
	}
	return nil
}

func (m *MockDocumentStore) List(_ context.Context) []domain.Document {
	return m.Documents
}

func (m *MockDocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.Documents {
		if m.Documents[i].ID == id {
			doc := m.Documents[i]
			return &doc, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockDocumentStore) Save(_ context.Context, doc domain.Document) error {
	m.Documents = append([]domain.Document{doc}, m.Documents...)
	m.CurrentID = doc.ID
	return nil
}

func (m *MockDocumentStore) UpdateMessages(_ context.Context, _ string, _ []domain.Message) error {
	return nil
}

func (m *MockDocumentStore) Delete(_ context.Context, id string) error {
	kept := m.Documents[:0]
	for _, doc := range m.Documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	m.Documents = kept
	if m.CurrentID == id {
		m.CurrentID = ""
	}
	return nil
}

func (m *MockDocumentStore) PurgeExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

// MockUploadSession implements driving.UploadSession for testing.
type MockUploadSession struct {
	SelectFunc func(ctx context.Context, file domain.FileRef) error
	state      domain.UploadState
	document   *domain.Document
	cancelled  int
}

func (m *MockUploadSession) Select(ctx context.Context, file domain.FileRef) error {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, file)
	}
	return nil
}

func (m *MockUploadSession) Cancel() { m.cancelled++ }

func (m *MockUploadSession) Reset() error {
	m.state = domain.IdleUploadState()
	m.document = nil
	return nil
}

func (m *MockUploadSession) State() domain.UploadState { return m.state }

func (m *MockUploadSession) Document() *domain.Document { return m.document }

// MockConversation implements driving.ConversationSession for testing.
type MockConversation struct {
	mu        sync.Mutex
	active    *domain.Document
	messages  []domain.Message
	selectErr error
	askFunc   func(ctx context.Context, content string) (*domain.Message, error)
	cancelled int
}

func newMockConversation() *MockConversation {
	return &MockConversation{messages: []domain.Message{domain.GreetingMessage(testNow)}}
}

func (m *MockConversation) Restore(_ context.Context) {}

func (m *MockConversation) SelectDocument(_ context.Context, doc domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selectErr != nil {
		return m.selectErr
	}
	m.active = &doc
	return nil
}

func (m *MockConversation) DeleteDocument(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active != nil && m.active.ID == id {
		m.active = nil
	}
	return nil
}

func (m *MockConversation) Ask(ctx context.Context, content string) (*domain.Message, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, content)
	}
	return &domain.Message{Sender: domain.SenderAI, Content: "answer"}, nil
}

func (m *MockConversation) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelled++
}

func (m *MockConversation) ActiveDocument() *domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return nil
	}
	doc := *m.active
	return &doc
}

func (m *MockConversation) Messages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.CloneMessages(m.messages)
}

func (m *MockConversation) IsAsking() bool { return false }

func (m *MockConversation) LastError() error { return nil }

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct{}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	s := domain.DefaultAppSettings()
	return &s, nil
}

func (m *MockSettingsService) Set(_, _ string) error { return nil }

func (m *MockSettingsService) Keys() []string { return []string{"service.base_url"} }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

var (
	_ driving.DocumentStore       = (*MockDocumentStore)(nil)
	_ driving.UploadSession       = (*MockUploadSession)(nil)
	_ driving.ConversationSession = (*MockConversation)(nil)
	_ driving.SettingsService     = (*MockSettingsService)(nil)
)
