package cli

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
		ID:           id,
		Name:         name,
		SizeBytes:    2048,
		LastModified: testNow.Add(-time.Hour),
		CreatedAt:    testNow,
		ExpiresAt:    testNow.Add(domain.DefaultRetention),
		Text:         "Revenue grew 12% to 4.2bn.",
		Messages:     []domain.Message{domain.GreetingMessage(testNow)},
	}
}

// MockDocumentStore implements driving.DocumentStore for CLI tests.
type MockDocumentStore struct {
	Documents []domain.Document
	CurrentID string
	PurgeFunc func(ctx context.Context, now time.Time) (int, error)
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
	kept := make([]domain.Document, 0, len(m.Documents))
	for _, doc := range m.Documents {
		if doc.ID != id {
			kept = append(kept, doc)
		}
	}
	m.Documents = kept
	return nil
}

func (m *MockDocumentStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	if m.PurgeFunc != nil {
		return m.PurgeFunc(ctx, now)
	}
	return 0, nil
}

// MockUploadSession implements driving.UploadSession for CLI tests.
type MockUploadSession struct {
	SelectFunc func(ctx context.Context, file domain.FileRef) error

	mu       sync.Mutex
	state    domain.UploadState
	document *domain.Document
	resets   int
	cancels  int
}

func (m *MockUploadSession) Select(ctx context.Context, file domain.FileRef) error {
	if m.SelectFunc != nil {
		return m.SelectFunc(ctx, file)
	}
	return nil
}

func (m *MockUploadSession) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancels++
}

func (m *MockUploadSession) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets++
	m.state = domain.IdleUploadState()
	m.document = nil
	return nil
}

func (m *MockUploadSession) State() domain.UploadState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *MockUploadSession) Document() *domain.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.document
}

// finish records the outcome the real session would reach.
func (m *MockUploadSession) finish(state domain.UploadState, doc *domain.Document) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.document = doc
}

// MockConversation implements driving.ConversationSession for CLI tests.
type MockConversation struct {
	AskFunc   func(ctx context.Context, content string) (*domain.Message, error)
	SelectErr error
	DeleteErr error
	active    *domain.Document
	selected  []string
	deleted   []string
	questions []string
}

func (m *MockConversation) Restore(_ context.Context) {}

func (m *MockConversation) SelectDocument(_ context.Context, doc domain.Document) error {
	if m.SelectErr != nil {
		return m.SelectErr
	}
	m.selected = append(m.selected, doc.ID)
	m.active = &doc
	return nil
}

func (m *MockConversation) DeleteDocument(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.deleted = append(m.deleted, id)
	if m.active != nil && m.active.ID == id {
		m.active = nil
	}
	return nil
}

func (m *MockConversation) Ask(ctx context.Context, content string) (*domain.Message, error) {
	m.questions = append(m.questions, content)
	if m.AskFunc != nil {
		return m.AskFunc(ctx, content)
	}
	return &domain.Message{Sender: domain.SenderAI, Content: "An answer.", Timestamp: testNow}, nil
}

func (m *MockConversation) Cancel() {}

func (m *MockConversation) ActiveDocument() *domain.Document {
	if m.active == nil {
		return nil
	}
	doc := *m.active
	return &doc
}

func (m *MockConversation) Messages() []domain.Message {
	if m.active == nil {
		return []domain.Message{domain.GreetingMessage(testNow)}
	}
	return m.active.Messages
}

func (m *MockConversation) IsAsking() bool { return false }

func (m *MockConversation) LastError() error { return nil }

// MockSettingsService implements driving.SettingsService for CLI tests.
type MockSettingsService struct {
	Settings domain.AppSettings
	GetErr   error
	SetErr   error
	set      map[string]string
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	s := m.Settings
	return &s, nil
}

func (m *MockSettingsService) Set(key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *MockSettingsService) Keys() []string {
	return []string{"documents.max", "service.base_url"}
}

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

var (
	_ driving.DocumentStore       = (*MockDocumentStore)(nil)
	_ driving.UploadSession       = (*MockUploadSession)(nil)
	_ driving.ConversationSession = (*MockConversation)(nil)
	_ driving.SettingsService     = (*MockSettingsService)(nil)
)

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	documents    *MockDocumentStore
	upload       *MockUploadSession
	conversation *MockConversation
	settings     *MockSettingsService
}

// setupTestServices installs mock services with two documents, doc-1 current.
func setupTestServices() (*testServices, func()) {
	docs := &MockDocumentStore{
		Documents: []domain.Document{
			testDocument("doc-1", "annual-2024.pdf"),
			testDocument("doc-2", "annual-2023.pdf"),
		},
		CurrentID: "doc-1",
	}
	current := docs.Documents[0]
	ts := &testServices{
		documents:    docs,
		upload:       &MockUploadSession{state: domain.IdleUploadState()},
		conversation: &MockConversation{active: &current},
		settings:     &MockSettingsService{Settings: domain.DefaultAppSettings()},
	}

	originalNow := now
	now = func() time.Time { return testNow }

	SetServices(&Services{
		Documents:    ts.documents,
		Upload:       ts.upload,
		Conversation: ts.conversation,
		Settings:     ts.settings,
	})

	return ts, func() {
		now = originalNow
		SetServices(nil)
	}
}
