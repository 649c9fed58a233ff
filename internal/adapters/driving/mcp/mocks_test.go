package mcp

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

var testTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testDocument(id string) domain.Document {
	return domain.Document{
		ID:        id,
		Name:      id + ".pdf",
		SizeBytes: 2048,
		CreatedAt: testTime,
		ExpiresAt: testTime.Add(domain.DefaultRetention),
		Text:      "Text of " + id,
		Messages:  []domain.Message{domain.GreetingMessage(testTime)},
	}
}

// mockDocumentStore is a mock implementation of driving.DocumentStore.
type mockDocumentStore struct {
	documents []domain.Document
	current   *domain.Document
	err       error
}

func (m *mockDocumentStore) Current(_ context.Context) *domain.Document {
	return m.current
}

func (m *mockDocumentStore) SetCurrent(_ context.Context, doc *domain.Document) error {
	m.current = doc
	return m.err
}

func (m *mockDocumentStore) List(_ context.Context) []domain.Document {
	return m.documents
}

func (m *mockDocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].ID == id {
			doc := m.documents[i]
			return &doc, nil
		}
	}
	return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
}

func (m *mockDocumentStore) Save(_ context.Context, _ domain.Document) error {
	return m.err
}

func (m *mockDocumentStore) UpdateMessages(_ context.Context, _ string, _ []domain.Message) error {
	return m.err
}

func (m *mockDocumentStore) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockDocumentStore) PurgeExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, m.err
}

// mockConversation is a mock implementation of driving.ConversationSession.
type mockConversation struct {
	active    *domain.Document
	reply     *domain.Message
	askErr    error
	selectErr error
	questions []string
}

func (m *mockConversation) Restore(_ context.Context) {}

func (m *mockConversation) SelectDocument(_ context.Context, doc domain.Document) error {
	if m.selectErr != nil {
		return m.selectErr
	}
	m.active = &doc
	return nil
}

func (m *mockConversation) DeleteDocument(_ context.Context, _ string) error {
	return nil
}

func (m *mockConversation) Ask(_ context.Context, content string) (*domain.Message, error) {
	m.questions = append(m.questions, content)
	return m.reply, m.askErr
}

func (m *mockConversation) Cancel() {}

func (m *mockConversation) ActiveDocument() *domain.Document {
	return m.active
}

func (m *mockConversation) Messages() []domain.Message {
	return nil
}

func (m *mockConversation) IsAsking() bool {
	return false
}

func (m *mockConversation) LastError() error {
	return nil
}

func newTestServer(t *testing.T, docs *mockDocumentStore, conv *mockConversation) *Server {
	t.Helper()
	server, err := NewServer(&Ports{Documents: docs, Conversation: conv})
	require.NoError(t, err)
	return server
}
