package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPorts(t *testing.T) {
	docs := &MockDocumentStore{}
	up := &MockUploadSession{}
	conv := newMockConversation()

	ports := NewPorts(docs, up, conv)

	require.NotNil(t, ports)
	assert.Equal(t, docs, ports.Documents)
	assert.Equal(t, up, ports.Upload)
	assert.Equal(t, conv, ports.Conversation)
	assert.Nil(t, ports.Settings)
	assert.NoError(t, ports.Validate())
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"nil", nil, ErrInvalidPorts},
		{"missing documents", &Ports{Upload: &MockUploadSession{}, Conversation: newMockConversation()}, ErrMissingDocumentStore},
		{"missing upload", &Ports{Documents: &MockDocumentStore{}, Conversation: newMockConversation()}, ErrMissingUploadSession},
		{"missing conversation", &Ports{Documents: &MockDocumentStore{}, Upload: &MockUploadSession{}}, ErrMissingConversation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.ports.Validate(), tt.want)
		})
	}
}
