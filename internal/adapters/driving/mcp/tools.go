package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/insightly-cli/internal/core/domain"
)

// toolNames lists the registered tools.
var toolNames = []string{"list_documents", "select_document", "list_suggestions", "ask"}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput summarises one stored document.
type DocumentOutput struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SizeBytes int64  `json:"size_bytes"`
	Uploaded  string `json:"uploaded"`
	Expires   string `json:"expires"`
	Messages  int    `json:"messages"`
	Current   bool   `json:"current"`
}

// SelectDocumentInput is the input schema for the select_document tool.
type SelectDocumentInput struct {
	DocumentID string `json:"document_id" jsonschema:"id of the document to make current"`
}

// ListSuggestionsInput is the input schema for the list_suggestions tool.
type ListSuggestionsInput struct{}

// ListSuggestionsOutput is the output schema for the list_suggestions tool.
type ListSuggestionsOutput struct {
	Suggestions []SuggestionOutput `json:"suggestions"`
}

// SuggestionOutput is one suggested question.
type SuggestionOutput struct {
	Number   int    `json:"number"`
	Question string `json:"question"`
	Category string `json:"category"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question   string `json:"question,omitempty" jsonschema:"the question to ask about the report"`
	Suggestion int    `json:"suggestion,omitempty" jsonschema:"number of a suggested question to ask instead of question"`
	DocumentID string `json:"document_id,omitempty" jsonschema:"document to ask about (default: current document)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	DocumentID string            `json:"document_id"`
	Answer     string            `json:"answer"`
	Metrics    []domain.Metric   `json:"metrics"`
	Citations  []domain.Citation `json:"citations"`
	Charts     []string          `json:"charts"`
	Context    string            `json:"context,omitempty"`
	Confidence *float64          `json:"confidence,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded annual reports",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "select_document",
		Description: "Make an uploaded report the current document",
	}, s.handleSelectDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_suggestions",
		Description: "List suggested questions to ask about a report",
	}, s.handleListSuggestions)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about an uploaded annual report",
	}, s.handleAsk)
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	docs := s.ports.Documents.List(ctx)

	currentID := ""
	if current := s.ports.Documents.Current(ctx); current != nil {
		currentID = current.ID
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = documentOutput(docs[i], docs[i].ID == currentID)
	}

	return nil, output, nil
}

// handleSelectDocument handles the select_document tool invocation.
func (s *Server) handleSelectDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SelectDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.selectDocument(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, documentOutput(*doc, true), nil
}

// handleListSuggestions handles the list_suggestions tool invocation.
func (s *Server) handleListSuggestions(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListSuggestionsInput,
) (*mcp.CallToolResult, ListSuggestionsOutput, error) {
	questions := domain.SuggestedQuestions()
	output := ListSuggestionsOutput{Suggestions: make([]SuggestionOutput, len(questions))}
	for i, q := range questions {
		output.Suggestions[i] = SuggestionOutput{Number: i + 1, Question: q.Text, Category: q.Category}
	}
	return nil, output, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	question := input.Question
	if input.Suggestion != 0 {
		q, ok := domain.Suggestion(input.Suggestion)
		if !ok {
			return nil, AskOutput{}, fmt.Errorf("%w: unknown suggestion %d", domain.ErrInvalidInput, input.Suggestion)
		}
		question = q.Text
	}

	if strings.TrimSpace(input.DocumentID) != "" {
		if _, err := s.selectDocument(ctx, input.DocumentID); err != nil {
			return nil, AskOutput{}, err
		}
	}

	doc := s.ports.Conversation.ActiveDocument()
	if doc == nil {
		return nil, AskOutput{}, domain.ErrNoDocumentSelected
	}

	reply, err := s.ports.Conversation.Ask(ctx, question)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("asking about %s: %w", doc.ID, err)
	}

	output := AskOutput{
		DocumentID: doc.ID,
		Answer:     reply.Content,
		Metrics:    reply.Metrics,
		Citations:  reply.Citations,
		Charts:     make([]string, len(reply.Charts)),
		Context:    reply.Context,
		Confidence: reply.Confidence,
	}
	if output.Metrics == nil {
		output.Metrics = []domain.Metric{}
	}
	if output.Citations == nil {
		output.Citations = []domain.Citation{}
	}
	for i, chart := range reply.Charts {
		output.Charts[i] = chart.Summary()
	}

	return nil, output, nil
}

func (s *Server) selectDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.ports.Documents.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	if err := s.ports.Conversation.SelectDocument(ctx, *doc); err != nil {
		return nil, fmt.Errorf("selecting document: %w", err)
	}
	return doc, nil
}

func documentOutput(doc domain.Document, current bool) DocumentOutput {
	return DocumentOutput{
		ID:        doc.ID,
		Name:      doc.Name,
		SizeBytes: doc.SizeBytes,
		Uploaded:  doc.CreatedAt.UTC().Format(time.RFC3339),
		Expires:   doc.ExpiresAt.UTC().Format(time.RFC3339),
		Messages:  len(doc.Messages),
		Current:   current,
	}
}
