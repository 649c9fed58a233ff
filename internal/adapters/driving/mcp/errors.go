// Package mcp provides an MCP (Model Context Protocol) server adapter for Insightly.
// It lets AI assistants list uploaded reports, read their text and ask questions about them.
package mcp

import "errors"

// ErrMissingDocumentStore is returned when the document store is not provided.
var ErrMissingDocumentStore = errors.New("mcp: document store is required")

// ErrMissingConversation is returned when the conversation session is not provided.
var ErrMissingConversation = errors.New("mcp: conversation session is required")
