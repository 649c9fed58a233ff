package tui

import "errors"

// ErrMissingDocumentStore is returned when the document store is not provided.
var ErrMissingDocumentStore = errors.New("tui: document store is required")

// ErrMissingUploadSession is returned when the upload session is not provided.
var ErrMissingUploadSession = errors.New("tui: upload session is required")

// ErrMissingConversation is returned when the conversation session is not provided.
var ErrMissingConversation = errors.New("tui: conversation session is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
