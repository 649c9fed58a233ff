// Package driving defines the interfaces the CLI, TUI and MCP adapters use
// to drive the core.
//
// DocumentStore owns persisted documents and the current-document pointer.
// UploadSession and ConversationSession are long-lived, stateful sessions;
// callers poll their snapshots (State, Messages) rather than subscribe.
// SettingsService exposes the typed configuration.
//
// Implementations live in internal/core/services.
package driving
