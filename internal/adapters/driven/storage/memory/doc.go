// Package memory provides in-memory implementations of driven port interfaces.
// They hold no state across processes and back the service tests.
package memory
