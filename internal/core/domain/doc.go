// Package domain defines the core business entities for Insightly.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded report with extracted text and its conversation
//   - Message: One entry of a conversation
//   - Insight: A normalised answer from the analysis service
//   - UploadState: The transient state of one upload attempt
//   - RetryPolicy: Attempt budget and backoff for answering questions
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
