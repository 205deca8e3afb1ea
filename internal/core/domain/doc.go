// Package domain defines the core business entities for Shuka.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Conversation / Message / AgentStep: The chat session model
//   - SourceChunk: A retrieved passage with its locator and score
//   - Segment: A parsed run of answer text or a citation reference
//   - AppSettings: Explicit configuration passed into core operations
//
// It also holds the two pure algorithms the client is built around:
// book path resolution (alias table + chapter/verse path construction)
// and citation marker parsing.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
