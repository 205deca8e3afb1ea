// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - AgentService: the black-box RAG agent (retrieval + generation)
//   - SessionStore: conversation persistence
//   - DocumentStore: the corpus document store (/books/<lang>/... tree)
//   - ConfigStore: application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
