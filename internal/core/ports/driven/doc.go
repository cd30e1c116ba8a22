// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingProvider: Turns text into vectors (OpenAI, Gemini)
//   - ChatProvider: Generates answers from messages (OpenAI, Gemini)
//   - VectorStore: Persists and searches embeddings (Postgres/pgvector, SQLite, memory)
//   - DocumentLoader: Extracts per-page text from source files (PDF, plain text)
//   - LoaderRegistry: Selects a loader by file extension
//   - Splitter: Cuts text into bounded chunks
//   - PromptStore: User-editable prompt templates
//   - ConfigStore: Application configuration
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or loader package
package driven
