// Package domain defines the core business entities for pdfrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: Extracted text of one page or section of a source document
//   - Chunk: A bounded text segment cut from a page
//   - StoredDocument: The unit persisted in a vector store collection
//   - ScoredResult: A ranked similarity search hit
//   - Answer: The tagged outcome of answering a question
//   - Settings: The validated configuration object
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
