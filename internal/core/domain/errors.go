package domain

import "errors"

// Domain errors represent business logic failures.
// Adapters wrap their causes with these so callers can use errors.Is
// on both the category and the underlying error.
var (
	// ErrConfiguration indicates invalid settings, e.g. overlap >= chunk size.
	// Fatal at startup, never retried.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrSourceNotFound indicates the ingestion source is missing or unreadable.
	ErrSourceNotFound = errors.New("source not found")

	// ErrEmptyDocument indicates the source yielded no extractable text.
	ErrEmptyDocument = errors.New("document has no extractable text")

	// ErrEmptyChunkSet indicates chunking produced zero chunks.
	ErrEmptyChunkSet = errors.New("chunking produced no chunks")

	// ErrUnsupportedType indicates no loader handles the source format.
	ErrUnsupportedType = errors.New("unsupported type")

	// Collaborator Errors.

	// ErrProvider indicates an embedding or chat provider failure
	// (auth, quota, network).
	ErrProvider = errors.New("provider error")

	// ErrRateLimited indicates the provider rejected a request for quota reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrStore indicates a vector store connectivity or schema failure.
	ErrStore = errors.New("vector store error")

	// Query Errors.

	// ErrRetrieval indicates the retriever could not complete a similarity search.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrPipeline indicates the answer pipeline failed to produce an answer.
	ErrPipeline = errors.New("answer pipeline failed")
)
