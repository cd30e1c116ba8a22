// Package mcp provides an MCP (Model Context Protocol) server adapter for pdfrag.
// It lets AI assistants search the ingested documents and ask grounded questions.
package mcp

import "errors"

var (
	// ErrMissingRetrievalService is returned when the retrieval service is not provided.
	ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

	// ErrMissingAnswerService is returned when the answer service is not provided.
	ErrMissingAnswerService = errors.New("mcp: answer service is required")

	// ErrIngestionDisabled is returned by the ingest tool when no ingestion service is wired.
	ErrIngestionDisabled = errors.New("mcp: ingestion is not enabled")
)
