package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/services"
)

// SearchInput defines the input schema for the search_documents tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the text to find similar chunks for"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results, 0 keeps the configured k"`
}

// SearchOutput defines the output schema for the search_documents tool.
type SearchOutput struct {
	Results []ChunkResult `json:"results"`
	Count   int           `json:"count"`
	Context string        `json:"context"`
}

// ChunkResult is a single retrieved chunk.
type ChunkResult struct {
	ID       string            `json:"id"`
	Score    float64           `json:"score"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// AskInput defines the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
}

// AskOutput defines the output schema for the ask tool.
type AskOutput struct {
	Status  string        `json:"status"`
	Answer  string        `json:"answer"`
	Sources []ChunkResult `json:"sources"`
}

// IngestInput defines the input schema for the ingest tool.
type IngestInput struct {
	Path  string `json:"path,omitempty" jsonschema:"file to ingest, defaults to the configured pdf.path"`
	Reset bool   `json:"reset,omitempty" jsonschema:"replace the collection contents once the new chunks are embedded"`
}

// IngestOutput defines the output schema for the ingest tool.
type IngestOutput struct {
	RunID      string `json:"run_id"`
	Source     string `json:"source"`
	Collection string `json:"collection"`
	Pages      int    `json:"pages"`
	Chunks     int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	addTool(s, &mcp.Tool{
		Name:        "search_documents",
		Description: "Find the ingested chunks most similar to a query, best first",
	}, s.handleSearch)

	addTool(s, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using only the ingested documents as context",
	}, s.handleAsk)

	if s.ports.Ingestion != nil {
		addTool(s, &mcp.Tool{
			Name:        "ingest",
			Description: "Chunk, embed and store a document in the vector store",
		}, s.handleIngest)
	}
}

func addTool[In, Out any](s *Server, tool *mcp.Tool, handler mcp.ToolHandlerFor[In, Out]) {
	mcp.AddTool(s.server, tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.ports.Retrieval.Retrieve(ctx, input.Query)
	if err != nil {
		return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
	}
	if input.Limit > 0 && len(results) > input.Limit {
		results = results[:input.Limit]
	}

	return nil, SearchOutput{
		Results: toChunkResults(results),
		Count:   len(results),
		Context: services.FormatContext(results),
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Answer.Answer(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, fmt.Errorf("ask failed: %w", err)
	}

	return nil, AskOutput{
		Status:  answer.Status.String(),
		Answer:  answer.Text,
		Sources: toChunkResults(answer.Sources),
	}, nil
}

func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	if s.ports.Ingestion == nil {
		return nil, IngestOutput{}, ErrIngestionDisabled
	}

	path := strings.TrimSpace(input.Path)
	if path == "" && s.ports.Settings != nil {
		settings, err := s.ports.Settings.Get()
		if err != nil {
			return nil, IngestOutput{}, fmt.Errorf("loading settings: %w", err)
		}
		path = settings.PDF.Path
	}
	if path == "" {
		return nil, IngestOutput{}, fmt.Errorf("%w: no path given and pdf.path is not set", domain.ErrConfiguration)
	}

	run := s.ports.Ingestion.Ingest
	if input.Reset {
		run = s.ports.Ingestion.Replace
	}

	report, err := run(ctx, path)
	if err != nil {
		return nil, IngestOutput{}, fmt.Errorf("ingest failed: %w", err)
	}

	return nil, IngestOutput{
		RunID:      report.RunID,
		Source:     report.Source,
		Collection: report.Collection,
		Pages:      report.PageCount,
		Chunks:     report.ChunkCount,
	}, nil
}

func toChunkResults(results []domain.ScoredResult) []ChunkResult {
	out := make([]ChunkResult, len(results))
	for i, r := range results {
		out[i] = ChunkResult{
			ID:       r.ID,
			Score:    r.Score,
			Content:  r.Content,
			Metadata: r.Metadata,
		}
	}
	return out
}
