package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfrag/internal/logger"
)

// Version is the MCP server version reported to clients.
var Version = "0.1.0"

const (
	serverName = "pdfrag"

	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server exposes the retrieval and answer pipeline over MCP.
type Server struct {
	ports  *Ports
	server *mcp.Server
	tools  []string
}

// ServeConfig selects the transport. An empty Addr serves stdio; otherwise
// streamable HTTP is served on Addr.
type ServeConfig struct {
	Addr string

	// Ready, if set, is called with the bound address once HTTP is listening.
	Ready func(addr string)
}

// NewServer creates a new MCP server with the given ports.
// The ingest tool and settings resource are registered only when their
// ports are set.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports}
	s.server = mcp.NewServer(
		&mcp.Implementation{Name: serverName, Version: Version},
		&mcp.ServerOptions{Instructions: instructions(ports.Ingestion != nil)},
	)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Tools returns the names of the registered tools in registration order.
func (s *Server) Tools() []string {
	return append([]string(nil), s.tools...)
}

// Serve runs the server on the transport chosen by cfg until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, cfg ServeConfig) error {
	if cfg.Addr == "" {
		logger.Info("MCP server on stdio with tools %s", strings.Join(s.tools, ", "))
		return s.server.Run(ctx, &mcp.StdioTransport{})
	}
	return s.serveHTTP(ctx, cfg)
}

func (s *Server) serveHTTP(ctx context.Context, cfg ServeConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	addr := ln.Addr().String()
	logger.Info("MCP server on http://%s with tools %s", addr, strings.Join(s.tools, ", "))
	if cfg.Ready != nil {
		cfg.Ready(addr)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instructions tells clients how the tools fit together.
func instructions(canIngest bool) string {
	var b strings.Builder
	b.WriteString("Answers come only from documents ingested into pdfrag. ")
	b.WriteString("Use search_documents to inspect the most similar chunks and ask for a grounded answer. ")
	b.WriteString("An ask result with status ungrounded means no relevant passage was found.")
	if canIngest {
		b.WriteString(" Call ingest with reset=true to replace the collection with a new document.")
	}
	return b.String()
}
