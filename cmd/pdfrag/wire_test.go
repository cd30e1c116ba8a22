package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func modelServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		id := strings.TrimPrefix(r.URL.Path, "/v1/models/")
		_, _ = w.Write([]byte(`{"id":"` + id + `","object":"model","created":1,"owned_by":"openai"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestNewDependencies_SettingsUseConfigDir(t *testing.T) {
	dir := t.TempDir()
	deps := newDependencies()

	svc, err := deps.Settings(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), svc.Path())

	require.NoError(t, svc.Set("search.k", "5"))
	_, err = os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}

func TestBuildPipeline_MemoryBackend(t *testing.T) {
	server := modelServer(t)
	dir := t.TempDir()

	settings := domain.DefaultSettings()
	settings.Database.Backend = domain.StoreBackendMemory
	settings.OpenAI.APIKey = "sk-test"
	settings.OpenAI.BaseURL = server.URL + "/v1"
	settings.PromptsDir = filepath.Join(dir, "prompts")
	settings.Ingest.RequestsPerSecond = 5

	pipeline, err := buildPipeline(context.Background(), settings)
	require.NoError(t, err)

	assert.NotNil(t, pipeline.Ingestion)
	assert.NotNil(t, pipeline.Retrieval)
	assert.NotNil(t, pipeline.Answer)
	assert.Contains(t, pipeline.Prompt.Template(), domain.PlaceholderContext)
	assert.NoError(t, pipeline.Close())
}

func TestBuildPipeline_UnknownBackend(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.Database.Backend = "cassandra"
	settings.OpenAI.APIKey = "sk-test"

	_, err := buildPipeline(context.Background(), settings)

	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestBuildPipeline_UnreachableProviderClosesStore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	settings := domain.DefaultSettings()
	settings.Database.Backend = domain.StoreBackendSQLite
	settings.Database.SQLitePath = filepath.Join(t.TempDir(), "vectors.db")
	settings.OpenAI.APIKey = "sk-bad"
	settings.OpenAI.BaseURL = server.URL + "/v1"

	_, err := buildPipeline(context.Background(), settings)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pdfrag settings wizard")
}
