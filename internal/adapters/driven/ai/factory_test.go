package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

func openAISettings(baseURL string) domain.Settings {
	s := domain.DefaultSettings()
	s.OpenAI.APIKey = "sk-test"
	s.OpenAI.BaseURL = baseURL
	return s
}

// modelServer answers the OpenAI model lookup used by Ping.
func modelServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/v1/models/"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/v1/models/")
		_, _ = w.Write([]byte(`{"id":"` + id + `","object":"model","created":1,"owned_by":"openai"}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestCreateEmbeddingProvider(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		settings  func() domain.Settings
		wantModel string
		wantErr   error
	}{
		{
			name:      "openai",
			settings:  func() domain.Settings { return openAISettings("") },
			wantModel: "text-embedding-3-small",
		},
		{
			name: "gemini",
			settings: func() domain.Settings {
				s := domain.DefaultSettings()
				s.Provider = domain.AIProviderGemini
				s.Gemini.APIKey = "g-test"
				return s
			},
			wantModel: "models/embedding-001",
		},
		{
			name: "missing api key",
			settings: func() domain.Settings {
				return domain.DefaultSettings()
			},
			wantErr: domain.ErrConfiguration,
		},
		{
			name: "unknown provider",
			settings: func() domain.Settings {
				s := openAISettings("")
				s.Provider = "mistral"
				return s
			},
			wantErr: domain.ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingProvider(ctx, tt.settings())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestCreateChatProvider(t *testing.T) {
	ctx := context.Background()

	svc, err := CreateChatProvider(ctx, openAISettings(""))
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-nano", svc.ModelName())

	s := domain.DefaultSettings()
	s.Provider = domain.AIProviderGemini
	s.Gemini.APIKey = "g-test"
	svc, err = CreateChatProvider(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash-lite", svc.ModelName())

	s.Provider = "unknown"
	_, err = CreateChatProvider(ctx, s)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestCreateAndValidateEmbeddingProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		server := modelServer(t, http.StatusOK)

		svc, err := CreateAndValidateEmbeddingProvider(ctx, openAISettings(server.URL+"/v1"))
		require.NoError(t, err)
		assert.NotNil(t, svc)
		_, limited := svc.(*RateLimitedEmbedder)
		assert.False(t, limited)
	})

	t.Run("throttled when requests_per_second set", func(t *testing.T) {
		server := modelServer(t, http.StatusOK)
		s := openAISettings(server.URL + "/v1")
		s.Ingest.RequestsPerSecond = 2

		svc, err := CreateAndValidateEmbeddingProvider(ctx, s)
		require.NoError(t, err)
		assert.IsType(t, &RateLimitedEmbedder{}, svc)
	})

	t.Run("unreachable", func(t *testing.T) {
		server := modelServer(t, http.StatusUnauthorized)

		svc, err := CreateAndValidateEmbeddingProvider(ctx, openAISettings(server.URL+"/v1"))
		require.Error(t, err)
		assert.Nil(t, svc)
		assert.Contains(t, err.Error(), "embedding service unreachable")
		assert.Contains(t, err.Error(), "pdfrag settings wizard")
	})
}

func TestCreateAndValidateChatProvider(t *testing.T) {
	ctx := context.Background()

	server := modelServer(t, http.StatusOK)
	svc, err := CreateAndValidateChatProvider(ctx, openAISettings(server.URL+"/v1"))
	require.NoError(t, err)
	assert.Equal(t, "gpt-5-nano", svc.ModelName())

	bad := modelServer(t, http.StatusUnauthorized)
	_, err = CreateAndValidateChatProvider(ctx, openAISettings(bad.URL+"/v1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service unreachable")
}

func TestValidateProvider(t *testing.T) {
	ctx := context.Background()

	server := modelServer(t, http.StatusOK)
	assert.NoError(t, ValidateProvider(ctx, openAISettings(server.URL+"/v1")))

	bad := modelServer(t, http.StatusUnauthorized)
	err := ValidateProvider(ctx, openAISettings(bad.URL+"/v1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding model text-embedding-3-small")

	assert.ErrorIs(t, ValidateProvider(ctx, domain.DefaultSettings()), domain.ErrConfiguration)
}
