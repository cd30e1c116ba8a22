package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driven"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEnvironment       = "environment"
	keyProvider          = "llm_provider"
	keyLogLevel          = "log_level"
	keyDebug             = "debug"
	keyDatabaseURL       = "database.url"
	keyCollection        = "database.collection_name"
	keyUseJSONB          = "database.use_jsonb"
	keyStoreBackend      = "store.backend"
	keySQLitePath        = "sqlite.path"
	keyPDFPath           = "pdf.path"
	keyChunkSize         = "pdf.chunk_size"
	keyChunkOverlap      = "pdf.chunk_overlap"
	keySplitter          = "pdf.splitter"
	keyOpenAIAPIKey      = "openai.api_key"
	keyOpenAIBaseURL     = "openai.base_url"
	keyOpenAIEmbedModel  = "openai.embedding_model"
	keyOpenAILLMModel    = "openai.llm_model"
	keyOpenAITemperature = "openai.temperature"
	keyOpenAIMaxTokens   = "openai.max_tokens"
	keyGeminiAPIKey      = "gemini.api_key"
	keyGeminiBaseURL     = "gemini.base_url"
	keyGeminiEmbedModel  = "gemini.embedding_model"
	keyGeminiLLMModel    = "gemini.llm_model"
	keyGeminiTemperature = "gemini.temperature"
	keyGeminiMaxTokens   = "gemini.max_tokens"
	keySearchK           = "search.k"
	keyScoreThreshold    = "search.score_threshold"
	keyBatchSize         = "ingest.batch_size"
	keyWorkers           = "ingest.workers"
	keyRequestsPerSecond = "ingest.requests_per_second"
	keyPromptsDir        = "prompts.dir"
)

// valueKind is the type a config key is stored as.
type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindBool
)

// keyKinds lists every recognised key.
var keyKinds = map[string]valueKind{
	keyEnvironment:       kindString,
	keyProvider:          kindString,
	keyLogLevel:          kindString,
	keyDebug:             kindBool,
	keyDatabaseURL:       kindString,
	keyCollection:        kindString,
	keyUseJSONB:          kindBool,
	keyStoreBackend:      kindString,
	keySQLitePath:        kindString,
	keyPDFPath:           kindString,
	keyChunkSize:         kindInt,
	keyChunkOverlap:      kindInt,
	keySplitter:          kindString,
	keyOpenAIAPIKey:      kindString,
	keyOpenAIBaseURL:     kindString,
	keyOpenAIEmbedModel:  kindString,
	keyOpenAILLMModel:    kindString,
	keyOpenAITemperature: kindFloat,
	keyOpenAIMaxTokens:   kindInt,
	keyGeminiAPIKey:      kindString,
	keyGeminiBaseURL:     kindString,
	keyGeminiEmbedModel:  kindString,
	keyGeminiLLMModel:    kindString,
	keyGeminiTemperature: kindFloat,
	keyGeminiMaxTokens:   kindInt,
	keySearchK:           kindInt,
	keyScoreThreshold:    kindFloat,
	keyBatchSize:         kindInt,
	keyWorkers:           kindInt,
	keyRequestsPerSecond: kindFloat,
	keyPromptsDir:        kindString,
}

// SettingsService builds settings from a config store and defaults.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the effective settings. It does not validate them;
// call Validate on the result before wiring adapters.
func (s *SettingsService) Get() (*domain.Settings, error) {
	d := domain.DefaultSettings()

	settings := &domain.Settings{
		Environment: domain.Environment(s.getString(keyEnvironment, string(d.Environment))),
		Provider:    domain.AIProvider(strings.ToLower(s.getString(keyProvider, string(d.Provider)))),
		LogLevel:    s.getString(keyLogLevel, d.LogLevel),
		Debug:       s.getBool(keyDebug, d.Debug),
		Database: domain.DatabaseSettings{
			Backend:        domain.StoreBackend(s.getString(keyStoreBackend, string(d.Database.Backend))),
			URL:            s.getString(keyDatabaseURL, d.Database.URL),
			CollectionName: s.getString(keyCollection, d.Database.CollectionName),
			UseJSONB:       s.getBool(keyUseJSONB, d.Database.UseJSONB),
			SQLitePath:     s.getString(keySQLitePath, d.Database.SQLitePath),
		},
		PDF: domain.ChunkingSettings{
			Path:         s.getString(keyPDFPath, d.PDF.Path),
			ChunkSize:    s.getInt(keyChunkSize, d.PDF.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, d.PDF.ChunkOverlap),
			Splitter:     domain.SplitterKind(s.getString(keySplitter, string(d.PDF.Splitter))),
		},
		OpenAI: domain.ProviderSettings{
			APIKey:         s.configStore.GetString(keyOpenAIAPIKey),
			BaseURL:        s.configStore.GetString(keyOpenAIBaseURL),
			EmbeddingModel: s.getString(keyOpenAIEmbedModel, d.OpenAI.EmbeddingModel),
			LLMModel:       s.getString(keyOpenAILLMModel, d.OpenAI.LLMModel),
			Temperature:    s.getFloat(keyOpenAITemperature, d.OpenAI.Temperature),
			MaxTokens:      s.getInt(keyOpenAIMaxTokens, d.OpenAI.MaxTokens),
		},
		Gemini: domain.ProviderSettings{
			APIKey:         s.configStore.GetString(keyGeminiAPIKey),
			BaseURL:        s.configStore.GetString(keyGeminiBaseURL),
			EmbeddingModel: s.getString(keyGeminiEmbedModel, d.Gemini.EmbeddingModel),
			LLMModel:       s.getString(keyGeminiLLMModel, d.Gemini.LLMModel),
			Temperature:    s.getFloat(keyGeminiTemperature, d.Gemini.Temperature),
			MaxTokens:      s.getInt(keyGeminiMaxTokens, d.Gemini.MaxTokens),
		},
		Search: domain.SearchSettings{
			K: s.getInt(keySearchK, d.Search.K),
		},
		Ingest: domain.IngestSettings{
			BatchSize:         s.getInt(keyBatchSize, d.Ingest.BatchSize),
			Workers:           s.getInt(keyWorkers, d.Ingest.Workers),
			RequestsPerSecond: s.getFloat(keyRequestsPerSecond, d.Ingest.RequestsPerSecond),
		},
		PromptsDir: s.configStore.GetString(keyPromptsDir),
	}

	if _, exists := s.configStore.Get(keyScoreThreshold); exists {
		threshold := s.configStore.GetFloat(keyScoreThreshold)
		settings.Search.ScoreThreshold = &threshold
	}

	return settings, nil
}

// Set parses value according to the key's type and persists it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := keyKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrConfiguration, key)
	}

	var parsed any
	var err error
	switch kind {
	case kindInt:
		parsed, err = strconv.Atoi(value)
	case kindFloat:
		parsed, err = strconv.ParseFloat(value, 64)
	case kindBool:
		parsed, err = strconv.ParseBool(value)
	default:
		parsed = value
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrConfiguration, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every recognised key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(keyKinds))
	for k := range keyKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Path returns the config file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}
