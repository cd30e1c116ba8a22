package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the provider, vector store, chunking and retrieval options.

Settings are read from config.toml, then .env, then the environment, with
later sources winning. Use subcommands to change a single key or run the
interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a single setting",
	Long:  `Write one key to config.toml. Run 'pdfrag settings keys' to list valid keys.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List recognised setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Choose a provider, enter its API key and models, and check that they work.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	current, err := loadSettings()
	if err != nil {
		return err
	}
	s := current.Redacted()

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("  File: %s\n", settingsService.Path())
	cmd.Printf("  Environment: %s\n", s.Environment)
	cmd.Printf("  Log level: %s\n", s.LogLevel)
	cmd.Println()

	active := s.ActiveProvider()
	cmd.Println("[Provider]")
	cmd.Printf("  Provider: %s\n", s.Provider.Description())
	cmd.Printf("  Chat model: %s\n", active.LLMModel)
	cmd.Printf("  Embedding model: %s\n", active.EmbeddingModel)
	if active.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", active.BaseURL)
	}
	if active.APIKey != "" {
		cmd.Printf("  API Key: %s\n", active.APIKey)
	} else {
		cmd.Println("  API Key: (not set)")
	}
	cmd.Printf("  Temperature: %g\n", active.Temperature)
	if active.MaxTokens > 0 {
		cmd.Printf("  Max tokens: %d\n", active.MaxTokens)
	}
	cmd.Println()

	cmd.Println("[Vector Store]")
	cmd.Printf("  Backend: %s\n", s.Database.Backend)
	switch s.Database.Backend {
	case domain.StoreBackendPostgres:
		cmd.Printf("  URL: %s\n", s.Database.URL)
		cmd.Printf("  JSONB metadata: %t\n", s.Database.UseJSONB)
	case domain.StoreBackendSQLite:
		cmd.Printf("  Path: %s\n", s.Database.SQLitePath)
	case domain.StoreBackendMemory:
	}
	cmd.Printf("  Collection: %s\n", s.Database.CollectionName)
	cmd.Println()

	cmd.Println("[Ingestion]")
	cmd.Printf("  Document: %s\n", s.PDF.Path)
	cmd.Printf("  Chunk size: %d (overlap %d, %s splitter)\n", s.PDF.ChunkSize, s.PDF.ChunkOverlap, s.PDF.Splitter)
	cmd.Printf("  Batch size: %d, workers: %d\n", s.Ingest.BatchSize, s.Ingest.Workers)
	if s.Ingest.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %g requests/s\n", s.Ingest.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  k: %d\n", s.Search.K)
	if s.Search.ScoreThreshold != nil {
		cmd.Printf("  Score threshold: %.2f\n", *s.Search.ScoreThreshold)
	} else {
		cmd.Println("  Score threshold: (none)")
	}
	cmd.Println()

	if err := current.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'pdfrag settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s in %s\n", args[0], settingsService.Path())
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if _, err := loadSettings(); err != nil {
		return err
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	current, err := loadSettings()
	if err != nil {
		return err
	}

	cmd.Println("pdfrag Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Select AI Provider")
	cmd.Println("--------------------------")
	providers := domain.AllProviders()
	defaultIdx := 1
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
		if p == current.Provider {
			defaultIdx = i + 1
		}
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	provider := providers[parseChoice(readLine(reader), len(providers), defaultIdx)-1]
	current.Provider = provider
	existing := current.ActiveProvider()

	cmd.Println()
	cmd.Println("Step 2: Credentials and Models")
	cmd.Println("------------------------------")
	if existing.APIKey != "" {
		cmd.Printf("Enter API key [keep %s]: ", domain.MaskAPIKey(existing.APIKey))
	} else {
		cmd.Print("Enter API key: ")
	}
	apiKey := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	if apiKey == "" {
		apiKey = existing.APIKey
	}
	if apiKey == "" {
		return fmt.Errorf("%w: API key is required for %s", domain.ErrConfiguration, provider)
	}

	cmd.Printf("Chat model [%s]: ", existing.LLMModel)
	llmModel := orDefault(readLine(reader), existing.LLMModel)
	cmd.Printf("Embedding model [%s]: ", existing.EmbeddingModel)
	embedModel := orDefault(readLine(reader), existing.EmbeddingModel)

	cmd.Println()
	cmd.Println("Step 3: Document")
	cmd.Println("----------------")
	cmd.Printf("Document path [%s]: ", current.PDF.Path)
	pdfPath := orDefault(readLine(reader), current.PDF.Path)

	prefix := string(provider)
	updates := [][2]string{
		{"llm_provider", prefix},
		{prefix + ".api_key", apiKey},
		{prefix + ".llm_model", llmModel},
		{prefix + ".embedding_model", embedModel},
		{"pdf.path", pdfPath},
	}
	for _, u := range updates {
		if err := settingsService.Set(u[0], u[1]); err != nil {
			return fmt.Errorf("failed to save %s: %w", u[0], err)
		}
	}

	updated, err := loadSettings()
	if err != nil {
		return err
	}
	if err := updated.Validate(); err != nil {
		cmd.Printf("\nWarning: %v\n", err)
		return nil
	}

	if deps.ValidateProvider != nil {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		cmd.Print("\nValidating provider... ")
		if err := deps.ValidateProvider(ctx, *updated); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("provider validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	cmd.Println()
	cmd.Println("Configuration Complete!")
	cmd.Printf("Settings saved to %s\n", settingsService.Path())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, else a plain line.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
