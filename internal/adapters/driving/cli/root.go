// Package cli provides the pdfrag command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/core/ports/driving"
	"github.com/custodia-labs/pdfrag/internal/logger"
)

// version is set at build time.
var version = "dev"

// TemplateSource exposes the active grounding template.
type TemplateSource interface {
	Template() string
}

// Pipeline bundles the services built from validated settings.
type Pipeline struct {
	Ingestion driving.IngestionService
	Retrieval driving.RetrievalService
	Answer    driving.AnswerService
	Prompt    TemplateSource

	// Close releases providers and store connections. Optional.
	Close func() error
}

// Dependencies wires the CLI to the application.
type Dependencies struct {
	// Settings opens the settings service rooted at configDir.
	// An empty configDir uses the default location.
	Settings func(configDir string) (driving.SettingsService, error)

	// Pipeline builds the pipeline services. Settings are validated first.
	Pipeline func(ctx context.Context, settings domain.Settings) (*Pipeline, error)

	// ValidateProvider pings the selected provider. Optional; used by the wizard.
	ValidateProvider func(ctx context.Context, settings domain.Settings) error
}

var (
	deps      Dependencies
	verbose   bool
	configDir string

	settingsService  driving.SettingsService
	ingestionService driving.IngestionService
	retrievalService driving.RetrievalService
	answerService    driving.AnswerService
	promptSource     TemplateSource
	closers          []func() error
)

var rootCmd = &cobra.Command{
	Use:   "pdfrag",
	Short: "Ask grounded questions about your documents",
	Long: `pdfrag ingests a PDF into a vector store and answers questions using only
the retrieved passages as context. When nothing relevant is found it says so
instead of guessing.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding config.toml and prompts")
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetDependencies sets how services are built.
func SetDependencies(d Dependencies) {
	deps = d
}

// Execute runs the root command and releases anything opened while running.
func Execute() error {
	err := rootCmd.Execute()
	if cerr := closeAll(); cerr != nil {
		logger.Warn("closing resources: %v", cerr)
	}
	return err
}

// setup opens settings and applies the logging configuration.
func setup(_ *cobra.Command, _ []string) error {
	if settingsService == nil && deps.Settings != nil {
		svc, err := deps.Settings(configDir)
		if err != nil {
			return fmt.Errorf("opening settings: %w", err)
		}
		settingsService = svc
	}

	logger.SetVerbose(verbose)
	if settingsService == nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	if settings.Debug {
		logger.SetVerbose(true)
	}
	if lvl, ok := logger.ParseLevel(settings.LogLevel); ok {
		logger.SetLevel(lvl)
	}
	return nil
}

// loadSettings returns the effective settings.
func loadSettings() (*domain.Settings, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return settings, nil
}

// ensurePipeline builds the pipeline services once per process.
func ensurePipeline(ctx context.Context) error {
	if answerService != nil && retrievalService != nil && ingestionService != nil {
		return nil
	}
	if deps.Pipeline == nil {
		return errors.New("pipeline not configured")
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w\nRun 'pdfrag settings wizard' to fix the configuration", err)
	}

	pipeline, err := deps.Pipeline(ctx, *settings)
	if err != nil {
		return err
	}
	ingestionService = pipeline.Ingestion
	retrievalService = pipeline.Retrieval
	answerService = pipeline.Answer
	promptSource = pipeline.Prompt
	if pipeline.Close != nil {
		closers = append(closers, pipeline.Close)
	}
	return nil
}

func closeAll() error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	return errors.Join(errs...)
}
