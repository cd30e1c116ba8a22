package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
	"github.com/custodia-labs/pdfrag/internal/logger"
	"github.com/custodia-labs/pdfrag/internal/watch"
)

var (
	ingestReset bool
	ingestWatch bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Chunk, embed and store a document",
	Long: `Load a PDF (or .txt/.md file), split it into overlapping chunks, embed each
chunk and store it in the configured collection.

The path defaults to pdf.path from settings. Chunk ids are positional, so
re-ingesting an edited document that produces fewer chunks leaves stale
chunks behind. Use --reset to replace the collection contents instead. The
collection is only cleared once the new chunks are embedded.

With --watch the command keeps running and replaces the collection contents
every time the file changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestReset, "reset", false, "replace the collection contents with this document")
	ingestCmd.Flags().BoolVarP(&ingestWatch, "watch", "w", false, "re-ingest whenever the file changes")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	path, err := ingestPath(args)
	if err != nil {
		return err
	}
	if err := ensurePipeline(ctx); err != nil {
		return err
	}

	if err := ingestOnce(ctx, cmd, path, ingestReset); err != nil {
		return err
	}
	if !ingestWatch {
		return nil
	}

	w, err := watch.New(path, watch.DefaultDebounce)
	if err != nil {
		return err
	}
	defer w.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", w.Path())
	return w.Run(ctx, func(ctx context.Context) error {
		return ingestOnce(ctx, cmd, path, true)
	})
}

func ingestPath(args []string) (string, error) {
	if len(args) == 1 && args[0] != "" {
		return args[0], nil
	}
	settings, err := loadSettings()
	if err != nil {
		return "", err
	}
	if settings.PDF.Path == "" {
		return "", fmt.Errorf("%w: no path given and pdf.path is not set", domain.ErrConfiguration)
	}
	return settings.PDF.Path, nil
}

func ingestOnce(ctx context.Context, cmd *cobra.Command, path string, reset bool) error {
	run := ingestionService.Ingest
	if reset {
		logger.Info("Replacing collection contents with %s", path)
		run = ingestionService.Replace
	}

	report, err := run(ctx, path)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	cmd.Printf("Ingested %d chunks from %d pages of %s into %q (%s)\n",
		report.ChunkCount, report.PageCount, report.Source, report.Collection, report.Duration.Round(time.Millisecond))
	return nil
}
