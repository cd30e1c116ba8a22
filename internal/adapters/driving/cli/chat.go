package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/pdfrag/internal/adapters/driving/tui"
	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var chatPlain bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive question session",
	Long: `Ask questions in a loop. Each answer is grounded on the ingested documents.

Type sair, exit or quit (or press Ctrl+C) to leave. When stdin and stdout
are a terminal a full-screen chat opens; otherwise questions are read one
per line.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&chatPlain, "plain", false, "use the line-based loop even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensurePipeline(ctx); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !chatPlain && isTerminal(cmd) {
		return tui.Run(ctx, &tui.Ports{Answer: answerService, Settings: settingsService})
	}
	return chatLoop(ctx, cmd, cmd.InOrStdin())
}

func isTerminal(cmd *cobra.Command) bool {
	in, ok := cmd.InOrStdin().(*os.File)
	if !ok {
		return false
	}
	out, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(in.Fd())) && term.IsTerminal(int(out.Fd()))
}

// chatLoop reads one question per line until an exit word, EOF or cancellation.
// Pipeline errors are printed and the loop continues.
func chatLoop(ctx context.Context, cmd *cobra.Command, in io.Reader) error {
	cmd.Println("Ask a question about your documents. Type 'sair' to exit.")
	lines, errc := scanLines(ctx, in)

	for {
		cmd.Print("\nYou: ")

		var line string
		select {
		case <-ctx.Done():
			cmd.Println()
			return nil
		case l, ok := <-lines:
			if !ok {
				cmd.Println()
				return <-errc
			}
			line = l
		}

		question := strings.TrimSpace(line)
		if tui.IsExitWord(question) {
			cmd.Println("Goodbye!")
			return nil
		}
		if question == "" {
			cmd.Println("Please type a question.")
			continue
		}

		answer, err := answerService.Answer(ctx, question)
		switch {
		case errors.Is(err, context.Canceled):
			return nil
		case err != nil:
			cmd.PrintErrf("Error: %v\n", err)
			continue
		}

		switch answer.Status {
		case domain.AnswerInvalid:
			cmd.Println("Please type a question.")
		case domain.AnswerUngrounded:
			cmd.Printf("Assistant: %s\n", answer.Text)
			cmd.Println("(No relevant passages were found in the ingested documents.)")
		case domain.AnswerGrounded:
			cmd.Printf("Assistant: %s\n", answer.Text)
		}
	}
}

// scanLines reads lines from in on a separate goroutine so a blocked read
// never delays cancellation. errc receives the scan error before lines closes.
func scanLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()

	return lines, errc
}
