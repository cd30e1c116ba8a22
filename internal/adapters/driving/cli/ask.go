package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/pdfrag/internal/core/domain"
)

var (
	askJSON    bool
	askSources bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the ingested documents",
	Long: `Retrieve the chunks most relevant to the question and ask the chat model to
answer using only that context. When nothing relevant is stored the canonical
refusal is printed without calling the model.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output status, answer and sources as JSON")
	askCmd.Flags().BoolVarP(&askSources, "sources", "s", false, "list the chunks the answer was grounded on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ensurePipeline(ctx); err != nil {
		return err
	}

	answer, err := answerService.Answer(ctx, args[0])
	if err != nil {
		return err
	}

	if askJSON {
		data, err := json.MarshalIndent(struct {
			Status  string       `json:"status"`
			Answer  string       `json:"answer"`
			Sources []resultJSON `json:"sources"`
		}{answer.Status.String(), answer.Text, toResultJSON(answer.Sources)}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	switch answer.Status {
	case domain.AnswerInvalid:
		return errors.New("question is empty")
	case domain.AnswerUngrounded:
		cmd.Println(answer.Text)
		cmd.PrintErrln("No relevant passages were found in the ingested documents.")
	case domain.AnswerGrounded:
		cmd.Println(answer.Text)
		if askSources {
			printSources(cmd, answer.Sources)
		}
	}
	return nil
}

func printSources(cmd *cobra.Command, sources []domain.ScoredResult) {
	cmd.Println()
	cmd.Println("Sources:")
	for i, s := range sources {
		page := ""
		if p, ok := s.Metadata[domain.MetaPage]; ok {
			page = " page " + p
		}
		cmd.Printf("  [%d] %s%s (%.2f)\n", i+1, s.ID, page, s.Score)
	}
}
