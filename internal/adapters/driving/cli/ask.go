package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driven"
	"github.com/ragdex-labs/ragdex-cli/internal/core/ports/driving"
)

var (
	askTopK      int
	askMaxTokens int
	askShowScore bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the document library",
	Long: `Retrieves the most relevant chunks for the question, builds a
context prompt from them, and generates an answer with the configured
LLM. The answer cites the documents it drew from.

Requires a Gemini API key (gemini.api_key in config or GEMINI_API_KEY).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of context chunks to retrieve (default from config)")
	askCmd.Flags().IntVar(&askMaxTokens, "max-tokens", 0, "cap the generated answer length")
	askCmd.Flags().BoolVar(&askShowScore, "scores", false, "show source relevance scores")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerService == nil {
		return errors.New("answer service not configured")
	}

	topK := askTopK
	if topK <= 0 && configStore != nil {
		topK = configStore.GetInt(driven.ConfigKeyAnswerTopK)
	}

	ctx := context.Background()
	answer, err := answerService.Ask(ctx, question, driving.AskOptions{
		TopK:      topK,
		MaxTokens: askMaxTokens,
	})
	if err != nil {
		if errors.Is(err, domain.ErrLLMUnavailable) {
			return errors.New("no LLM configured: set gemini.api_key or GEMINI_API_KEY")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	cmd.Println(answer.Text)

	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i, source := range answer.Sources {
			if askShowScore {
				cmd.Printf("  [%d] %s (%.2f)\n", i+1, source.Title, source.Score)
			} else {
				cmd.Printf("  [%d] %s\n", i+1, source.Title)
			}
		}
	}

	return nil
}
