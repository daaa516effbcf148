package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	askText string
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer a question from the guideline",
	Long: `Retrieve the most relevant guideline passages for a question and
compose an answer with page citations. Uses the configured generation
service when a credential is present, and the raw excerpts otherwise.

Examples:
  cpgrag ask -q "adrenaline dose in cardiac arrest"
  cpgrag ask -q "stroke transport destination" --json`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askText, "query", "q", "", "question (required)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	askCmd.MarkFlagRequired("query")
}

func runAsk(cmd *cobra.Command, args []string) error {
	logger := newLogger(GetConfig().Logging.Level)

	answerUC, err := buildAnswerUseCase(logger)
	if err != nil {
		return err
	}

	answer := answerUC.Answer(context.Background(), askText)

	if askJSON {
		output, _ := json.MarshalIndent(answer, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	fmt.Println(answer.Answer)
	if len(answer.Sources) > 0 {
		fmt.Printf("\nSources:\n")
		for _, s := range answer.Sources {
			fmt.Printf("  p.%d  %s\n", s.PrintedPage, s.ID)
		}
	}

	return nil
}
