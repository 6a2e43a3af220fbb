package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"edututor/internal/quizgen"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a saved model response and report what was accepted",
	Long:  "Parse reads a raw model response (use - for stdin), prints the accepted questions and one line per rejected block.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}

		quiz, diag := quizgen.Parse(raw)
		out := cmd.OutOrStdout()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Questions   interface{} `json:"questions"`
				Diagnostics interface{} `json:"diagnostics"`
			}{quiz.Questions, diag})
		}

		if canonical, _ := cmd.Flags().GetBool("canonical"); canonical {
			fmt.Fprint(out, quizgen.FormatQuiz(quiz.Questions))
		} else {
			printQuestions(out, quiz.Questions)
		}
		printDiagnostics(cmd.ErrOrStderr(), diag)
		return nil
	},
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}
	return string(data), nil
}

func init() {
	parseCmd.Flags().Bool("json", false, "Print questions and diagnostics as JSON")
	parseCmd.Flags().Bool("canonical", false, "Print accepted questions in the canonical prompt format")
}
