package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "quizgen",
	Short:         "Generate and inspect multiple-choice quizzes",
	Long:          "quizgen prompts the configured language model for topic quizzes and parses saved model responses.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if off, _ := cmd.Flags().GetBool("no-color"); off {
			disableColor()
		}
	}

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(parseCmd)
}
