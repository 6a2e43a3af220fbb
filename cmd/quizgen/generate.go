package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"edututor/internal/adapter/llm"
	"edututor/internal/config"
	"edututor/internal/domain"
	"edututor/internal/dto"
	"edututor/internal/logger"
	"edututor/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a quiz with the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		count, _ := cmd.Flags().GetInt("count")

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if model, _ := cmd.Flags().GetString("model"); model != "" {
			cfg.Model.Name = model
		}
		if err := logger.Initialize(cfg.Logger); err != nil {
			return fmt.Errorf("initialize logger: %w", err)
		}
		defer logger.Sync()

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout+cfg.Model.Timeout)
		defer cancel()

		return runGenerate(ctx, cmd, llm.NewLoader(cfg.Model), cfg.Generation, topic, difficulty, count)
	},
}

// runGenerate is the body of generate once configuration is resolved.
func runGenerate(ctx context.Context, cmd *cobra.Command, loader *llm.Loader, genCfg config.GenerationConfig, topic, difficulty string, count int) error {
	model, err := loader.Load(ctx)
	if err != nil {
		return err
	}
	logger.Get().Debug("Model ready", zap.String("model", model.ModelName()), zap.String("device", model.Device()))

	svc := service.NewQuizService(model, genCfg, nil)
	resp, err := svc.Generate(ctx, topic, difficulty, count)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			for _, attempt := range de.Attempts {
				rejectColor.Fprintf(cmd.ErrOrStderr(), "attempt %d (%s):\n", attempt.Retry, attempt.Kind)
				printDiagnostics(cmd.ErrOrStderr(), attempt.Diagnostics)
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	questions := dto.ToDomainQuestions(resp.Questions)
	printQuestions(out, questions)
	if len(questions) < count {
		dimColor.Fprintf(cmd.ErrOrStderr(), "only %d of %d questions could be generated\n", len(questions), count)
	}
	return nil
}

func init() {
	generateCmd.Flags().String("topic", "", "Quiz topic")
	generateCmd.Flags().String("difficulty", "medium", "Difficulty: easy, medium or hard")
	generateCmd.Flags().Int("count", 5, "Number of questions (1-10)")
	generateCmd.Flags().String("model", "", "Override the configured model name")
	generateCmd.Flags().Bool("json", false, "Print the quiz as JSON")
	_ = generateCmd.MarkFlagRequired("topic")
}
