package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/ingest"
	"github.com/claude/liftlog/internal/ingest/ai"
	"github.com/claude/liftlog/internal/ingest/freetext"
	"github.com/claude/liftlog/internal/vocab"
)

var (
	parseInput  inputFlags
	parseAI     bool
	parseVocab  string
	parseConfig string
)

func init() {
	rootCmd.AddCommand(parseCmd)

	parseInput.register(parseCmd)
	parseCmd.Flags().BoolVar(&parseAI, "ai", false, "force AI parsing (needs --config with an ai section)")
	parseCmd.Flags().StringVar(&parseVocab, "vocab", "", "YAML vocabulary file extending the built-in table")
	parseCmd.Flags().StringVar(&parseConfig, "config", "", "config file for AI settings")
}

var parseCmd = &cobra.Command{
	Use:   "parse [text]",
	Short: "Parse workout text locally and print the result as JSON",
	Example: `  liftlog-cli parse "Bankdrücken 4x10 80kg @7"
  liftlog-cli parse --file today.txt
  liftlog-cli parse --clipboard`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := parseInput.read(args, cmd.InOrStdin())
		if err != nil {
			return err
		}

		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
		orch, err := localOrchestrator(log)
		if err != nil {
			return err
		}

		result := orch.Parse(context.Background(), text, parseAI)
		return printJSON(cmd.OutOrStdout(), result)
	},
}

// localOrchestrator builds the parser stack from flags. The AI fallback is
// only available when a config file is given.
func localOrchestrator(log *slog.Logger) (*ingest.Orchestrator, error) {
	vocabPath := parseVocab
	var cfg *config.Config
	if parseConfig != "" {
		c, err := config.Load(parseConfig)
		if err != nil {
			return nil, err
		}
		cfg = c
		if vocabPath == "" {
			vocabPath = cfg.Vocabulary.Path
		}
	}

	v, err := vocab.LoadFile(vocabPath)
	if err != nil {
		return nil, err
	}

	var fallback ingest.Fallback
	switch {
	case cfg != nil && cfg.AI.Enabled:
		completer, err := ai.NewAnthropic(ai.AnthropicConfig{
			APIKey:    cfg.AI.APIKey,
			Model:     cfg.AI.Model,
			BaseURL:   cfg.AI.BaseURL,
			MaxTokens: cfg.AI.MaxTokens,
		})
		if err != nil {
			return nil, err
		}
		fallback = ai.NewParser(completer, v, cfg.AI.Timeout, log)
	case parseAI:
		fmt.Fprintln(os.Stderr, "warning: --ai without --config, using the grammar only")
	}

	return ingest.NewOrchestrator(freetext.New(v), fallback, log), nil
}

