/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/ayuroot-be/config"
	"github.com/tieubaoca/ayuroot-be/logger"
	"github.com/tieubaoca/ayuroot-be/service"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ayuroot-be",
	Short: "Ayuroot wellness guidance backend",
	Long: `Ayuroot serves Ayurvedic wellness guidance over HTTP: a streaming
advice chat, medicine recommendations and a lifestyle score.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger.Setup(cfg.LogLevel, cfg.LogPretty)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.yaml", "config file")
}

// newAIService builds the configured provider for one model. The returned
// close func releases provider resources.
func newAIService(ctx context.Context, cfg *config.Config, model string) (service.AIService, func() error, error) {
	switch cfg.AI.Provider {
	case "openai":
		return service.NewOpenAIService(cfg.AI.BaseURL, cfg.AI.OpenAIAPIKey, model), func() error { return nil }, nil
	default:
		gemini, err := service.NewGeminiService(ctx, cfg.AI.GeminiAPIKeys(), model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gemini service: %w", err)
		}
		return gemini, gemini.Close, nil
	}
}
