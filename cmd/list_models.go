/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tieubaoca/ayuroot-be/service"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List the Gemini models available to the configured keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.AI.Provider != "gemini" {
			return errors.New("list-models requires the gemini provider")
		}

		gemini, err := service.NewGeminiService(cmd.Context(), cfg.AI.GeminiAPIKeys(), cfg.AI.Models.Chat)
		if err != nil {
			return err
		}
		defer gemini.Close()

		models, err := gemini.ListModels(cmd.Context())
		if err != nil {
			return fmt.Errorf("error listing models: %w", err)
		}
		for _, m := range models {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", m.Name, m.DisplayName)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
}
