package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jpdehyl/BSA-demo/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bsa",
	Short: "Pre-call sales research for a contact and company",
	Long:  "Researches a contact and their company in parallel across deep LLM research, social profile search, headless-browser scrapes and social activity, then scores fit and renders a call-prep packet.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
