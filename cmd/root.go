package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ocicalc",
	Short: "Cloud billing ingestion and OCI cost modeling",
	Long:  "Parses AWS, Azure, and GCP billing exports (CSV, XLSX, PDF), normalizes them into canonical records, and models the cost of a lift-and-shift to Oracle Cloud.",
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
