package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/liftshift"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

var (
	modelCurrency string
	modelReplay   bool
)

var modelCmd = &cobra.Command{
	Use:   "model <upload-id>",
	Short: "Run the OCI lift-and-shift cost model over an upload",
	Long:  "Resolves each normalized billing record to a target OCI SKU, prices it, and writes per-record rows plus batch aggregates. Re-running replaces the previous result. --replay prints the persisted result without re-pricing.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("model"); err != nil {
			return err
		}
		if modelCurrency == "" {
			modelCurrency = cfg.LiftShift.Currency
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		modeler := liftshift.NewModeler(st, initPriceChain())

		var result *model.LiftShiftResult
		if modelReplay {
			result, err = modeler.Result(ctx, args[0], modelCurrency)
		} else {
			result, err = modeler.Model(ctx, args[0], modelCurrency)
		}
		if err != nil {
			return err
		}

		zap.L().Info("model complete",
			zap.String("upload_id", result.UploadID),
			zap.Int("rows", len(result.Rows)),
			zap.Float64("savings_percent", result.SavingsPercent),
		)
		return printJSON(cmd.OutOrStdout(), result)
	},
}

func init() {
	modelCmd.Flags().StringVar(&modelCurrency, "currency", "", "target pricing currency (default from config)")
	modelCmd.Flags().BoolVar(&modelReplay, "replay", false, "print the stored result without re-running")
	rootCmd.AddCommand(modelCmd)
}
