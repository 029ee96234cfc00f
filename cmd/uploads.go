package main

import (
	"github.com/spf13/cobra"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

var (
	uploadsLimit  int
	uploadsOffset int
)

var uploadsCmd = &cobra.Command{
	Use:   "uploads",
	Short: "List ingested billing files, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		page, total, err := st.ListUploads(ctx, uploadsLimit, uploadsOffset)
		if err != nil {
			return err
		}

		return printJSON(cmd.OutOrStdout(), struct {
			Total   int            `json:"total"`
			Offset  int            `json:"offset"`
			Uploads []model.Upload `json:"uploads"`
		}{total, uploadsOffset, page})
	},
}

func init() {
	uploadsCmd.Flags().IntVar(&uploadsLimit, "limit", 20, "page size")
	uploadsCmd.Flags().IntVar(&uploadsOffset, "offset", 0, "page offset")
	rootCmd.AddCommand(uploadsCmd)
}
