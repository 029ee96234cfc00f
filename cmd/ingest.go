package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/parser"
)

var (
	ingestMime    string
	ingestBackend string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file>",
	Short: "Parse a billing export and persist its normalized records",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("ingest"); err != nil {
			return err
		}

		backend, err := parser.ParsePDFBackend(ingestBackend)
		if err != nil {
			return err
		}

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return eris.Wrapf(err, "read %s", path)
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := initIngest(st).IngestFile(ctx, filepath.Base(path), ingestMime, data, backend)
		if err != nil {
			return err
		}

		zap.L().Info("ingest complete",
			zap.String("upload_id", res.Upload.ID),
			zap.Int("records", res.Upload.ItemCount),
		)
		return printJSON(cmd.OutOrStdout(), struct {
			UploadID string `json:"upload_id"`
			Summary  any    `json:"summary"`
		}{res.Upload.ID, res.Summary})
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestMime, "mime", "", "MIME type hint for file detection")
	ingestCmd.Flags().StringVar(&ingestBackend, "pdf-backend", string(parser.BackendAuto), "PDF extraction backend: auto, genai, document, text")
	rootCmd.AddCommand(ingestCmd)
}
