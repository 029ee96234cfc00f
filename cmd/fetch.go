package main

import (
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/objstore"
	"github.com/satoshitrading/oci-calculator-backend/internal/parser"
)

var (
	fetchBucket string
	fetchPrefix string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Pull the newest billing export from object storage and ingest it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if fetchBucket != "" {
			cfg.ObjStore.Bucket = fetchBucket
		}
		if fetchPrefix != "" {
			cfg.ObjStore.Prefix = fetchPrefix
		}
		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		bucket, err := objstore.NewBucket(ctx, cfg.ObjStore.Bucket, cfg.ObjStore.Region)
		if err != nil {
			return err
		}

		key, data, err := bucket.Latest(ctx, cfg.ObjStore.Prefix)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		res, err := initIngest(st).IngestFile(ctx, filepath.Base(key), "", data, parser.BackendAuto)
		if err != nil {
			return err
		}

		zap.L().Info("fetch complete",
			zap.String("key", key),
			zap.String("upload_id", res.Upload.ID),
			zap.Int("records", res.Upload.ItemCount),
		)
		return printJSON(cmd.OutOrStdout(), struct {
			Key      string `json:"key"`
			UploadID string `json:"upload_id"`
			Summary  any    `json:"summary"`
		}{key, res.Upload.ID, res.Summary})
	},
}

func init() {
	fetchCmd.Flags().StringVar(&fetchBucket, "bucket", "", "S3 bucket (overrides config)")
	fetchCmd.Flags().StringVar(&fetchPrefix, "prefix", "", "key prefix (overrides config)")
	rootCmd.AddCommand(fetchCmd)
}
