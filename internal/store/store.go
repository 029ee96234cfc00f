// Package store persists uploads, parsed line items, normalized billing
// records, and modeling output. Two implementations exist: SQLite for
// single-machine use and Postgres for shared deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for the ingestion and
// modeling pipeline.
type Store interface {
	// Uploads
	CreateUpload(ctx context.Context, fileName string, provider model.Provider) (*model.Upload, error)
	// CompleteUpload marks an upload done, recording the provider the
	// parser detected and the number of normalized records.
	CompleteUpload(ctx context.Context, uploadID string, provider model.Provider, itemCount int) error
	FailUpload(ctx context.Context, uploadID, reason string) error
	GetUpload(ctx context.Context, uploadID string) (*model.Upload, error)
	// ListUploads returns one page of uploads, newest first, plus the
	// total upload count for pagination.
	ListUploads(ctx context.Context, limit, offset int) ([]model.Upload, int, error)

	// Parsed line items, in source order.
	InsertLineItems(ctx context.Context, uploadID string, items []model.LineItem) error
	FindLineItems(ctx context.Context, uploadID string) ([]model.LineItem, error)

	// Normalized billing records, in source order.
	InsertBillingRecords(ctx context.Context, uploadID string, records []model.BillingRecord) error
	FindBillingRecords(ctx context.Context, uploadID string) ([]model.BillingRecord, error)

	// Modeling rows. A re-run deletes and regenerates the batch.
	DeleteModelRows(ctx context.Context, uploadID string) error
	InsertModelRows(ctx context.Context, rows []model.LiftShiftRow) error
	FindModelRows(ctx context.Context, uploadID string) ([]model.LiftShiftRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
