// Package ingest orchestrates the billing pipeline: parse an uploaded
// artifact, normalize the line items, persist everything, and build the
// cost summary for the caller.
package ingest

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
	"github.com/satoshitrading/oci-calculator-backend/internal/normalize"
	"github.com/satoshitrading/oci-calculator-backend/internal/parser"
	"github.com/satoshitrading/oci-calculator-backend/internal/store"
	"github.com/satoshitrading/oci-calculator-backend/internal/summary"
)

// failureReason is the user-facing message recorded on a failed upload.
// Extraction internals (backend names, OCR exit codes, API errors) stay
// in the logs and never reach the upload record.
const failureReason = "file could not be processed"

// Result is the outcome of one successful ingestion.
type Result struct {
	Upload  *model.Upload
	Records []model.BillingRecord
	Summary model.CostSummary
}

// Service runs the ingest pipeline against one store and one parser
// factory.
type Service struct {
	store   store.Store
	factory *parser.Factory
}

// NewService wires an ingest service.
func NewService(st store.Store, factory *parser.Factory) *Service {
	return &Service{store: st, factory: factory}
}

// IngestFile parses the artifact, normalizes and persists the rows, and
// returns the cost summary. Empty, unrecognized, or item-less input is
// rejected up front with no upload recorded; an artifact that passes
// detection but cannot be extracted is persisted as a failed upload
// with a sanitized reason, and the original error goes to the caller.
func (s *Service) IngestFile(ctx context.Context, fileName, mime string, data []byte, backend parser.PDFBackend) (*Result, error) {
	if len(data) == 0 {
		return nil, eris.Errorf("ingest: %s is empty", fileName)
	}
	if _, err := parser.DetectFileType(data, fileName, mime); err != nil {
		return nil, eris.Wrapf(err, "ingest: reject %s", fileName)
	}

	parsed, err := s.factory.Parse(ctx, data, fileName, mime, backend)
	if err != nil {
		s.recordFailure(ctx, fileName, err)
		return nil, eris.Wrapf(err, "ingest: parse %s", fileName)
	}
	if len(parsed.Items) == 0 {
		return nil, eris.Errorf("ingest: no billing line items found in %s", fileName)
	}

	up, err := s.store.CreateUpload(ctx, fileName, model.ProviderUnknown)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: create upload")
	}

	records := normalize.NormalizeAll(parsed.Items, parsed.Provider)

	if err := s.store.InsertLineItems(ctx, up.ID, parsed.Items); err != nil {
		s.fail(ctx, up.ID, err)
		return nil, eris.Wrap(err, "ingest: persist line items")
	}
	if err := s.store.InsertBillingRecords(ctx, up.ID, records); err != nil {
		s.fail(ctx, up.ID, err)
		return nil, eris.Wrap(err, "ingest: persist billing records")
	}
	if err := s.store.CompleteUpload(ctx, up.ID, parsed.Provider, len(records)); err != nil {
		return nil, eris.Wrap(err, "ingest: complete upload")
	}

	up.Status = model.UploadCompleted
	up.Provider = parsed.Provider
	up.ItemCount = len(records)

	zap.L().Info("ingest: file processed",
		zap.String("upload_id", up.ID),
		zap.String("file", fileName),
		zap.String("type", string(parsed.Type)),
		zap.String("provider", string(parsed.Provider)),
		zap.Int("records", len(records)),
	)

	return &Result{
		Upload:  up,
		Records: records,
		Summary: summary.Build(records, parsed.InvoiceTax),
	}, nil
}

// Summarize rebuilds the cost summary for a completed upload from its
// persisted billing records. Invoice-level tax is only known at parse
// time, so replayed summaries report line-item tax only.
func (s *Service) Summarize(ctx context.Context, uploadID string) (*model.CostSummary, error) {
	if _, err := s.store.GetUpload(ctx, uploadID); err != nil {
		return nil, err
	}
	records, err := s.store.FindBillingRecords(ctx, uploadID)
	if err != nil {
		return nil, err
	}
	sum := summary.Build(records, nil)
	return &sum, nil
}

// recordFailure persists a failed upload for an artifact that passed
// detection but could not be extracted.
func (s *Service) recordFailure(ctx context.Context, fileName string, cause error) {
	up, err := s.store.CreateUpload(ctx, fileName, model.ProviderUnknown)
	if err != nil {
		zap.L().Error("ingest: record failed upload",
			zap.String("file", fileName), zap.Error(err))
		return
	}
	s.fail(ctx, up.ID, cause)
}

func (s *Service) fail(ctx context.Context, uploadID string, cause error) {
	if err := s.store.FailUpload(ctx, uploadID, failureReason); err != nil {
		zap.L().Error("ingest: mark upload failed",
			zap.String("upload_id", uploadID), zap.Error(err))
	}
	zap.L().Warn("ingest: upload failed",
		zap.String("upload_id", uploadID), zap.Error(cause))
}
