package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

func newMockStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresFromPool(mock), mock
}

func TestPostgresCreateUpload(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("INSERT INTO uploads").
		WithArgs(pgxmock.AnyArg(), "cur.csv", "aws", "processing", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	up, err := st.CreateUpload(context.Background(), "cur.csv", model.ProviderAWS)
	require.NoError(t, err)
	assert.NotEmpty(t, up.ID)
	assert.Equal(t, model.UploadProcessing, up.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCompleteUploadNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE uploads SET status").
		WithArgs("completed", "aws", 10, "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := st.CompleteUpload(context.Background(), "missing", model.ProviderAWS, 10)
	assert.True(t, eris.Is(err, ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetUpload(t *testing.T) {
	st, mock := newMockStore(t)

	created := time.Now().UTC()
	reason := "file could not be processed"
	mock.ExpectQuery("SELECT id, file_name, provider, status").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "file_name", "provider", "status", "failure_reason", "item_count", "created_at"},
		).AddRow("u1", "fatura.pdf", "azure", "failed", &reason, 0, created))

	up, err := st.GetUpload(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderAzure, up.Provider)
	assert.Equal(t, model.UploadFailed, up.Status)
	assert.Equal(t, reason, up.FailureReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetUploadNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, file_name, provider, status").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := st.GetUpload(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestPostgresListUploads(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("SELECT id, file_name, provider, status").
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "file_name", "provider", "status", "failure_reason", "item_count", "created_at"},
		).
			AddRow("u1", "a.csv", "aws", "completed", (*string)(nil), 3, time.Now().UTC()).
			AddRow("u2", "b.xlsx", "gcp", "processing", (*string)(nil), 0, time.Now().UTC()))

	uploads, total, err := st.ListUploads(context.Background(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, uploads, 2)
	assert.Equal(t, 3, uploads[0].ItemCount)
	assert.Empty(t, uploads[1].FailureReason)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInsertLineItemsUsesCopy(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectCopyFrom(pgx.Identifier{"line_items"}, []string{"id", "upload_id", "seq", "item"}).
		WillReturnResult(2)

	items := []model.LineItem{{ProductName: "EC2"}, {ProductName: "S3"}}
	require.NoError(t, st.InsertLineItems(context.Background(), "u1", items))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresModelRowsDeleteThenInsert(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM model_rows").
		WithArgs("u1").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))
	mock.ExpectCopyFrom(pgx.Identifier{"model_rows"}, []string{
		"id", "upload_id", "product_name", "category", "region", "source_cost",
		"target_part", "target_quantity", "estimated_cost", "savings",
		"savings_percent", "method",
	}).WillReturnResult(1)

	ctx := context.Background()
	require.NoError(t, st.DeleteModelRows(ctx, "u1"))
	require.NoError(t, st.InsertModelRows(ctx, []model.LiftShiftRow{{
		ID: "r1", UploadID: "u1", Category: model.CategoryCompute,
		SourceCost: 100, EstimatedCost: 30, Savings: 70, SavingsPercent: 70,
		Method: model.EstimateQuantity,
	}}))
	require.NoError(t, mock.ExpectationsWereMet())
}
