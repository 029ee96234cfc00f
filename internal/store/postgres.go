package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/satoshitrading/oci-calculator-backend/internal/db"
	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresFromPool wires an existing pool, mainly for tests.
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS uploads (
	id             TEXT PRIMARY KEY,
	file_name      TEXT NOT NULL,
	provider       TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'processing',
	failure_reason TEXT,
	item_count     INTEGER NOT NULL DEFAULT 0,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS line_items (
	id        TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL REFERENCES uploads(id),
	seq       INTEGER NOT NULL,
	item      JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS billing_records (
	id        TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL REFERENCES uploads(id),
	seq       INTEGER NOT NULL,
	record    JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS model_rows (
	id              TEXT PRIMARY KEY,
	upload_id       TEXT NOT NULL REFERENCES uploads(id),
	product_name    TEXT,
	category        TEXT NOT NULL,
	region          TEXT,
	source_cost     DOUBLE PRECISION NOT NULL,
	target_part     TEXT,
	target_quantity DOUBLE PRECISION,
	estimated_cost  DOUBLE PRECISION NOT NULL,
	savings         DOUBLE PRECISION NOT NULL,
	savings_percent DOUBLE PRECISION NOT NULL,
	method          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_line_items_upload ON line_items(upload_id, seq);
CREATE INDEX IF NOT EXISTS idx_billing_records_upload ON billing_records(upload_id, seq);
CREATE INDEX IF NOT EXISTS idx_model_rows_upload ON model_rows(upload_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateUpload(ctx context.Context, fileName string, provider model.Provider) (*model.Upload, error) {
	up := model.Upload{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Provider:  provider,
		Status:    model.UploadProcessing,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO uploads (id, file_name, provider, status, created_at) VALUES ($1, $2, $3, $4, $5)`,
		up.ID, up.FileName, string(up.Provider), string(up.Status), up.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert upload")
	}
	return &up, nil
}

func (s *PostgresStore) CompleteUpload(ctx context.Context, uploadID string, provider model.Provider, itemCount int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE uploads SET status = $1, provider = $2, item_count = $3 WHERE id = $4`,
		string(model.UploadCompleted), string(provider), itemCount, uploadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete upload %s", uploadID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) FailUpload(ctx context.Context, uploadID, reason string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE uploads SET status = $1, failure_reason = $2 WHERE id = $3`,
		string(model.UploadFailed), reason, uploadID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: fail upload %s", uploadID)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, file_name, provider, status, failure_reason, item_count, created_at
		 FROM uploads WHERE id = $1`, uploadID)

	up, err := scanUpload(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get upload %s", uploadID)
	}
	return up, nil
}

func (s *PostgresStore) ListUploads(ctx context.Context, limit, offset int) ([]model.Upload, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "postgres: count uploads")
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, file_name, provider, status, failure_reason, item_count, created_at
		 FROM uploads ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, eris.Wrap(err, "postgres: list uploads")
	}
	defer rows.Close()

	var uploads []model.Upload
	for rows.Next() {
		up, err := scanUpload(rows.Scan)
		if err != nil {
			return nil, 0, eris.Wrap(err, "postgres: scan upload")
		}
		uploads = append(uploads, *up)
	}
	return uploads, total, eris.Wrap(rows.Err(), "postgres: iterate uploads")
}

func (s *PostgresStore) InsertLineItems(ctx context.Context, uploadID string, items []model.LineItem) error {
	rows := make([][]any, 0, len(items))
	for i, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal line item")
		}
		rows = append(rows, []any{uuid.New().String(), uploadID, i, payload})
	}

	_, err := db.CopyFrom(ctx, s.pool, "line_items", []string{"id", "upload_id", "seq", "item"}, rows)
	return err
}

func (s *PostgresStore) FindLineItems(ctx context.Context, uploadID string) ([]model.LineItem, error) {
	var items []model.LineItem
	err := s.findJSON(ctx, "line_items", "item", uploadID, func(data []byte) error {
		var item model.LineItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	return items, err
}

func (s *PostgresStore) InsertBillingRecords(ctx context.Context, uploadID string, records []model.BillingRecord) error {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal billing record")
		}
		rows = append(rows, []any{uuid.New().String(), uploadID, i, payload})
	}

	_, err := db.CopyFrom(ctx, s.pool, "billing_records", []string{"id", "upload_id", "seq", "record"}, rows)
	return err
}

func (s *PostgresStore) FindBillingRecords(ctx context.Context, uploadID string) ([]model.BillingRecord, error) {
	var records []model.BillingRecord
	err := s.findJSON(ctx, "billing_records", "record", uploadID, func(data []byte) error {
		var rec model.BillingRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		records = append(records, rec)
		return nil
	})
	return records, err
}

func (s *PostgresStore) findJSON(ctx context.Context, table, column, uploadID string, scan func([]byte) error) error {
	rows, err := s.pool.Query(ctx,
		`SELECT `+column+` FROM `+table+` WHERE upload_id = $1 ORDER BY seq`, uploadID)
	if err != nil {
		return eris.Wrapf(err, "postgres: query %s", table)
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return eris.Wrapf(err, "postgres: scan %s", table)
		}
		if err := scan(data); err != nil {
			return eris.Wrapf(err, "postgres: decode %s row", table)
		}
	}
	return eris.Wrapf(rows.Err(), "postgres: iterate %s", table)
}

func (s *PostgresStore) DeleteModelRows(ctx context.Context, uploadID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM model_rows WHERE upload_id = $1`, uploadID)
	return eris.Wrapf(err, "postgres: delete model rows for %s", uploadID)
}

func (s *PostgresStore) InsertModelRows(ctx context.Context, modelRows []model.LiftShiftRow) error {
	rows := make([][]any, 0, len(modelRows))
	for _, r := range modelRows {
		rows = append(rows, []any{
			r.ID, r.UploadID, r.ProductName, string(r.Category), r.Region,
			r.SourceCost, r.TargetPart, r.TargetQuantity,
			r.EstimatedCost, r.Savings, r.SavingsPercent, string(r.Method),
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, "model_rows", []string{
		"id", "upload_id", "product_name", "category", "region", "source_cost",
		"target_part", "target_quantity", "estimated_cost", "savings",
		"savings_percent", "method",
	}, rows)
	return err
}

func (s *PostgresStore) FindModelRows(ctx context.Context, uploadID string) ([]model.LiftShiftRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, upload_id, product_name, category, region, source_cost, target_part,
		        target_quantity, estimated_cost, savings, savings_percent, method
		 FROM model_rows WHERE upload_id = $1`, uploadID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: query model rows for %s", uploadID)
	}
	defer rows.Close()

	var out []model.LiftShiftRow
	for rows.Next() {
		var r model.LiftShiftRow
		var category, method string
		var productName, region, targetPart *string
		if err := rows.Scan(
			&r.ID, &r.UploadID, &productName, &category, &region, &r.SourceCost,
			&targetPart, &r.TargetQuantity, &r.EstimatedCost, &r.Savings,
			&r.SavingsPercent, &method,
		); err != nil {
			return nil, eris.Wrap(err, "postgres: scan model row")
		}
		r.ProductName = deref(productName)
		r.Region = deref(region)
		r.TargetPart = deref(targetPart)
		r.Category = model.ServiceCategory(category)
		r.Method = model.EstimateMethod(method)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "postgres: iterate model rows")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
