package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/satoshitrading/oci-calculator-backend/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS uploads (
	id             TEXT PRIMARY KEY,
	file_name      TEXT NOT NULL,
	provider       TEXT NOT NULL,
	status         TEXT NOT NULL DEFAULT 'processing',
	failure_reason TEXT,
	item_count     INTEGER NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS line_items (
	id        TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL REFERENCES uploads(id),
	seq       INTEGER NOT NULL,
	item      TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS billing_records (
	id        TEXT PRIMARY KEY,
	upload_id TEXT NOT NULL REFERENCES uploads(id),
	seq       INTEGER NOT NULL,
	record    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS model_rows (
	id              TEXT PRIMARY KEY,
	upload_id       TEXT NOT NULL REFERENCES uploads(id),
	product_name    TEXT,
	category        TEXT NOT NULL,
	region          TEXT,
	source_cost     REAL NOT NULL,
	target_part     TEXT,
	target_quantity REAL,
	estimated_cost  REAL NOT NULL,
	savings         REAL NOT NULL,
	savings_percent REAL NOT NULL,
	method          TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);
CREATE INDEX IF NOT EXISTS idx_line_items_upload ON line_items(upload_id, seq);
CREATE INDEX IF NOT EXISTS idx_billing_records_upload ON billing_records(upload_id, seq);
CREATE INDEX IF NOT EXISTS idx_model_rows_upload ON model_rows(upload_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateUpload(ctx context.Context, fileName string, provider model.Provider) (*model.Upload, error) {
	up := model.Upload{
		ID:        uuid.New().String(),
		FileName:  fileName,
		Provider:  provider,
		Status:    model.UploadProcessing,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (id, file_name, provider, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		up.ID, up.FileName, string(up.Provider), string(up.Status), up.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert upload")
	}
	return &up, nil
}

func (s *SQLiteStore) CompleteUpload(ctx context.Context, uploadID string, provider model.Provider, itemCount int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE uploads SET status = ?, provider = ?, item_count = ? WHERE id = ?`,
		string(model.UploadCompleted), string(provider), itemCount, uploadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: complete upload %s", uploadID)
	}
	return checkRowsAffected(res, "upload", uploadID)
}

func (s *SQLiteStore) FailUpload(ctx context.Context, uploadID, reason string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE uploads SET status = ?, failure_reason = ? WHERE id = ?`,
		string(model.UploadFailed), reason, uploadID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: fail upload %s", uploadID)
	}
	return checkRowsAffected(res, "upload", uploadID)
}

func (s *SQLiteStore) GetUpload(ctx context.Context, uploadID string) (*model.Upload, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, file_name, provider, status, failure_reason, item_count, created_at
		 FROM uploads WHERE id = ?`, uploadID)

	up, err := scanUpload(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get upload %s", uploadID)
	}
	return up, nil
}

func (s *SQLiteStore) ListUploads(ctx context.Context, limit, offset int) ([]model.Upload, int, error) {
	if limit <= 0 {
		limit = 50
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM uploads`).Scan(&total); err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: count uploads")
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, file_name, provider, status, failure_reason, item_count, created_at
		 FROM uploads ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, eris.Wrap(err, "sqlite: list uploads")
	}
	defer rows.Close()

	var uploads []model.Upload
	for rows.Next() {
		up, err := scanUpload(rows.Scan)
		if err != nil {
			return nil, 0, eris.Wrap(err, "sqlite: scan upload")
		}
		uploads = append(uploads, *up)
	}
	return uploads, total, eris.Wrap(rows.Err(), "sqlite: iterate uploads")
}

func (s *SQLiteStore) InsertLineItems(ctx context.Context, uploadID string, items []model.LineItem) error {
	return s.insertJSON(ctx, "line_items", "item", uploadID, len(items), func(i int) (any, error) {
		return json.Marshal(items[i])
	})
}

func (s *SQLiteStore) FindLineItems(ctx context.Context, uploadID string) ([]model.LineItem, error) {
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

func (s *SQLiteStore) InsertBillingRecords(ctx context.Context, uploadID string, records []model.BillingRecord) error {
	return s.insertJSON(ctx, "billing_records", "record", uploadID, len(records), func(i int) (any, error) {
		return json.Marshal(records[i])
	})
}

func (s *SQLiteStore) FindBillingRecords(ctx context.Context, uploadID string) ([]model.BillingRecord, error) {
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

// insertJSON writes a batch of JSON payloads in one transaction,
// preserving source order through the seq column.
func (s *SQLiteStore) insertJSON(ctx context.Context, table, column, uploadID string, n int, marshal func(int) (any, error)) error {
	if n == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrapf(err, "sqlite: begin insert into %s", table)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO `+table+` (id, upload_id, seq, `+column+`) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrapf(err, "sqlite: prepare insert into %s", table)
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		payload, err := marshal(i)
		if err != nil {
			return eris.Wrapf(err, "sqlite: marshal row for %s", table)
		}
		if _, err := stmt.ExecContext(ctx, uuid.New().String(), uploadID, i, payload); err != nil {
			return eris.Wrapf(err, "sqlite: insert into %s", table)
		}
	}
	return eris.Wrapf(tx.Commit(), "sqlite: commit insert into %s", table)
}

func (s *SQLiteStore) findJSON(ctx context.Context, table, column, uploadID string, scan func([]byte) error) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+` FROM `+table+` WHERE upload_id = ? ORDER BY seq`, uploadID)
	if err != nil {
		return eris.Wrapf(err, "sqlite: query %s", table)
	}
	defer rows.Close()

	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return eris.Wrapf(err, "sqlite: scan %s", table)
		}
		if err := scan(data); err != nil {
			return eris.Wrapf(err, "sqlite: decode %s row", table)
		}
	}
	return eris.Wrapf(rows.Err(), "sqlite: iterate %s", table)
}

func (s *SQLiteStore) DeleteModelRows(ctx context.Context, uploadID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM model_rows WHERE upload_id = ?`, uploadID)
	return eris.Wrapf(err, "sqlite: delete model rows for %s", uploadID)
}

func (s *SQLiteStore) InsertModelRows(ctx context.Context, modelRows []model.LiftShiftRow) error {
	if len(modelRows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin insert model rows")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO model_rows
		 (id, upload_id, product_name, category, region, source_cost, target_part,
		  target_quantity, estimated_cost, savings, savings_percent, method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "sqlite: prepare insert model rows")
	}
	defer stmt.Close()

	for _, r := range modelRows {
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.UploadID, r.ProductName, string(r.Category), r.Region,
			r.SourceCost, r.TargetPart, r.TargetQuantity,
			r.EstimatedCost, r.Savings, r.SavingsPercent, string(r.Method),
		); err != nil {
			return eris.Wrap(err, "sqlite: insert model row")
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit insert model rows")
}

func (s *SQLiteStore) FindModelRows(ctx context.Context, uploadID string) ([]model.LiftShiftRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, upload_id, product_name, category, region, source_cost, target_part,
		        target_quantity, estimated_cost, savings, savings_percent, method
		 FROM model_rows WHERE upload_id = ?`, uploadID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: query model rows for %s", uploadID)
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
			return nil, eris.Wrap(err, "sqlite: scan model row")
		}
		r.ProductName = deref(productName)
		r.Region = deref(region)
		r.TargetPart = deref(targetPart)
		r.Category = model.ServiceCategory(category)
		r.Method = model.EstimateMethod(method)
		out = append(out, r)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: iterate model rows")
}

type scanFunc func(dest ...any) error

func scanUpload(scan scanFunc) (*model.Upload, error) {
	var up model.Upload
	var provider, status string
	var failureReason *string
	if err := scan(&up.ID, &up.FileName, &provider, &status, &failureReason, &up.ItemCount, &up.CreatedAt); err != nil {
		return nil, err
	}
	up.Provider = model.Provider(provider)
	up.Status = model.UploadStatus(status)
	up.FailureReason = deref(failureReason)
	return &up, nil
}

func checkRowsAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", entity, id)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
