package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS imei_verification_results (
		id UUID PRIMARY KEY,
		imei TEXT NOT NULL,
		status TEXT NOT NULL,
		details JSONB,
		error_message TEXT,
		verification_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_imei_verification_results_imei
		ON imei_verification_results (imei, verification_date DESC)`,
	`CREATE TABLE IF NOT EXISTS error_logs (
		id UUID PRIMARY KEY,
		run_id TEXT NOT NULL,
		imei TEXT,
		step TEXT NOT NULL,
		error_message TEXT NOT NULL,
		context JSONB,
		retry_count INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_error_logs_step ON error_logs (step)`,
}

// PostgresStore persists verdicts in imei_verification_results and faults in
// error_logs.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates both tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, v models.Verdict) (models.Record, error) {
	rec, err := models.RecordFromVerdict(v)
	if err != nil {
		return models.Record{}, fmt.Errorf("save verdict: %w", err)
	}
	rec.ID = uuid.NewString()

	details, err := marshalNullable(rec.Details)
	if err != nil {
		return models.Record{}, fmt.Errorf("marshal details: %w", err)
	}
	var errMsg sql.NullString
	if rec.ErrorMessage != nil {
		errMsg = sql.NullString{String: *rec.ErrorMessage, Valid: true}
	}

	query := `
		INSERT INTO imei_verification_results (id, imei, status, details, error_message, verification_date)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.ID, rec.IMEI, string(rec.Status), details, errMsg, v.VerifiedAt.UTC(),
	)
	if err != nil {
		return models.Record{}, fmt.Errorf("insert verdict: %w", err)
	}
	return rec, nil
}

// History returns the newest records first. A zero id matches every IMEI.
func (s *PostgresStore) History(ctx context.Context, id imei.IMEI, limit int) ([]models.Record, error) {
	query := `
		SELECT id, imei, status, details, error_message, verification_date
		FROM imei_verification_results
		WHERE ($1 = '' OR imei = $1)
		ORDER BY verification_date DESC
		LIMIT $2
	`
	rows, err := s.db.QueryContext(ctx, query, id.String(), NormalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []models.Record
	for rows.Next() {
		var (
			rec     models.Record
			status  string
			details []byte
			errMsg  sql.NullString
			at      time.Time
		)
		if err := rows.Scan(&rec.ID, &rec.IMEI, &status, &details, &errMsg, &at); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Status = models.Status(status)
		rec.VerificationDate = at.UTC().Format(models.TimestampLayout)
		if errMsg.Valid {
			msg := errMsg.String
			rec.ErrorMessage = &msg
		}
		if len(details) > 0 {
			var d models.Details
			if err := json.Unmarshal(details, &d); err != nil {
				return nil, fmt.Errorf("decode details for %s: %w", rec.ID, err)
			}
			rec.Details = &d
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) AppendFault(ctx context.Context, f models.Fault) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	faultCtx, err := marshalNullable(f.Context)
	if err != nil {
		return fmt.Errorf("marshal fault context: %w", err)
	}
	var id sql.NullString
	if f.IMEI != "" {
		id = sql.NullString{String: f.IMEI, Valid: true}
	}
	createdAt := f.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO error_logs (id, run_id, imei, step, error_message, context, retry_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		f.ID, f.RunID, id, f.Step, f.ErrorMessage, faultCtx, f.RetryCount, createdAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert fault: %w", err)
	}
	return nil
}

// Faults lists the fault rows of one run, oldest first.
func (s *PostgresStore) Faults(ctx context.Context, runID string) ([]models.Fault, error) {
	query := `
		SELECT id, run_id, COALESCE(imei, ''), step, error_message, context, retry_count, created_at
		FROM error_logs
		WHERE run_id = $1
		ORDER BY created_at ASC, retry_count ASC
	`
	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("query faults: %w", err)
	}
	defer rows.Close()

	var faults []models.Fault
	for rows.Next() {
		var (
			f      models.Fault
			rawCtx []byte
		)
		if err := rows.Scan(&f.ID, &f.RunID, &f.IMEI, &f.Step, &f.ErrorMessage, &rawCtx, &f.RetryCount, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fault row: %w", err)
		}
		if len(rawCtx) > 0 {
			if err := json.Unmarshal(rawCtx, &f.Context); err != nil {
				return nil, fmt.Errorf("decode fault context: %w", err)
			}
		}
		faults = append(faults, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate faults: %w", err)
	}
	return faults, nil
}

// marshalNullable encodes v as JSON, mapping nil pointers and empty maps to
// SQL NULL.
func marshalNullable(v any) (any, error) {
	switch t := v.(type) {
	case *models.Details:
		if t == nil {
			return nil, nil
		}
	case map[string]any:
		if len(t) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return b, nil
}
