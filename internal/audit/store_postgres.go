package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "gopass/pkg/domain"
	txcontext "gopass/pkg/platform/tx"
)

// PostgresStore persists the ledger in the audit_records table. When the
// context carries a transaction (the check-in engine's consume path), the
// append joins it; otherwise it executes standalone.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, record Record) error {
	var passID any
	if record.PassID != nil {
		passID = uuid.UUID(*record.PassID)
	}
	query := `
		INSERT INTO audit_records (id, pass_id, operator_id, outcome, recorded_at, location)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(record.ID),
		passID,
		uuid.UUID(record.OperatorID),
		string(record.Outcome),
		record.Timestamp,
		record.Location,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	query := `
		SELECT id, pass_id, operator_id, outcome, recorded_at, location
		FROM audit_records
		ORDER BY recorded_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec        Record
			recID      uuid.UUID
			passID     uuid.NullUUID
			operatorID uuid.UUID
			outcome    string
		)
		if err := rows.Scan(&recID, &passID, &operatorID, &outcome, &rec.Timestamp, &rec.Location); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.ID = id.AuditRecordID(recID)
		rec.OperatorID = id.OperatorID(operatorID)
		rec.Outcome = Outcome(outcome)
		if passID.Valid {
			pid := id.PassID(passID.UUID)
			rec.PassID = &pid
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *PostgresStore) CountSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM audit_records WHERE recorded_at >= $1`, since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count audit records: %w", err)
	}
	return count, nil
}
