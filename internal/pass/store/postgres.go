package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gopass/internal/pass/models"
	id "gopass/pkg/domain"
	"gopass/pkg/platform/sentinel"
	txcontext "gopass/pkg/platform/tx"
)

// Postgres persists passes in the passes table. Execute locks the pass row
// with SELECT ... FOR UPDATE and exposes the transaction through context so
// the audit ledger joins the same atomic unit.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const passColumns = `id, token, flight_id, passenger_name, passenger_document, status, issued_at, scanned_by, scan_time, scan_location`

func (s *Postgres) Create(ctx context.Context, pass *models.Pass) error {
	query := `
		INSERT INTO passes (id, token, flight_id, passenger_name, passenger_document, status, issued_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(pass.ID),
		pass.Token,
		uuid.UUID(pass.FlightID),
		pass.PassengerName,
		pass.PassengerDocument,
		string(pass.Status),
		pass.IssuedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert pass: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, passID id.PassID) (*models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE id = $1`
	return scanPass(s.db.QueryRowContext(ctx, query, uuid.UUID(passID)))
}

func (s *Postgres) FindByToken(ctx context.Context, token string) (*models.Pass, error) {
	query := `SELECT ` + passColumns + ` FROM passes WHERE token = $1`
	return scanPass(s.db.QueryRowContext(ctx, query, token))
}

func (s *Postgres) Execute(ctx context.Context, token string,
	fn func(txCtx context.Context, pass *models.Pass) (bool, error)) (*models.Pass, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin pass tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + passColumns + ` FROM passes WHERE token = $1 FOR UPDATE`
	pass, err := scanPass(tx.QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, err
	}

	mutate, err := fn(txcontext.WithTx(ctx, tx), pass)
	if err != nil {
		return nil, err
	}

	if mutate {
		var (
			scannedBy    any
			scanTime     any
			scanLocation any
		)
		if pass.Scan != nil {
			scannedBy = uuid.UUID(pass.Scan.ScannedBy)
			scanTime = pass.Scan.ScanTime
			scanLocation = pass.Scan.Location
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE passes
			SET status = $1, scanned_by = $2, scan_time = $3, scan_location = $4
			WHERE id = $5
		`, string(pass.Status), scannedBy, scanTime, scanLocation, uuid.UUID(pass.ID))
		if err != nil {
			return nil, fmt.Errorf("update pass: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit pass tx: %w", err)
	}
	return pass, nil
}

func (s *Postgres) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM passes GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count passes: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan pass count: %w", err)
		}
		counts[models.Status(status)] = count
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPass(row rowScanner) (*models.Pass, error) {
	var (
		pass         models.Pass
		passID       uuid.UUID
		flightID     uuid.UUID
		status       string
		scannedBy    uuid.NullUUID
		scanTime     sql.NullTime
		scanLocation sql.NullString
	)
	err := row.Scan(
		&passID,
		&pass.Token,
		&flightID,
		&pass.PassengerName,
		&pass.PassengerDocument,
		&status,
		&pass.IssuedAt,
		&scannedBy,
		&scanTime,
		&scanLocation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan pass: %w", err)
	}
	pass.ID = id.PassID(passID)
	pass.FlightID = id.FlightID(flightID)
	pass.Status = models.Status(status)
	if scannedBy.Valid {
		pass.Scan = &models.ScanRecord{
			ScannedBy: id.OperatorID(scannedBy.UUID),
			ScanTime:  scanTime.Time.UTC(),
			Location:  scanLocation.String,
		}
	}
	return &pass, nil
}
