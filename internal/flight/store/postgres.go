package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gopass/internal/flight/models"
	id "gopass/pkg/domain"
	"gopass/pkg/platform/sentinel"
)

// Postgres persists flights in the flights table.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const flightColumns = `id, number, airline, departure_airport, arrival_airport, departure_time, status`

func (s *Postgres) Create(ctx context.Context, flight *models.Flight) error {
	query := `
		INSERT INTO flights (` + flightColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(flight.ID),
		flight.Number,
		flight.Airline,
		flight.DepartureAirport,
		flight.ArrivalAirport,
		flight.DepartureTime,
		string(flight.Status),
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert flight: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, flightID id.FlightID) (*models.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1`
	return scanFlight(s.db.QueryRowContext(ctx, query, uuid.UUID(flightID)))
}

func (s *Postgres) Execute(ctx context.Context, flightID id.FlightID,
	validate func(*models.Flight) error,
	mutate func(*models.Flight)) (*models.Flight, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin flight tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `SELECT ` + flightColumns + ` FROM flights WHERE id = $1 FOR UPDATE`
	flight, err := scanFlight(tx.QueryRowContext(ctx, query, uuid.UUID(flightID)))
	if err != nil {
		return nil, err
	}

	if err := validate(flight); err != nil {
		return nil, err
	}
	mutate(flight)

	_, err = tx.ExecContext(ctx, `UPDATE flights SET status = $1 WHERE id = $2`,
		string(flight.Status), uuid.UUID(flightID))
	if err != nil {
		return nil, fmt.Errorf("update flight: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit flight tx: %w", err)
	}
	return flight, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFlight(row rowScanner) (*models.Flight, error) {
	var (
		flight   models.Flight
		flightID uuid.UUID
		status   string
	)
	err := row.Scan(
		&flightID,
		&flight.Number,
		&flight.Airline,
		&flight.DepartureAirport,
		&flight.ArrivalAirport,
		&flight.DepartureTime,
		&status,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan flight: %w", err)
	}
	flight.ID = id.FlightID(flightID)
	flight.Status = models.Status(status)
	return &flight, nil
}
