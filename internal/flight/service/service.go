package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"gopass/internal/flight/models"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/platform/sentinel"
)

// Store is the persistence the flight service needs.
type Store interface {
	Create(ctx context.Context, flight *models.Flight) error
	FindByID(ctx context.Context, flightID id.FlightID) (*models.Flight, error)
	Execute(ctx context.Context, flightID id.FlightID,
		validate func(*models.Flight) error,
		mutate func(*models.Flight)) (*models.Flight, error)
}

// Service exposes flight lookup to the issuance and check-in paths, plus the
// administrative close operation gate supervisors use at end of boarding.
type Service struct {
	flights Store
	logger  *slog.Logger
}

func New(flights Store, logger *slog.Logger) (*Service, error) {
	if flights == nil {
		return nil, errors.New("flight store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{flights: flights, logger: logger}, nil
}

// CreateRequest carries the fields for manual flight entry. Schedule import
// sits outside this service.
type CreateRequest struct {
	Number           string
	Airline          string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
}

// Create registers a new flight record.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Flight, error) {
	flight, err := models.NewFlight(id.FlightID(uuid.New()), req.Number, req.Airline, req.DepartureAirport, req.ArrivalAirport, req.DepartureTime)
	if err != nil {
		return nil, err
	}
	if err := s.flights.Create(ctx, flight); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "flight already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create flight")
	}
	return flight, nil
}

// GetByID resolves a flight. Unknown IDs surface as coded not_found.
func (s *Service) GetByID(ctx context.Context, flightID id.FlightID) (*models.Flight, error) {
	flight, err := s.flights.FindByID(ctx, flightID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "flight not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load flight")
	}
	return flight, nil
}

// Close transitions a flight to closed. After this, every scan against the
// flight short-circuits to FLIGHT_CLOSED.
func (s *Service) Close(ctx context.Context, flightID id.FlightID) (*models.Flight, error) {
	flight, err := s.flights.Execute(ctx, flightID,
		func(f *models.Flight) error {
			if err := f.CanClose(); err != nil {
				return dErrors.New(dErrors.CodeConflict, "flight is already closed")
			}
			return nil
		},
		func(f *models.Flight) {
			f.ApplyClose()
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "flight not found")
		}
		return nil, err
	}

	s.logger.InfoContext(ctx, "flight closed", "flight_id", flightID.String(), "number", flight.Number)
	return flight, nil
}
