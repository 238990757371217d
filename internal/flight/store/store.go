package store

import (
	"context"

	"gopass/internal/flight/models"
	id "gopass/pkg/domain"
)

// Store persists flight records. FindByID must return
// sentinel.ErrNotFound for unknown flights; the engine depends on that being
// a distinct, non-fatal case.
type Store interface {
	Create(ctx context.Context, flight *models.Flight) error
	FindByID(ctx context.Context, flightID id.FlightID) (*models.Flight, error)

	// Execute runs validate then mutate while holding the flight's lock, and
	// persists the mutated record. Used for the close-flight transition.
	Execute(ctx context.Context, flightID id.FlightID,
		validate func(*models.Flight) error,
		mutate func(*models.Flight)) (*models.Flight, error)
}
