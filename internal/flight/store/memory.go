package store

import (
	"context"
	"sync"

	"gopass/internal/flight/models"
	id "gopass/pkg/domain"
	"gopass/pkg/platform/sentinel"
)

// InMemory keeps flight records in a map. It favors clarity over
// performance; flight volume is small and reads dominate.
type InMemory struct {
	mu      sync.RWMutex
	flights map[id.FlightID]models.Flight
}

func NewInMemory() *InMemory {
	return &InMemory{flights: make(map[id.FlightID]models.Flight)}
}

func (s *InMemory) Create(_ context.Context, flight *models.Flight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.flights[flight.ID]; exists {
		return sentinel.ErrConflict
	}
	s.flights[flight.ID] = *flight
	return nil
}

func (s *InMemory) FindByID(_ context.Context, flightID id.FlightID) (*models.Flight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	flight, ok := s.flights[flightID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &flight, nil
}

func (s *InMemory) Execute(_ context.Context, flightID id.FlightID,
	validate func(*models.Flight) error,
	mutate func(*models.Flight)) (*models.Flight, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	flight, ok := s.flights[flightID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if err := validate(&flight); err != nil {
		return nil, err
	}
	mutate(&flight)
	s.flights[flightID] = flight
	return &flight, nil
}
