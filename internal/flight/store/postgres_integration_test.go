//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"gopass/internal/flight/models"
	id "gopass/pkg/domain"
	"gopass/pkg/platform/sentinel"
	"gopass/pkg/testutil/containers"
)

// =============================================================================
// Postgres Flight Store Integration Suite
// =============================================================================

type PostgresFlightStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresFlightStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresFlightStoreSuite))
}

func (s *PostgresFlightStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresFlightStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx))
}

func (s *PostgresFlightStoreSuite) newFlight() *models.Flight {
	flight, err := models.NewFlight(id.FlightID(uuid.New()), "SU1337", "Aeroflot", "SVO", "LED",
		time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC))
	s.Require().NoError(err)
	return flight
}

func (s *PostgresFlightStoreSuite) TestCreateAndFind() {
	flight := s.newFlight()
	s.Require().NoError(s.store.Create(s.ctx, flight))

	got, err := s.store.FindByID(s.ctx, flight.ID)
	s.Require().NoError(err)
	s.Equal(flight.Number, got.Number)
	s.Equal(models.StatusScheduled, got.Status)
	s.True(got.DepartureTime.Equal(flight.DepartureTime))

	_, err = s.store.FindByID(s.ctx, id.FlightID(uuid.New()))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresFlightStoreSuite) TestExecuteClosesUnderLock() {
	flight := s.newFlight()
	s.Require().NoError(s.store.Create(s.ctx, flight))

	closed, err := s.store.Execute(s.ctx, flight.ID,
		func(f *models.Flight) error { return f.CanClose() },
		func(f *models.Flight) { f.ApplyClose() },
	)
	s.Require().NoError(err)
	s.Equal(models.StatusClosed, closed.Status)

	got, err := s.store.FindByID(s.ctx, flight.ID)
	s.Require().NoError(err)
	s.True(got.IsClosed())
}

func (s *PostgresFlightStoreSuite) TestExecuteValidationFailureRollsBack() {
	flight := s.newFlight()
	flight.Status = models.StatusClosed
	s.Require().NoError(s.store.Create(s.ctx, flight))

	_, err := s.store.Execute(s.ctx, flight.ID,
		func(f *models.Flight) error { return f.CanClose() },
		func(f *models.Flight) { f.ApplyClose() },
	)
	s.Error(err)
}
