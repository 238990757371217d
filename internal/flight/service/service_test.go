package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"gopass/internal/flight/models"
	flightstore "gopass/internal/flight/store"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
)

// =============================================================================
// Flight Service Test Suite
// =============================================================================

type FlightServiceSuite struct {
	suite.Suite
	service *Service
	ctx     context.Context
}

func TestFlightServiceSuite(t *testing.T) {
	suite.Run(t, new(FlightServiceSuite))
}

func (s *FlightServiceSuite) SetupTest() {
	var err error
	s.service, err = New(flightstore.NewInMemory(), nil)
	s.Require().NoError(err)
	s.ctx = context.Background()
}

func (s *FlightServiceSuite) createFlight() *models.Flight {
	flight, err := s.service.Create(s.ctx, CreateRequest{
		Number:           "SU1337",
		Airline:          "Aeroflot",
		DepartureAirport: "SVO",
		ArrivalAirport:   "LED",
		DepartureTime:    time.Date(2026, 3, 14, 13, 30, 0, 0, time.UTC),
	})
	s.Require().NoError(err)
	return flight
}

// =============================================================================
// Create and Lookup
// =============================================================================

func (s *FlightServiceSuite) TestCreate() {
	s.Run("registers a scheduled flight", func() {
		flight := s.createFlight()
		s.Equal(models.StatusScheduled, flight.Status)
		s.False(flight.ID.IsNil())

		got, err := s.service.GetByID(s.ctx, flight.ID)
		s.NoError(err)
		s.Equal("SU1337", got.Number)
	})

	s.Run("rejects a flight without a number", func() {
		_, err := s.service.Create(s.ctx, CreateRequest{
			DepartureTime: time.Now(),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("rejects a flight without a departure time", func() {
		_, err := s.service.Create(s.ctx, CreateRequest{Number: "SU1337"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

func (s *FlightServiceSuite) TestGetByID() {
	s.Run("unknown flight is not found", func() {
		_, err := s.service.GetByID(s.ctx, id.FlightID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Close
// =============================================================================

func (s *FlightServiceSuite) TestClose() {
	s.Run("closes an open flight", func() {
		flight := s.createFlight()

		closed, err := s.service.Close(s.ctx, flight.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusClosed, closed.Status)
		s.True(closed.IsClosed())

		got, err := s.service.GetByID(s.ctx, flight.ID)
		s.Require().NoError(err)
		s.True(got.IsClosed())
	})

	s.Run("closing twice conflicts", func() {
		flight := s.createFlight()

		_, err := s.service.Close(s.ctx, flight.ID)
		s.Require().NoError(err)

		_, err = s.service.Close(s.ctx, flight.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown flight is not found", func() {
		_, err := s.service.Close(s.ctx, id.FlightID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Departure Date
// =============================================================================

func (s *FlightServiceSuite) TestDepartureDate() {
	flight, err := s.service.Create(s.ctx, CreateRequest{
		Number: "SU1337",
		// 23:30 in UTC+3 is 20:30 UTC: the date is taken in UTC.
		DepartureTime: time.Date(2026, 3, 14, 23, 30, 0, 0, time.FixedZone("MSK", 3*3600)),
	})
	s.Require().NoError(err)

	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	s.True(flight.DepartureDate().Equal(want))
}
