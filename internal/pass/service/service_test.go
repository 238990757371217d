package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	flightmodels "gopass/internal/flight/models"
	flightservice "gopass/internal/flight/service"
	flightstore "gopass/internal/flight/store"
	"gopass/internal/pass/models"
	passstore "gopass/internal/pass/store"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/requestcontext"
)

// =============================================================================
// Pass Issuance Service Test Suite
// =============================================================================

type PassServiceSuite struct {
	suite.Suite
	passes  *passstore.InMemory
	flights *flightservice.Service
	service *Service

	ctx    context.Context
	now    time.Time
	flight *flightmodels.Flight
}

func TestPassServiceSuite(t *testing.T) {
	suite.Run(t, new(PassServiceSuite))
}

func (s *PassServiceSuite) SetupTest() {
	s.passes = passstore.NewInMemory()

	var err error
	s.flights, err = flightservice.New(flightstore.NewInMemory(), nil)
	s.Require().NoError(err)

	s.service, err = New(s.passes, s.flights, nil, nil)
	s.Require().NoError(err)

	s.now = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)

	s.flight, err = s.flights.Create(s.ctx, flightservice.CreateRequest{
		Number:        "SU1337",
		Airline:       "Aeroflot",
		DepartureTime: s.now.Add(4 * time.Hour),
	})
	s.Require().NoError(err)
}

// =============================================================================
// Issue
// =============================================================================

func (s *PassServiceSuite) TestIssue() {
	s.Run("issues a valid pass with a derived token", func() {
		pass, err := s.service.Issue(s.ctx, IssueRequest{
			FlightID:          s.flight.ID,
			PassengerName:     "Ada Lovelace",
			PassengerDocument: "P1234567",
		})
		s.Require().NoError(err)

		s.Equal(models.StatusValid, pass.Status)
		s.Equal(s.flight.ID, pass.FlightID)
		s.True(pass.IssuedAt.Equal(s.now))
		s.Len(pass.Token, 64) // hex sha256
		s.Nil(pass.Scan)

		stored, err := s.passes.FindByToken(s.ctx, pass.Token)
		s.NoError(err)
		s.Equal(pass.ID, stored.ID)
	})

	s.Run("identical bookings get distinct tokens", func() {
		req := IssueRequest{
			FlightID:          s.flight.ID,
			PassengerName:     "Ada Lovelace",
			PassengerDocument: "P1234567",
		}
		first, err := s.service.Issue(s.ctx, req)
		s.Require().NoError(err)
		second, err := s.service.Issue(s.ctx, req)
		s.Require().NoError(err)
		s.NotEqual(first.Token, second.Token)
	})

	s.Run("unknown flight is rejected", func() {
		_, err := s.service.Issue(s.ctx, IssueRequest{
			FlightID:          id.FlightID(uuid.New()),
			PassengerName:     "Ada Lovelace",
			PassengerDocument: "P1234567",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	s.Run("missing passenger fields are rejected", func() {
		_, err := s.service.Issue(s.ctx, IssueRequest{
			FlightID:          s.flight.ID,
			PassengerDocument: "P1234567",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))

		_, err = s.service.Issue(s.ctx, IssueRequest{
			FlightID:      s.flight.ID,
			PassengerName: "Ada Lovelace",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})
}

// =============================================================================
// Get
// =============================================================================

func (s *PassServiceSuite) TestGet() {
	pass, err := s.service.Issue(s.ctx, IssueRequest{
		FlightID:          s.flight.ID,
		PassengerName:     "Ada Lovelace",
		PassengerDocument: "P1234567",
	})
	s.Require().NoError(err)

	s.Run("returns an issued pass", func() {
		got, err := s.service.Get(s.ctx, pass.ID)
		s.NoError(err)
		s.Equal(pass.Token, got.Token)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Get(s.ctx, id.NewPassID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Cancel
// =============================================================================

func (s *PassServiceSuite) TestCancel() {
	s.Run("cancels a valid pass", func() {
		pass, err := s.service.Issue(s.ctx, IssueRequest{
			FlightID:          s.flight.ID,
			PassengerName:     "Ada Lovelace",
			PassengerDocument: "P1234567",
		})
		s.Require().NoError(err)

		cancelled, err := s.service.Cancel(s.ctx, pass.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusCancelled, cancelled.Status)
	})

	s.Run("cancelling twice conflicts", func() {
		pass, err := s.service.Issue(s.ctx, IssueRequest{
			FlightID:          s.flight.ID,
			PassengerName:     "Grace Hopper",
			PassengerDocument: "P7654321",
		})
		s.Require().NoError(err)

		_, err = s.service.Cancel(s.ctx, pass.ID)
		s.Require().NoError(err)

		_, err = s.service.Cancel(s.ctx, pass.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.Cancel(s.ctx, id.NewPassID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Token Derivation
// =============================================================================

func (s *PassServiceSuite) TestDeriveToken() {
	flightID := id.FlightID(uuid.New())

	first, err := deriveToken(flightID, "P1234567", s.now)
	s.Require().NoError(err)
	second, err := deriveToken(flightID, "P1234567", s.now)
	s.Require().NoError(err)

	s.Len(first, 64)
	s.Len(second, 64)
	// The nonce keeps equal inputs from colliding.
	s.NotEqual(first, second)
}
