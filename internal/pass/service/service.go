package service

import (
	"context"
	"errors"
	"log/slog"

	flightmodels "gopass/internal/flight/models"
	"gopass/internal/pass/models"
	"gopass/internal/platform/metrics"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/platform/sentinel"
	"gopass/pkg/requestcontext"
)

// PassStore is the persistence the issuance service needs.
type PassStore interface {
	Create(ctx context.Context, pass *models.Pass) error
	FindByID(ctx context.Context, passID id.PassID) (*models.Pass, error)
	Execute(ctx context.Context, token string,
		fn func(txCtx context.Context, pass *models.Pass) (mutate bool, err error)) (*models.Pass, error)
}

// FlightLookup resolves flight records; issuance refuses tokens for flights
// that do not exist.
type FlightLookup interface {
	GetByID(ctx context.Context, flightID id.FlightID) (*flightmodels.Flight, error)
}

// Service is the credential generator: it derives tokens and persists newly
// issued passes. It never touches pass state after issuance except for the
// administrative cancel transition.
type Service struct {
	passes  PassStore
	flights FlightLookup
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(passes PassStore, flights FlightLookup, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if passes == nil {
		return nil, errors.New("pass store is required")
	}
	if flights == nil {
		return nil, errors.New("flight lookup is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{passes: passes, flights: flights, logger: logger, metrics: m}, nil
}

// IssueRequest carries the fields for one new pass.
type IssueRequest struct {
	FlightID          id.FlightID
	PassengerName     string
	PassengerDocument string
}

// Issue creates a pass bound to a flight. The returned pass carries the
// opaque token the passenger presents at the gate.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*models.Pass, error) {
	if _, err := s.flights.GetByID(ctx, req.FlightID); err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeInvalidInput, "flight does not exist")
		}
		return nil, err
	}

	now := requestcontext.Now(ctx).UTC()
	token, err := deriveToken(req.FlightID, req.PassengerDocument, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to derive token")
	}

	pass, err := models.NewPass(id.NewPassID(), token, req.FlightID, req.PassengerName, req.PassengerDocument, now)
	if err != nil {
		return nil, err
	}

	if err := s.passes.Create(ctx, pass); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Token collision: nonce-backed SHA-256 makes this practically
			// unreachable, so treat it as a bug rather than retrying.
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "token collision on issuance")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist pass")
	}

	s.metrics.IncrementPassesIssued()
	s.logger.InfoContext(ctx, "pass issued",
		"pass_id", pass.ID.String(),
		"flight_id", pass.FlightID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return pass, nil
}

// Get returns a pass by ID.
func (s *Service) Get(ctx context.Context, passID id.PassID) (*models.Pass, error) {
	pass, err := s.passes.FindByID(ctx, passID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "pass not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pass")
	}
	return pass, nil
}

// Cancel administratively moves a valid pass to cancelled. Runs under the
// same per-pass lock as check-in so a cancel racing a scan resolves to
// exactly one winner.
func (s *Service) Cancel(ctx context.Context, passID id.PassID) (*models.Pass, error) {
	pass, err := s.passes.FindByID(ctx, passID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "pass not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pass")
	}

	cancelled, err := s.passes.Execute(ctx, pass.Token,
		func(_ context.Context, p *models.Pass) (bool, error) {
			if err := p.CanCancel(); err != nil {
				return false, dErrors.New(dErrors.CodeConflict, "pass is already in a terminal state")
			}
			p.ApplyCancellation()
			return true, nil
		})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "pass cancelled",
		"pass_id", pass.ID.String(),
		"request_id", requestcontext.RequestID(ctx),
	)
	return cancelled, nil
}
