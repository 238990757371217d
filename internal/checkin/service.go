package checkin

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gopass/internal/audit"
	flightmodels "gopass/internal/flight/models"
	passmodels "gopass/internal/pass/models"
	"gopass/internal/platform/metrics"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/platform/sentinel"
	"gopass/pkg/requestcontext"
)

// PassStore is the slice of the pass store the engine needs. Execute is the
// per-pass critical section; see internal/pass/store.Store for its contract.
type PassStore interface {
	Execute(ctx context.Context, token string,
		fn func(txCtx context.Context, pass *passmodels.Pass) (mutate bool, err error)) (*passmodels.Pass, error)
}

// FlightLookup resolves flights. Not-found must surface as a coded
// not_found error; the engine treats it as a distinct, non-fatal case.
type FlightLookup interface {
	GetByID(ctx context.Context, flightID id.FlightID) (*flightmodels.Flight, error)
}

// Service is the check-in validation engine: it classifies one scan into one
// of six outcomes and performs the at-most-once valid → consumed transition.
//
// Business outcomes are values, never errors. A non-nil error means
// infrastructure failure (store unreachable, ledger write failed); callers
// may retry safely - a retry after a committed VALID deterministically
// returns ALREADY_SCANNED.
type Service struct {
	passes  PassStore
	flights FlightLookup
	ledger  audit.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(passes PassStore, flights FlightLookup, ledger audit.Store, logger *slog.Logger, m *metrics.Metrics) (*Service, error) {
	if passes == nil {
		return nil, errors.New("pass store is required")
	}
	if flights == nil {
		return nil, errors.New("flight lookup is required")
	}
	if ledger == nil {
		return nil, errors.New("audit store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{passes: passes, flights: flights, ledger: ledger, logger: logger, metrics: m}, nil
}

// Request is one scan presented by a gate terminal.
type Request struct {
	RawToken       string
	TargetFlightID id.FlightID
	OperatorID     id.OperatorID
	Location       string
}

// Validate classifies the scan and, on success, consumes the pass.
//
// The decision order is load-bearing: malformed input fails before any
// lookup, a closed flight pre-empts the credential entirely, the date
// comparison precedes the same-day wrong-flight check. Reordering changes
// observable outcomes.
func (s *Service) Validate(ctx context.Context, req Request) (Result, error) {
	start := time.Now()
	result, err := s.validate(ctx, req)
	if err != nil {
		return Result{}, err
	}

	s.metrics.ObserveValidation(string(result.Outcome), time.Since(start))
	s.logger.InfoContext(ctx, "validation attempt",
		"outcome", string(result.Outcome),
		"target_flight_id", req.TargetFlightID.String(),
		"operator_id", req.OperatorID.String(),
		"location", req.Location,
		"request_id", requestcontext.RequestID(ctx),
	)
	return result, nil
}

func (s *Service) validate(ctx context.Context, req Request) (Result, error) {
	now := requestcontext.Now(ctx).UTC()

	token, ok := normalizeToken(req.RawToken)
	if !ok {
		if err := s.record(ctx, nil, req, now, audit.OutcomeInvalid); err != nil {
			return Result{}, err
		}
		return resultInvalid(), nil
	}

	targetFlight, err := s.lookupFlight(ctx, req.TargetFlightID)
	if err != nil {
		return Result{}, err
	}
	if targetFlight != nil && targetFlight.IsClosed() {
		// Gate-operator decision about the flight, not the credential: no
		// pass is examined, so nothing is written to the ledger.
		return resultFlightClosed(), nil
	}

	var result Result
	_, err = s.passes.Execute(ctx, token, func(txCtx context.Context, pass *passmodels.Pass) (bool, error) {
		var (
			mutate bool
			cerr   error
		)
		result, mutate, cerr = s.classify(txCtx, pass, targetFlight, req, now)
		if cerr != nil {
			return false, cerr
		}
		if err := s.record(txCtx, &pass.ID, req, now, result.Outcome); err != nil {
			// Failing the callback rolls back the consume transition along
			// with the missing ledger entry: commit both or neither.
			s.metrics.IncrementAuditAppendErrors()
			return false, err
		}
		return mutate, nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			if recErr := s.record(ctx, nil, req, now, audit.OutcomeInvalid); recErr != nil {
				return Result{}, recErr
			}
			return resultInvalid(), nil
		}
		return Result{}, dErrors.Wrap(err, dErrors.CodeInternal, "validation failed")
	}
	return result, nil
}

// classify applies the decision table to a resolved pass. Runs inside the
// per-pass critical section. A non-nil error is infrastructure failure and
// rolls back the enclosing unit.
func (s *Service) classify(ctx context.Context, pass *passmodels.Pass, targetFlight *flightmodels.Flight, req Request, now time.Time) (Result, bool, error) {
	if pass.Status == passmodels.StatusConsumed {
		scan := pass.Scan
		if scan == nil {
			// Consumed with no scan record violates the pass invariants.
			s.logUnknown(ctx, pass, "consumed pass missing scan record")
			return resultUnknown(), false, nil
		}
		return resultAlreadyScanned(pass.PassengerName, scan.ScannedBy, scan.ScanTime, scan.Location), false, nil
	}

	if pass.FlightID != req.TargetFlightID {
		boundFlight, err := s.lookupFlight(ctx, pass.FlightID)
		if err != nil {
			return Result{}, false, err
		}
		if boundFlight == nil {
			// A pass referencing a missing flight is a data bug, not an
			// operator problem.
			s.logUnknown(ctx, pass, "pass bound to unresolvable flight")
			return resultUnknown(), false, nil
		}

		passDate := boundFlight.DepartureDate()
		expectedDate := dateOf(now)
		if targetFlight != nil {
			expectedDate = targetFlight.DepartureDate()
		}

		if !passDate.Equal(expectedDate) {
			return resultExpired(boundFlight.Number, passDate, expectedDate), false, nil
		}
		return resultWrongFlight(boundFlight.Number, passDate), false, nil
	}

	if pass.Status == passmodels.StatusValid {
		pass.ApplyConsumption(req.OperatorID, now, req.Location)
		return resultValid(pass.ID, pass.PassengerName, pass.PassengerDocument), true, nil
	}

	// Cancelled or expired pass scanned against its own flight, or a state
	// outside the lifecycle. Signals a bug upstream; never swallowed.
	s.logUnknown(ctx, pass, "pass in unexpected state")
	return resultUnknown(), false, nil
}

func (s *Service) lookupFlight(ctx context.Context, flightID id.FlightID) (*flightmodels.Flight, error) {
	flight, err := s.flights.GetByID(ctx, flightID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "flight lookup failed")
	}
	return flight, nil
}

func (s *Service) record(ctx context.Context, passID *id.PassID, req Request, now time.Time, outcome audit.Outcome) error {
	return s.ledger.Append(ctx, audit.Record{
		ID:         id.NewAuditRecordID(),
		PassID:     passID,
		OperatorID: req.OperatorID,
		Outcome:    outcome,
		Timestamp:  now,
		Location:   req.Location,
	})
}

func (s *Service) logUnknown(ctx context.Context, pass *passmodels.Pass, reason string) {
	s.logger.ErrorContext(ctx, "validation invariant violation",
		"reason", reason,
		"pass_id", pass.ID.String(),
		"status", string(pass.Status),
		"request_id", requestcontext.RequestID(ctx),
	)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
