package models

import (
	"time"

	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
)

// Status is the lifecycle state of an issued pass.
//
// Transitions: valid → consumed (check-in engine, terminal) and
// valid → cancelled|expired (administrative, terminal). Once a pass leaves
// valid it never changes again.
type Status string

const (
	StatusValid     Status = "valid"
	StatusConsumed  Status = "consumed"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) Terminal() bool {
	return s == StatusConsumed || s == StatusCancelled || s == StatusExpired
}

// ScanRecord captures who consumed a pass, when, and where. Set exactly once
// on the valid → consumed transition and immutable afterwards.
type ScanRecord struct {
	ScannedBy id.OperatorID `json:"scanned_by"`
	ScanTime  time.Time     `json:"scan_time"`
	Location  string        `json:"location"`
}

// Pass is the aggregate root for one issued credential.
//
// Invariants:
//   - Token, FlightID and passenger identity are immutable after issuance
//   - Status only moves valid → consumed|cancelled|expired
//   - Scan is nil until the pass is consumed, then set exactly once
type Pass struct {
	ID                id.PassID   `json:"id"`
	Token             string      `json:"token"`
	FlightID          id.FlightID `json:"flight_id"`
	PassengerName     string      `json:"passenger_name"`
	PassengerDocument string      `json:"passenger_document"`
	Status            Status      `json:"status"`
	IssuedAt          time.Time   `json:"issued_at"`
	Scan              *ScanRecord `json:"scan,omitempty"`
}

// CanConsume checks whether the pass may transition to consumed.
// Use with ApplyConsumption inside a store Execute callback so the check and
// the mutation happen under the same per-pass lock.
func (p *Pass) CanConsume() error {
	if p.Status != StatusValid {
		return dErrors.New(dErrors.CodeInvariantViolation, "pass is not in valid state")
	}
	return nil
}

// ApplyConsumption marks the pass consumed and records the scan metadata.
// Call CanConsume first.
func (p *Pass) ApplyConsumption(operatorID id.OperatorID, now time.Time, location string) {
	p.Status = StatusConsumed
	p.Scan = &ScanRecord{
		ScannedBy: operatorID,
		ScanTime:  now,
		Location:  location,
	}
}

// CanCancel checks whether the pass may be administratively cancelled.
func (p *Pass) CanCancel() error {
	if p.Status.Terminal() {
		return dErrors.New(dErrors.CodeInvariantViolation, "pass is already in a terminal state")
	}
	return nil
}

// ApplyCancellation transitions the pass to cancelled. Call CanCancel first.
func (p *Pass) ApplyCancellation() {
	p.Status = StatusCancelled
}

// NewPass validates and constructs a freshly issued pass.
func NewPass(passID id.PassID, token string, flightID id.FlightID, passengerName, passengerDocument string, now time.Time) (*Pass, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "pass token cannot be empty")
	}
	if passengerName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "passenger name is required")
	}
	if passengerDocument == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "passenger document is required")
	}
	return &Pass{
		ID:                passID,
		Token:             token,
		FlightID:          flightID,
		PassengerName:     passengerName,
		PassengerDocument: passengerDocument,
		Status:            StatusValid,
		IssuedAt:          now,
	}, nil
}
