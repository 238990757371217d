package audit

import (
	"time"

	id "gopass/pkg/domain"
)

// Outcome is the classification of one validation attempt. These values are
// what reconciliation and anti-fraud reporting key on; they never change
// meaning once written.
type Outcome string

const (
	OutcomeValid          Outcome = "VALID"
	OutcomeAlreadyScanned Outcome = "ALREADY_SCANNED"
	OutcomeWrongFlight    Outcome = "WRONG_FLIGHT"
	OutcomeExpired        Outcome = "EXPIRED"
	OutcomeInvalid        Outcome = "INVALID"
	OutcomeFlightClosed   Outcome = "FLIGHT_CLOSED"
	OutcomeUnknown        Outcome = "UNKNOWN"
)

// Record is one entry in the append-only validation ledger. PassID is nil
// when the scanned token matched no pass; the attempt is still recorded so
// probing shows up in reports.
type Record struct {
	ID         id.AuditRecordID
	PassID     *id.PassID
	OperatorID id.OperatorID
	Outcome    Outcome
	Timestamp  time.Time
	Location   string
}
