// Package domain defines typed identifiers shared across the service.
//
// Each entity gets its own UUID-backed type so the compiler rejects
// cross-entity assignment (a PassID can never be passed where a FlightID is
// expected). Parse functions enforce the trust-boundary invariant: IDs must
// be valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "gopass/pkg/domain-errors"
)

type (
	// PassID identifies an issued GoPass.
	PassID uuid.UUID
	// FlightID identifies a flight record.
	FlightID uuid.UUID
	// OperatorID identifies a gate or desk operator.
	OperatorID uuid.UUID
	// AuditRecordID identifies one validation-attempt ledger entry.
	AuditRecordID uuid.UUID
)

func (id PassID) String() string        { return uuid.UUID(id).String() }
func (id FlightID) String() string      { return uuid.UUID(id).String() }
func (id OperatorID) String() string    { return uuid.UUID(id).String() }
func (id AuditRecordID) String() string { return uuid.UUID(id).String() }

func (id PassID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id FlightID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OperatorID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// NewPassID returns a fresh random pass identifier.
func NewPassID() PassID { return PassID(uuid.New()) }

// NewAuditRecordID returns a fresh random audit record identifier.
func NewAuditRecordID() AuditRecordID { return AuditRecordID(uuid.New()) }

// ParsePassID validates and converts a raw string into a PassID.
func ParsePassID(raw string) (PassID, error) {
	u, err := parseUUID(raw, "pass id")
	return PassID(u), err
}

// ParseFlightID validates and converts a raw string into a FlightID.
func ParseFlightID(raw string) (FlightID, error) {
	u, err := parseUUID(raw, "flight id")
	return FlightID(u), err
}

// ParseOperatorID validates and converts a raw string into an OperatorID.
func ParseOperatorID(raw string) (OperatorID, error) {
	u, err := parseUUID(raw, "operator id")
	return OperatorID(u), err
}

func parseUUID(raw, label string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	u, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is not a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be the nil UUID")
	}
	return u, nil
}
