package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "gopass/pkg/domain"
)

// deriveToken produces the content-addressed credential for a new pass.
//
// The input is a canonical JSON object (Go marshals map keys sorted, so equal
// inputs always hash equally) of the flight, the passenger document, the
// issuance instant and a random nonce. The nonce makes tokens unique even for
// identical passenger+flight pairs, e.g. group bookings; the store's unique
// constraint on token backs the astronomically unlikely collision.
func deriveToken(flightID id.FlightID, passengerDocument string, issuedAt time.Time) (string, error) {
	payload := map[string]string{
		"flight_id": flightID.String(),
		"document":  passengerDocument,
		"issued_at": issuedAt.UTC().Format(time.RFC3339Nano),
		"nonce":     uuid.NewString(),
	}
	canonical, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal token payload: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
