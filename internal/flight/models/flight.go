package models

import (
	"time"

	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
)

// Status is the operational state of a flight as seen by gate terminals.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusClosed    Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusActive, StatusClosed:
		return true
	}
	return false
}

// Flight is the scheduling record the check-in engine consults. The engine
// only reads Status and the departure date; the rest is carried for the
// issuance receipt and operator displays.
type Flight struct {
	ID               id.FlightID `json:"id"`
	Number           string      `json:"number"`
	Airline          string      `json:"airline"`
	DepartureAirport string      `json:"departure_airport"`
	ArrivalAirport   string      `json:"arrival_airport"`
	DepartureTime    time.Time   `json:"departure_time"`
	Status           Status      `json:"status"`
}

// DepartureDate truncates the departure time to its calendar date in UTC.
// The expired-vs-wrong-flight distinction compares dates, never times.
func (f *Flight) DepartureDate() time.Time {
	y, m, d := f.DepartureTime.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsClosed reports whether gate operations for this flight have ended.
func (f *Flight) IsClosed() bool {
	return f.Status == StatusClosed
}

// CanClose checks whether the flight may transition to closed.
func (f *Flight) CanClose() error {
	if f.Status == StatusClosed {
		return dErrors.New(dErrors.CodeInvariantViolation, "flight is already closed")
	}
	return nil
}

// ApplyClose transitions the flight to closed. Call CanClose first.
func (f *Flight) ApplyClose() {
	f.Status = StatusClosed
}

// NewFlight validates and constructs a flight record.
func NewFlight(flightID id.FlightID, number, airline, departureAirport, arrivalAirport string, departureTime time.Time) (*Flight, error) {
	if number == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "flight number is required")
	}
	if departureTime.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "departure time is required")
	}
	return &Flight{
		ID:               flightID,
		Number:           number,
		Airline:          airline,
		DepartureAirport: departureAirport,
		ArrivalAirport:   arrivalAirport,
		DepartureTime:    departureTime.UTC(),
		Status:           StatusScheduled,
	}, nil
}
