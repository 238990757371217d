package checkin

import (
	"time"

	"gopass/internal/audit"
	id "gopass/pkg/domain"
)

// Color is the operator-facing severity of an outcome. Terminals render it
// directly: green admits, orange asks for operator judgment, red denies.
type Color string

const (
	ColorGreen  Color = "green"
	ColorOrange Color = "orange"
	ColorRed    Color = "red"
)

// Result is the classification of one scan. Exactly one of the payload
// fields is set, matching Outcome; outcomes with no extra data (INVALID,
// FLIGHT_CLOSED, UNKNOWN) carry none.
type Result struct {
	Outcome audit.Outcome `json:"outcome"`
	Color   Color         `json:"color"`
	Message string        `json:"message"`

	Valid          *ValidData          `json:"valid,omitempty"`
	AlreadyScanned *AlreadyScannedData `json:"already_scanned,omitempty"`
	WrongFlight    *WrongFlightData    `json:"wrong_flight,omitempty"`
	Expired        *ExpiredData        `json:"expired,omitempty"`
}

// ValidData shows the admitted passenger on the terminal.
type ValidData struct {
	PassID            id.PassID `json:"pass_id"`
	PassengerName     string    `json:"passenger_name"`
	PassengerDocument string    `json:"passenger_document"`
}

// AlreadyScannedData tells staff who used the pass first, and where.
type AlreadyScannedData struct {
	PassengerName string        `json:"passenger_name"`
	ScannedBy     id.OperatorID `json:"scanned_by"`
	ScanTime      time.Time     `json:"scan_time"`
	Location      string        `json:"location"`
}

// WrongFlightData names the flight the pass is actually valid for; same-day
// misrouting is an operator judgment call, not a hard denial.
type WrongFlightData struct {
	ValidForFlight string    `json:"valid_for"`
	ValidForDate   time.Time `json:"date"`
}

// ExpiredData contrasts the pass's valid date with the date scanned against.
type ExpiredData struct {
	ValidForFlight string    `json:"flight"`
	ValidForDate   time.Time `json:"valid_for_date"`
	ExpectedDate   time.Time `json:"expected_date"`
}

func resultValid(passID id.PassID, name, document string) Result {
	return Result{
		Outcome: audit.OutcomeValid,
		Color:   ColorGreen,
		Message: "VALID",
		Valid: &ValidData{
			PassID:            passID,
			PassengerName:     name,
			PassengerDocument: document,
		},
	}
}

func resultAlreadyScanned(name string, scannedBy id.OperatorID, scanTime time.Time, location string) Result {
	return Result{
		Outcome: audit.OutcomeAlreadyScanned,
		Color:   ColorRed,
		Message: "ALREADY SCANNED",
		AlreadyScanned: &AlreadyScannedData{
			PassengerName: name,
			ScannedBy:     scannedBy,
			ScanTime:      scanTime,
			Location:      location,
		},
	}
}

func resultWrongFlight(validFor string, date time.Time) Result {
	return Result{
		Outcome: audit.OutcomeWrongFlight,
		Color:   ColorOrange,
		Message: "WRONG FLIGHT",
		WrongFlight: &WrongFlightData{
			ValidForFlight: validFor,
			ValidForDate:   date,
		},
	}
}

func resultExpired(flight string, validFor, expected time.Time) Result {
	return Result{
		Outcome: audit.OutcomeExpired,
		Color:   ColorRed,
		Message: "TICKET EXPIRED",
		Expired: &ExpiredData{
			ValidForFlight: flight,
			ValidForDate:   validFor,
			ExpectedDate:   expected,
		},
	}
}

func resultInvalid() Result {
	return Result{
		Outcome: audit.OutcomeInvalid,
		Color:   ColorRed,
		Message: "DOCUMENT NOT RECOGNIZED",
	}
}

func resultFlightClosed() Result {
	return Result{
		Outcome: audit.OutcomeFlightClosed,
		Color:   ColorRed,
		Message: "FLIGHT CLOSED",
	}
}

func resultUnknown() Result {
	return Result{
		Outcome: audit.OutcomeUnknown,
		Color:   ColorRed,
		Message: "UNKNOWN ERROR",
	}
}
