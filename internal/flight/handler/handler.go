package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gopass/internal/flight/models"
	"gopass/internal/flight/service"
	"gopass/internal/transport/http/shared"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
)

// Service is the flight surface the handler delegates to.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Flight, error)
	GetByID(ctx context.Context, flightID id.FlightID) (*models.Flight, error)
	Close(ctx context.Context, flightID id.FlightID) (*models.Flight, error)
}

// Handler exposes flight records and the gate-close operation.
type Handler struct {
	flights Service
	logger  *slog.Logger
}

func New(flights Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{flights: flights, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/flights", h.handleCreate)
	r.Get("/flights/{flightID}", h.handleGet)
	r.Post("/flights/{flightID}/close", h.handleClose)
}

type createRequest struct {
	Number           string    `json:"number"`
	Airline          string    `json:"airline"`
	DepartureAirport string    `json:"departure_airport"`
	ArrivalAirport   string    `json:"arrival_airport"`
	DepartureTime    time.Time `json:"departure_time"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	flight, err := h.flights.Create(r.Context(), service.CreateRequest{
		Number:           req.Number,
		Airline:          req.Airline,
		DepartureAirport: req.DepartureAirport,
		ArrivalAirport:   req.ArrivalAirport,
		DepartureTime:    req.DepartureTime,
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, flight)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	flightID, err := id.ParseFlightID(chi.URLParam(r, "flightID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	flight, err := h.flights.GetByID(r.Context(), flightID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flight)
}

func (h *Handler) handleClose(w http.ResponseWriter, r *http.Request) {
	flightID, err := id.ParseFlightID(chi.URLParam(r, "flightID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	flight, err := h.flights.Close(r.Context(), flightID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, flight)
}
