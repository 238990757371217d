package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gopass/internal/checkin"
	"gopass/internal/transport/http/shared"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/requestcontext"
)

// Engine is the validation surface the handler delegates to.
type Engine interface {
	Validate(ctx context.Context, req checkin.Request) (checkin.Result, error)
}

// Handler exposes the gate check-in endpoint.
type Handler struct {
	engine Engine
	logger *slog.Logger
}

func New(engine Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: engine, logger: logger}
}

// Register mounts the validation route on r. Callers wrap r with the
// operator auth middleware; the operator ID comes from the token, never the
// request body.
func (h *Handler) Register(r chi.Router) {
	r.Post("/validation/check", h.handleCheck)
}

type checkRequest struct {
	Token    string `json:"token"`
	FlightID string `json:"flight_id"`
	Location string `json:"location"`
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	flightID, err := id.ParseFlightID(req.FlightID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.engine.Validate(ctx, checkin.Request{
		RawToken:       req.Token,
		TargetFlightID: flightID,
		OperatorID:     requestcontext.OperatorID(ctx),
		Location:       req.Location,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "validation infrastructure failure",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	// Business outcomes are all 200s; terminals branch on outcome and color,
	// not on HTTP status.
	shared.WriteJSON(w, http.StatusOK, result)
}
