package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gopass/internal/pass/models"
	"gopass/internal/pass/service"
	"gopass/internal/transport/http/shared"
	id "gopass/pkg/domain"
	dErrors "gopass/pkg/domain-errors"
	"gopass/pkg/requestcontext"
)

// Service is the issuance surface the handler delegates to.
type Service interface {
	Issue(ctx context.Context, req service.IssueRequest) (*models.Pass, error)
	Get(ctx context.Context, passID id.PassID) (*models.Pass, error)
	Cancel(ctx context.Context, passID id.PassID) (*models.Pass, error)
}

// Invalidator lets the handler discard cached statistics after writes.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Handler exposes pass issuance and administration over HTTP.
type Handler struct {
	passes Service
	stats  Invalidator
	logger *slog.Logger
}

func New(passes Service, stats Invalidator, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{passes: passes, stats: stats, logger: logger}
}

// Register mounts the pass routes on r. Callers wrap r with the operator
// auth middleware.
func (h *Handler) Register(r chi.Router) {
	r.Post("/passes", h.handleIssue)
	r.Get("/passes/{passID}", h.handleGet)
	r.Post("/passes/{passID}/cancel", h.handleCancel)
}

type issueRequest struct {
	FlightID          string `json:"flight_id"`
	PassengerName     string `json:"passenger_name"`
	PassengerDocument string `json:"passenger_document"`
}

type issueResponse struct {
	PassID string `json:"pass_id"`
	Token  string `json:"token"`
}

func (h *Handler) handleIssue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	flightID, err := id.ParseFlightID(req.FlightID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	pass, err := h.passes.Issue(ctx, service.IssueRequest{
		FlightID:          flightID,
		PassengerName:     req.PassengerName,
		PassengerDocument: req.PassengerDocument,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "issuance rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		shared.WriteError(w, err)
		return
	}

	h.stats.Invalidate(ctx)
	shared.WriteJSON(w, http.StatusCreated, issueResponse{
		PassID: pass.ID.String(),
		Token:  pass.Token,
	})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	passID, err := id.ParsePassID(chi.URLParam(r, "passID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	pass, err := h.passes.Get(r.Context(), passID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, pass)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	passID, err := id.ParsePassID(chi.URLParam(r, "passID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	pass, err := h.passes.Cancel(ctx, passID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	h.stats.Invalidate(ctx)
	shared.WriteJSON(w, http.StatusOK, pass)
}
