package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gopass/internal/reporting"
	"gopass/internal/transport/http/shared"
)

// Service is the reporting surface the handler delegates to.
type Service interface {
	Snapshot(ctx context.Context) (reporting.Statistics, error)
}

// Handler exposes the statistics dashboard endpoint.
type Handler struct {
	stats  Service
	logger *slog.Logger
}

func New(stats Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{stats: stats, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/stats", h.handleStats)
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Snapshot(r.Context())
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, stats)
}
