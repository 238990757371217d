package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gopass/internal/platform/middleware"
	"gopass/internal/transport/http/shared"
)

// HealthChecker reports whether a backing resource is reachable.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Registrar is implemented by every domain handler.
type Registrar interface {
	Register(r chi.Router)
}

// Deps wires the domain handlers and platform concerns into one router.
type Deps struct {
	Logger    *slog.Logger
	Validator middleware.TokenValidator

	Passes     Registrar
	CheckIn    Registrar
	Flights    Registrar
	Reporting  Registrar
	HealthDeps []HealthChecker
}

// NewRouter builds the full HTTP surface. Every domain route sits behind
// operator auth; only health and metrics are open.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(d.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(d.Logger))

	r.Get("/healthz", handleHealth(d.HealthDeps))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireOperator(d.Validator, d.Logger))
		d.Passes.Register(r)
		d.CheckIn.Register(r)
		d.Flights.Register(r)
		d.Reporting.Register(r)
	})

	return r
}

func handleHealth(checks []HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Health(ctx); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
