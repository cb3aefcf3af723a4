// Package httptransport assembles the public HTTP surface.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"nyaya/internal/platform/middleware"
	"nyaya/pkg/domain"
	"nyaya/pkg/platform/httputil"
)

// Module mounts its routes on an authenticated router.
type Module interface {
	Register(r chi.Router)
}

// ModuleFunc adapts a registration method such as RegisterAdmin.
type ModuleFunc func(r chi.Router)

func (f ModuleFunc) Register(r chi.Router) { f(r) }

// HealthCheck reports whether one dependency is usable.
type HealthCheck func(ctx context.Context) error

// Deps are the pieces the router wires together. Nil modules are skipped.
type Deps struct {
	Logger    *slog.Logger
	Validator middleware.JWTValidator
	Modules   []Module
	// Admin modules are mounted behind the admin role guard.
	Admin   []Module
	Metrics http.Handler
	Health  map[string]HealthCheck
}

// NewRouter wires middleware, the unauthenticated operational endpoints and
// every module behind RequireAuth.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestContext)
	r.Use(middleware.AccessLog(d.Logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", healthHandler(d.Health))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Validator, d.Logger))
		for _, m := range d.Modules {
			if m != nil {
				m.Register(r)
			}
		}
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(d.Logger, domain.RoleAdmin))
			for _, m := range d.Admin {
				if m != nil {
					m.Register(r)
				}
			}
		})
	})
	return r
}

const healthTimeout = 2 * time.Second

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": state, "checks": results})
	}
}
