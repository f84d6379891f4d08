package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GregMSThompson/energyhub-backend/internal/handlers"
	"github.com/GregMSThompson/energyhub-backend/internal/middleware"
)

type Options struct {
	// Auth wraps /api when non-nil.
	Auth           func(http.Handler) http.Handler
	MetricsEnabled bool
}

func NewRouter(deps *handlers.Deps, opts Options) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggerMiddleware(deps.Log).LoggerMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		deps.ResponseHandler.WriteSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	lh := handlers.NewLoanHandlers(deps)

	r.Route("/api", func(r chi.Router) {
		if opts.Auth != nil {
			r.Use(opts.Auth)
		}
		r.Mount("/loans", lh.LoanRoutes())
	})
	return r
}
