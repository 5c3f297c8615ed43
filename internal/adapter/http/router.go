package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/okri/splitbook/internal/adapter/http/handler"
	"github.com/okri/splitbook/internal/adapter/http/middleware"
	"github.com/okri/splitbook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	TransferHandler    *handler.TransferHandler
	HealthHandler      *handler.HealthHandler
	TokenVerifier      middleware.TokenVerifier
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logger             zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.TokenVerifier))

		if cfg.RateLimiter != nil {
			r.Use(cfg.RateLimiter.Limit)
		}

		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		r.Route("/accounts", func(r chi.Router) {
			r.Post("/", cfg.AccountHandler.Create)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{accountID}", cfg.AccountHandler.Get)
			r.Patch("/{accountID}", cfg.AccountHandler.Update)
			r.Delete("/{accountID}", cfg.AccountHandler.Delete)

			r.Post("/{accountID}/share", cfg.AccountHandler.Share)
			r.Patch("/{accountID}/share/{userID}", cfg.AccountHandler.UpdateShare)
			r.Delete("/{accountID}/share/{userID}", cfg.AccountHandler.Unshare)

			r.Route("/{accountID}/transactions", func(r chi.Router) {
				r.Post("/", cfg.TransactionHandler.Add)
				r.Get("/", cfg.TransactionHandler.List)
				r.Get("/{id}", cfg.TransactionHandler.Get)
				r.Patch("/{id}", cfg.TransactionHandler.Update)
				r.Delete("/{id}", cfg.TransactionHandler.Delete)
			})
		})

		r.Post("/transfers", cfg.TransferHandler.Create)
	})

	return r
}
