// Package web serves the upload, summary and transaction listing endpoints.
package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cleared-dev/basbook/internal/importer"
	"github.com/cleared-dev/basbook/internal/observability"
	"github.com/cleared-dev/basbook/internal/session"
)

// CookieName carries the session ID between requests.
const CookieName = "basbook_session"

// HeaderSessionID is accepted instead of the cookie by API clients.
const HeaderSessionID = "X-Session-ID"

// Service holds what the handlers need.
type Service struct {
	Parsers        *importer.Registry
	DefaultVariant string
	Sessions       *session.Store
	SessionTTL     time.Duration
	MaxUploadBytes int64
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc *Service, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger, metrics))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	r.Post("/upload", uploadHandler(svc, metrics, logger))
	r.Get("/summary", summaryHandler(svc, metrics, logger))
	r.Get("/transactions", transactionsHandler(svc, metrics, logger))
	r.Delete("/session", clearSessionHandler(svc))

	return r
}
