// Package api exposes the comparison pipeline over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"StockLens/internal/compare"
	"StockLens/internal/metrics"
)

// Server holds the handler dependencies.
type Server struct {
	Service  *compare.Service
	Resolver compare.Resolver
	Metrics  *metrics.Metrics
	Timeout  time.Duration
	Now      func() time.Time

	logger *zap.Logger
}

// NewServer creates a Server. A nil logger is replaced by a no-op one.
func NewServer(svc *compare.Service, resolver compare.Resolver, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Service:  svc,
		Resolver: resolver,
		Metrics:  m,
		Timeout:  60 * time.Second,
		Now:      time.Now,
		logger:   logger,
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.Timeout))

	r.Get("/", s.dashboard)
	r.Get("/about", s.about)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/resolve", s.resolve)
		r.Get("/history", s.historyJSON)
		r.Get("/history.xlsx", s.historyXLSX)
		r.Get("/history.png", s.historyPNG)
		r.Get("/compare", s.compareJSON)
		r.Get("/compare.xlsx", s.compareXLSX)
		r.Get("/compare.png", s.comparePNG)
	})
	return r
}
