// Package api exposes the visibility engine over HTTP.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/M-AKIMOTOO/uptimeplot/internal/auth"
	"github.com/M-AKIMOTOO/uptimeplot/internal/cache"
	"github.com/M-AKIMOTOO/uptimeplot/internal/catalog"
	"github.com/M-AKIMOTOO/uptimeplot/internal/config"
	"github.com/M-AKIMOTOO/uptimeplot/internal/health"
	"github.com/M-AKIMOTOO/uptimeplot/internal/httputil"
	"github.com/M-AKIMOTOO/uptimeplot/internal/metrics"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        config.Config
	store      *catalog.Store
	results    *cache.ResultCache
}

// NewServer creates a configured HTTP server.
func NewServer(addr string, logger *slog.Logger, cfg config.Config, store *catalog.Store, results *cache.ResultCache) *Server {
	s := &Server{
		logger:  logger,
		cfg:     cfg,
		store:   store,
		results: results,
	}

	mux := http.NewServeMux()

	// Register routes.
	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /readyz", health.Readyz(store))
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /api/v1/visibility", s.handleVisibility)
	mux.HandleFunc("POST /api/v1/samples", s.handleSamples)
	mux.HandleFunc("GET /api/v1/catalog", s.handleGetCatalog)
	mux.HandleFunc("PUT /api/v1/catalog", s.handlePutCatalog)

	// Build middleware chain: metrics -> logging -> auth -> mux.
	var handler http.Handler = mux
	handler = auth.Middleware(auth.Config{Enabled: cfg.AuthEnabled, Token: cfg.AuthToken})(handler)
	handler = loggingMiddleware(logger, cfg.TrustProxy)(handler)
	handler = metrics.Middleware(handler)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// HTTPServer returns the underlying *http.Server for external control (e.g. shutdown).
func (s *Server) HTTPServer() *http.Server {
	return s.httpServer
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Handler returns the full middleware-wrapped handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "uptimeplot",
		"api":     "/api/v1",
	})
}

// probePath returns true for health/readiness probe paths that should not log at INFO.
func probePath(path string) bool {
	return path == "/healthz" || path == "/readyz"
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *slog.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			requestID := uuid.NewString()
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(sr, r)

			duration := time.Since(start)
			level := slog.LevelInfo
			if probePath(r.URL.Path) {
				level = slog.LevelDebug
			}

			logger.Log(r.Context(), level, "request",
				"component", "api",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", strconv.Itoa(sr.statusCode),
				"duration_ms", duration.Milliseconds(),
				"remote_ip", httputil.ClientIP(r, trustProxy),
			)
		})
	}
}
