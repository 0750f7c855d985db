// Package server exposes the operational HTTP surface: health probes
// and Prometheus metrics.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kittyscape/lootbot/internal/database"
	"github.com/kittyscape/lootbot/internal/logger"
	"github.com/kittyscape/lootbot/internal/metrics"
)

const readyzTimeout = 2 * time.Second

// healthResponse is the body of the health endpoints.
type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type Server struct {
	httpServer *http.Server
}

func NewServer(port int, dbPool database.Pool) *Server {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handleHealthz())
	r.Get("/readyz", handleReadyz(dbPool))
	r.Handle("/metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func handleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// handleReadyz reports ready only when the database answers a ping.
func handleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyzTimeout)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Error("readiness check failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, healthResponse{
				Status:  "unavailable",
				Message: "database unreachable",
			})
			return
		}

		writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck // response is best effort
}

// loggingMiddleware logs each request at debug level.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.FromContext(r.Context()).Debug("http request",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
