package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matsuesunset/sunset-service/internal/domain"
)

const maxScoreBody = 64 << 10

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// ForecastService is the domain surface exposed over HTTP.
type ForecastService interface {
	ReadinessChecker
	SunsetForecast(ctx context.Context, date time.Time) (domain.SunsetForecast, error)
	Estimate(r domain.ForecastReading) domain.Estimate
	Today() time.Time
	TimeZone() *time.Location
}

// Server exposes the forecast API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	svc        ForecastService
	logger     *slog.Logger
}

// NewServer creates an HTTP server. Every response carries CORS headers for
// allowOrigin.
func NewServer(addr string, svc ForecastService, allowOrigin string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      withCORS(allowOrigin, mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		svc:    svc,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(svc))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /forecast/sunset", s.handleSunsetForecast)
	mux.HandleFunc("POST /score", s.handleScore)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleSunsetForecast serves the forecast for ?date=YYYY-MM-DD, defaulting
// to today in the service time zone.
func (s *Server) handleSunsetForecast(w http.ResponseWriter, r *http.Request) {
	date := s.svc.Today()
	if q := r.URL.Query().Get("date"); q != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, q, s.svc.TimeZone())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_date"})
			return
		}
		date = parsed
	}

	fc, err := s.svc.SunsetForecast(r.Context(), date)
	if err != nil {
		s.logger.Error("sunset forecast failed", "date", date.Format(time.DateOnly), "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":  "forecast_failed",
			"detail": err.Error(),
		})
		return
	}

	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", fc.CacheTTLSec))
	writeJSON(w, http.StatusOK, fc)
}

// handleScore scores a caller-supplied reading. Missing or null fields use
// the default fallbacks.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var reading domain.ForecastReading
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody)).Decode(&reading); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":  "invalid_body",
			"detail": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Estimate(reading))
}

// withCORS decorates every response with CORS headers and answers preflight
// requests directly.
func withCORS(allowOrigin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", allowOrigin)
		h.Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		h.Set("Access-Control-Allow-Credentials", "false")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
