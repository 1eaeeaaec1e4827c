package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"grimm.is/dnswatch/internal/aggregate"
	"grimm.is/dnswatch/internal/config"
	"grimm.is/dnswatch/internal/health"
	"grimm.is/dnswatch/internal/logging"
	"grimm.is/dnswatch/internal/metrics"
	"grimm.is/dnswatch/internal/updater"
)

// ServerConfig holds HTTP server hardening configuration.
type ServerConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// DefaultServerConfig returns the standard timeouts.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}
}

// Server exposes the read-only status API: health, summary and update
// metadata as JSON plus Prometheus metrics. It exists for external
// health-check collaborators; the interactive dashboard is a separate
// system.
type Server struct {
	cfg     *config.Config
	agg     *aggregate.Aggregator
	checker *health.Checker
	logger  *logging.Logger
	metrics *metrics.Registry
}

// NewServer creates a Server.
func NewServer(cfg *config.Config, agg *aggregate.Aggregator, checker *health.Checker, logger *logging.Logger, reg *metrics.Registry) *Server {
	return &Server{
		cfg:     cfg,
		agg:     agg,
		checker: checker,
		logger:  logger,
		metrics: reg,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/summary", s.handleSummary).Methods(http.MethodGet)
	r.HandleFunc("/api/metadata", s.handleMetadata).Methods(http.MethodGet)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	return r
}

// ListenAndServe runs the API until ctx is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	sc := DefaultServerConfig()
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: sc.ReadHeaderTimeout,
		ReadTimeout:       sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
		IdleTimeout:       sc.IdleTimeout,
		MaxHeaderBytes:    sc.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status API listening", "addr", s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.checker.Check())
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	days := 1
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 365 {
			s.writeError(w, http.StatusBadRequest, "days must be an integer between 1 and 365")
			return
		}
		days = n
	}
	device := r.URL.Query().Get("device")

	s.writeJSON(w, http.StatusOK, s.agg.Aggregate(days, device))
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	meta, err := updater.ReadMetadata(s.cfg.DomainsDir())
	if err != nil {
		s.writeError(w, http.StatusNotFound, "no update has run yet")
		return
	}
	s.writeJSON(w, http.StatusOK, meta)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("cannot encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
