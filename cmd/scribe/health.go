package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/JaimeStill/scribe/internal/config"
	"github.com/JaimeStill/scribe/pkg/lifecycle"
)

type healthServer struct {
	http            *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func newHealthServer(cfg *config.HealthConfig, lc *lifecycle.Coordinator, shutdownTimeout time.Duration, logger *slog.Logger) *healthServer {
	return &healthServer{
		http: &http.Server{
			Addr:        cfg.Addr(),
			Handler:     healthRoutes(lc),
			ReadTimeout: cfg.ReadTimeoutDuration(),
		},
		logger:          logger.With("system", "health"),
		shutdownTimeout: shutdownTimeout,
	}
}

func healthRoutes(checker lifecycle.ReadinessChecker) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "ok")
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !checker.Ready() {
			writeStatus(w, http.StatusServiceUnavailable, "not ready")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})

	return mux
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}

func (s *healthServer) Start(lc *lifecycle.Coordinator) error {
	go func() {
		s.logger.Info("health server listening", "addr", s.http.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("health server error", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("health server shutdown error", "error", err)
		} else {
			s.logger.Info("health server shutdown complete")
		}
	})

	return nil
}
