// Package server exposes the payoff simulator over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iwvelando/debt-payoff/internal/metrics"
	"github.com/iwvelando/debt-payoff/pkg/constants"
	"github.com/iwvelando/debt-payoff/pkg/payoff"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Simulator is the service the handlers delegate to.
type Simulator interface {
	Simulate(ctx context.Context, req payoff.Request) (payoff.Result, error)
	ActiveLoans(ctx context.Context) ([]payoff.Loan, error)
}

type handler struct {
	logger      *zap.Logger
	simulator   Simulator
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the simulation API.
func NewHandler(logger *zap.Logger, simulator Simulator, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, simulator: simulator, maxBodySize: maxBodySize, version: trimmedVersion}

	r := mux.NewRouter()
	r.Use(h.requestMiddleware)

	r.HandleFunc("/api/loans/simulate", h.handleSimulate).Methods(http.MethodPost)
	r.HandleFunc("/api/loans", h.handleListLoans).Methods(http.MethodGet)
	r.HandleFunc("/api/version", h.handleVersion).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}

func (h *handler) handleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSimulate"
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	var req payoff.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), op)
		return
	}

	result, err := h.simulator.Simulate(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "simulation failed"
		if errors.Is(err, payoff.ErrInvalidInput) {
			status = http.StatusBadRequest
			msg = err.Error()
		} else {
			h.logger.Error("simulation failed",
				zap.String("op", op),
				zap.String("request_id", w.Header().Get(RequestIDHeader)),
				zap.Error(err),
			)
		}
		h.respondErrorWithOp(w, r, status, msg, op)
		return
	}

	h.logger.Debug("simulation served",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.Duration("duration", time.Since(start)),
	)
	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleListLoans(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListLoans"

	loans, err := h.simulator.ActiveLoans(r.Context())
	if err != nil {
		h.logger.Error("failed to list loans",
			zap.String("op", op),
			zap.Error(err),
		)
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, "failed to list loans", op)
		return
	}
	if loans == nil {
		loans = []payoff.Loan{}
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"loans": loans,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// requestMiddleware tags the request with an id, then logs and counts it.
func (h *handler) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()

		h.logger.Info("request handled",
			zap.String("op", "server.requestMiddleware"),
			zap.String("request_id", requestID),
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Warn("request failed",
		zap.String("op", op),
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
