// Package v1handler implements the v1 JSON API: discovery runs, single-URL
// verification and a health probe.
package v1handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"sitefinder/internal/config"
	"sitefinder/internal/discovery"
	"sitefinder/pkg/domain"
	"sitefinder/pkg/logger"
	"sitefinder/pkg/serrors"
)

// Deps holds the collaborators the handlers work against.
type Deps struct {
	// Discoverer runs discovery and verification. Required.
	Discoverer discovery.Discoverer
}

// Options holds handler configuration.
type Options struct {
	// DefaultMode is the discovery mode used when a request names none.
	DefaultMode domain.Mode
}

// NewOptions constructs Options from the application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{DefaultMode: domain.Mode(cfg.Discovery.DefaultMode)}
}

// Handler serves the v1 endpoints.
type Handler struct {
	deps Deps
	opts Options
}

// New constructs a Handler with the given collaborators.
func New(deps Deps, opts Options) *Handler {
	return &Handler{deps: deps, opts: opts}
}

// Register attaches the v1 routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/discover", h.Discover)
	mux.HandleFunc("POST /v1/verify", h.Verify)
	mux.HandleFunc("GET /healthz", h.Health)
}

// Health answers liveness probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// errorResponse is the uniform error payload of the v1 API.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON serializes v with the given status. Encoding failures are logged,
// not surfaced; headers are already flushed by then.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error(ctx, "could not encode response", zap.Error(err))
	}
}

// writeError maps semantic error kinds to HTTP status codes.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, serrors.ErrBadRequest), errors.Is(err, serrors.ErrConfigInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, serrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, serrors.ErrTimeout):
		status = http.StatusGatewayTimeout
	case errors.Is(err, serrors.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, serrors.ErrUnavailable), errors.Is(err, serrors.ErrBlocked):
		status = http.StatusBadGateway
	}

	writeJSON(ctx, w, status, errorResponse{Error: err.Error()})
}
