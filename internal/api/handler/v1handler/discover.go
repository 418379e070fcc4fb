package v1handler

import (
	"encoding/json"
	"net/http"

	"sitefinder/pkg/domain"
	"sitefinder/pkg/serrors"
)

// DiscoverRequest is the payload of POST /v1/discover.
type DiscoverRequest struct {
	Record domain.BusinessRecord `json:"record"`
	// Mode names the discovery profile; empty falls back to the configured
	// default.
	Mode string `json:"mode,omitempty"`
}

// Discover runs a discovery waterfall for one business record.
func (h *Handler) Discover(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req DiscoverRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode request"))

		return
	}
	if req.Record.Name == "" {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "record.name is required"))

		return
	}

	mode := domain.Mode(req.Mode)
	if mode == "" {
		mode = h.opts.DefaultMode
	}
	if _, err := domain.ProfileFor(mode); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "invalid mode"))

		return
	}

	result := h.deps.Discoverer.Discover(ctx, req.Record, mode)
	writeJSON(ctx, w, http.StatusOK, result)
}

// VerifyRequest is the payload of POST /v1/verify.
type VerifyRequest struct {
	Record domain.BusinessRecord `json:"record"`
	URL    string                `json:"url"`
}

// VerifyResponse wraps the evaluation of one URL.
type VerifyResponse struct {
	Evaluation domain.Evaluation `json:"evaluation"`
}

// Verify evaluates one caller-provided URL against a record.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, serrors.Wrap(serrors.ErrBadRequest, err, "could not decode request"))

		return
	}
	if req.URL == "" {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "url is required"))

		return
	}
	if req.Record.Name == "" {
		writeError(ctx, w, serrors.With(serrors.ErrBadRequest, "record.name is required"))

		return
	}

	eval, err := h.deps.Discoverer.Verify(ctx, req.URL, req.Record)
	if err != nil {
		writeError(ctx, w, err)

		return
	}

	writeJSON(ctx, w, http.StatusOK, VerifyResponse{Evaluation: eval})
}
