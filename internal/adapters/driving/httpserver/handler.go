// Package httpserver exposes the redaction API over HTTP.
//
// The single functional endpoint is POST /api/redact: it forwards the
// submitted text to the configured generative-AI classifier and
// returns the sensitive substrings found. The classifier upstream is
// rate- and quota-limited, so the handler throttles requests before
// they reach it.
package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/domain"
	"github.com/LucasOliveira02/Confidential-Information-Redactor/internal/core/ports/driven"
)

// Handler implements all HTTP endpoints.
type Handler struct {
	classifier driven.Classifier
	limiter    *rate.Limiter // nil disables throttling
}

// NewHandler creates a Handler. Pass a nil limiter to disable
// throttling.
func NewHandler(classifier driven.Classifier, limiter *rate.Limiter) *Handler {
	return &Handler{
		classifier: classifier,
		limiter:    limiter,
	}
}

// Register mounts routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/redact", h.redact)
}

type redactRequest struct {
	Text string `json:"text"`
}

type redactResponse struct {
	PII []string `json:"pii"`
}

type errorResponse struct {
	Error string `json:"error"`
	Raw   string `json:"raw,omitempty"`
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handler) redact(w http.ResponseWriter, r *http.Request) {
	if h.limiter != nil && !h.limiter.Allow() {
		slog.Warn("redact: request throttled")
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded, try again shortly"})
		return
	}

	var req redactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be JSON with a \"text\" field"})
		return
	}

	spans, err := h.classifier.Classify(r.Context(), req.Text)
	if err != nil {
		slog.Error("redact: classification failed", "err", err)

		var malformed *domain.MalformedOutputError
		if errors.As(err, &malformed) {
			// Carry the unparseable upstream payload for diagnostics.
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error: "classifier returned malformed output",
				Raw:   malformed.Raw,
			})
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}

	if spans == nil {
		spans = []string{}
	}
	slog.Info("redact: classified", "text_len", len(req.Text), "spans", len(spans))
	writeJSON(w, http.StatusOK, redactResponse{PII: spans})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("write response", "err", err)
	}
}
