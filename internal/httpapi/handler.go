// Package httpapi exposes the OpenAI-compatible HTTP surface: chat
// completions (aggregated and SSE), the model catalog, stub embeddings, and
// health/metrics endpoints.
package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/config"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/logger"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/metrics"
	"github.com/ZoneTwelveWorkspace/dummy-openai-api/internal/mock"
)

// Handler carries the shared admission gate into every request. The gate is
// the only cross-request state; everything else is per-request.
type Handler struct {
	cfg  config.Config
	gate mock.Admitter
}

func NewHandler(cfg config.Config, gate mock.Admitter) *Handler {
	return &Handler{cfg: cfg, gate: gate}
}

// Routes returns the full route table.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", h.ChatCompletions)
	mux.HandleFunc("POST /v1/embeddings", h.Embeddings)
	mux.HandleFunc("GET /v1/models", h.ListModels)
	mux.HandleFunc("GET /v1/models/{id}", h.GetModel)
	mux.HandleFunc("GET /health", h.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

// ChatCompletions handles POST /v1/chat/completions, dispatching between the
// aggregated and SSE paths on the stream flag.
func (h *Handler) ChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req mock.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues("invalid", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	if req.Model == "" {
		metrics.RequestsTotal.WithLabelValues("invalid", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "model is required")
		return
	}
	if len(req.Messages) == 0 {
		metrics.RequestsTotal.WithLabelValues("invalid", "rejected").Inc()
		writeError(w, http.StatusBadRequest, "invalid_request", "messages is required")
		return
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = h.cfg.DefaultTokens
	}

	id := uuid.NewString()
	logger.Log.Infow("[http][chat_completions] session start",
		"id", id, "model", req.Model, "maxTokens", maxTokens, "stream", req.Stream)

	if req.Stream {
		start := time.Now()
		events := mock.StartStream(r.Context(), h.gate, maxTokens)
		delivered, completed := serveStream(w, r, id, events)

		status := "aborted"
		if completed {
			status = "ok"
		}
		metrics.RequestsTotal.WithLabelValues("stream", status).Inc()
		metrics.TokensEmitted.WithLabelValues("stream").Add(float64(delivered))
		metrics.RequestLatency.WithLabelValues("stream").Observe(time.Since(start).Seconds())

		logger.Log.Infow("[http][chat_completions] session end",
			"id", id, "delivered", delivered, "completed", completed)
		return
	}

	start := time.Now()
	resp := mock.Complete(id, req, maxTokens, h.gate)

	metrics.RequestsTotal.WithLabelValues("sync", "ok").Inc()
	metrics.TokensEmitted.WithLabelValues("sync").Add(float64(maxTokens))
	metrics.RequestLatency.WithLabelValues("sync").Observe(time.Since(start).Seconds())

	logger.Log.Infow("[http][chat_completions] session end",
		"id", id, "latencyMs", time.Since(start).Milliseconds(), "tokens", resp.Usage.TotalTokens)
	writeJSON(w, http.StatusOK, resp)
}

// ListModels handles GET /v1/models.
func (h *Handler) ListModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, mock.ModelList{Object: "list", Data: mock.Models})
}

// GetModel handles GET /v1/models/{id}.
func (h *Handler) GetModel(w http.ResponseWriter, r *http.Request) {
	m, ok := mock.LookupModel(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Model not found")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Embeddings handles POST /v1/embeddings with deterministic stub vectors.
// The input may be a single string or an array of strings.
func (h *Handler) Embeddings(w http.ResponseWriter, r *http.Request) {
	var req mock.EmbeddingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}

	var texts []string
	switch in := req.Input.(type) {
	case string:
		texts = []string{in}
	case []any:
		for _, v := range in {
			s, ok := v.(string)
			if !ok {
				writeError(w, http.StatusBadRequest, "invalid_request", "input must be string or array of strings")
				return
			}
			texts = append(texts, s)
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid_request", "input is required")
		return
	}
	if len(texts) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "input is required")
		return
	}

	model := req.Model
	if model == "" {
		model = "text-embedding-ada-002"
	}

	items := make([]mock.EmbeddingItem, 0, len(texts))
	tokens := 0
	for i, text := range texts {
		items = append(items, mock.EmbeddingItem{
			Object:    "embedding",
			Embedding: mock.Embed(text),
			Index:     i,
		})
		tokens += mock.EmbeddingTokens(text)
	}

	writeJSON(w, http.StatusOK, mock.EmbeddingResponse{
		Object: "list",
		Data:   items,
		Model:  model,
		Usage:  mock.EmbeddingUsage{PromptTokens: tokens, TotalTokens: tokens},
	})
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnw("[http] failed to write response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, typ, msg string) {
	writeJSON(w, status, mock.ErrorResponse{
		Error: mock.ErrorDetail{Message: msg, Type: typ},
	})
}
