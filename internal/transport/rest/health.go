package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

const pingTimeout = 3 * time.Second

// pinger is the connectivity probe shared by the pool and the cache client.
type pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness, readiness and health endpoints.
// Readiness gates on the post store only; reads survive a cache outage, so
// the cache is reported but never fails the probe.
type HealthHandler struct {
	store   pinger
	cache   pinger
	version string
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(store, cache pinger, version string) *HealthHandler {
	return &HealthHandler{store: store, cache: cache, version: version}
}

// HealthResponse is the JSON body of /health and /ready.
type HealthResponse struct {
	Status     string                     `json:"status"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
	Timestamp  time.Time                  `json:"timestamp"`
}

// ComponentHealth is one probed dependency.
type ComponentHealth struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
}

// Live always returns 200; the process is up.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
	})
}

// Ready returns 200 when the post store answers, 503 otherwise.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status, code = "down", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
	})
}

// Health probes every dependency with latency. A dead store reports down with
// 503; a dead cache only degrades the overall status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	components := map[string]ComponentHealth{
		"database": probe(ctx, h.store),
		"cache":    probe(ctx, h.cache),
	}

	overall, code := "ok", http.StatusOK
	switch {
	case components["database"].Status != "ok":
		overall, code = "down", http.StatusServiceUnavailable
	case components["cache"].Status != "ok":
		overall = "degraded"
	}

	writeJSON(w, code, HealthResponse{
		Status:     overall,
		Version:    h.version,
		Components: components,
		Timestamp:  time.Now(),
	})
}

func probe(ctx context.Context, p pinger) ComponentHealth {
	start := time.Now()
	if err := p.Ping(ctx); err != nil {
		return ComponentHealth{Status: "down"}
	}
	return ComponentHealth{Status: "ok", Latency: time.Since(start).String()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}
