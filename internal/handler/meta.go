package handler

import (
	"net/http"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/stats"
	"github.com/askdb/askdb/internal/store"
)

// MetaHandler serves service metadata: root info, readiness, effective
// configuration, and usage counters.
type MetaHandler struct {
	cfg     config.Config
	store   *store.Store
	svc     *service.QueryService
	stats   *stats.Collector
	version string
}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler(cfg config.Config, st *store.Store, svc *service.QueryService, collector *stats.Collector, version string) *MetaHandler {
	return &MetaHandler{
		cfg:     cfg,
		store:   st,
		svc:     svc,
		stats:   collector,
		version: version,
	}
}

// Root returns basic service identity.
// GET /
func (h *MetaHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ServiceInfo{
		Name:    "askdb",
		Version: h.version,
		Status:  "running",
	})
}

// Readiness reports whether the service can answer queries: the agent must be
// bound and the database reachable.
// GET /readyz
func (h *MetaHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	status := model.ReadyStatus{
		Status:     "ready",
		AgentReady: h.svc.Ready(),
		Database:   "ok",
	}

	if err := h.store.Ping(r.Context()); err != nil {
		status.Database = "error: " + err.Error()
	}
	if !status.AgentReady || status.Database != "ok" {
		status.Status = "not_ready"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Config returns the effective non-secret configuration. The API key is
// masked, never echoed.
// GET /api/v1/config
func (h *MetaHandler) Config(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, model.ConfigInfo{
		DatabaseURL:  h.cfg.Database.URL,
		DatabasePath: h.store.Path(),
		Provider:     h.cfg.LLM.Provider,
		Model:        h.cfg.LLM.Model,
		Temperature:  h.cfg.LLM.Temperature,
		APIKeyMasked: h.cfg.LLM.MaskedKey(),
		BaseURL:      h.cfg.LLM.BaseURL,
		CORSOrigins:  h.cfg.Server.CORSOrigins,
	})
}

// DebugEnv reports which credentials are present and how paths resolved,
// without exposing secrets.
// GET /api/v1/debug/env
func (h *MetaHandler) DebugEnv(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"api_key_set":    h.cfg.LLM.APIKey != "",
		"api_key_masked": h.cfg.LLM.MaskedKey(),
		"base_url":       h.cfg.LLM.BaseURL,
		"provider":       h.cfg.LLM.Provider,
		"model":          h.cfg.LLM.Model,
		"database_url":   h.cfg.Database.URL,
		"database_path":  h.store.Path(),
	})
}

// Stats returns the per-instance usage counters plus current table sizes.
// GET /api/v1/stats
func (h *MetaHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.stats.Snapshot(r.Context()))
}
