package handler

import (
	"errors"
	"net/http"

	"github.com/askdb/askdb/internal/model"
	"github.com/askdb/askdb/internal/service"
	"github.com/askdb/askdb/internal/stats"
)

// QueryHandler serves the natural-language query endpoint.
type QueryHandler struct {
	svc   *service.QueryService
	stats *stats.Collector
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(svc *service.QueryService, collector *stats.Collector) *QueryHandler {
	return &QueryHandler{
		svc:   svc,
		stats: collector,
	}
}

// Query answers one natural-language question about the sales data.
// POST /api/v1/query
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req model.QueryRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.Execute(r.Context(), req.Query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAgentNotReady):
			writeError(w, http.StatusServiceUnavailable, "Agent not initialized yet, try again shortly")
		case errors.Is(err, service.ErrEmptyQuery):
			writeError(w, http.StatusBadRequest, "Query must not be empty")
		default:
			writeError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		}
		return
	}

	h.stats.RecordQuery(resp.Success)
	writeJSON(w, http.StatusOK, resp)
}
