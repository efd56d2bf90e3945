// Package service contains the query façade between the transports (HTTP,
// MCP, CLI) and the agent.
package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/model"
)

var (
	// ErrEmptyQuery is returned for blank or whitespace-only input. The
	// agent is never invoked in that case.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrAgentNotReady is returned while no agent is bound yet.
	ErrAgentNotReady = errors.New("agent not ready")
)

// QueryService validates questions, gates on readiness, and normalizes every
// agent outcome into the response envelope. Agent failures are envelope data,
// not errors: the only errors Execute returns are the two sentinels above,
// which callers map to their transport's invalid-input and unavailable
// responses.
type QueryService struct {
	mu sync.RWMutex
	ag agent.Agent
}

// NewQueryService returns an unbound service. Execute fails with
// ErrAgentNotReady until Bind is called.
func NewQueryService() *QueryService {
	return &QueryService{}
}

// Bind attaches the agent and marks the service ready. Safe to call while
// requests are in flight.
func (s *QueryService) Bind(ag agent.Agent) {
	s.mu.Lock()
	s.ag = ag
	s.mu.Unlock()
}

// Ready reports whether an agent is bound.
func (s *QueryService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ag != nil
}

// Execute runs one question through the agent, invoking it at most once.
// The question is forwarded exactly as given; only the emptiness check uses
// the trimmed form.
func (s *QueryService) Execute(ctx context.Context, query string) (model.QueryResponse, error) {
	s.mu.RLock()
	ag := s.ag
	s.mu.RUnlock()

	if ag == nil {
		return model.QueryResponse{}, ErrAgentNotReady
	}
	if strings.TrimSpace(query) == "" {
		return model.QueryResponse{}, ErrEmptyQuery
	}

	res, err := ag.Answer(ctx, query)
	if err != nil {
		return model.FailureResponse(err.Error()), nil
	}
	return model.SuccessResponse(res.Output, res.Steps), nil
}
