// Package agent turns natural-language questions about the sales database
// into guarded SQLite queries and plain-English answers.
package agent

import (
	"context"

	"github.com/askdb/askdb/internal/model"
)

// Agent answers natural-language questions. The query façade depends only on
// this interface, so implementations (and test doubles) are interchangeable.
type Agent interface {
	Answer(ctx context.Context, question string) (*Result, error)
}

// Result is a completed agent run: the answer text plus the recorded
// pipeline steps that produced it.
type Result struct {
	Output string
	Steps  []model.QueryStep
}

func (r *Result) addStep(tool, input, observation string) {
	r.Steps = append(r.Steps, model.QueryStep{
		Tool:        tool,
		Input:       input,
		Observation: observation,
	})
}
