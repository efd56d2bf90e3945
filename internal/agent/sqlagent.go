package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/askdb/askdb/internal/config"
	"github.com/askdb/askdb/internal/store"
)

// maxResultRows caps how many rows of a query result are fed back into the
// answer prompt.
const maxResultRows = 100

// SQLAgent answers questions in three model calls: generate a SQL query from
// the schema, execute it read-only, and phrase the results. A query the
// database rejects gets a single repair round with the error text; a second
// failure fails the whole run.
type SQLAgent struct {
	llm   completer
	store *store.Store
}

// New builds a SQLAgent for the configured provider.
func New(cfg config.LLMConfig, st *store.Store) (*SQLAgent, error) {
	llm, err := newCompleter(cfg)
	if err != nil {
		return nil, err
	}
	return &SQLAgent{llm: llm, store: st}, nil
}

// Answer implements Agent.
func (a *SQLAgent) Answer(ctx context.Context, question string) (*Result, error) {
	res := &Result{}

	schema, err := a.store.SchemaDDL(ctx)
	if err != nil {
		return nil, fmt.Errorf("load schema: %w", err)
	}
	res.addStep("schema", "sales database", schema)

	raw, err := a.llm.Complete(ctx, sqlPrompt(schema, question))
	if err != nil {
		return nil, fmt.Errorf("generate sql: %w", err)
	}
	sql, err := CheckReadOnly(ExtractSQL(raw))
	if err != nil {
		return nil, fmt.Errorf("generated sql rejected: %w", err)
	}
	res.addStep("generate_sql", question, sql)

	rows, err := a.store.QueryRows(ctx, sql, maxResultRows)
	if err != nil {
		res.addStep("execute_sql", sql, "error: "+err.Error())
		sql, rows, err = a.repair(ctx, res, schema, question, sql, err)
		if err != nil {
			return nil, err
		}
	}

	resultsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode results: %w", err)
	}
	res.addStep("execute_sql", sql, string(resultsJSON))

	answer, err := a.llm.Complete(ctx, answerPrompt(question, sql, string(resultsJSON)))
	if err != nil {
		return nil, fmt.Errorf("compose answer: %w", err)
	}
	res.Output = strings.TrimSpace(answer)
	return res, nil
}

// repair gives the model one chance to fix a query the database rejected.
func (a *SQLAgent) repair(ctx context.Context, res *Result, schema, question, badSQL string, execErr error) (string, []map[string]interface{}, error) {
	raw, err := a.llm.Complete(ctx, repairPrompt(schema, question, badSQL, execErr.Error()))
	if err != nil {
		return "", nil, fmt.Errorf("repair sql: %w", err)
	}
	sql, err := CheckReadOnly(ExtractSQL(raw))
	if err != nil {
		return "", nil, fmt.Errorf("repaired sql rejected: %w", err)
	}
	res.addStep("repair_sql", question, sql)

	rows, err := a.store.QueryRows(ctx, sql, maxResultRows)
	if err != nil {
		return "", nil, fmt.Errorf("execute sql: %w", err)
	}
	return sql, rows, nil
}
