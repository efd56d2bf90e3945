package agent

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/askdb/askdb/internal/store"
)

// scriptedCompleter returns canned responses (or errors) in call order.
type scriptedCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", errors.New("scripted completer exhausted")
}

func newTestAgent(t *testing.T, llm completer) *SQLAgent {
	t.Helper()
	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	ctx := context.Background()
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	_, err = s.SeedIfEmpty(ctx,
		store.WithRand(rand.New(rand.NewPCG(7, 7))),
		store.WithNow(func() time.Time { return time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC) }))
	if err != nil {
		t.Fatalf("SeedIfEmpty: %v", err)
	}

	return &SQLAgent{llm: llm, store: s}
}

func TestAnswerHappyPath(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"SELECT COUNT(*) AS n FROM sales_people",
		"There are 8 sales people.",
	}}
	a := newTestAgent(t, llm)

	res, err := a.Answer(context.Background(), "How many sales people are there?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if res.Output != "There are 8 sales people." {
		t.Errorf("output = %q", res.Output)
	}
	if llm.calls != 2 {
		t.Errorf("model called %d times, want 2", llm.calls)
	}

	tools := make([]string, len(res.Steps))
	for i, s := range res.Steps {
		tools[i] = s.Tool
	}
	want := []string{"schema", "generate_sql", "execute_sql"}
	if len(tools) != len(want) {
		t.Fatalf("steps = %v, want %v", tools, want)
	}
	for i := range want {
		if tools[i] != want[i] {
			t.Fatalf("steps = %v, want %v", tools, want)
		}
	}
	if !strings.Contains(res.Steps[2].Observation, `"n":8`) {
		t.Errorf("execute_sql observation = %q, want the count result", res.Steps[2].Observation)
	}
}

func TestAnswerStripsMarkdownFences(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"```sql\nSELECT name FROM sales_people ORDER BY name LIMIT 1\n```",
		"The first sales person is Alice Johnson.",
	}}
	a := newTestAgent(t, llm)

	res, err := a.Answer(context.Background(), "Who comes first alphabetically?")
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got := res.Steps[1].Observation; strings.Contains(got, "```") {
		t.Errorf("generated sql still fenced: %q", got)
	}
	if !strings.Contains(res.Steps[2].Observation, "Alice Johnson") {
		t.Errorf("results missing expected row: %q", res.Steps[2].Observation)
	}
}

func TestAnswerRejectsWriteStatements(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"DELETE FROM sales_people",
	}}
	a := newTestAgent(t, llm)

	_, err := a.Answer(context.Background(), "Remove everyone")
	if err == nil {
		t.Fatal("expected error for a write statement")
	}
	if !strings.Contains(err.Error(), "rejected") {
		t.Errorf("error = %v, want a rejection", err)
	}
	if llm.calls != 1 {
		t.Errorf("model called %d times after rejection, want 1", llm.calls)
	}

	// The roster must be untouched.
	rows, qerr := a.store.QueryRows(context.Background(), "SELECT COUNT(*) AS n FROM sales_people", 1)
	if qerr != nil {
		t.Fatalf("QueryRows: %v", qerr)
	}
	if n, ok := rows[0]["n"].(int64); !ok || n != 8 {
		t.Errorf("sales_people count = %v, want 8", rows[0]["n"])
	}
}

func TestAnswerRepairsFailedQuery(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"SELECT * FROM missing_table",
		"SELECT COUNT(*) AS n FROM sales_people",
		"Eight people.",
	}}
	a := newTestAgent(t, llm)

	res, err := a.Answer(context.Background(), "How many?")
	if err != nil {
		t.Fatalf("Answer after repair: %v", err)
	}
	if res.Output != "Eight people." {
		t.Errorf("output = %q", res.Output)
	}
	if llm.calls != 3 {
		t.Errorf("model called %d times, want 3 (sql, repair, answer)", llm.calls)
	}

	var repaired bool
	for _, s := range res.Steps {
		if s.Tool == "repair_sql" {
			repaired = true
		}
	}
	if !repaired {
		t.Errorf("steps missing repair_sql: %+v", res.Steps)
	}
	if !strings.Contains(llm.prompts[1], "missing_table") {
		t.Errorf("repair prompt does not carry the failed query: %q", llm.prompts[1])
	}
}

func TestAnswerFailsAfterSecondExecutionError(t *testing.T) {
	llm := &scriptedCompleter{responses: []string{
		"SELECT * FROM missing_a",
		"SELECT * FROM missing_b",
	}}
	a := newTestAgent(t, llm)

	_, err := a.Answer(context.Background(), "How many?")
	if err == nil {
		t.Fatal("expected error after failed repair")
	}
	if llm.calls != 2 {
		t.Errorf("model called %d times, want 2 (no answer prompt after failure)", llm.calls)
	}
}

func TestAnswerPropagatesProviderError(t *testing.T) {
	llm := &scriptedCompleter{errs: []error{errors.New("rate limited")}}
	a := newTestAgent(t, llm)

	_, err := a.Answer(context.Background(), "How many?")
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error = %v, want the provider error", err)
	}
}
