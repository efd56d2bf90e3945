package service

import (
	"context"
	"errors"
	"testing"

	"github.com/askdb/askdb/internal/agent"
	"github.com/askdb/askdb/internal/model"
)

// fakeAgent records invocations and returns a canned result or error.
type fakeAgent struct {
	calls    int
	lastSeen string
	result   *agent.Result
	err      error
}

func (f *fakeAgent) Answer(_ context.Context, question string) (*agent.Result, error) {
	f.calls++
	f.lastSeen = question
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestExecuteNotReady(t *testing.T) {
	svc := NewQueryService()

	_, err := svc.Execute(context.Background(), "how many sales people are there?")
	if !errors.Is(err, ErrAgentNotReady) {
		t.Fatalf("expected ErrAgentNotReady, got %v", err)
	}
	if svc.Ready() {
		t.Fatal("unbound service reported ready")
	}
}

func TestExecuteNotReadyBeforeEmptyCheck(t *testing.T) {
	svc := NewQueryService()

	// A blank question against an unbound service is a readiness failure,
	// not an input failure.
	_, err := svc.Execute(context.Background(), "   ")
	if !errors.Is(err, ErrAgentNotReady) {
		t.Fatalf("expected ErrAgentNotReady, got %v", err)
	}
}

func TestExecuteEmptyQuery(t *testing.T) {
	fake := &fakeAgent{result: &agent.Result{Output: "unused"}}
	svc := NewQueryService()
	svc.Bind(fake)

	for _, q := range []string{"", "   ", "\t\n  "} {
		_, err := svc.Execute(context.Background(), q)
		if !errors.Is(err, ErrEmptyQuery) {
			t.Fatalf("query %q: expected ErrEmptyQuery, got %v", q, err)
		}
	}
	if fake.calls != 0 {
		t.Fatalf("agent invoked %d times for blank input", fake.calls)
	}
}

func TestExecuteSuccess(t *testing.T) {
	fake := &fakeAgent{result: &agent.Result{
		Output: "There are 8 sales people.",
		Steps: []model.QueryStep{
			{Tool: "generate_sql", Input: "how many?", Observation: "SELECT COUNT(*) FROM sales_people"},
		},
	}}
	svc := NewQueryService()
	svc.Bind(fake)

	resp, err := svc.Execute(context.Background(), "how many?")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success envelope")
	}
	if resp.Result == nil || *resp.Result != "There are 8 sales people." {
		t.Fatalf("unexpected result: %v", resp.Result)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error field: %q", resp.Error)
	}
	if len(resp.Steps) != 1 || resp.Steps[0].Tool != "generate_sql" {
		t.Fatalf("steps not forwarded: %+v", resp.Steps)
	}
	if fake.calls != 1 {
		t.Fatalf("agent invoked %d times, want 1", fake.calls)
	}
}

func TestExecuteAgentFailureBecomesEnvelope(t *testing.T) {
	fake := &fakeAgent{err: errors.New("generate sql: rate limited")}
	svc := NewQueryService()
	svc.Bind(fake)

	resp, err := svc.Execute(context.Background(), "how many?")
	if err != nil {
		t.Fatalf("agent failure must not surface as error, got %v", err)
	}
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Result != nil {
		t.Fatalf("failure envelope carries result: %v", *resp.Result)
	}
	if resp.Error != "generate sql: rate limited" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if fake.calls != 1 {
		t.Fatalf("agent invoked %d times, want 1", fake.calls)
	}
}

func TestExecuteForwardsQueryVerbatim(t *testing.T) {
	fake := &fakeAgent{result: &agent.Result{Output: "ok"}}
	svc := NewQueryService()
	svc.Bind(fake)

	const q = "  top seller last week?  "
	if _, err := svc.Execute(context.Background(), q); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if fake.lastSeen != q {
		t.Fatalf("question was altered: %q", fake.lastSeen)
	}
}

func TestReadyAfterBind(t *testing.T) {
	svc := NewQueryService()
	if svc.Ready() {
		t.Fatal("ready before Bind")
	}
	svc.Bind(&fakeAgent{result: &agent.Result{Output: "ok"}})
	if !svc.Ready() {
		t.Fatal("not ready after Bind")
	}
}
