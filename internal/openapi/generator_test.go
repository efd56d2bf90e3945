package openapi

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDocument_ValidOpenAPI(t *testing.T) {
	doc := Document("1.2.3")

	if doc.OpenAPI != "3.1.0" {
		t.Errorf("OpenAPI version = %q, want %q", doc.OpenAPI, "3.1.0")
	}
	if doc.Info == nil {
		t.Fatal("Info is nil")
	}
	if doc.Info.Title != "AskDB API" {
		t.Errorf("Info.Title = %q, want %q", doc.Info.Title, "AskDB API")
	}
	if doc.Info.Version != "1.2.3" {
		t.Errorf("Info.Version = %q, want %q", doc.Info.Version, "1.2.3")
	}
	if len(doc.Servers) != 1 {
		t.Errorf("Servers count = %d, want 1", len(doc.Servers))
	}
}

func TestDocument_Paths(t *testing.T) {
	doc := Document("dev")

	gets := []string{"/", "/healthz", "/readyz", "/api/v1/config", "/api/v1/debug/env", "/api/v1/stats"}
	for _, path := range gets {
		item := doc.Paths.Find(path)
		if item == nil {
			t.Errorf("missing path %s", path)
			continue
		}
		if item.Get == nil {
			t.Errorf("path %s has no GET operation", path)
		}
	}

	query := doc.Paths.Find("/api/v1/query")
	if query == nil {
		t.Fatal("missing path /api/v1/query")
	}
	if query.Post == nil {
		t.Fatal("query path has no POST operation")
	}
	if query.Get != nil {
		t.Error("query path should not define GET")
	}
}

func TestDocument_QueryOperation(t *testing.T) {
	doc := Document("dev")
	op := doc.Paths.Find("/api/v1/query").Post

	if op.RequestBody == nil || op.RequestBody.Value == nil {
		t.Fatal("query operation has no request body")
	}
	if !op.RequestBody.Value.Required {
		t.Error("request body should be required")
	}

	for _, code := range []string{"200", "400", "429", "503"} {
		if op.Responses.Value(code) == nil {
			t.Errorf("missing %s response", code)
		}
	}
}

func TestDocument_EnvelopeSchema(t *testing.T) {
	doc := Document("dev")

	ref, ok := doc.Components.Schemas["QueryResponse"]
	if !ok {
		t.Fatal("QueryResponse schema not registered")
	}
	props := ref.Value.Properties
	for _, name := range []string{"success", "result", "error", "steps"} {
		if _, ok := props[name]; !ok {
			t.Errorf("QueryResponse missing property %q", name)
		}
	}
	if !props["result"].Value.Nullable {
		t.Error("result should be nullable")
	}

	if _, ok := doc.Components.Schemas["QueryStep"]; !ok {
		t.Error("QueryStep schema not registered")
	}
}

func TestDocument_ErrorResponseSchema(t *testing.T) {
	doc := Document("dev")

	ref, ok := doc.Components.Schemas["ErrorResponse"]
	if !ok {
		t.Fatal("ErrorResponse schema not registered")
	}
	errProps := ref.Value.Properties["error"].Value.Properties
	code, ok := errProps["code"]
	if !ok {
		t.Fatal("error schema missing code")
	}
	if !code.Value.Type.Is("integer") {
		t.Errorf("error.code type = %v, want integer", code.Value.Type)
	}
}

func TestDocument_MarshalsToJSON(t *testing.T) {
	doc := Document("dev")

	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out := string(raw)
	for _, want := range []string{`"openapi":"3.1.0"`, "/api/v1/query", "QueryResponse", "StatsSnapshot"} {
		if !strings.Contains(out, want) {
			t.Errorf("marshalled document missing %q", want)
		}
	}
}
