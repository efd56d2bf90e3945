package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// writeJSON tests
// ---------------------------------------------------------------------------

func TestWriteJSON(t *testing.T) {
	t.Run("writes JSON with correct content type", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeJSON(w, http.StatusOK, map[string]string{"hello": "world"})

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"hello":"world"`) {
			t.Errorf("expected JSON body, got: %s", body)
		}
	})
}

// ---------------------------------------------------------------------------
// writeError tests
// ---------------------------------------------------------------------------

func TestWriteError(t *testing.T) {
	t.Run("writes JSON error response", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, http.StatusBadRequest, "Invalid input")

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %s", ct)
		}
		body := w.Body.String()
		if !strings.Contains(body, `"code":400`) {
			t.Errorf("expected code 400 in body: %s", body)
		}
		if !strings.Contains(body, `"message":"Invalid input"`) {
			t.Errorf("expected message in body: %s", body)
		}
	})

	t.Run("includes context map when provided", func(t *testing.T) {
		w := httptest.NewRecorder()
		writeError(w, http.StatusServiceUnavailable, "Agent not ready", map[string]interface{}{
			"retry_after": 5,
		})

		body := w.Body.String()
		if !strings.Contains(body, `"retry_after":5`) {
			t.Errorf("expected context in body: %s", body)
		}
	})
}

// ---------------------------------------------------------------------------
// readJSON tests
// ---------------------------------------------------------------------------

func TestReadJSON(t *testing.T) {
	t.Run("decodes valid body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/test", strings.NewReader(`{"query": "how many sales?"}`))
		var body struct {
			Query string `json:"query"`
		}
		if err := readJSON(r, &body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if body.Query != "how many sales?" {
			t.Errorf("query = %q", body.Query)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		r := httptest.NewRequest("POST", "/test", strings.NewReader(`{invalid}`))
		var body struct{}
		if err := readJSON(r, &body); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
