package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"invoicegen-backend/models"
)

func newChatServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotModel string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization: got %q", got)
		}
		var req struct {
			Model string `json:"model"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotModel
}

func TestGeminiModelGenerate(t *testing.T) {
	srv, gotModel := newChatServer(t, http.StatusOK, `{
		"id": "1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"insights\": [\"Looking good.\"]}"}, "finish_reason": "stop"}]
	}`)

	m := NewGeminiModel("test-key", "gemini-2.5-flash", srv.URL)
	if m.Name() != "gemini-2.5-flash" {
		t.Errorf("name: got %q", m.Name())
	}

	insights, err := NewAssistant(m, 5*time.Second, 0).Insights(context.Background(), models.InvoiceStatistics{TotalInvoices: 1})
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(insights) != 1 || insights[0] != "Looking good." {
		t.Errorf("insights: got %v", insights)
	}
	if *gotModel != "gemini-2.5-flash" {
		t.Errorf("model sent: got %q", *gotModel)
	}
}

func TestOpenAIModelErrors(t *testing.T) {
	t.Run("quota", func(t *testing.T) {
		srv, _ := newChatServer(t, http.StatusForbidden,
			`{"error": {"message": "quota exceeded", "type": "insufficient_quota"}}`)

		_, err := NewAssistant(NewGeminiModel("test-key", "gemini-2.5-flash", srv.URL), 5*time.Second, 2).
			Insights(context.Background(), models.InvoiceStatistics{TotalInvoices: 1})

		var ue *UpstreamError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UpstreamError, got %v", err)
		}
		if ue.Kind != AuthOrQuota {
			t.Errorf("kind: got %s, want auth_or_quota", ue.Kind)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		srv, _ := newChatServer(t, http.StatusOK, `{"id": "1", "choices": []}`)

		_, err := NewGeminiModel("test-key", "gemini-2.5-flash", srv.URL).Generate(context.Background(), "hi")
		if !errors.Is(err, errEmptyReply) {
			t.Errorf("got %v, want errEmptyReply", err)
		}
	})
}
