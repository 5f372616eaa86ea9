package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mbot-dev/multibot/internal/modules/chat/domain"
)

func TestCompletionClient_Complete(t *testing.T) {
	var gotAuth string
	var gotRequest completionRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": "generated reply"}},
			},
		})
	}))
	defer server.Close()

	client := NewCompletionClient(server.URL, "secret-key", "gpt-4o")

	reply, err := client.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "generated reply" {
		t.Errorf("unexpected reply %q", reply)
	}

	if gotAuth != "Bearer secret-key" {
		t.Errorf("unexpected authorization header %q", gotAuth)
	}
	if gotRequest.Model != "gpt-4o" {
		t.Errorf("unexpected model %q", gotRequest.Model)
	}
	if gotRequest.MaxTokens != completionMaxTokens {
		t.Errorf("unexpected max tokens %d", gotRequest.MaxTokens)
	}
	if gotRequest.Temperature != completionTemperature {
		t.Errorf("unexpected temperature %v", gotRequest.Temperature)
	}
	if len(gotRequest.Messages) != 1 || gotRequest.Messages[0].Content != "hello" {
		t.Errorf("unexpected messages %v", gotRequest.Messages)
	}
}

func TestCompletionClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewCompletionClient(server.URL, "key", "gpt-4o")

	_, err := client.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCompletionClient_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewCompletionClient(server.URL, "key", "gpt-4o")

	_, err := client.Complete(context.Background(), []domain.Message{
		{Role: domain.RoleUser, Content: "hello"},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
