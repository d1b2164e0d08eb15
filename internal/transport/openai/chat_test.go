package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/chat"
)

// chatRequest mirrors the OpenAI-compatible chat completion request.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func chatResponseBody(answer string) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  "test-model",
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": answer},
				"finish_reason": "stop",
			},
		},
	}
}

func TestChat_Complete(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatResponseBody("The loan amount is $20,000."))
	}))
	defer server.Close()

	c := NewChat(&ChatConfig{
		APIKey:    "test-key",
		BaseURL:   server.URL,
		Model:     "test-model",
		MaxTokens: 512,
		Logger:    zap.NewNop(),
	})

	history := []chat.Message{
		{Text: "What documents did I upload?", Sender: chat.SenderUser},
		{Text: "You uploaded a bank statement.", Sender: chat.SenderAI},
	}

	answer, err := c.Complete(context.Background(), "You answer from context.", history, "What is the loan amount?")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if answer != "The loan amount is $20,000." {
		t.Errorf("answer = %q", answer)
	}

	if len(captured.Messages) != 4 {
		t.Fatalf("sent %d messages, expected 4", len(captured.Messages))
	}
	wantRoles := []string{"system", "user", "assistant", "user"}
	for i, role := range wantRoles {
		if captured.Messages[i].Role != role {
			t.Errorf("message[%d].role = %q, expected %q", i, captured.Messages[i].Role, role)
		}
	}
	if captured.Messages[3].Content != "What is the loan amount?" {
		t.Errorf("last message = %q", captured.Messages[3].Content)
	}
}

func TestChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream down", "type": "server_error"},
		})
	}))
	defer server.Close()

	c := NewChat(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), "sys", nil, "query")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Errorf("err = %v, expected ErrChatProviderError", err)
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id": "chatcmpl-1", "object": "chat.completion", "model": "test-model",
			"choices": []map[string]any{},
		})
	}))
	defer server.Close()

	c := NewChat(&ChatConfig{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "test-model",
		Logger:  zap.NewNop(),
	})

	_, err := c.Complete(context.Background(), "sys", nil, "query")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Errorf("err = %v, expected ErrChatProviderError", err)
	}
}
