package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "raw json object",
			input:    `{"blocks": []}`,
			expected: `{"blocks": []}`,
		},
		{
			name:     "json with leading text",
			input:    `Here is the plan: {"blocks": [{"label": "test"}]}`,
			expected: `{"blocks": [{"label": "test"}]}`,
		},
		{
			name:     "json in code block",
			input:    "```json\n{\"blocks\": []}\n```",
			expected: `{"blocks": []}`,
		},
		{
			name:     "json in plain code block",
			input:    "```\n{\"blocks\": []}\n```",
			expected: `{"blocks": []}`,
		},
		{
			name:     "json array",
			input:    `[{"id": 1}, {"id": 2}]`,
			expected: `[{"id": 1}, {"id": 2}]`,
		},
		{
			name:     "nested json",
			input:    `{"outer": {"inner": {"deep": true}}}`,
			expected: `{"outer": {"inner": {"deep": true}}}`,
		},
		{
			name: "markdown with explanation",
			input: `Here's your day:

` + "```json" + `
{
  "blocks": [
    {"label": "Write code", "energy": "high"}
  ]
}
` + "```" + `

Good luck!`,
			expected: `{
  "blocks": [
    {"label": "Write code", "energy": "high"}
  ]
}`,
		},
		{
			name:     "no json",
			input:    "sorry, I can't help",
			expected: "sorry, I can't help",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractJSON(tt.input)
			if got != tt.expected {
				t.Errorf("extractJSON() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// completionServer answers chat completions with reply and records the last request body.
func completionServer(t *testing.T, reply string, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIClient_Chat(t *testing.T) {
	var body map[string]any
	srv := completionServer(t, "hello there", &body)

	client, err := NewLMStudioClient("test-model", srv.URL+"/v1")
	if err != nil {
		t.Fatalf("NewLMStudioClient: %v", err)
	}

	got, err := client.Chat(context.Background(), []Message{
		{Role: RoleSystem, Content: "be brief"},
		{Role: RoleUser, Content: "hi"},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if got != "hello there" {
		t.Errorf("Chat() = %q, want %q", got, "hello there")
	}
	if body["model"] != "test-model" {
		t.Errorf("request model = %v", body["model"])
	}
	msgs, _ := body["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("request messages = %d, want 2", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["role"] != "system" {
		t.Errorf("first role = %v, want system", first["role"])
	}
}

func TestOpenAIClient_ChatJSON(t *testing.T) {
	srv := completionServer(t, "```json\n{\"summary\": \"ok\", \"count\": 2}\n```", nil)

	client, err := NewLMStudioClient("test-model", srv.URL+"/v1")
	if err != nil {
		t.Fatalf("NewLMStudioClient: %v", err)
	}

	var result struct {
		Summary string `json:"summary"`
		Count   int    `json:"count"`
	}
	if err := client.ChatJSON(context.Background(), []Message{{Role: RoleUser, Content: "go"}}, &result); err != nil {
		t.Fatalf("ChatJSON: %v", err)
	}
	if result.Summary != "ok" || result.Count != 2 {
		t.Errorf("unexpected result %+v", result)
	}
}

func TestOpenAIClient_ChatJSONInvalid(t *testing.T) {
	srv := completionServer(t, "{not json", nil)

	client, err := NewLMStudioClient("test-model", srv.URL+"/v1")
	if err != nil {
		t.Fatalf("NewLMStudioClient: %v", err)
	}

	var result map[string]any
	if err := client.ChatJSON(context.Background(), nil, &result); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestNewOpenAIClient_RequiresKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewOpenAIClient("gpt-4o-mini", ""); err == nil {
		t.Fatal("expected error without OPENAI_API_KEY")
	}
}

func TestNewLMStudioClient_EmptyModel(t *testing.T) {
	if _, err := NewLMStudioClient(" ", ""); err == nil {
		t.Fatal("expected error for empty model")
	}
}

func TestErrNoChoicesIsComparable(t *testing.T) {
	wrapped := errors.Join(errors.New("ctx"), ErrNoChoices)
	if !errors.Is(wrapped, ErrNoChoices) {
		t.Fatal("expected errors.Is to match ErrNoChoices")
	}
}
