package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/jonathan/content-studio/internal/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMessagesServer answers every Messages call with reply and records the last request body.
func newMessagesServer(t *testing.T, reply string, captured *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if captured != nil {
			_ = json.Unmarshal(body, captured)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":          "msg_test",
			"type":        "message",
			"role":        "assistant",
			"model":       "claude-haiku-4-5-20251001",
			"stop_reason": "end_turn",
			"content":     []map[string]any{{"type": "text", "text": reply}},
			"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestAnthropicClient(t *testing.T, srv *httptest.Server) *AnthropicClient {
	t.Helper()
	c, err := NewAnthropicClient(nil, "test-key",
		anthropicoption.WithBaseURL(srv.URL),
		anthropicoption.WithMaxRetries(0),
	)
	require.NoError(t, err)
	return c
}

func TestAnthropicClient_GenerateContent(t *testing.T) {
	var captured map[string]any
	srv := newMessagesServer(t, "  Una respuesta mejorada.  ", &captured)
	c := newTestAnthropicClient(t, srv)
	temperature := float32(0.5)

	text, err := c.GenerateContent(context.Background(), Request{
		Prompt:      "Mejora esto",
		Tier:        TierLite,
		Temperature: &temperature,
	})
	require.NoError(t, err)
	assert.Equal(t, "Una respuesta mejorada.", text)
	assert.Equal(t, "claude-haiku-4-5-20251001", captured["model"])
	assert.InDelta(t, 0.5, captured["temperature"], 0.0001)
}

func TestAnthropicClient_GenerateJSON(t *testing.T) {
	var captured map[string]any
	srv := newMessagesServer(t, "Claro, aquí está:\n```json\n{\"intro\": \"Hola\"}\n```", &captured)
	c := newTestAnthropicClient(t, srv)

	schema := schemas.Object("", map[string]*schemas.Schema{"intro": schemas.String("")}, "intro")
	text, err := c.GenerateJSON(context.Background(), Request{Prompt: "Escribe", Tier: TierStandard, Schema: schema})
	require.NoError(t, err)
	assert.Equal(t, `{"intro": "Hola"}`, text)

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Contains(t, mustJSON(t, messages[0]), "JSON Schema")
}

func TestAnthropicClient_GenerateJSON_RequiresSchema(t *testing.T) {
	srv := newMessagesServer(t, "{}", nil)
	c := newTestAnthropicClient(t, srv)
	_, err := c.GenerateJSON(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestAnthropicClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"invalid_request_error","message":"bad"}}`))
	}))
	defer srv.Close()

	c := newTestAnthropicClient(t, srv)
	_, err := c.GenerateContent(context.Background(), Request{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to generate content")
}

func TestNewAnthropicClient_RequiresKey(t *testing.T) {
	_, err := NewAnthropicClient(nil, "")
	assert.Error(t, err)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
