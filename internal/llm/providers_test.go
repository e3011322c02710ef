package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gapJSON = `{"feedback_text":"Keep going."}`

func newTestAnthropicProvider(t *testing.T, handler http.HandlerFunc) *AnthropicProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := anthropic.NewClient(
		option.WithAPIKey("test-key"),
		option.WithBaseURL(server.URL),
		option.WithMaxRetries(0),
	)
	return &AnthropicProvider{client: &client, model: "claude-haiku-4-5"}
}

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := newOpenAIProviderRaw(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"}, openaiModels)
	require.NoError(t, err)
	return p
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 120, "output_tokens": 40},
	}
}

func openAICompletion(content string, finish openai.FinishReason) map[string]any {
	return map[string]any{
		"id":     "chatcmpl-test",
		"object": "chat.completion",
		"model":  "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 80, "completion_tokens": 20, "total_tokens": 100},
	}
}

func TestAnthropicProvider_Generate(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, anthropicMessage(gapJSON, "end_turn"))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "You are a mentor.",
		Messages:  UserPrompt("Write feedback."),
		MaxTokens: 256,
		Schema:    feedbackTestSchema(),
	})
	require.NoError(t, err)
	assert.JSONEq(t, gapJSON, string(resp.Content))
	assert.Equal(t, 160, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)
}

func TestAnthropicProvider_MaxTokens(t *testing.T) {
	p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, anthropicMessage(`{"feedback_te`, "max_tokens"))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 5})
	var maxTok *ErrMaxTokensExceeded
	assert.True(t, errors.As(err, &maxTok), "got %T", err)
}

func TestAnthropicProvider_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, func(err error) bool { var e *ErrRateLimit; return errors.As(err, &e) }},
		{http.StatusInternalServerError, func(err error) bool { var e *ErrProviderUnavailable; return errors.As(err, &e) }},
		{http.StatusUnauthorized, func(err error) bool { var e *ErrRequestRejected; return errors.As(err, &e) }},
	}
	for _, tt := range tests {
		p := newTestAnthropicProvider(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, tt.status, map[string]any{
				"type":  "error",
				"error": map[string]any{"type": "api_error", "message": "nope"},
			})
		})
		_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), MaxTokens: 10})
		require.Error(t, err)
		assert.True(t, tt.check(err), "status %d mapped to %T", tt.status, err)
	}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "gpt-4o-mini", body["model"])
		assert.NotNil(t, body["response_format"])
		writeJSON(w, http.StatusOK, openAICompletion(gapJSON, openai.FinishReasonStop))
	})

	resp, err := p.Generate(context.Background(), Request{
		System:    "sys",
		Messages:  UserPrompt("Write feedback."),
		Schema:    feedbackTestSchema(),
		MaxTokens: 256,
	})
	require.NoError(t, err)
	assert.JSONEq(t, gapJSON, string(resp.Content))
	assert.Equal(t, 80, resp.Usage.InputTokens)
}

func TestOpenAIProvider_SchemaViolation(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, openAICompletion(`{"other":1}`, openai.FinishReasonStop))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x"), Schema: feedbackTestSchema()})
	var inv *ErrInvalidResponse
	assert.True(t, errors.As(err, &inv), "got %T", err)
}

func TestOpenAIProvider_ErrorMapping(t *testing.T) {
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, map[string]any{
			"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"},
		})
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserPrompt("x")})
	var rl *ErrRateLimit
	assert.True(t, errors.As(err, &rl), "got %T", err)
}

func TestNewOpenRouterProvider(t *testing.T) {
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())

	_, err = NewOpenRouterProvider(OpenRouterConfig{Model: "x"})
	assert.Error(t, err)
}

func TestModelMapping(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5", resolveModel("claude-haiku", anthropicModels))
	assert.Equal(t, "gemini-2.5-flash", resolveModel("gemini-flash", geminiModels))
	assert.Equal(t, "custom-model", resolveModel("custom-model", openaiModels))
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_type": map[string]any{"type": "string", "enum": []any{"mcq", "true_false"}},
			"options":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": 4},
		},
		"additionalProperties": false,
		"required": []any{"question_type"},
	})
	require.Contains(t, s.Properties, "question_type")
	assert.Equal(t, []string{"mcq", "true_false"}, s.Properties["question_type"].Enum)
	assert.NotNil(t, s.Properties["options"].Items)
	require.NotNil(t, s.Properties["options"].MaxItems)
	assert.Equal(t, int64(4), *s.Properties["options"].MaxItems)
	assert.Equal(t, []string{"question_type"}, s.Required)
}
