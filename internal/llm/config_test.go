package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func clearVendorKeys(t *testing.T) {
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "MENTOR_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"mock", Config{Provider: ProviderMock}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "k"}}, false},
		{"unknown", Config{Provider: "bard"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			assert.Equal(t, tt.wantErr, err != nil, "err = %v", err)
		})
	}
}

func TestConfigFromEnv_Explicit(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("MENTOR_LLM_PROVIDER", "openai")
	t.Setenv("MENTOR_OPENAI_API_KEY", "sk-test")
	t.Setenv("MENTOR_OPENAI_MODEL", "gpt-4o")
	t.Setenv("MENTOR_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "5s", cfg.Timeout.String())
	assert.True(t, cfg.Enabled())
}

func TestConfigFromEnv_Discovered(t *testing.T) {
	clearVendorKeys(t)
	t.Setenv("ANTHROPIC_API_KEY", "sk-ant")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderAnthropic, cfg.Provider)
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
}

func TestConfigFromEnv_NoneConfigured(t *testing.T) {
	clearVendorKeys(t)
	cfg := ConfigFromEnv()
	assert.False(t, cfg.Enabled())
	assert.NoError(t, cfg.Validate())
}
