package config

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasfsr/fitgenius/src/llm"
)

var managedKeys = []string{
	"LLM_API_KEY", "GROQ_API_KEY", "OPENAI_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "VISION_MODEL",
	"PROGRESS_STORE", "SQLITE_PATH", "DATABASE_URL", "REDIS_URL", "PROGRESS_WINDOW",
	"OBJECT_STORE", "OBJECT_DIR", "SEARCH_URL", "HTTP_ADDR", "CORS_ALLOWED_ORIGINS",
	"JWT_SECRET", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every key Load reads; Load treats empty values as unset.
func clearEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range managedKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, llm.DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, llm.DefaultModel, cfg.LLM.Model)
	assert.Empty(t, cfg.LLM.APIKey)
	assert.False(t, cfg.AgentEnabled())
	assert.Equal(t, "memory", cfg.ProgressStore)
	assert.Equal(t, 30, cfg.ProgressWindow)
	assert.Equal(t, "none", cfg.ObjectStore)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GROQ_API_KEY", "gsk_test")
	t.Setenv("PROGRESS_STORE", "Postgres")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/fit")
	t.Setenv("PROGRESS_WINDOW", "14")
	t.Setenv("OBJECT_STORE", "dir")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gsk_test", cfg.LLM.APIKey)
	assert.True(t, cfg.AgentEnabled())
	assert.Equal(t, "postgres", cfg.ProgressStore)
	assert.Equal(t, 14, cfg.ProgressWindow)
	assert.Equal(t, "dir", cfg.ObjectStore)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_APIKeyPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("LLM_API_KEY", "explicit")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "explicit", cfg.LLM.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"window not a number":  {"PROGRESS_WINDOW": "month"},
		"window zero":          {"PROGRESS_WINDOW": "0"},
		"unknown store":        {"PROGRESS_STORE": "dynamodb"},
		"postgres without dsn": {"PROGRESS_STORE": "postgres"},
		"unknown object store": {"OBJECT_STORE": "s3"},
		"bad log level":        {"LOG_LEVEL": "loud"},
		"bad log format":       {"LOG_FORMAT": "xml"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &Config{LogLevel: "warn", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Info().Msg("hidden")
	log.Warn().Str("tool", "bmi_calculator").Msg("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"tool":"bmi_calculator"`)
	assert.Contains(t, out, `"level":"warn"`)
}
