// Package config reads runtime settings from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thomasfsr/fitgenius/src/llm"
)

type Config struct {
	LLM llm.Config

	ProgressStore  string // memory, sqlite, postgres or redis
	SQLitePath     string
	DatabaseURL    string
	RedisURL       string
	ProgressWindow int

	ObjectStore string // none, dir or redis
	ObjectDir   string

	SearchURL string // empty uses the offline stub

	HTTPAddr           string
	CORSAllowedOrigins []string
	JWTSecret          string

	LogLevel  string
	LogFormat string // console or json
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	getEnv := func(key, defaultValue string) string {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
		return defaultValue
	}

	cfg := &Config{
		LLM: llm.Config{
			APIKey:      getEnv("LLM_API_KEY", getEnv("GROQ_API_KEY", getEnv("OPENAI_API_KEY", ""))),
			BaseURL:     getEnv("LLM_BASE_URL", llm.DefaultBaseURL),
			Model:       getEnv("LLM_MODEL", llm.DefaultModel),
			VisionModel: getEnv("VISION_MODEL", llm.DefaultVisionModel),
		},
		ProgressStore: strings.ToLower(getEnv("PROGRESS_STORE", "memory")),
		SQLitePath:    getEnv("SQLITE_PATH", "fitgenius.db"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
		ObjectStore:   strings.ToLower(getEnv("OBJECT_STORE", "none")),
		ObjectDir:     getEnv("OBJECT_DIR", "uploads"),
		SearchURL:     getEnv("SEARCH_URL", ""),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "console")),
	}

	window, err := strconv.Atoi(getEnv("PROGRESS_WINDOW", "30"))
	if err != nil || window < 1 {
		return nil, fmt.Errorf("PROGRESS_WINDOW must be a positive integer, got %q", os.Getenv("PROGRESS_WINDOW"))
	}
	cfg.ProgressWindow = window

	for _, origin := range strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	switch cfg.ProgressStore {
	case "memory", "sqlite", "redis":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when PROGRESS_STORE=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown PROGRESS_STORE %q", cfg.ProgressStore)
	}
	switch cfg.ObjectStore {
	case "none", "dir", "redis":
	default:
		return nil, fmt.Errorf("unknown OBJECT_STORE %q", cfg.ObjectStore)
	}
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if cfg.LogFormat != "console" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be console or json, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// AgentEnabled reports whether a model key is configured.
func (c *Config) AgentEnabled() bool { return c.LLM.APIKey != "" }
