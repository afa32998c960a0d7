package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	DatabaseURL       string
	ListenAddr        string
	ReconcileInterval time.Duration
	ReconcileDailyAt  string // optional "HH:MM" for a full nightly sweep
	RecentPlanLimit   int
	AI                AIConfig
}

// AIConfig carries immutable provider settings for the AI planning service.
// It is read once at startup and passed to constructors; nothing mutates it
// afterwards.
type AIConfig struct {
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration
	Temperature   float64
	MaxTokens     int
	OllamaBaseURL string
	OllamaModel   string
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		DatabaseURL:       strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ListenAddr:        strings.TrimSpace(os.Getenv("LISTEN_ADDR")),
		ReconcileInterval: parseMinutes(strings.TrimSpace(os.Getenv("RECONCILE_INTERVAL_MINUTES"))),
		ReconcileDailyAt:  strings.TrimSpace(os.Getenv("RECONCILE_DAILY_AT")),
		RecentPlanLimit:   parseInt(strings.TrimSpace(os.Getenv("RECENT_PLAN_LIMIT"))),
		AI: AIConfig{
			OpenAIAPIKey:  strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			OpenAIBaseURL: strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			OpenAIModel:   strings.TrimSpace(os.Getenv("OPENAI_MODEL")),
			OpenAITimeout: parseSeconds(strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS"))),
			Temperature:   0.7,
			MaxTokens:     1024,
			OllamaBaseURL: strings.TrimSpace(os.Getenv("OLLAMA_BASE_URL")),
			OllamaModel:   strings.TrimSpace(os.Getenv("OLLAMA_MODEL")),
		},
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "cognitive_daily.db"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ReconcileInterval == 0 {
		cfg.ReconcileInterval = 5 * time.Minute
	}
	if cfg.RecentPlanLimit == 0 {
		cfg.RecentPlanLimit = 2
	}
	if cfg.AI.OpenAIModel == "" {
		cfg.AI.OpenAIModel = "gpt-4-turbo"
	}
	if cfg.AI.OpenAITimeout == 0 {
		cfg.AI.OpenAITimeout = 60 * time.Second
	}
	if cfg.AI.OllamaModel == "" {
		cfg.AI.OllamaModel = "llama3"
	}

	return cfg, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := time.ParseDuration(raw + "m")
	if err != nil || minutes <= 0 {
		return 0
	}
	return minutes
}

func parseSeconds(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := time.ParseDuration(raw + "s")
	if err != nil || seconds <= 0 {
		return 0
	}
	return seconds
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
