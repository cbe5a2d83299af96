package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Gemini  GeminiConfig
	Agent   AgentConfig
	Tools   ToolsConfig
	Session SessionConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type LogConfig struct {
	JSON          bool
	Debug         bool
	PreviewLength int
}

// GeminiConfig only names the models. The API key is entered per session in the UI.
type GeminiConfig struct {
	MultiModel  string
	SingleModel string
}

type AgentConfig struct {
	MaxSteps int
}

type ToolsConfig struct {
	GitHubBaseURL string
	ExaBaseURL    string
	HTTPTimeout   time.Duration
}

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Capacity   int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

var defaults = map[string]any{
	"PORT":                "3000",
	"ENV":                 "development",
	"LOG_JSON":            false,
	"LOG_DEBUG":           false,
	"LOG_PREVIEW_LENGTH":  200,
	"GEMINI_MODEL_MULTI":  "gemini-2.5-flash",
	"GEMINI_MODEL_SINGLE": "gemini-2.5-pro",
	"AGENT_MAX_STEPS":     12,
	"GITHUB_BASE_URL":     "",
	"EXA_BASE_URL":        "https://api.exa.ai",
	"HTTP_TIMEOUT":        "30s",
	"SESSION_COOKIE":      "candilyzer_session",
	"SESSION_TTL":         "12h",
	"SESSION_CAPACITY":    1024,
	"UPLOAD_PATH":         "./tmp/resumes",
	"MAX_FILE_SIZE":       10485760,
}

// Load reads an optional .env file and then resolves every key from the
// environment, falling back to defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Log: LogConfig{
			JSON:          v.GetBool("LOG_JSON"),
			Debug:         v.GetBool("LOG_DEBUG"),
			PreviewLength: v.GetInt("LOG_PREVIEW_LENGTH"),
		},
		Gemini: GeminiConfig{
			MultiModel:  strings.TrimSpace(v.GetString("GEMINI_MODEL_MULTI")),
			SingleModel: strings.TrimSpace(v.GetString("GEMINI_MODEL_SINGLE")),
		},
		Agent: AgentConfig{
			MaxSteps: v.GetInt("AGENT_MAX_STEPS"),
		},
		Tools: ToolsConfig{
			GitHubBaseURL: strings.TrimSpace(v.GetString("GITHUB_BASE_URL")),
			ExaBaseURL:    strings.TrimSpace(v.GetString("EXA_BASE_URL")),
			HTTPTimeout:   v.GetDuration("HTTP_TIMEOUT"),
		},
		Session: SessionConfig{
			CookieName: v.GetString("SESSION_COOKIE"),
			TTL:        v.GetDuration("SESSION_TTL"),
			Capacity:   v.GetInt("SESSION_CAPACITY"),
		},
		Storage: StorageConfig{
			UploadPath:  v.GetString("UPLOAD_PATH"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return errors.New("PORT must not be empty")
	}
	if c.Gemini.MultiModel == "" || c.Gemini.SingleModel == "" {
		return errors.New("gemini model names must not be empty")
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("AGENT_MAX_STEPS must be positive, got %d", c.Agent.MaxSteps)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	if c.Session.Capacity <= 0 {
		return fmt.Errorf("SESSION_CAPACITY must be positive, got %d", c.Session.Capacity)
	}
	if c.Storage.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive, got %d", c.Storage.MaxFileSize)
	}
	return nil
}
