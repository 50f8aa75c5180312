package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Collector modes.
const (
	ModeAPI  = "api"
	ModeMock = "mock"
)

// Config holds all configuration for the application.
type Config struct {
	App       AppConfig
	Reddit    RedditConfig
	Agent     AgentConfig
	Output    OutputConfig
	Dashboard DashboardConfig
}

// AppConfig holds the identity under which agent sessions are keyed.
type AppConfig struct {
	Name   string
	UserID string
}

// RedditConfig holds the forum API credentials and collector selection.
// Username and Password are optional; script-type apps work without them.
type RedditConfig struct {
	ClientID      string
	ClientSecret  string
	Username      string
	Password      string
	UserAgent     string
	CollectorMode string
}

// AgentConfig holds the LLM credential and model identifier.
type AgentConfig struct {
	APIKey string
	Model  string
}

// OutputConfig holds the snapshot output directory.
type OutputConfig struct {
	Dir string
}

// DashboardConfig holds the local dashboard server settings.
type DashboardConfig struct {
	Port int
}

// Load reads configuration from a .env file and the environment. A missing
// .env file is not an error; system environment variables still apply.
func Load(envPath string) (*Config, error) {
	if envPath == "" {
		envPath = ".env"
	}
	// Best effort: credentials may already be in the environment.
	_ = godotenv.Load(envPath)

	cfg := &Config{
		App: AppConfig{
			Name:   getEnv("APP_NAME", "snooscrape"),
			UserID: getEnv("USER_ID", "default_user"),
		},
		Reddit: RedditConfig{
			ClientID:      getEnv("REDDIT_CLIENT_ID", ""),
			ClientSecret:  getEnv("REDDIT_CLIENT_SECRET", ""),
			Username:      getEnv("REDDIT_USERNAME", ""),
			Password:      getEnv("REDDIT_PASSWORD", ""),
			UserAgent:     getEnv("REDDIT_USER_AGENT", ""),
			CollectorMode: getEnv("COLLECTOR_MODE", ModeAPI),
		},
		Agent: AgentConfig{
			APIKey: getEnv("GOOGLE_API_KEY", ""),
			Model:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Output: OutputConfig{
			Dir: getEnv("OUTPUT_DIR", "reddit_data"),
		},
		Dashboard: DashboardConfig{
			Port: getEnvAsInt("PORT", 8080),
		},
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a
// default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return value
	}
	return defaultValue
}

// validate rejects configurations that cannot reach a ready orchestrator.
func validate(cfg *Config) error {
	if cfg.Agent.APIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY environment variable is required")
	}

	switch cfg.Reddit.CollectorMode {
	case ModeAPI:
		if cfg.Reddit.ClientID == "" {
			return fmt.Errorf("REDDIT_CLIENT_ID environment variable is required")
		}
		if cfg.Reddit.ClientSecret == "" {
			return fmt.Errorf("REDDIT_CLIENT_SECRET environment variable is required")
		}
		// User-Agent is required by the Reddit API rules.
		if cfg.Reddit.UserAgent == "" {
			return fmt.Errorf("REDDIT_USER_AGENT environment variable is required")
		}
	case ModeMock:
		// No credentials needed.
	default:
		return fmt.Errorf("unknown COLLECTOR_MODE: %s (use %q or %q)", cfg.Reddit.CollectorMode, ModeAPI, ModeMock)
	}

	if cfg.Output.Dir == "" {
		return fmt.Errorf("OUTPUT_DIR must not be empty")
	}
	return nil
}
