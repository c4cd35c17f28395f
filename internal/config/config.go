// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port         string
	FrontendURL  string
	DBPath       string
	JWTSecret    string
	HistoryLimit int
	Agent        AgentConfig
	Timeout      TimeoutConfig
}

// AgentConfig holds upstream agent endpoints and credentials.
type AgentConfig struct {
	DataAgentURL   string
	TicketAgentURL string
	TokenURL       string
	ClientID       string
	Username       string
	Password       string
	CallTimeout    time.Duration
}

// TimeoutConfig groups request deadlines.
type TimeoutConfig struct {
	HealthCheck time.Duration
	Shutdown    time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	historyLimit := getEnvInt("CHAT_HISTORY_LIMIT", 6)
	if historyLimit <= 0 {
		historyLimit = 6
	}

	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		FrontendURL:  getEnv("FRONTEND_URL", ""),
		DBPath:       getEnv("DB_PATH", "./data/orders.db"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		HistoryLimit: historyLimit,
		Agent: AgentConfig{
			DataAgentURL:   getEnv("DATA_AGENT_URL", ""),
			TicketAgentURL: getEnv("TICKET_AGENT_URL", ""),
			TokenURL:       getEnv("AGENT_TOKEN_URL", ""),
			ClientID:       getEnv("AGENT_CLIENT_ID", ""),
			Username:       getEnv("AGENT_USERNAME", ""),
			Password:       getEnv("AGENT_PASSWORD", ""),
			CallTimeout:    getEnvDuration("AGENT_CALL_TIMEOUT", 30*time.Second),
		},
		Timeout: TimeoutConfig{
			HealthCheck: getEnvDuration("HEALTH_CHECK_TIMEOUT", 5*time.Second),
			Shutdown:    getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.Agent.DataAgentURL == "" {
		return fmt.Errorf("DATA_AGENT_URL cannot be empty")
	}
	if c.Agent.TicketAgentURL == "" {
		return fmt.Errorf("TICKET_AGENT_URL cannot be empty")
	}
	if c.Agent.CallTimeout <= 0 {
		return fmt.Errorf("AGENT_CALL_TIMEOUT must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
