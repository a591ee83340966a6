package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server    ServerConfig
	Ollama    OllamaConfig
	Session   SessionConfig
	Knowledge KnowledgeConfig
	Log       LogConfig

	// CompanyName is the fallback assistant identity used when the
	// knowledge document carries no title.
	CompanyName string
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// OllamaConfig describes the inference collaborator.
type OllamaConfig struct {
	BaseURL string
	Model   string
	// Timeout bounds the blocking generate call. The original deployment
	// ran without one; it is exposed here as an operational knob.
	Timeout time.Duration
}

// SessionConfig controls in-memory conversation lifetimes.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// KnowledgeConfig points at the static knowledge document.
type KnowledgeConfig struct {
	Path string
}

// LogConfig controls log verbosity.
type LogConfig struct {
	Level string
}

// Load reads the configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	timeout, err := parseSecondsEnv("OLLAMA_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}

	ttl, err := parseSecondsEnv("SESSION_TTL", time.Hour)
	if err != nil {
		return nil, err
	}

	sweep, err := parseSecondsEnv("SESSION_SWEEP_INTERVAL", time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		Ollama: OllamaConfig{
			BaseURL: getEnvOrDefault("OLLAMA_BASE_URL", "http://localhost:11434/api"),
			Model:   getEnvOrDefault("MODEL", "phi4-mini:latest"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			TTL:           ttl,
			SweepInterval: sweep,
		},
		Knowledge: KnowledgeConfig{
			Path: getEnvOrDefault("KNOWLEDGE_FILE", "knowledge_base.json"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		CompanyName: getEnvOrDefault("COMPANY_NAME", "Tech Support Argentina"),
	}, nil
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("WEB_PORT"))
	if port == "" {
		port = "8140"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8140" or "127.0.0.1:8140" directly.
		return ServerConfig{Addr: port}, nil
	}

	if _, err := strconv.Atoi(port); err != nil {
		return ServerConfig{}, fmt.Errorf("invalid WEB_PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

// parseSecondsEnv reads a positive integer number of seconds.
func parseSecondsEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	if val <= 0 {
		return 0, fmt.Errorf("invalid %s value %q: must be positive", key, raw)
	}
	return time.Duration(val) * time.Second, nil
}
