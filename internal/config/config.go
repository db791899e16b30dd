// Package config provides configuration for talkflow.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds the talkflow configuration.
//
// Values come from an optional TOML file named by CONFIG_FILE; environment
// variables override the file.
type Config struct {
	// Server settings
	HTTPPort          int    `toml:"http_port"`
	CORSAllowOrigins  string `toml:"cors_allow_origins"`
	ShutdownTimeoutMS int    `toml:"shutdown_timeout_ms"`

	// Ollama backend
	OllamaHost       string `toml:"ollama_host"`
	RequestTimeoutMS int    `toml:"request_timeout_ms"`
	Mode             string `toml:"mode"`

	// Session store
	StoreBackend   string `toml:"store_backend"`
	DatabaseURL    string `toml:"database_url"`
	SessionLocking bool   `toml:"session_locking"`

	// Chat admission policy
	MaxMessageBytes int    `toml:"max_message_bytes"`
	PolicyFile      string `toml:"policy_file"`

	// WebSocket chat
	WSReadTimeoutMS  int   `toml:"ws_read_timeout_ms"`
	WSWriteTimeoutMS int   `toml:"ws_write_timeout_ms"`
	WSPingIntervalMS int   `toml:"ws_ping_interval_ms"`
	WSMaxMessageSize int64 `toml:"ws_max_message_size"`

	// Logging
	LogLevel string `toml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		HTTPPort:          8000,
		CORSAllowOrigins:  "*",
		ShutdownTimeoutMS: 10000,
		OllamaHost:        "http://localhost:11434",
		RequestTimeoutMS:  60000,
		StoreBackend:      StoreMemory,
		DatabaseURL:       ":memory:",
		SessionLocking:    true,
		WSReadTimeoutMS:   60000,
		WSWriteTimeoutMS:  10000,
		WSPingIntervalMS:  30000,
		WSMaxMessageSize:  1 << 20,
		LogLevel:          "info",
	}
}

// Load loads configuration from CONFIG_FILE (if set) and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.HTTPPort = getEnvInt("HTTP_PORT", cfg.HTTPPort)
	cfg.CORSAllowOrigins = getEnv("CORS_ALLOW_ORIGINS", cfg.CORSAllowOrigins)
	cfg.ShutdownTimeoutMS = getEnvInt("SHUTDOWN_TIMEOUT_MS", cfg.ShutdownTimeoutMS)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.RequestTimeoutMS = getEnvInt("REQUEST_TIMEOUT_MS", cfg.RequestTimeoutMS)
	cfg.Mode = getEnv("TALKFLOW_MODE", cfg.Mode)
	cfg.StoreBackend = getEnv("STORE_BACKEND", cfg.StoreBackend)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.SessionLocking = getEnvBool("SESSION_LOCKING", cfg.SessionLocking)
	cfg.MaxMessageBytes = getEnvInt("MAX_MESSAGE_BYTES", cfg.MaxMessageBytes)
	cfg.PolicyFile = getEnv("POLICY_FILE", cfg.PolicyFile)
	cfg.WSReadTimeoutMS = getEnvInt("WS_READ_TIMEOUT_MS", cfg.WSReadTimeoutMS)
	cfg.WSWriteTimeoutMS = getEnvInt("WS_WRITE_TIMEOUT_MS", cfg.WSWriteTimeoutMS)
	cfg.WSPingIntervalMS = getEnvInt("WS_PING_INTERVAL_MS", cfg.WSPingIntervalMS)
	cfg.WSMaxMessageSize = int64(getEnvInt("WS_MAX_MESSAGE_SIZE", int(cfg.WSMaxMessageSize)))
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	c.OllamaHost = strings.TrimRight(strings.TrimSpace(c.OllamaHost), "/")
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.OllamaHost == "" {
		return fmt.Errorf("OLLAMA_HOST is required")
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT_MS: %d", c.RequestTimeoutMS)
	}
	if c.ShutdownTimeoutMS <= 0 {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT_MS: %d", c.ShutdownTimeoutMS)
	}
	if c.WSReadTimeoutMS < 0 || c.WSWriteTimeoutMS < 0 || c.WSPingIntervalMS < 0 {
		return fmt.Errorf("invalid websocket timeouts: read=%d write=%d ping=%d",
			c.WSReadTimeoutMS, c.WSWriteTimeoutMS, c.WSPingIntervalMS)
	}
	if c.WSMaxMessageSize < 0 {
		return fmt.Errorf("invalid WS_MAX_MESSAGE_SIZE: %d", c.WSMaxMessageSize)
	}
	switch c.StoreBackend {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s or %s)", c.StoreBackend, StoreMemory, StoreSQLite)
	}
	if c.MaxMessageBytes < 0 {
		return fmt.Errorf("invalid MAX_MESSAGE_BYTES: %d", c.MaxMessageBytes)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// AccessLog reports whether per-request access logs are written. They are
// suppressed at warn and error level.
func (c *Config) AccessLog() bool {
	return c.LogLevel == "debug" || c.LogLevel == "info"
}

// RequestTimeout bounds each Ollama call.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// ShutdownTimeout bounds graceful server shutdown.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutMS) * time.Millisecond
}

func (c *Config) WSReadTimeout() time.Duration {
	return time.Duration(c.WSReadTimeoutMS) * time.Millisecond
}

func (c *Config) WSWriteTimeout() time.Duration {
	return time.Duration(c.WSWriteTimeoutMS) * time.Millisecond
}

func (c *Config) WSPingInterval() time.Duration {
	return time.Duration(c.WSPingIntervalMS) * time.Millisecond
}

// AllowOrigins splits CORS_ALLOW_ORIGINS on commas.
func (c *Config) AllowOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if boolVal, err := strconv.ParseBool(val); err == nil {
			return boolVal
		}
	}
	return defaultVal
}
