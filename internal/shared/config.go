package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Session   SessionConfig   `toml:"session"`
	Database  DatabaseConfig  `toml:"database"`
	WebSocket WebSocketConfig `toml:"websocket"`
}

// ServerConfig contains settings for reaching the Einkaufsliste API server.
type ServerConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// SessionConfig contains token storage and refresh policy settings.
type SessionConfig struct {
	// File holds the session JSON. Empty means <config dir>/session.json.
	File string `toml:"file"`
	// RefreshLeadSeconds is how long before expiry a token counts as expiring.
	RefreshLeadSeconds int `toml:"refresh_lead_seconds"`
	// RefreshCooldownSeconds is the minimum gap between successful refreshes.
	RefreshCooldownSeconds int `toml:"refresh_cooldown_seconds"`
	// RefreshMaxRetries bounds retry attempts for transient refresh failures.
	RefreshMaxRetries int `toml:"refresh_max_retries"`
	// IdleTimeoutMinutes forces logout after this much inactivity. Zero disables.
	IdleTimeoutMinutes int `toml:"idle_timeout_minutes"`
}

// DatabaseConfig contains snapshot database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// WebSocketConfig contains event channel settings.
type WebSocketConfig struct {
	HeartbeatSeconds     int `toml:"heartbeat_seconds"`
	ReconnectMaxSeconds  int `toml:"reconnect_max_seconds"`
	ReconnectBaseSeconds int `toml:"reconnect_base_seconds"`
}

// HTTPTimeout returns the per-request timeout for API calls. Unset means 30s.
func (c *Config) HTTPTimeout() time.Duration {
	if c.Server.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

// Heartbeat returns the WebSocket ping interval. Zero leaves the event
// client's default in place.
func (c *Config) Heartbeat() time.Duration {
	return time.Duration(c.WebSocket.HeartbeatSeconds) * time.Second
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	// Check if file already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s: %w", path, err)
	}

	// Write the embedded example config to the file
	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
