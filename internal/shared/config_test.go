package shared

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		config := DefaultConfig()

		if config.Server.BaseURL != "http://localhost:8000" {
			t.Errorf("expected base URL http://localhost:8000, got %s", config.Server.BaseURL)
		}

		if config.Session.RefreshLeadSeconds != 60 {
			t.Errorf("expected refresh lead 60s, got %d", config.Session.RefreshLeadSeconds)
		}

		if config.Session.IdleTimeoutMinutes != 30 {
			t.Errorf("expected idle timeout 30m, got %d", config.Session.IdleTimeoutMinutes)
		}

		if config.Database.Path != "./einkauf.db" {
			t.Errorf("expected database path ./einkauf.db, got %s", config.Database.Path)
		}

		if config.WebSocket.HeartbeatSeconds != 30 {
			t.Errorf("expected heartbeat 30s, got %d", config.WebSocket.HeartbeatSeconds)
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		loaded, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}
		if loaded.Server.BaseURL != "http://localhost:8000" {
			t.Errorf("round-tripped base URL mismatch: %s", loaded.Server.BaseURL)
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("expected error when config file already exists")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		t.Run("Missing File", func(t *testing.T) {
			if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
				t.Error("expected error for missing file")
			}
		})

		t.Run("Invalid TOML", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.toml")
			if err := os.WriteFile(path, []byte("[server\nbase_url = "), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected parse error")
			}
		})

		t.Run("Overrides", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			body := "[server]\nbase_url = \"https://list.example.org\"\n[session]\nrefresh_max_retries = 5\n"
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			config, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("failed to load config: %v", err)
			}
			if config.Server.BaseURL != "https://list.example.org" {
				t.Errorf("expected overridden base URL, got %s", config.Server.BaseURL)
			}
			if config.Session.RefreshMaxRetries != 5 {
				t.Errorf("expected 5 retries, got %d", config.Session.RefreshMaxRetries)
			}
		})
	})
}

func TestConfigDurations(t *testing.T) {
	t.Run("HTTPTimeout", func(t *testing.T) {
		config := &Config{}
		if got := config.HTTPTimeout(); got != 30*time.Second {
			t.Errorf("expected 30s default, got %v", got)
		}
		config.Server.TimeoutSeconds = 5
		if got := config.HTTPTimeout(); got != 5*time.Second {
			t.Errorf("expected 5s, got %v", got)
		}
	})

	t.Run("Heartbeat", func(t *testing.T) {
		config := &Config{}
		if got := config.Heartbeat(); got != 0 {
			t.Errorf("expected zero for unset heartbeat, got %v", got)
		}
		config.WebSocket.HeartbeatSeconds = 45
		if got := config.Heartbeat(); got != 45*time.Second {
			t.Errorf("expected 45s, got %v", got)
		}
	})
}
