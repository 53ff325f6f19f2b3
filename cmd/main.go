package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/session"
	"github.com/feldhaus/einkauf/internal/shared"
)

func main() {
	logger := shared.NewLogger(nil)
	if os.Getenv("EINKAUF_DEBUG") != "" {
		shared.SetLogLevel(logger, log.DebugLevel)
	}

	config := shared.DefaultConfig()
	configPath := os.Getenv("EINKAUF_CONFIG")
	if configPath == "" {
		configPath = "config.toml"
	}
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	sessionFile := config.Session.File
	if sessionFile == "" {
		dir, err := shared.ConfigDir()
		if err != nil {
			logger.Fatalf("failed to resolve config directory: %v", err)
		}
		sessionFile = filepath.Join(dir, "session.json")
	}

	sessionStore, err := session.NewStore(sessionFile)
	if err != nil {
		logger.Fatalf("failed to open session store: %v", err)
	}

	httpClient := &http.Client{Timeout: config.HTTPTimeout()}

	manager, err := session.NewManager(session.ManagerOpts{
		BaseURL:           config.Server.BaseURL,
		Store:             sessionStore,
		HTTPClient:        httpClient,
		Logger:            logger,
		RefreshLead:       time.Duration(config.Session.RefreshLeadSeconds) * time.Second,
		RefreshCooldown:   time.Duration(config.Session.RefreshCooldownSeconds) * time.Second,
		RefreshMaxRetries: config.Session.RefreshMaxRetries,
	})
	if err != nil {
		logger.Fatalf("failed to create session manager: %v", err)
	}

	client := api.New(api.Options{
		BaseURL:    config.Server.BaseURL,
		Tokens:     manager,
		HTTPClient: httpClient,
		Logger:     logger,
	})

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Session: manager,
		API:     client,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "einkauf",
		Usage:    "Shared household shopping list & meal planner client",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("not logged in, run 'einkauf login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
