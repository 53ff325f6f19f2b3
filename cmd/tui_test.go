package main

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/session"
	"github.com/feldhaus/einkauf/internal/shared"
)

func TestExpireIdleSession(t *testing.T) {
	server := httptest.NewServer(http.NewServeMux())
	defer server.Close()

	store, err := session.NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create session store: %v", err)
	}
	if err := store.Save(&session.State{
		AccessToken: "tok-1",
		Username:    "greta",
		ObtainedAt:  time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}

	logger := shared.NewLogger(io.Discard)
	manager, err := session.NewManager(session.ManagerOpts{
		BaseURL: server.URL,
		Store:   store,
		Logger:  logger,
	})
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Session: manager,
		API:     api.New(api.Options{BaseURL: server.URL, Tokens: manager, Logger: logger}),
		Logger:  logger,
		Output:  &bytes.Buffer{},
	})

	quit := false
	runner.expireIdleSession(func() { quit = true })

	if !quit {
		t.Error("expected the quit callback to run")
	}
	if _, err := runner.session.State(); !errors.Is(err, shared.ErrNoSession) {
		t.Errorf("expected cleared session state, got %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, shared.ErrNoSession) {
		t.Errorf("expected session file removed, got %v", err)
	}
}
