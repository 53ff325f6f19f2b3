package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
)

// signToken builds an HS256 token the way the server does. The client never
// verifies the signature, only reads the claims.
func signToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestDecodeToken(t *testing.T) {
	t.Run("Valid Token", func(t *testing.T) {
		exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
		token := signToken(t, "heike", exp)

		expiresAt, subject, err := DecodeToken(token)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if subject != "heike" {
			t.Errorf("expected subject heike, got %s", subject)
		}
		if !expiresAt.Equal(exp) {
			t.Errorf("expected expiry %v, got %v", exp, expiresAt)
		}
	})

	t.Run("Garbage Token", func(t *testing.T) {
		if _, _, err := DecodeToken("not.a.jwt"); err == nil {
			t.Error("expected error for malformed token")
		}
	})
}

func TestStore(t *testing.T) {
	t.Run("Load Missing Session", func(t *testing.T) {
		store := newTestStore(t)
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoSession) {
			t.Errorf("expected ErrNoSession, got %v", err)
		}
	})

	t.Run("Save And Load Round Trip", func(t *testing.T) {
		store := newTestStore(t)
		state := &State{
			AccessToken: "tok",
			Username:    "heike",
			ObtainedAt:  time.Now().Truncate(time.Second),
			ExpiresAt:   time.Now().Add(time.Hour).Truncate(time.Second),
		}

		if err := store.Save(state); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		loaded, err := store.Load()
		if err != nil {
			t.Fatalf("failed to load: %v", err)
		}
		if loaded.AccessToken != "tok" || loaded.Username != "heike" {
			t.Errorf("round trip mismatch: %+v", loaded)
		}
	})

	t.Run("Session File Permissions", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save(&State{AccessToken: "tok"}); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		info, err := os.Stat(store.Path())
		if err != nil {
			t.Fatalf("failed to stat session file: %v", err)
		}
		if perm := info.Mode().Perm(); perm != 0600 {
			t.Errorf("expected 0600 permissions, got %o", perm)
		}
	})

	t.Run("Clear Is Idempotent", func(t *testing.T) {
		store := newTestStore(t)
		if err := store.Save(&State{AccessToken: "tok"}); err != nil {
			t.Fatal(err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("first clear failed: %v", err)
		}
		if err := store.Clear(); err != nil {
			t.Fatalf("second clear failed: %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoSession) {
			t.Errorf("expected ErrNoSession after clear, got %v", err)
		}
	})
}

func TestManager(t *testing.T) {
	t.Run("Login Persists Session", func(t *testing.T) {
		exp := time.Now().Add(30 * time.Minute)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": signToken(t, "heike", exp),
				"token_type":   "bearer",
				"expires_in":   1800,
			})
		}))
		defer server.Close()

		store := newTestStore(t)
		m, err := NewManager(ManagerOpts{BaseURL: server.URL, Store: store})
		if err != nil {
			t.Fatal(err)
		}

		state, err := m.Login(context.Background(), "heike", "secret")
		if err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if state.Username != "heike" {
			t.Errorf("expected username from sub claim, got %s", state.Username)
		}

		persisted, err := store.Load()
		if err != nil {
			t.Fatalf("expected persisted session: %v", err)
		}
		if persisted.AccessToken != state.AccessToken {
			t.Error("persisted token differs from returned one")
		}
	})

	t.Run("Login Rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
		}))
		defer server.Close()

		m, err := NewManager(ManagerOpts{BaseURL: server.URL, Store: newTestStore(t)})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := m.Login(context.Background(), "heike", "wrong"); !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("Unapproved Account", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"detail": "User account is not yet approved"})
		}))
		defer server.Close()

		m, err := NewManager(ManagerOpts{BaseURL: server.URL, Store: newTestStore(t)})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := m.Login(context.Background(), "neu", "secret"); !errors.Is(err, shared.ErrAccountPending) {
			t.Errorf("expected ErrAccountPending, got %v", err)
		}
	})

	t.Run("Token Without Session", func(t *testing.T) {
		m, err := NewManager(ManagerOpts{BaseURL: "http://localhost:1", Store: newTestStore(t)})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := m.Token(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Token Returns Current While Fresh", func(t *testing.T) {
		store := newTestStore(t)
		token := signToken(t, "heike", time.Now().Add(time.Hour))
		if err := store.Save(&State{
			AccessToken: token,
			Username:    "heike",
			ObtainedAt:  time.Now(),
			ExpiresAt:   time.Now().Add(time.Hour),
		}); err != nil {
			t.Fatal(err)
		}

		// Base URL points nowhere; a fresh token must not hit the network.
		m, err := NewManager(ManagerOpts{BaseURL: "http://localhost:1", Store: store})
		if err != nil {
			t.Fatal(err)
		}

		got, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected token, got error %v", err)
		}
		if got != token {
			t.Error("expected stored token")
		}
	})

	t.Run("Expiring Token Is Refreshed", func(t *testing.T) {
		var refreshes atomic.Int32
		newExp := time.Now().Add(30 * time.Minute)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/auth/refresh" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if r.Header.Get("Authorization") == "" {
				t.Error("expected bearer header on refresh")
			}
			refreshes.Add(1)
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": signToken(t, "heike", newExp),
				"token_type":   "bearer",
				"expires_in":   1800,
			})
		}))
		defer server.Close()

		store := newTestStore(t)
		stale := signToken(t, "heike", time.Now().Add(10*time.Second))
		if err := store.Save(&State{
			AccessToken: stale,
			Username:    "heike",
			ObtainedAt:  time.Now().Add(-20 * time.Minute),
			ExpiresAt:   time.Now().Add(10 * time.Second),
		}); err != nil {
			t.Fatal(err)
		}

		m, err := NewManager(ManagerOpts{
			BaseURL:     server.URL,
			Store:       store,
			RefreshLead: time.Minute,
		})
		if err != nil {
			t.Fatal(err)
		}

		got, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected refreshed token, got error %v", err)
		}
		if got == stale {
			t.Error("expected a new token, got the stale one")
		}
		if refreshes.Load() != 1 {
			t.Errorf("expected 1 refresh call, got %d", refreshes.Load())
		}

		persisted, err := store.Load()
		if err != nil {
			t.Fatal(err)
		}
		if persisted.AccessToken != got {
			t.Error("refreshed token was not persisted")
		}
	})

	t.Run("Terminal Refresh Clears Session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid authentication credentials"})
		}))
		defer server.Close()

		store := newTestStore(t)
		if err := store.Save(&State{
			AccessToken: signToken(t, "heike", time.Now().Add(time.Second)),
			ExpiresAt:   time.Now().Add(time.Second),
		}); err != nil {
			t.Fatal(err)
		}

		m, err := NewManager(ManagerOpts{
			BaseURL:     server.URL,
			Store:       store,
			RefreshLead: time.Minute,
		})
		if err != nil {
			t.Fatal(err)
		}

		if _, err := m.Token(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
		if _, err := store.Load(); !errors.Is(err, shared.ErrNoSession) {
			t.Errorf("expected cleared session, got %v", err)
		}
	})

	t.Run("Transient Refresh Failure Keeps Live Token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		store := newTestStore(t)
		token := signToken(t, "heike", time.Now().Add(30*time.Second))
		if err := store.Save(&State{
			AccessToken: token,
			ExpiresAt:   time.Now().Add(30 * time.Second),
		}); err != nil {
			t.Fatal(err)
		}

		m, err := NewManager(ManagerOpts{
			BaseURL:           server.URL,
			Store:             store,
			RefreshLead:       time.Minute,
			RefreshMaxRetries: 1,
		})
		if err != nil {
			t.Fatal(err)
		}

		got, err := m.Token(context.Background())
		if err != nil {
			t.Fatalf("expected current token despite refresh failure, got %v", err)
		}
		if got != token {
			t.Error("expected the still-valid current token")
		}
	})
}
