package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/goccy/go-json"
)

// State is the persisted session: the bearer token plus the bookkeeping
// needed for expiry detection without re-decoding the JWT on every call.
type State struct {
	AccessToken string    `json:"access_token"`
	Username    string    `json:"username,omitempty"`
	ObtainedAt  time.Time `json:"obtained_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Expired reports whether the token is past its expiry.
func (s *State) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Expiring reports whether the token is inside the refresh lead window.
func (s *State) Expiring(now time.Time, lead time.Duration) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt.Add(-lead))
}

// Store reads and writes the session file. The file carries a bearer token,
// so it is created 0600 and replaced atomically.
type Store struct {
	path string
}

// NewStore creates a session store at the given path. An empty path places
// session.json in the config directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		dir, err := shared.ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, "session.json")
	}
	return &Store{path: path}, nil
}

// Path returns the session file location.
func (s *Store) Path() string { return s.path }

// Load reads the stored session. Returns [shared.ErrNoSession] when no
// session file exists.
func (s *Store) Load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, shared.ErrNoSession
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse session file: %w", err)
	}
	if state.AccessToken == "" {
		return nil, shared.ErrNoSession
	}

	return &state, nil
}

// Save writes the session atomically with owner-only permissions.
func (s *Store) Save(state *State) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}

	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
