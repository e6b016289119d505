// Package session owns the device-local persisted session state: the four
// identity keys (token, role, name, id) plus the theme preference. It is the
// only cross-view shared mutable resource in the client. Consumers subscribe
// instead of re-reading the file ad hoc.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/memorylane/memorylane/internal/client/models"
)

// ErrNotLoaded is returned when a store is used before Load. Using the store
// before its initial read is an integration bug and must fail loudly.
var ErrNotLoaded = errors.New("session: store used before Load")

// State is the auth resolution phase of the store.
type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

// blob is the on-disk format. No versioning or migration exists; any absent
// field is treated as anonymous.
type blob struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Name  string `json:"name"`
	ID    string `json:"id"`
	Theme string `json:"theme"`
}

// Store holds the current user identity and theme, persisted as one JSON
// file. Writes are idempotent overwrites; the event loop is the only writer,
// but the mutex keeps fetch goroutines reading a consistent snapshot.
type Store struct {
	mu    sync.RWMutex
	path  string
	state State
	user  *models.User
	theme string
	subs  []func(*models.User)
}

func NewStore(path string) *Store {
	return &Store{path: path, state: StateLoading}
}

// Load reads the persisted blob once and resolves loading to anonymous or
// authenticated. A missing or unreadable file means anonymous, not an error.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateAnonymous
	data, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var b blob
	if err := json.Unmarshal(data, &b); err != nil {
		return
	}
	s.theme = b.Theme
	if b.Token == "" {
		return
	}
	role := b.Role
	if role == "" {
		role = models.RoleUser
	}
	s.user = &models.User{ID: b.ID, Name: b.Name, Role: role, Token: b.Token}
	s.state = StateAuthenticated
}

// State reports the resolution phase.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Current returns the logged-in user, or nil when anonymous.
func (s *Store) Current() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Token returns the bearer token, or "" when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.Token
}

// Login stores the user unconditionally; it trusts the caller to have
// validated credentials against the backend already.
func (s *Store) Login(u models.User) error {
	s.mu.Lock()
	if s.state == StateLoading {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	s.user = &u
	s.state = StateAuthenticated
	err := s.persistLocked()
	subs, current := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, current)
	return err
}

// Logout wipes the identity keys and moves to anonymous. The theme survives.
func (s *Store) Logout() error { return s.Clear() }

// Clear is Logout under another name; the HTTP wrapper calls it unilaterally
// on detected session expiry.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.user = nil
	if s.state == StateAuthenticated {
		s.state = StateAnonymous
	}
	err := s.persistLocked()
	subs, current := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, current)
	return err
}

// Theme returns the persisted theme preference ("" means default).
func (s *Store) Theme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

func (s *Store) SetTheme(theme string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
	return s.persistLocked()
}

// Subscribe registers fn to run after every identity change (login, logout,
// forced clear). The callback receives the new user, nil for anonymous.
func (s *Store) Subscribe(fn func(*models.User)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// TokenExpired reports whether the stored token is a JWT whose exp claim has
// passed. Best effort only: a malformed or claim-free token is not expired;
// the backend remains the authority.
func (s *Store) TokenExpired(now time.Time) bool {
	token := s.Token()
	if token == "" {
		return false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (s *Store) persistLocked() error {
	b := blob{Theme: s.theme}
	if s.user != nil {
		b.Token = s.user.Token
		b.Role = s.user.Role
		b.Name = s.user.Name
		b.ID = s.user.ID
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session: mkdir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() ([]func(*models.User), *models.User) {
	subs := make([]func(*models.User), len(s.subs))
	copy(subs, s.subs)
	if s.user == nil {
		return subs, nil
	}
	u := *s.user
	return subs, &u
}

func notify(subs []func(*models.User), u *models.User) {
	for _, fn := range subs {
		fn(u)
	}
}
