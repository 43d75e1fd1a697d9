// Package session holds the authentication token of the current user and
// turns it into request headers. The token survives restarts in a small
// yaml file next to the config.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// DefaultKind is the token kind used when the server does not name one.
const DefaultKind = "bearer"

type persisted struct {
	Token string `yaml:"token"`
	Kind  string `yaml:"kind"`
	Saved string `yaml:"saved_at,omitempty"`
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for expiry checks.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) {
		if clock != nil {
			s.now = clock
		}
	}
}

// Store is the session of the current user. It starts in the loading state
// until Restore has run. Methods are safe for concurrent use.
type Store struct {
	path string
	now  func() time.Time

	mu            sync.RWMutex
	token         string
	kind          string
	authenticated bool
	loading       bool
}

// New returns a store persisting to path. An empty path keeps the session
// in memory only.
func New(path string, opts ...Option) *Store {
	s := &Store{path: path, now: time.Now, loading: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore loads a previously persisted token and ends the loading state. A
// missing file is not an error. A token that is a JWT past its expiry is
// discarded along with the file.
func (s *Store) Restore() error {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("session: read %s: %w", s.path, err)
	}
	var stored persisted
	if err := yaml.Unmarshal(data, &stored); err != nil {
		_ = os.Remove(s.path)
		return fmt.Errorf("session: parse %s: %w", s.path, err)
	}
	token := strings.TrimSpace(stored.Token)
	if token == "" {
		return nil
	}
	if exp, ok := expiry(token); ok && !exp.After(s.now()) {
		_ = os.Remove(s.path)
		return nil
	}
	s.mu.Lock()
	s.token = token
	s.kind = normalizeKind(stored.Kind)
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

// Login stores the token, marks the session authenticated and persists it.
func (s *Store) Login(token, kind string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return fmt.Errorf("session: empty token")
	}
	kind = normalizeKind(kind)
	s.mu.Lock()
	s.token = token
	s.kind = kind
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
	return s.persist(persisted{Token: token, Kind: kind, Saved: s.now().UTC().Format(time.RFC3339)})
}

// Logout clears the session and erases the persisted copy.
func (s *Store) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.kind = ""
	s.authenticated = false
	s.loading = false
	s.mu.Unlock()
	if s.path == "" {
		return nil
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: remove %s: %w", s.path, err)
	}
	return nil
}

// AuthHeaders returns the headers for an API request. Content-Type is always
// set; Authorization only while a token is held.
func (s *Store) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// Authenticated reports whether a token is held.
func (s *Store) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Loading reports whether Restore has not finished yet.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token returns the raw token and its kind.
func (s *Store) Token() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.kind
}

// Subject returns the "sub" claim of the held token, which the API sets to
// the account email. It is empty for opaque tokens.
func (s *Store) Subject() string {
	token, _ := s.Token()
	claims, ok := parseClaims(token)
	if !ok {
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// ExpiresAt returns the expiry of the held token when it carries one.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token, _ := s.Token()
	return expiry(token)
}

// Path returns the persistence file.
func (s *Store) Path() string { return s.path }

func (s *Store) persist(p persisted) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: ensure dir: %w", err)
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", s.path, err)
	}
	return nil
}

// parseClaims decodes the claims of a JWT without verifying the signature;
// the client never holds the signing key.
func parseClaims(token string) (jwt.MapClaims, bool) {
	if token == "" || strings.Count(token, ".") != 2 {
		return nil, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func expiry(token string) (time.Time, bool) {
	claims, ok := parseClaims(token)
	if !ok {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func normalizeKind(kind string) string {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		return DefaultKind
	}
	return kind
}
