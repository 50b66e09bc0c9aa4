// Package auth owns the authenticated-host session: login, register,
// logout, and restoring the persisted session across restarts.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/maruizc/arrienda-host/internal/api"
	"github.com/maruizc/arrienda-host/internal/models"
	"github.com/maruizc/arrienda-host/internal/storage"
)

// ErrAuthentication covers rejected credentials and any failure reaching
// the auth endpoint. Callers show it to the user; no state changes on it.
var ErrAuthentication = errors.New("authentication failed")

// Session is the authenticated host. Absence of a Session means logged out.
type Session struct {
	ID    int
	Email string
	Name  string
	Token string
}

// Store is the single writer of the session. Everything else reads through
// Current or reacts through Subscribe; there is no ambient global.
type Store struct {
	api    *api.Client
	blobs  storage.BlobStore
	logger *slog.Logger

	mu      sync.RWMutex
	current *Session
	subs    []func(*Session)
}

func NewStore(client *api.Client, blobs storage.BlobStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		api:    client,
		blobs:  blobs,
		logger: logger.With("component", "auth"),
	}
}

// Restore loads a previously persisted session. Missing or unreadable data
// means logged out; it logs and never fails.
func (s *Store) Restore() {
	data, err := s.blobs.Get()
	if errors.Is(err, storage.ErrNoBlob) {
		return
	}
	if err != nil {
		s.logger.Warn("could not read persisted session", "err", err)
		return
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.Token == "" {
		s.logger.Warn("persisted session is malformed, discarding it")
		_ = s.blobs.Remove()
		return
	}

	s.install(&sess)
	s.logger.Info("session restored", "host_id", sess.ID)
}

// Login exchanges credentials for a session, persists it (replacing any
// prior value) and publishes it. On failure nothing changes.
func (s *Store) Login(ctx context.Context, email, password string) error {
	body, err := s.api.PostJSON(ctx, "/arrendatario/login", models.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return s.adopt(body)
}

// Register creates a host account. The server signs the new host in, so the
// response is adopted exactly like a login response.
func (s *Store) Register(ctx context.Context, name, email, phone, password string) error {
	body, err := s.api.PostJSON(ctx, "/arrendatario/registro", models.RegisterRequest{
		FullName: name,
		Email:    email,
		Phone:    phone,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return s.adopt(body)
}

func (s *Store) adopt(body []byte) error {
	var payload models.SessionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Errorf("%w: malformed auth response: %w", ErrAuthentication, err)
	}
	if payload.Token == "" {
		return fmt.Errorf("%w: auth response carried no token", ErrAuthentication)
	}

	sess := &Session{
		ID:    payload.ID,
		Email: payload.Email,
		Name:  payload.FullName,
		Token: payload.Token,
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.blobs.Set(data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}

	s.install(sess)
	s.logger.Info("signed in", "host_id", sess.ID)
	return nil
}

// Logout clears the in-memory session and the durable slot. Calling it
// with no active session is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	hadSession := s.current != nil
	s.current = nil
	s.mu.Unlock()

	s.api.SetToken("")
	if err := s.blobs.Remove(); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	if hadSession {
		s.logger.Info("signed out")
		s.notify(nil)
	}
	return nil
}

// Current returns a snapshot of the session, or nil when logged out.
// Readers never observe a partially-formed session.
func (s *Store) Current() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

// Subscribe registers fn to run on every session change. fn receives nil
// on logout.
func (s *Store) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

func (s *Store) install(sess *Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.api.SetToken(sess.Token)
	s.notify(sess)
}

func (s *Store) notify(sess *Session) {
	s.mu.RLock()
	subs := make([]func(*Session), len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(sess)
	}
}
