// Package auth manages the single password-based session against the
// hosted backend's auth service. Session state lives in an explicit
// manager struct with a change-subscription contract instead of ambient
// globals.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anarmmdv/bazar/pkg/clients/supabase"
)

// Session is the authenticated state shared with the rest of the app.
type Session struct {
	AccessToken string
	Email       string
	ExpiresAt   time.Time
}

// Manager signs the single user in and out and notifies subscribers on
// every session change.
type Manager struct {
	client *supabase.Client
	logger *zap.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *Session
	subs    []func(*Session)
}

// NewManager wires a session manager over the backend auth client.
func NewManager(client *supabase.Client, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{client: client, logger: logger, now: time.Now}
}

// SignIn exchanges credentials for a session and switches the backend
// client to the user's token so row-level policies apply.
func (m *Manager) SignIn(ctx context.Context, email, password string) (*Session, error) {
	granted, err := m.client.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in %s: %w", email, err)
	}

	session := &Session{
		AccessToken: granted.AccessToken,
		Email:       granted.User.Email,
		ExpiresAt:   m.now().Add(time.Duration(granted.ExpiresIn) * time.Second),
	}

	m.client.UseToken(session.AccessToken)
	m.setCurrent(session)
	m.logger.Info("user signed in", zap.String("email", session.Email))
	return session, nil
}

// SignOut revokes the current session, if any, and drops back to anonymous
// backend access.
func (m *Manager) SignOut(ctx context.Context, anonKey string) error {
	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()

	if current == nil {
		return nil
	}

	if err := m.client.SignOut(ctx, current.AccessToken); err != nil {
		// The local session is dropped regardless; the token simply expires
		// server-side.
		m.logger.Warn("remote sign-out failed", zap.Error(err))
	}

	m.client.UseToken(anonKey)
	m.setCurrent(nil)
	m.logger.Info("user signed out")
	return nil
}

// Current returns the active session, or nil when signed out or expired.
func (m *Manager) Current() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil || m.now().After(m.current.ExpiresAt) {
		return nil
	}
	return m.current
}

// Validate reports whether the token matches the live session.
func (m *Manager) Validate(token string) bool {
	current := m.Current()
	return current != nil && token != "" && token == current.AccessToken
}

// OnChange registers a callback invoked with the new session (nil on sign
// out) after every change.
func (m *Manager) OnChange(fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) setCurrent(session *Session) {
	m.mu.Lock()
	m.current = session
	subs := append(([]func(*Session))(nil), m.subs...)
	m.mu.Unlock()

	for _, fn := range subs {
		fn(session)
	}
}
