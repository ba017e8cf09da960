package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ivens03/microservices-padoca/internal/model"
	"github.com/ivens03/microservices-padoca/pkg/jwtutil"
	"github.com/ivens03/microservices-padoca/prometheus"
	"go.uber.org/zap"
)

// Authenticator exchanges credentials with the backend
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (*model.LoginResponse, error)
}

// Manager drives login, lookup and logout
type Manager struct {
	auth       Authenticator
	store      Store
	defaultTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

// NewManager creates a session manager. defaultTTL applies to tokens without an exp claim.
func NewManager(auth Authenticator, store Store, defaultTTL time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		auth:       auth,
		store:      store,
		defaultTTL: defaultTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// NewID returns a fresh browsing session id
func NewID() string {
	return uuid.New().String()
}

// Login authenticates against the backend and stores the session under id.
// An empty id gets a fresh one.
func (m *Manager) Login(ctx context.Context, id string, creds model.Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, model.ErrInvalid("email and senha are required")
	}

	resp, err := m.auth.Login(ctx, creds)
	prometheus.RecordAuthAttempt(err)
	if err != nil {
		m.logger.Warn("Login failed", zap.String("email", creds.Email), zap.Error(err))
		return nil, err
	}

	if id == "" {
		id = NewID()
	}
	sess := &Session{
		ID:        id,
		Token:     resp.Token,
		CreatedAt: m.now(),
		ExpiresAt: jwtutil.ExpiresAt(resp.Token, m.defaultTTL),
	}
	if err := sess.SetUser(resp.User); err != nil {
		return nil, fmt.Errorf("serialize profile: %w", err)
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.logger.Info("Session opened",
		zap.String("session_id", sess.ID),
		zap.Uint("user_id", sess.UserID),
		zap.String("role", string(sess.Role)),
		zap.Time("expires_at", sess.ExpiresAt))
	return sess, nil
}

// Current returns the live session for id. Expired sessions are removed.
func (m *Manager) Current(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("Failed to delete expired session", zap.String("session_id", id), zap.Error(err))
		}
		return nil, ErrExpired
	}
	return sess, nil
}

// Logout forgets the session
func (m *Manager) Logout(ctx context.Context, id string) error {
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.Info("Session closed", zap.String("session_id", id))
	return nil
}

// UpdateProfile replaces the stored profile after the user edited it
func (m *Manager) UpdateProfile(ctx context.Context, sess *Session, user model.User) error {
	if err := sess.SetUser(user); err != nil {
		return err
	}
	return m.store.Save(ctx, sess)
}

// Purge removes every expired session
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, m.now())
}

// IsMissing reports whether err means there is no usable session
func IsMissing(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrExpired)
}
