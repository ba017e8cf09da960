// Package session models the explicit login lifecycle: a bearer token and the
// user profile, persisted locally until logout or expiry.
package session

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/ivens03/microservices-padoca/internal/model"
)

var (
	// ErrNotFound is returned when no session exists for the id
	ErrNotFound = errors.New("session not found")
	// ErrExpired is returned when the session's token has expired
	ErrExpired = errors.New("session expired")
)

// Session is a logged-in user. It is the Auth passed explicitly to backend calls.
type Session struct {
	ID        string     `json:"id" gorm:"primarykey;type:varchar(64)"`
	Token     string     `json:"-" gorm:"type:text;not null"`
	UserID    uint       `json:"user_id"`
	Role      model.Role `json:"role" gorm:"type:varchar(32)"`
	Profile   string     `json:"-" gorm:"type:text"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index"`
}

// BearerToken implements padoca.Auth
func (s *Session) BearerToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}

// Expired reports whether the token is past its expiry at the given instant
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// User decodes the stored profile
func (s *Session) User() model.User {
	var u model.User
	if s.Profile != "" {
		_ = json.Unmarshal([]byte(s.Profile), &u)
	}
	return u
}

// SetUser serializes the profile into the session
func (s *Session) SetUser(u model.User) error {
	data, err := json.Marshal(u)
	if err != nil {
		return err
	}
	s.Profile = string(data)
	s.UserID = u.ID
	s.Role = u.Role
	return nil
}
