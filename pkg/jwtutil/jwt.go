package jwtutil

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// BackendClaims are the claims the padoca backend puts in its bearer tokens
type BackendClaims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// ErrMalformedToken is returned when the token is not a parseable JWT
var ErrMalformedToken = errors.New("malformed bearer token")

// Inspect decodes the token claims without verifying the signature.
// The gateway never trusts these claims for access decisions; it only reads
// the expiry so a stale session can be dropped before the backend rejects it.
func Inspect(tokenString string) (*BackendClaims, error) {
	claims := &BackendClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, errors.Join(ErrMalformedToken, err)
	}
	return claims, nil
}

// ExpiresAt returns the token expiry, or now+fallback when the token has none
// or cannot be decoded
func ExpiresAt(tokenString string, fallback time.Duration) time.Time {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return time.Now().Add(fallback)
	}
	return claims.ExpiresAt.Time
}
