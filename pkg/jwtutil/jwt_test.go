package jwtutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims BackendClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return token
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	token := signed(t, BackendClaims{
		Role: "GESTOR",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "gestor@padoca.com",
			Issuer:    "padoca-api",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	claims, err := Inspect(token)
	require.NoError(t, err)
	assert.Equal(t, "gestor@padoca.com", claims.Subject)
	assert.Equal(t, "GESTOR", claims.Role)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))
	assert.True(t, exp.Equal(ExpiresAt(token, time.Minute)))
}

func TestInspectMalformed(t *testing.T) {
	_, err := Inspect("not-a-jwt")
	assert.ErrorIs(t, err, ErrMalformedToken)

	before := time.Now()
	got := ExpiresAt("not-a-jwt", time.Hour)
	assert.True(t, got.After(before.Add(59*time.Minute)))
}

func TestExpiresAtWithoutExpiryClaim(t *testing.T) {
	token := signed(t, BackendClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "x"}})

	got := ExpiresAt(token, 3*time.Hour)
	assert.WithinDuration(t, time.Now().Add(3*time.Hour), got, 5*time.Second)
}
