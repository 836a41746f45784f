package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key"))
	require.NoError(t, err, "signing test token should not fail")
	return token
}

func TestTokenExpiry(t *testing.T) {
	t.Run("reads exp claim without verification", func(t *testing.T) {
		expiresAt := time.Now().Add(15 * time.Minute).Truncate(time.Second)
		token := signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiresAt)})

		got, ok := TokenExpiry(token)

		require.True(t, ok)
		require.True(t, got.Equal(expiresAt))
	})

	t.Run("no exp claim", func(t *testing.T) {
		token := signToken(t, jwt.RegisteredClaims{ID: "abc"})

		_, ok := TokenExpiry(token)

		require.False(t, ok)
	})

	t.Run("opaque token", func(t *testing.T) {
		_, ok := TokenExpiry("not-a-jwt")

		require.False(t, ok)
	})
}

func TestTokenExpired(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "fresh token",
			token: signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))}),
			want:  false,
		},
		{
			name:  "stale token",
			token: signToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour))}),
			want:  true,
		},
		{
			name:  "opaque token is never reported expired",
			token: "opaque-bearer-token",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, TokenExpired(tt.token, now))
		})
	}
}
