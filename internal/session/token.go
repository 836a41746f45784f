package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the expiry claim from a bearer token without
// verifying its signature. The client has no signing key; the probe only
// spares a doomed network round-trip when a restored token is already
// stale. Returns ok=false for opaque tokens or tokens without an exp
// claim, which the caller must treat as "unknown", not "expired".
func TokenExpiry(token string) (expiresAt time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser()

	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}

	return claims.ExpiresAt.Time, true
}

// TokenExpired reports whether the token carries an exp claim that is in
// the past. Tokens without a readable expiry are never reported expired.
func TokenExpired(token string, now time.Time) bool {
	expiresAt, ok := TokenExpiry(token)
	if !ok {
		return false
	}
	return expiresAt.Before(now)
}
