// Package auth owns the per-realm authentication state machines. The
// controllers are the only components besides the HTTP client's response
// interceptor that write the session store.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// portalClient is the slice of the HTTP client the controllers use
type portalClient interface {
	Get(ctx context.Context, path string, out any, opts ...httpclient.Option) error
	Post(ctx context.Context, path string, in any, out any, opts ...httpclient.Option) error
}

// tokenResponse is the token-issuance payload shared by staff login and
// patient OTP verification
type tokenResponse struct {
	AccessToken string      `json:"accessToken"`
	Role        models.Role `json:"role"`
}

// signOut posts the sign-out endpoint best-effort and clears the store.
// Logout always locally succeeds: a failing endpoint is logged and
// ignored, the local clear is what terminates the session.
func signOut(ctx context.Context, client portalClient, store session.Store, log logger.Logger) error {
	if err := client.Post(ctx, "/auth/sign-out", nil, nil, httpclient.Silent()); err != nil {
		log.Debug("sign-out endpoint failed, clearing locally anyway", "error", err)
	}

	if err := store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// backendMessage prefers the backend-provided message over the fallback
// when a classified failure carries one.
func backendMessage(err error, fallback string) string {
	var failure *httpclient.Failure
	if errors.As(err, &failure) && failure.Message != "" {
		return failure.Message
	}
	return fallback
}

// rejected reports whether err is the backend refusing the credential
// itself, as opposed to transport or server trouble.
func rejected(err error) bool {
	return errors.Is(err, apperrors.ErrUnauthorized) || errors.Is(err, apperrors.ErrForbidden)
}
