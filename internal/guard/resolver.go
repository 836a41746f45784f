package guard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// restClient is the slice of the HTTP client the resolver uses
type restClient interface {
	Get(ctx context.Context, path string, out any, opts ...httpclient.Option) error
}

// Resolver performs the one async session-resolution step: validating a
// restored token against the profile endpoint. Until Resolve has run,
// guards answer Loading. The resolver never writes the store itself; an
// invalid token is cleared by the HTTP client's 401/403 interceptor as a
// side effect of the probe.
type Resolver struct {
	client restClient
	store  sessionReader
	logger logger.Logger

	mu       sync.Mutex
	resolved bool
}

func NewResolver(client restClient, store sessionReader, logger logger.Logger) *Resolver {
	return &Resolver{client: client, store: store, logger: logger}
}

func (r *Resolver) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}

// Resolve validates the restored session once. No token resolves
// immediately; a present token is probed against /auth/profile, where a
// 401/403 tears the session down through the interceptor. A network
// failure leaves the restored session standing: the next real request
// will classify it anyway.
func (r *Resolver) Resolve(ctx context.Context) {
	defer func() {
		r.mu.Lock()
		r.resolved = true
		r.mu.Unlock()
	}()

	s := r.store.Get()
	if !s.Authenticated() {
		return
	}

	if session.TokenExpired(s.Token, time.Now()) {
		r.logger.Debug("restored token is past its expiry, probing for teardown")
	}

	var profile struct {
		Role models.Role `json:"role"`
	}
	err := r.client.Get(ctx, "/auth/profile", &profile)
	switch {
	case err == nil:
		if profile.Role != "" && profile.Role != s.Role {
			r.logger.Warn("stored role differs from profile", "stored", s.Role, "profile", profile.Role)
		}
	case errors.Is(err, apperrors.ErrNetwork):
		r.logger.Warn("could not validate restored session, keeping it", "error", err)
	default:
		r.logger.Info("restored session rejected by backend", "error", err)
	}
}
