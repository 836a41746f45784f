package auth

import (
	"context"

	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// Status is the read-only session view handed to collaborators outside
// the core, e.g. for conditional rendering of a user menu.
type Status struct {
	Authenticated bool
	Realm         models.Realm
	Role          models.Role
}

// AuthSession is the narrow interface the rest of the portal consumes:
// read the current status, or log out from anywhere.
type AuthSession struct {
	client portalClient
	store  session.Store
	logger logger.Logger
}

func NewAuthSession(client portalClient, store session.Store, logger logger.Logger) *AuthSession {
	return &AuthSession{client: client, store: store, logger: logger}
}

func (a *AuthSession) Read() Status {
	s := a.store.Get()
	if !s.Authenticated() {
		return Status{}
	}
	return Status{Authenticated: true, Realm: s.Realm, Role: s.Role}
}

func (a *AuthSession) Logout(ctx context.Context) error {
	return signOut(ctx, a.client, a.store, a.logger)
}
