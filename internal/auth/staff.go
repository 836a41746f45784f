package auth

import (
	"context"
	"fmt"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// StaffController signs internal staff in with username+password against
// the token-issuance endpoint.
//
// Login does not de-duplicate overlapping calls; the caller must disable
// its submit affordance while a call is in flight. When calls do overlap,
// the last store write wins.
type StaffController struct {
	client portalClient
	store  session.Store
	logger logger.Logger
}

func NewStaff(client portalClient, store session.Store, logger logger.Logger) *StaffController {
	return &StaffController{client: client, store: store, logger: logger}
}

type staffCredentials struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Password string `json:"password" validate:"required"`
}

// Login exchanges credentials for a bearer token and stores token+role
// atomically. A rejected credential returns ErrInvalidCredentials with
// the backend message and leaves any prior session untouched.
func (c *StaffController) Login(ctx context.Context, username string, password string) (models.Session, error) {
	creds := staffCredentials{Username: username, Password: password}
	if err := checkInput(creds); err != nil {
		return models.Session{}, err
	}

	var resp tokenResponse
	err := c.client.Post(ctx, "/auth/token", creds, &resp, httpclient.Public())
	switch {
	case rejected(err):
		return models.Session{}, fmt.Errorf("%w: %s", apperrors.ErrInvalidCredentials, backendMessage(err, "username or password not accepted"))
	case err != nil:
		return models.Session{}, err
	}

	if err := c.store.Set(models.RealmStaff, resp.AccessToken, resp.Role); err != nil {
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	c.logger.Info("staff signed in", "role", resp.Role)
	return c.store.Get(), nil
}

func (c *StaffController) Logout(ctx context.Context) error {
	return signOut(ctx, c.client, c.store, c.logger)
}

func (c *StaffController) CurrentSession() models.Session {
	return c.store.Get()
}
