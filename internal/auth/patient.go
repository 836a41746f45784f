package auth

import (
	"context"
	"fmt"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/otp"
	"github.com/amirx1991/crm-sub001/internal/session"
)

// PatientController authenticates patients in two phases: request a code
// for a phone number, then verify the code the patient received.
type PatientController struct {
	// CodeLength is the expected OTP width
	CodeLength int

	client portalClient
	store  session.Store
	logger logger.Logger
}

func NewPatient(client portalClient, store session.Store, logger logger.Logger) *PatientController {
	return &PatientController{
		CodeLength: otp.DefaultLength,
		client:     client,
		store:      store,
		logger:     logger,
	}
}

type phoneRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
}

type verifyRequest struct {
	Phone string `json:"phone" validate:"required,e164"`
	Code  string `json:"code" validate:"required,number"`
}

// RequestCode asks the backend to dispatch a fresh one-time code to the
// phone. Success means "code sent"; issuing and expiring the code is the
// backend's business.
func (c *PatientController) RequestCode(ctx context.Context, phone string) error {
	if err := checkInput(phoneRequest{Phone: phone}); err != nil {
		return err
	}

	if err := c.client.Post(ctx, "/auth/otp/request", phoneRequest{Phone: phone}, nil, httpclient.Public()); err != nil {
		return fmt.Errorf("failed to request code: %w", err)
	}

	c.logger.Info("otp code requested")
	return nil
}

// VerifyCode exchanges phone+code for a bearer token and stores
// token+role atomically. A rejected code returns ErrOtpRejected and
// mutates nothing, so the patient can retry against the same phone
// number and cooldown.
func (c *PatientController) VerifyCode(ctx context.Context, phone string, code string) (models.Session, error) {
	req := verifyRequest{Phone: phone, Code: code}
	if err := checkInput(req); err != nil {
		return models.Session{}, err
	}
	if len(code) != c.CodeLength {
		return models.Session{}, fmt.Errorf("%w: code must be %d digits", apperrors.ErrValidation, c.CodeLength)
	}

	var resp tokenResponse
	err := c.client.Post(ctx, "/auth/otp/verify", req, &resp, httpclient.Public())
	switch {
	case rejected(err):
		return models.Session{}, fmt.Errorf("%w: %s", apperrors.ErrOtpRejected, backendMessage(err, "code not accepted"))
	case err != nil:
		return models.Session{}, err
	}

	if err := c.store.Set(models.RealmPatient, resp.AccessToken, resp.Role); err != nil {
		return models.Session{}, fmt.Errorf("failed to persist session: %w", err)
	}

	c.logger.Info("patient signed in", "role", resp.Role)
	return c.store.Get(), nil
}

func (c *PatientController) Logout(ctx context.Context) error {
	return signOut(ctx, c.client, c.store, c.logger)
}

func (c *PatientController) CurrentSession() models.Session {
	return c.store.Get()
}
