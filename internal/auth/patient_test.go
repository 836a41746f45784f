package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirx1991/crm-sub001/internal/apperrors"
	"github.com/amirx1991/crm-sub001/internal/httpclient"
	"github.com/amirx1991/crm-sub001/internal/logger"
	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/notify"
	"github.com/amirx1991/crm-sub001/internal/session"
	"github.com/amirx1991/crm-sub001/internal/testutil"
)

const testPhone = "+15550100"

func newPatientController(t *testing.T) (*PatientController, *session.MemStore, *testutil.PortalServer) {
	t.Helper()

	portal := testutil.StartPortalServer(t)
	store := session.NewMemStore()
	client := httpclient.New(portal.URL, store, &notify.Recorder{}, logger.NewNoOpLogger())
	return NewPatient(client, store, logger.NewNoOpLogger()), store, portal
}

func TestPatientController_RequestCode(t *testing.T) {
	t.Parallel()

	t.Run("dispatches a code for a valid phone", func(t *testing.T) {
		t.Parallel()

		c, _, portal := newPatientController(t)

		err := c.RequestCode(context.Background(), testPhone)

		require.NoError(t, err)
		require.NotEmpty(t, portal.LastCode(testPhone), "backend should have issued a code")
	})

	t.Run("malformed phone never reaches the network", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemStore()
		client := httpclient.New("http://127.0.0.1:0", store, &notify.Recorder{}, logger.NewNoOpLogger())
		c := NewPatient(client, store, logger.NewNoOpLogger())

		tests := []string{"", "555-0100", "not a phone", "+1555x100"}
		for _, phone := range tests {
			err := c.RequestCode(context.Background(), phone)
			require.ErrorIs(t, err, apperrors.ErrValidation, "phone %q should be rejected locally", phone)
		}
	})
}

func TestPatientController_VerifyCode(t *testing.T) {
	t.Parallel()

	t.Run("correct code signs the patient in", func(t *testing.T) {
		t.Parallel()

		c, store, portal := newPatientController(t)
		require.NoError(t, c.RequestCode(context.Background(), testPhone))

		s, err := c.VerifyCode(context.Background(), testPhone, portal.LastCode(testPhone))

		require.NoError(t, err)
		require.True(t, s.Authenticated())
		require.Equal(t, models.RolePatient, s.Role)
		require.Equal(t, models.RealmPatient, s.Realm)
		require.Equal(t, s, store.Get())
	})

	t.Run("wrong code is rejected and allows retry", func(t *testing.T) {
		t.Parallel()

		c, store, portal := newPatientController(t)
		require.NoError(t, c.RequestCode(context.Background(), testPhone))

		_, err := c.VerifyCode(context.Background(), testPhone, "00000")

		require.ErrorIs(t, err, apperrors.ErrOtpRejected)
		require.False(t, store.Get().Authenticated(), "failed verify must not mutate the store")

		// The already-issued code still works, no new request needed
		s, err := c.VerifyCode(context.Background(), testPhone, portal.LastCode(testPhone))
		require.NoError(t, err)
		require.True(t, s.Authenticated())
	})

	t.Run("non-numeric or wrong-width code is rejected locally", func(t *testing.T) {
		t.Parallel()

		store := session.NewMemStore()
		client := httpclient.New("http://127.0.0.1:0", store, &notify.Recorder{}, logger.NewNoOpLogger())
		c := NewPatient(client, store, logger.NewNoOpLogger())

		// signed and decimal forms are numeric but not all digits
		for _, code := range []string{"12a45", "123", "1234567", "", "+1234", "1.234", "-1234"} {
			_, err := c.VerifyCode(context.Background(), testPhone, code)
			require.ErrorIs(t, err, apperrors.ErrValidation, "code %q should be rejected locally", code)
		}
	})
}

func TestAuthSession(t *testing.T) {
	t.Parallel()

	portal := testutil.StartPortalServer(t)
	store := session.NewMemStore()
	client := httpclient.New(portal.URL, store, &notify.Recorder{}, logger.NewNoOpLogger())
	facade := NewAuthSession(client, store, logger.NewNoOpLogger())

	require.Equal(t, Status{}, facade.Read(), "empty store reads as signed out")

	staff := NewStaff(client, store, logger.NewNoOpLogger())
	_, err := staff.Login(context.Background(), testutil.StaffUsername, testutil.StaffPassword)
	require.NoError(t, err)

	status := facade.Read()
	require.True(t, status.Authenticated)
	require.Equal(t, models.RoleAdmin, status.Role)
	require.Equal(t, models.RealmStaff, status.Realm)

	require.NoError(t, facade.Logout(context.Background()))
	require.Equal(t, Status{}, facade.Read())
}
