package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirx1991/crm-sub001/internal/models"
)

func TestMemStore(t *testing.T) {
	t.Run("empty by default", func(t *testing.T) {
		s := NewMemStore()

		require.Equal(t, models.Session{}, s.Get())
		require.False(t, s.Get().Authenticated())
	})

	t.Run("set writes token and role together", func(t *testing.T) {
		s := NewMemStore()

		err := s.Set(models.RealmStaff, "tok", models.RoleAdmin)

		require.NoError(t, err)
		require.Equal(t, models.Session{Realm: models.RealmStaff, Token: "tok", Role: models.RoleAdmin}, s.Get())
	})

	t.Run("clear empties token and role together", func(t *testing.T) {
		s := NewMemStore()
		require.NoError(t, s.Set(models.RealmPatient, "tok", models.RolePatient))

		err := s.Clear()

		require.NoError(t, err)
		require.Equal(t, models.Session{}, s.Get())
	})
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	sessionPath := func(t *testing.T) string {
		return filepath.Join(t.TempDir(), "crmctl", "session.json")
	}

	t.Run("missing file is an empty session", func(t *testing.T) {
		s, err := NewFileStore(sessionPath(t))

		require.NoError(t, err)
		require.Equal(t, models.Session{}, s.Get())
	})

	t.Run("session survives reload", func(t *testing.T) {
		path := sessionPath(t)

		s, err := NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(models.RealmStaff, "tok", models.RoleAdmin))

		// New store simulates a process restart
		reloaded, err := NewFileStore(path)
		require.NoError(t, err)
		require.Equal(t, models.Session{Realm: models.RealmStaff, Token: "tok", Role: models.RoleAdmin}, reloaded.Get())
	})

	t.Run("clear survives reload", func(t *testing.T) {
		path := sessionPath(t)

		s, err := NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(models.RealmPatient, "tok", models.RolePatient))
		require.NoError(t, s.Clear())

		reloaded, err := NewFileStore(path)
		require.NoError(t, err)
		require.Equal(t, models.Session{}, reloaded.Get())
	})

	t.Run("session file is private", func(t *testing.T) {
		path := sessionPath(t)

		s, err := NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, s.Set(models.RealmStaff, "tok", models.RoleUser))

		info, err := os.Stat(path)
		require.NoError(t, err)
		require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})

	t.Run("corrupt file is an error", func(t *testing.T) {
		path := sessionPath(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		_, err := NewFileStore(path)

		require.Error(t, err)
		require.Contains(t, err.Error(), "corrupt")
	})
}
