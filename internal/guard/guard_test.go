package guard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amirx1991/crm-sub001/internal/models"
	"github.com/amirx1991/crm-sub001/internal/session"
)

var testPaths = map[models.Realm]RealmPaths{
	models.RealmStaff:   {SignIn: "/staff/sign-in", Landing: "/staff/studies"},
	models.RealmPatient: {SignIn: "/patient/sign-in", Landing: "/patient/home"},
}

var staffStudies = Route{
	Path:          "/staff/studies",
	Realm:         models.RealmStaff,
	RequiredRoles: []models.Role{models.RoleAdmin, models.RoleUser},
}

type resolvedState bool

func (r resolvedState) Resolved() bool { return bool(r) }

func TestGuard_Protected(t *testing.T) {
	t.Run("no token redirects to sign-in preserving the attempted path", func(t *testing.T) {
		store := session.NewMemStore()
		g := New(store, testPaths, nil)

		d := g.Protected(staffStudies)

		require.Equal(t, ActionRedirect, d.Action)
		require.Equal(t, "/staff/sign-in", d.RedirectTo)
		require.Equal(t, "/staff/studies", d.ReturnTo)
	})

	t.Run("after login the preserved path renders", func(t *testing.T) {
		store := session.NewMemStore()
		g := New(store, testPaths, nil)

		d := g.Protected(staffStudies)
		require.Equal(t, ActionRedirect, d.Action)

		// Login succeeds while the user sits on the sign-in page
		require.NoError(t, store.Set(models.RealmStaff, "tok", models.RoleAdmin))

		d = g.Protected(Route{Path: d.ReturnTo, Realm: models.RealmStaff, RequiredRoles: staffStudies.RequiredRoles})
		require.Equal(t, ActionRender, d.Action)
	})

	t.Run("wrong role behaves exactly like no token", func(t *testing.T) {
		store := session.NewMemStore()
		require.NoError(t, store.Set(models.RealmPatient, "patient-token", models.RolePatient))
		g := New(store, testPaths, nil)

		d := g.Protected(Route{Path: "/staff/admin", Realm: models.RealmStaff, RequiredRoles: []models.Role{models.RoleAdmin}})

		require.Equal(t, ActionRedirect, d.Action)
		require.Equal(t, "/staff/sign-in", d.RedirectTo)
		require.Equal(t, "/staff/admin", d.ReturnTo)
	})

	t.Run("unscoped route renders for any authenticated session", func(t *testing.T) {
		store := session.NewMemStore()
		require.NoError(t, store.Set(models.RealmPatient, "tok", models.RolePatient))
		g := New(store, testPaths, nil)

		d := g.Protected(Route{Path: "/patient/home", Realm: models.RealmPatient})

		require.Equal(t, ActionRender, d.Action)
	})

	t.Run("teardown elsewhere is observed on the next evaluation", func(t *testing.T) {
		store := session.NewMemStore()
		require.NoError(t, store.Set(models.RealmStaff, "tok", models.RoleAdmin))
		g := New(store, testPaths, nil)

		require.Equal(t, ActionRender, g.Protected(staffStudies).Action)

		// 401 interceptor clears the store mid-session
		require.NoError(t, store.Clear())

		d := g.Protected(staffStudies)
		require.Equal(t, ActionRedirect, d.Action, "guard reads the latest committed state")
	})

	t.Run("loading while resolution is outstanding", func(t *testing.T) {
		store := session.NewMemStore()
		g := New(store, testPaths, resolvedState(false))

		d := g.Protected(staffStudies)

		require.Equal(t, ActionLoading, d.Action, "never content nor a premature redirect")
		require.Empty(t, d.RedirectTo)
	})
}

func TestGuard_PublicOnly(t *testing.T) {
	signIn := Route{Path: "/staff/sign-in", Realm: models.RealmStaff}

	t.Run("unauthenticated renders the login form", func(t *testing.T) {
		g := New(session.NewMemStore(), testPaths, nil)

		require.Equal(t, ActionRender, g.PublicOnly(signIn).Action)
	})

	t.Run("authenticated is sent to the realm landing", func(t *testing.T) {
		store := session.NewMemStore()
		require.NoError(t, store.Set(models.RealmStaff, "tok", models.RoleAdmin))
		g := New(store, testPaths, nil)

		d := g.PublicOnly(signIn)

		require.Equal(t, ActionRedirect, d.Action)
		require.Equal(t, "/staff/studies", d.RedirectTo)
	})

	t.Run("loading while resolution is outstanding", func(t *testing.T) {
		g := New(session.NewMemStore(), testPaths, resolvedState(false))

		require.Equal(t, ActionLoading, g.PublicOnly(signIn).Action)
	})
}
