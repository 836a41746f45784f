// Package guard decides, on every navigation, whether to render a route
// or redirect. Guards are pure reads over the session store: they never
// mutate it, so a 401-triggered teardown elsewhere is simply observed on
// the next evaluation.
package guard

import (
	"github.com/amirx1991/crm-sub001/internal/models"
)

// Route is declared outside the core: a path, the realm it belongs to,
// and optionally the roles allowed to see it.
type Route struct {
	Path          string
	Realm         models.Realm
	RequiredRoles []models.Role
}

// RealmPaths are the realm's sign-in route and its default landing route
type RealmPaths struct {
	SignIn  string
	Landing string
}

type Action string

const (
	// ActionRender shows the requested subtree
	ActionRender Action = "render"

	// ActionRedirect navigates elsewhere instead
	ActionRedirect Action = "redirect"

	// ActionLoading shows a neutral indicator while the session is being
	// resolved; never content, never a premature redirect
	ActionLoading Action = "loading"
)

type Decision struct {
	Action Action

	// RedirectTo is set for ActionRedirect
	RedirectTo string

	// ReturnTo carries the originally requested path so sign-in can send
	// the user back after success
	ReturnTo string
}

// sessionReader is the read-only slice of the store guards consume
type sessionReader interface {
	Get() models.Session
}

// resolution reports whether the async session-resolution step finished
type resolution interface {
	Resolved() bool
}

type Guard struct {
	store    sessionReader
	paths    map[models.Realm]RealmPaths
	resolver resolution
}

// New builds a guard over the store. resolver may be nil when no async
// resolution step exists (e.g. unit tests with a known session).
func New(store sessionReader, paths map[models.Realm]RealmPaths, resolver resolution) *Guard {
	return &Guard{store: store, paths: paths, resolver: resolver}
}

// Protected renders the route for an authenticated session whose role is
// in the route's required set, and otherwise redirects to the realm's
// sign-in route, preserving the attempted path.
func (g *Guard) Protected(route Route) Decision {
	if g.resolving() {
		return Decision{Action: ActionLoading}
	}

	s := g.store.Get()
	if models.HasAccess(s, route.RequiredRoles) {
		return Decision{Action: ActionRender}
	}

	return Decision{
		Action:     ActionRedirect,
		RedirectTo: g.paths[route.Realm].SignIn,
		ReturnTo:   route.Path,
	}
}

// PublicOnly renders the route (e.g. a login form) only for
// unauthenticated visitors; an authenticated session is sent to the
// realm's default landing route.
func (g *Guard) PublicOnly(route Route) Decision {
	if g.resolving() {
		return Decision{Action: ActionLoading}
	}

	s := g.store.Get()
	if s.Authenticated() {
		return Decision{
			Action:     ActionRedirect,
			RedirectTo: g.paths[route.Realm].Landing,
		}
	}

	return Decision{Action: ActionRender}
}

func (g *Guard) resolving() bool {
	return g.resolver != nil && !g.resolver.Resolved()
}
