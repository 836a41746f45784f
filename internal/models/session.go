package models

// Realm is one of the two independent authentication domains.
// Staff signs in with username+password, patients with phone+OTP.
type Realm string

const (
	RealmStaff   Realm = "staff"
	RealmPatient Realm = "patient"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RolePatient Role = "patient"
)

// Session is the client-side authentication state. Token and Role are
// set and cleared together; Role is meaningful only while Token is set.
type Session struct {
	Realm Realm
	Token string
	Role  Role
}

// Authenticated reports whether the session holds a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// HasAccess is the single role-check used by route guards and any inline
// UI gating. An empty required set means any authenticated session passes.
func HasAccess(s Session, required []Role) bool {
	if !s.Authenticated() {
		return false
	}
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if s.Role == r {
			return true
		}
	}
	return false
}
