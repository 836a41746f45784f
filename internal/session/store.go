// Package session holds the client-side authentication state.
//
// The store is the single shared mutable resource of the portal core.
// Only the auth controllers (login/logout) and the HTTP client's response
// interceptor are permitted to write it; any component may read it.
package session

import (
	"sync"

	"github.com/amirx1991/crm-sub001/internal/models"
)

// Store is the narrow read/write interface over the persisted session.
// Set and Clear are atomic: no reader ever observes a token without its
// role or vice versa.
type Store interface {
	Get() models.Session
	Set(realm models.Realm, token string, role models.Role) error
	Clear() error
}

// MemStore keeps the session in memory only. Used by tests and as the
// embedded state holder of FileStore.
type MemStore struct {
	mu      sync.RWMutex
	session models.Session
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Get() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *MemStore) Set(realm models.Realm, token string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{Realm: realm, Token: token, Role: role}
	return nil
}

func (s *MemStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = models.Session{}
	return nil
}
