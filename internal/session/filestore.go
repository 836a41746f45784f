package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/amirx1991/crm-sub001/internal/models"
)

// Fixed keys of the persisted session file
type sessionFile struct {
	Realm models.Realm `json:"realm,omitempty"`
	Token string       `json:"token,omitempty"`
	Role  models.Role  `json:"role,omitempty"`
}

// FileStore persists the session to a JSON file so a restarted process
// reconstructs the same session without re-authentication. Writes go to a
// temp file first and are moved into place, so the file is replaced as a
// whole or not at all.
type FileStore struct {
	mu      sync.RWMutex
	path    string
	session models.Session
}

// NewFileStore loads the session persisted at path. A missing file is a
// valid empty session; a corrupt file is an error so the caller can decide
// whether to wipe it.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("error reading session file: %w", err)
	}

	var f sessionFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("session file %s is corrupt: %w", path, err)
	}

	s.session = models.Session{Realm: f.Realm, Token: f.Token, Role: f.Role}
	return s, nil
}

func (s *FileStore) Get() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

func (s *FileStore) Set(realm models.Realm, token string, role models.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := models.Session{Realm: realm, Token: token, Role: role}
	if err := s.persist(next); err != nil {
		return err
	}

	s.session = next
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(models.Session{}); err != nil {
		return err
	}

	s.session = models.Session{}
	return nil
}

func (s *FileStore) persist(session models.Session) error {
	data, err := json.Marshal(sessionFile{
		Realm: session.Realm,
		Token: session.Token,
		Role:  session.Role,
	})
	if err != nil {
		return fmt.Errorf("error encoding session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("error creating session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("error creating session temp file: %w", err)
	}

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Chmod(tmp.Name(), 0o600)
	}
	if err == nil {
		err = os.Rename(tmp.Name(), s.path)
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("error writing session file: %w", err)
	}

	return nil
}
