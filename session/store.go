// Package session holds the process-wide dashboard session: the opaque bearer
// token, the last known user snapshot and the one-shot pending redirect.
package session

import (
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"sync"
)

// Storage keys. They match what the browser dashboard kept in localStorage so
// an exported session stays readable.
const (
	KeyToken        = "token"
	KeyUser         = "user"
	KeyRedirectPath = "redirectPath"
)

// Store is safe for concurrent use. Every mutation is written through to the
// backend before it returns.
type Store struct {
	mu      sync.Mutex
	values  map[string]string
	backend Backend
}

// Open loads any pre-existing session from backend.
func Open(backend Backend) (*Store, error) {
	values, err := backend.Load()
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = map[string]string{}
	}
	if _, ok := values[KeyToken]; ok {
		log.Println("Session: restored existing token")
	}
	return &Store{values: values, backend: backend}, nil
}

// NewMemory returns a store that is not persisted anywhere.
func NewMemory() *Store {
	return &Store{values: map[string]string{}}
}

func (s *Store) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok && v != ""
}

// update applies fn to the values under the lock and persists the result.
// It MUST NOT be called while holding s.mu.
func (s *Store) update(fn func(values map[string]string)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.values)
	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(maps.Clone(s.values)); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

func (s *Store) SetToken(token string) error {
	return s.update(func(v map[string]string) { v[KeyToken] = token })
}

func (s *Store) Token() (string, bool) {
	return s.get(KeyToken)
}

func (s *Store) ClearToken() error {
	return s.update(func(v map[string]string) { delete(v, KeyToken) })
}

func (s *Store) SetPendingRedirect(path string) error {
	return s.update(func(v map[string]string) { v[KeyRedirectPath] = path })
}

// PendingRedirect peeks at the pending redirect without consuming it.
func (s *Store) PendingRedirect() (string, bool) {
	return s.get(KeyRedirectPath)
}

// ConsumePendingRedirect returns the pending redirect and removes it in the
// same critical section, so it can be observed at most once.
func (s *Store) ConsumePendingRedirect() (string, bool, error) {
	var (
		path string
		ok   bool
	)
	err := s.update(func(v map[string]string) {
		path, ok = v[KeyRedirectPath]
		ok = ok && path != ""
		delete(v, KeyRedirectPath)
	})
	return path, ok, err
}

// SetUser stores the user snapshot returned at login. It is informational only.
func (s *Store) SetUser(user json.RawMessage) error {
	if len(user) == 0 {
		return s.update(func(v map[string]string) { delete(v, KeyUser) })
	}
	return s.update(func(v map[string]string) { v[KeyUser] = string(user) })
}

func (s *Store) User() (json.RawMessage, bool) {
	raw, ok := s.get(KeyUser)
	if !ok {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// Clear drops the credential and the user snapshot. A pending redirect
// survives so a later login can still honor it.
func (s *Store) Clear() error {
	return s.update(func(v map[string]string) {
		delete(v, KeyToken)
		delete(v, KeyUser)
	})
}
