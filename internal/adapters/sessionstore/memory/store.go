// Package memory es el twin in-memory del session store, para tests y
// para correr la consola sin tocar disco.
package memory

import (
	"sync"

	"dog-registry/internal/console/session"
)

type Store struct {
	mu sync.RWMutex
	kv map[string]string
}

var _ session.Store = (*Store)(nil)

func New() *Store {
	return &Store{kv: make(map[string]string)}
}

func (s *Store) Get(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.kv[key]
	return v, ok, nil
}

func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, key)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.kv)
}
