package inmemory

import (
	"context"
	"sync"

	"docbot/internal/profile"
)

// Store is a mutex-guarded in-memory profile store for tests and dev runs.
type Store struct {
	profiles map[string]profile.Profile
	mu       sync.RWMutex
}

func New() *Store {
	return &Store{profiles: make(map[string]profile.Profile)}
}

func (s *Store) Get(_ context.Context, userID string) (profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrNotFound
	}
	return p, nil
}

func (s *Store) Put(_ context.Context, p profile.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.UserID] = p
	return nil
}

func (s *Store) List(_ context.Context) ([]profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}
