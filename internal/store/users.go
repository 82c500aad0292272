package store

import (
	"context"

	"github.com/google/uuid"

	"mecarent/internal/models"
)

// AddUser registers a user and returns the stored copy with its assigned id.
func (s *Store) AddUser(ctx context.Context, user models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user.ID = uuid.NewString()
	user.CreatedAt = s.clock.Now()
	stored := user
	s.users[stored.ID] = &stored

	s.persistLocked(ctx)
	out := stored
	return &out, nil
}

// GetUser returns a copy of the user, or ErrNotFound.
func (s *Store) GetUser(id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *u
	return &out, nil
}
