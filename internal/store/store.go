// Package store holds the in-memory machine, rental and user records behind
// a single serialization point. Every check-then-act sequence (availability
// claim, status transition plus machine release) runs inside one critical
// section, and every mutation hands the full snapshot to the persister
// before returning.
package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"mecarent/internal/clock"
	"mecarent/internal/models"
)

// Persister saves the full snapshot after each mutation. The store logs and
// continues on save errors; recovering from persistence failures is the
// caller's concern.
type Persister interface {
	Save(ctx context.Context, snap *models.Snapshot) error
}

// Store owns all records. One mutex serializes mutations across machines,
// rentals and users; rental volume is low enough that sharding is not worth it.
type Store struct {
	mu        sync.Mutex
	machines  map[string]*models.Machine
	rentals   map[string]*models.Rental
	users     map[string]*models.User
	persister Persister
	clock     clock.Clock
	logger    zerolog.Logger
}

// New builds a store from a loaded snapshot. A nil snapshot starts empty;
// a nil persister disables persistence (tests).
func New(snap *models.Snapshot, persister Persister, clk clock.Clock, logger zerolog.Logger) *Store {
	s := &Store{
		machines:  make(map[string]*models.Machine),
		rentals:   make(map[string]*models.Rental),
		users:     make(map[string]*models.User),
		persister: persister,
		clock:     clk,
		logger:    logger.With().Str("component", "store").Logger(),
	}
	if snap != nil {
		for i := range snap.Machines {
			m := snap.Machines[i]
			s.machines[m.ID] = &m
		}
		for i := range snap.Rentals {
			r := snap.Rentals[i]
			s.rentals[r.ID] = &r
		}
		for i := range snap.Users {
			u := snap.Users[i]
			s.users[u.ID] = &u
		}
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *models.Snapshot {
	snap := &models.Snapshot{
		Machines: make([]models.Machine, 0, len(s.machines)),
		Rentals:  make([]models.Rental, 0, len(s.rentals)),
		Users:    make([]models.User, 0, len(s.users)),
	}
	for _, m := range s.machines {
		snap.Machines = append(snap.Machines, *m)
	}
	for _, r := range s.rentals {
		snap.Rentals = append(snap.Rentals, *r)
	}
	for _, u := range s.users {
		snap.Users = append(snap.Users, *u)
	}
	return snap
}

// persistLocked is called with the mutex held so the saved snapshot can
// never interleave with a concurrent mutation.
func (s *Store) persistLocked(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		s.logger.Error().Err(err).Msg("snapshot save failed")
	}
}
