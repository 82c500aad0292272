package store

import (
	"context"

	"github.com/google/uuid"

	"mecarent/internal/models"
)

// TransitionResult reports the side effects of a terminal rental transition.
type TransitionResult struct {
	Rental         models.Rental
	MachineFreed   bool
	MachineMissing bool // the referenced machine no longer exists
}

// CreateRentalWithLock creates a rental and claims its machine in one
// critical section. This is the exclusivity commit point: of two racing
// calls for the same machine, the loser observes Available == false and
// fails with ErrMachineUnavailable.
//
// The draft must carry MachineID, RequesterID, Mode, UnitPrice, Unit,
// Quantity, TotalPrice and Duration; id, status, timestamps are assigned
// here.
func (s *Store) CreateRentalWithLock(ctx context.Context, draft models.Rental) (*models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine, ok := s.machines[draft.MachineID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !machine.Available {
		return nil, models.ErrMachineUnavailable
	}

	now := s.clock.Now()
	draft.ID = uuid.NewString()
	draft.Status = models.StatusPaid
	draft.CreatedAt = now
	// Payment is instantaneous in this model: the rental clock starts at
	// creation.
	draft.StartTime = now

	machine.Available = false
	stored := draft
	s.rentals[stored.ID] = &stored

	s.persistLocked(ctx)
	out := stored
	return &out, nil
}

// GetRental returns a copy of the rental, or ErrNotFound.
func (s *Store) GetRental(id string) (*models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *r
	return &out, nil
}

// ListRentalsByRequester returns the requester's rentals, newest first.
func (s *Store) ListRentalsByRequester(userID string) []models.Rental {
	return s.listRentals(func(r *models.Rental) bool { return r.RequesterID == userID })
}

// ListRentalsByMachine returns the rentals referencing a machine, newest first.
func (s *Store) ListRentalsByMachine(machineID string) []models.Rental {
	return s.listRentals(func(r *models.Rental) bool { return r.MachineID == machineID })
}

// ListRentalsByStatus returns the rentals in a given status, newest first.
func (s *Store) ListRentalsByStatus(status models.Status) []models.Rental {
	return s.listRentals(func(r *models.Rental) bool { return r.Status == status })
}

// ListOpenRentals returns all non-terminal rentals, newest first.
func (s *Store) ListOpenRentals() []models.Rental {
	return s.listRentals(func(r *models.Rental) bool { return !r.Status.IsTerminal() })
}

// ListRentals returns every rental, newest first.
func (s *Store) ListRentals() []models.Rental {
	return s.listRentals(func(*models.Rental) bool { return true })
}

func (s *Store) listRentals(keep func(*models.Rental) bool) []models.Rental {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Rental
	for _, r := range s.rentals {
		if keep(r) {
			out = append(out, *r)
		}
	}
	sortByCreatedAtDesc(out, func(r models.Rental) (int64, string) { return r.CreatedAt.UnixNano(), r.ID })
	return out
}

// ActivateRental moves a rental from PAID to ACTIVE.
func (s *Store) ActivateRental(ctx context.Context, id string) (*models.Rental, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !models.CanTransition(r.Status, models.StatusActive) {
		return nil, models.ErrInvalidState
	}
	r.Status = models.StatusActive

	s.persistLocked(ctx)
	out := *r
	return &out, nil
}

// CompleteRental moves a rental to COMPLETED and frees its machine in the
// same critical section. A missing machine is reported, not fatal: the
// status transition still applies.
func (s *Store) CompleteRental(ctx context.Context, id string) (*TransitionResult, error) {
	return s.finishRental(ctx, id, models.StatusCompleted)
}

// CancelRental moves a rental to CANCELLED and frees its machine.
func (s *Store) CancelRental(ctx context.Context, id string) (*TransitionResult, error) {
	return s.finishRental(ctx, id, models.StatusCancelled)
}

func (s *Store) finishRental(ctx context.Context, id string, to models.Status) (*TransitionResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rentals[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if !models.CanTransition(r.Status, to) {
		return nil, models.ErrInvalidState
	}
	r.Status = to

	result := &TransitionResult{Rental: *r}
	if machine, ok := s.machines[r.MachineID]; ok {
		machine.Available = true
		result.MachineFreed = true
	} else {
		result.MachineMissing = true
		s.logger.Warn().
			Str("rental_id", r.ID).
			Str("machine_id", r.MachineID).
			Msg("rental references missing machine")
	}

	s.persistLocked(ctx)
	return result, nil
}
