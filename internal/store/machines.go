package store

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"mecarent/internal/models"
)

// GetMachine returns a copy of the machine, or ErrNotFound.
func (s *Store) GetMachine(id string) (*models.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := *m
	return &out, nil
}

// ListMachines returns copies of all machines matching the filter, newest
// first.
func (s *Store) ListMachines(filter models.MachineFilter) []models.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Machine
	for _, m := range s.machines {
		if filter.Matches(m) {
			out = append(out, *m)
		}
	}
	sortByCreatedAtDesc(out, func(m models.Machine) (int64, string) { return m.CreatedAt.UnixNano(), m.ID })
	return out
}

// ListMachinesByHolder returns the machines owned by a holder, newest first.
func (s *Store) ListMachinesByHolder(holderID string) []models.Machine {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Machine
	for _, m := range s.machines {
		if m.HolderID == holderID {
			out = append(out, *m)
		}
	}
	sortByCreatedAtDesc(out, func(m models.Machine) (int64, string) { return m.CreatedAt.UnixNano(), m.ID })
	return out
}

// AddMachine registers a new machine and returns the stored copy with its
// assigned id.
func (s *Store) AddMachine(ctx context.Context, machine models.Machine) (*models.Machine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	machine.ID = uuid.NewString()
	machine.CreatedAt = s.clock.Now()
	stored := machine
	s.machines[stored.ID] = &stored

	s.persistLocked(ctx)
	out := stored
	return &out, nil
}

// SetMachineAvailability flips the availability flag.
func (s *Store) SetMachineAvailability(ctx context.Context, id string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.machines[id]
	if !ok {
		return models.ErrNotFound
	}
	m.Available = available

	s.persistLocked(ctx)
	return nil
}

// HasOpenRental reports whether any non-terminal rental references the
// machine.
func (s *Store) HasOpenRental(machineID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.rentals {
		if r.MachineID == machineID && !r.Status.IsTerminal() {
			return true
		}
	}
	return false
}

// sortByCreatedAtDesc orders records newest first, with the id as a stable
// tie-break for records created within the same clock reading.
func sortByCreatedAtDesc[T any](items []T, key func(T) (int64, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti > tj
		}
		return idi < idj
	})
}
