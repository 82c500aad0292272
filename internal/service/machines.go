package service

import (
	"context"

	"mecarent/internal/models"
)

// MachineParams carries the holder-supplied machine listing fields.
type MachineParams struct {
	Name        string
	Type        string
	Location    string
	Capacity    string
	Consumption string
	Description string
	PriceHour   int64
	PriceDay    int64
	Modes       []models.AccessMode
}

// AddMachine lists a new machine for the holder. New machines start
// available and offer all access modes unless restricted.
func (s *RentalService) AddMachine(ctx context.Context, holderID string, params MachineParams) (*models.Machine, error) {
	holder, err := s.store.GetUser(holderID)
	if err != nil {
		return nil, err
	}
	if holder.Role != models.RoleHolder {
		return nil, models.ErrForbidden
	}

	modes := params.Modes
	if len(modes) == 0 {
		modes = []models.AccessMode{models.ModeRental, models.ModeLeasing, models.ModeShared}
	}

	machine, err := s.store.AddMachine(ctx, models.Machine{
		Name:        params.Name,
		Type:        params.Type,
		Location:    params.Location,
		Capacity:    params.Capacity,
		Consumption: params.Consumption,
		Description: params.Description,
		PriceHour:   params.PriceHour,
		PriceDay:    params.PriceDay,
		Modes:       modes,
		Available:   true,
		HolderID:    holderID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("machine_id", machine.ID).Str("holder_id", holderID).Msg("machine listed")
	return machine, nil
}

// ToggleMachineAvailability flips a machine's availability on behalf of its
// holder. Deactivating is refused while an open rental references the
// machine; the lifecycle owns the flag for the duration of a rental.
func (s *RentalService) ToggleMachineAvailability(ctx context.Context, machineID, holderID string) (*models.Machine, error) {
	machine, err := s.store.GetMachine(machineID)
	if err != nil {
		return nil, err
	}
	if machine.HolderID != holderID {
		return nil, models.ErrForbidden
	}
	if s.store.HasOpenRental(machineID) {
		// While a rental is open the lifecycle owns the availability flag
		// in either direction.
		return nil, models.ErrMachineBusy
	}

	if err := s.store.SetMachineAvailability(ctx, machineID, !machine.Available); err != nil {
		return nil, err
	}
	return s.store.GetMachine(machineID)
}
