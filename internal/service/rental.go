// Package service orchestrates rental creation, cancellation and early
// termination on top of the store, and exposes the holder-side machine
// operations. All business failures come back as typed errors from
// internal/models.
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"mecarent/internal/clock"
	"mecarent/internal/events"
	"mecarent/internal/metrics"
	"mecarent/internal/models"
	"mecarent/internal/store"
)

// RentalService coordinates the booking flow.
type RentalService struct {
	store  *store.Store
	bus    *events.Bus
	clock  clock.Clock
	logger zerolog.Logger
}

// NewRentalService creates the service. The bus may be nil.
func NewRentalService(s *store.Store, bus *events.Bus, clk clock.Clock, logger zerolog.Logger) *RentalService {
	return &RentalService{
		store:  s,
		bus:    bus,
		clock:  clk,
		logger: logger.With().Str("component", "rental_service").Logger(),
	}
}

// CreateRental books a machine for a priced time window. Pricing is derived
// from the machine's hourly or daily rate and frozen on the rental; the
// availability claim and the rental creation commit as one unit.
func (s *RentalService) CreateRental(ctx context.Context, machineID, requesterID string, mode models.AccessMode, quantity int, unit models.Unit) (*models.Rental, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}

	machine, err := s.store.GetMachine(machineID)
	if err != nil {
		return nil, fmt.Errorf("machine %s: %w", machineID, err)
	}
	if !machine.AllowsMode(mode) {
		return nil, models.ErrInvalidAccessMode
	}

	unitPrice := machine.PriceFor(unit)
	draft := models.Rental{
		MachineID:   machineID,
		RequesterID: requesterID,
		Mode:        mode,
		UnitPrice:   unitPrice,
		Unit:        unit,
		Quantity:    quantity,
		TotalPrice:  unitPrice * int64(quantity),
		Duration:    models.DurationFor(quantity, unit),
	}

	rental, err := s.store.CreateRentalWithLock(ctx, draft)
	if err != nil {
		return nil, err
	}

	metrics.IncRentalCreated(string(mode))
	s.logger.Info().
		Str("rental_id", rental.ID).
		Str("machine_id", machineID).
		Str("requester_id", requesterID).
		Int64("total_price", rental.TotalPrice).
		Msg("rental created")
	s.publish(events.RentalPaid, rental)

	return rental, nil
}

// TerminateEarly ends an ACTIVE rental before its natural expiry. The rental
// is recorded as COMPLETED (truncated, not cancelled) and the machine is
// freed immediately. Only the owning requester may terminate.
func (s *RentalService) TerminateEarly(ctx context.Context, rentalID, requesterID string) error {
	rental, err := s.store.GetRental(rentalID)
	if err != nil {
		return err
	}
	if rental.RequesterID != requesterID {
		return models.ErrForbidden
	}
	if rental.Status != models.StatusActive {
		return models.ErrInvalidState
	}

	res, err := s.store.CompleteRental(ctx, rentalID)
	if err != nil {
		return err
	}

	metrics.IncRentalCompleted()
	s.logger.Info().
		Str("rental_id", rentalID).
		Dur("remaining", rental.RemainingAt(s.clock.Now())).
		Msg("rental terminated early")
	s.publish(events.RentalCompleted, &res.Rental)
	if res.MachineFreed {
		s.publish(events.MachineFreed, &res.Rental)
	}
	return nil
}

// CancelRental aborts a rental that has not been activated yet. Legal only
// from PAID; the machine is freed and the rental is kept as CANCELLED for
// history.
func (s *RentalService) CancelRental(ctx context.Context, rentalID, requesterID string) error {
	rental, err := s.store.GetRental(rentalID)
	if err != nil {
		return err
	}
	if rental.RequesterID != requesterID {
		return models.ErrForbidden
	}
	if rental.Status != models.StatusPaid {
		return models.ErrInvalidState
	}

	res, err := s.store.CancelRental(ctx, rentalID)
	if err != nil {
		return err
	}

	metrics.IncRentalCancelled()
	s.logger.Info().Str("rental_id", rentalID).Msg("rental cancelled")
	s.publish(events.RentalCancelled, &res.Rental)
	if res.MachineFreed {
		s.publish(events.MachineFreed, &res.Rental)
	}
	return nil
}

func (s *RentalService) publish(eventType string, r *models.Rental) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(events.Event{
		Type:      eventType,
		RentalID:  r.ID,
		MachineID: r.MachineID,
		At:        s.clock.Now(),
	})
}
