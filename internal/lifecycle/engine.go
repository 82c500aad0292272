// Package lifecycle drives rental status transitions over time. The Engine
// is a pure function of (store, now): one Tick walks every open rental and
// applies the transition rules, so correctness never depends on how long the
// process slept between ticks.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"mecarent/internal/events"
	"mecarent/internal/metrics"
	"mecarent/internal/models"
	"mecarent/internal/store"
)

// Engine evaluates rental transitions against a given instant.
type Engine struct {
	store  *store.Store
	bus    *events.Bus
	logger zerolog.Logger
}

// NewEngine creates a lifecycle engine over the given store. The bus may be
// nil; events are then simply not emitted.
func NewEngine(s *store.Store, bus *events.Bus, logger zerolog.Logger) *Engine {
	return &Engine{
		store:  s,
		bus:    bus,
		logger: logger.With().Str("component", "lifecycle").Logger(),
	}
}

// TickStats summarizes one evaluation pass.
type TickStats struct {
	Evaluated int
	Activated int
	Completed int
	Anomalies int
}

// Tick evaluates every open rental at the given instant. Both rules apply in
// order within the same pass, so a rental whose full duration elapsed while
// the process was asleep goes PAID -> ACTIVE -> COMPLETED in one call.
// Running Tick twice with the same now is a no-op the second time.
func (e *Engine) Tick(ctx context.Context, now time.Time) TickStats {
	var stats TickStats

	for _, rental := range e.store.ListOpenRentals() {
		stats.Evaluated++

		// Rule 1: payment immediately starts the rental clock.
		if rental.Status == models.StatusPaid {
			activated, err := e.store.ActivateRental(ctx, rental.ID)
			if err != nil {
				// Raced with an explicit cancellation; leave it alone.
				e.logger.Debug().Err(err).Str("rental_id", rental.ID).Msg("activation skipped")
				continue
			}
			rental = *activated
			stats.Activated++
			e.publish(events.RentalActivated, &rental, now)
		}

		// Rule 2: expiry completes the rental and frees the machine.
		if rental.Status == models.StatusActive && rental.ExpiredAt(now) {
			res, err := e.store.CompleteRental(ctx, rental.ID)
			if err != nil {
				if errors.Is(err, models.ErrInvalidState) {
					continue
				}
				e.logger.Error().Err(err).Str("rental_id", rental.ID).Msg("completion failed")
				continue
			}
			stats.Completed++
			metrics.IncRentalCompleted()
			e.publish(events.RentalCompleted, &res.Rental, now)
			if res.MachineFreed {
				e.publish(events.MachineFreed, &res.Rental, now)
			}
			if res.MachineMissing {
				// Data-integrity anomaly: the transition applied, the
				// availability update was skipped. Keep going.
				stats.Anomalies++
				metrics.IncLifecycleAnomaly()
				e.logger.Warn().
					Str("rental_id", rental.ID).
					Str("machine_id", rental.MachineID).
					Msg("completed rental references missing machine")
			}
		}
	}

	metrics.IncLifecycleTick()
	metrics.SetOpenRentals(len(e.store.ListOpenRentals()))
	return stats
}

func (e *Engine) publish(eventType string, r *models.Rental, at time.Time) {
	if e.bus == nil {
		return
	}
	e.bus.Publish(events.Event{
		Type:      eventType,
		RentalID:  r.ID,
		MachineID: r.MachineID,
		At:        at,
	})
}
