// Package stats derives dashboard figures from current store state. All
// queries are read-only reducers; nothing is cached.
package stats

import (
	"time"

	"mecarent/internal/models"
	"mecarent/internal/store"
)

// Service answers dashboard queries.
type Service struct {
	store *store.Store
}

// NewService creates the aggregation service.
func NewService(s *store.Store) *Service {
	return &Service{store: s}
}

// OperatorView summarizes an operator's rental history.
type OperatorView struct {
	Completed     int
	Active        int
	TotalDuration time.Duration // across all the operator's rentals
	TotalSpent    int64         // across all the operator's rentals
}

// OperatorDashboard reduces over all rentals of the given operator.
func (s *Service) OperatorDashboard(userID string) OperatorView {
	var view OperatorView
	for _, r := range s.store.ListRentalsByRequester(userID) {
		switch r.Status {
		case models.StatusCompleted:
			view.Completed++
		case models.StatusActive:
			view.Active++
		}
		view.TotalDuration += r.Duration
		view.TotalSpent += r.TotalPrice
	}
	return view
}

// HolderView summarizes the rentals on a holder's machines.
type HolderView struct {
	Machines      int
	ActiveRentals int
	Revenue       int64 // excludes cancelled rentals
}

// HolderDashboard reduces over the rentals referencing the holder's
// machines. Cancelled rentals never count toward revenue; early terminated
// rentals count the same as naturally completed ones.
func (s *Service) HolderDashboard(userID string) HolderView {
	var view HolderView
	for _, m := range s.store.ListMachinesByHolder(userID) {
		view.Machines++
		for _, r := range s.store.ListRentalsByMachine(m.ID) {
			if r.Status == models.StatusActive {
				view.ActiveRentals++
			}
			if r.Status != models.StatusCancelled {
				view.Revenue += r.TotalPrice
			}
		}
	}
	return view
}

// MachineRevenue returns the revenue generated by one machine, excluding
// cancelled rentals.
func (s *Service) MachineRevenue(machineID string) int64 {
	var revenue int64
	for _, r := range s.store.ListRentalsByMachine(machineID) {
		if r.Status != models.StatusCancelled {
			revenue += r.TotalPrice
		}
	}
	return revenue
}
