package models

import "time"

// Status is the lifecycle state of a rental.
type Status string

const (
	StatusPaid      Status = "PAID"
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// transitions lists the allowed status moves. COMPLETED and CANCELLED are
// terminal; a status never moves backward.
var transitions = map[Status][]Status{
	StatusPaid:   {StatusActive, StatusCancelled},
	StatusActive: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Unit is the billing unit of a rental.
type Unit string

const (
	UnitHour Unit = "hour"
	UnitDay  Unit = "day"
)

// DurationFor converts a quantity of units into wall-clock time.
func DurationFor(quantity int, unit Unit) time.Duration {
	if unit == UnitDay {
		return time.Duration(quantity) * 24 * time.Hour
	}
	return time.Duration(quantity) * time.Hour
}

// Rental is a priced, time-bounded reservation of one machine by one
// requester. Pricing is frozen at creation and never recomputed.
type Rental struct {
	ID          string        `json:"id"`
	MachineID   string        `json:"machine_id"`
	RequesterID string        `json:"requester_id"`
	Mode        AccessMode    `json:"mode"`
	UnitPrice   int64         `json:"unit_price"`
	Unit        Unit          `json:"unit"`
	Quantity    int           `json:"quantity"`
	TotalPrice  int64         `json:"total_price"`
	Status      Status        `json:"status"`
	StartTime   time.Time     `json:"start_time"`
	Duration    time.Duration `json:"duration"`
	CreatedAt   time.Time     `json:"created_at"`
}

// EndTime returns the instant the rental naturally expires.
func (r *Rental) EndTime() time.Time {
	return r.StartTime.Add(r.Duration)
}

// ExpiredAt reports whether the rental's full duration has elapsed.
func (r *Rental) ExpiredAt(now time.Time) bool {
	return !now.Before(r.EndTime())
}

// RemainingAt returns the time left until natural expiry, clamped at zero.
func (r *Rental) RemainingAt(now time.Time) time.Duration {
	left := r.EndTime().Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// ElapsedAt returns how much of the rental has run, clamped to the duration.
func (r *Rental) ElapsedAt(now time.Time) time.Duration {
	elapsed := now.Sub(r.StartTime)
	if elapsed < 0 {
		return 0
	}
	if elapsed > r.Duration {
		return r.Duration
	}
	return elapsed
}
