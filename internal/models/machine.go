// Package models defines the core record types shared by the stores,
// the lifecycle engine and the rental service.
package models

import (
	"strings"
	"time"
)

// AccessMode describes how a machine may be used by an operator.
type AccessMode string

const (
	ModeRental  AccessMode = "rental"
	ModeLeasing AccessMode = "leasing"
	ModeShared  AccessMode = "shared"
)

// Machine represents a piece of equipment listed for rental.
type Machine struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Location    string       `json:"location"`
	Capacity    string       `json:"capacity"`
	Consumption string       `json:"consumption"`
	Description string       `json:"description"`
	PriceHour   int64        `json:"price_hour"` // FCFA per hour
	PriceDay    int64        `json:"price_day"`  // FCFA per day
	Modes       []AccessMode `json:"modes"`
	Available   bool         `json:"available"`
	HolderID    string       `json:"holder_id,omitempty"` // empty for pre-seeded machines
	CreatedAt   time.Time    `json:"created_at"`
}

// AllowsMode reports whether the machine can be booked in the given mode.
func (m *Machine) AllowsMode(mode AccessMode) bool {
	for _, allowed := range m.Modes {
		if allowed == mode {
			return true
		}
	}
	return false
}

// PriceFor returns the unit price for the given rental unit.
func (m *Machine) PriceFor(unit Unit) int64 {
	if unit == UnitDay {
		return m.PriceDay
	}
	return m.PriceHour
}

// MachineFilter narrows catalogue listings. Zero value matches everything.
type MachineFilter struct {
	Type          string // exact type match
	Query         string // case-insensitive substring on name or type
	OnlyAvailable bool
}

// Matches applies the catalogue filter semantics to a machine.
func (f MachineFilter) Matches(m *Machine) bool {
	if f.OnlyAvailable && !m.Available {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(m.Name), q) &&
			!strings.Contains(strings.ToLower(m.Type), q) {
			return false
		}
	}
	return true
}
