package models

import "time"

// Role distinguishes equipment holders from renting operators.
type Role string

const (
	RoleOperator Role = "operator"
	RoleHolder   Role = "holder"
)

// User is a registered participant. Profile fields are informational only;
// the core keys everything off ID and Role.
type User struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Phone     string    `json:"phone"`
	Activity  string    `json:"activity,omitempty"` // operator profile
	AreaHa    float64   `json:"area_ha,omitempty"`  // operator profile
	Crops     string    `json:"crops,omitempty"`    // operator profile
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is the full persisted state of the system. The persistence
// collaborator loads one at startup and saves one after every mutation.
type Snapshot struct {
	Machines []Machine `json:"machines"`
	Rentals  []Rental  `json:"rentals"`
	Users    []User    `json:"users"`
}
