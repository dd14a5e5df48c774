package models

import (
	"time"

	"github.com/google/uuid"
)

// GymStatus is the operating state of a gym.
type GymStatus string

const (
	GymActive      GymStatus = "active"
	GymInactive    GymStatus = "inactive"
	GymMaintenance GymStatus = "maintenance"
)

// Valid reports whether s is a known gym status.
func (s GymStatus) Valid() bool {
	switch s {
	case GymActive, GymInactive, GymMaintenance:
		return true
	}
	return false
}

// Gym is a physical training facility.
type Gym struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	District   string    `json:"district,omitempty"`
	PostalCode string    `json:"postal_code,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	Capacity   *int      `json:"capacity,omitempty"`
	AreaSqm    *int      `json:"area_sqm,omitempty"`
	Status     GymStatus `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
