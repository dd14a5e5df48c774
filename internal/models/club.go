package models

import (
	"time"

	"github.com/google/uuid"
)

// ClubStatus is the lifecycle state of a club.
type ClubStatus string

const (
	ClubActive   ClubStatus = "active"
	ClubInactive ClubStatus = "inactive"
)

// Valid reports whether s is a known club status.
func (s ClubStatus) Valid() bool {
	return s == ClubActive || s == ClubInactive
}

// Club is a sports club that owns or partners with gyms.
type Club struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	Website     string     `json:"website,omitempty"`
	Description string     `json:"description,omitempty"`
	Status      ClubStatus `json:"status"`
	LogoURL     string     `json:"logo_url,omitempty"`
	LogoKey     string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
