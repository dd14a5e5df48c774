package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OwnershipType classifies a stake in a club.
type OwnershipType string

const (
	OwnershipOwner    OwnershipType = "owner"
	OwnershipCoOwner  OwnershipType = "co_owner"
	OwnershipPartner  OwnershipType = "partner"
	OwnershipInvestor OwnershipType = "investor"
)

// Valid reports whether t is a known ownership type.
func (t OwnershipType) Valid() bool {
	switch t {
	case OwnershipOwner, OwnershipCoOwner, OwnershipPartner, OwnershipInvestor:
		return true
	}
	return false
}

// StakeStatus is active until the stake is removed; removed stakes stay as history.
type StakeStatus string

const (
	StakeActive   StakeStatus = "active"
	StakeInactive StakeStatus = "inactive"
)

// OwnershipStake is a user's fractional claim on a club (clubs_owners row).
type OwnershipStake struct {
	ID         uuid.UUID       `json:"id"`
	ClubID     uuid.UUID       `json:"club_id"`
	UserID     uuid.UUID       `json:"user_id"`
	Type       OwnershipType   `json:"ownership_type"`
	Percentage decimal.Decimal `json:"ownership_percentage"`
	StartDate  time.Time       `json:"start_date"`
	EndDate    *time.Time      `json:"end_date,omitempty"`
	Status     StakeStatus     `json:"status"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	// Populated by listing queries that join users or clubs.
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerEmail string `json:"owner_email,omitempty"`
	ClubName   string `json:"club_name,omitempty"`
}
