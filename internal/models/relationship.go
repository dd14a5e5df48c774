package models

import (
	"time"

	"github.com/google/uuid"
)

// RelationshipType is the kind of link between a club and a gym.
type RelationshipType string

const (
	RelationshipOwnership   RelationshipType = "ownership"
	RelationshipPartnership RelationshipType = "partnership"
	RelationshipFranchise   RelationshipType = "franchise"
)

// Valid reports whether t is a known relationship type.
func (t RelationshipType) Valid() bool {
	switch t {
	case RelationshipOwnership, RelationshipPartnership, RelationshipFranchise:
		return true
	}
	return false
}

// EdgeStatus marks whether an edge is listed.
type EdgeStatus string

const (
	EdgeActive   EdgeStatus = "active"
	EdgeInactive EdgeStatus = "inactive"
)

// Valid reports whether s is a known edge status.
func (s EdgeStatus) Valid() bool {
	return s == EdgeActive || s == EdgeInactive
}

// RelationshipEdge links a club and a gym (clubs_gyms_map row).
type RelationshipEdge struct {
	ID        uuid.UUID        `json:"id"`
	ClubID    uuid.UUID        `json:"club_id"`
	GymID     uuid.UUID        `json:"gym_id"`
	Type      RelationshipType `json:"relationship_type"`
	Status    EdgeStatus       `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`

	// Populated by listing queries.
	ClubName string `json:"club_name,omitempty"`
	GymName  string `json:"gym_name,omitempty"`
}
