// Package relationships manages typed edges between clubs and gyms. A club and
// a gym share at most one edge, whatever its type or status.
package relationships

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Store is the edge persistence.
type Store interface {
	ClubExists(ctx context.Context, clubID uuid.UUID) error
	GymExists(ctx context.Context, gymID uuid.UUID) error
	Get(ctx context.Context, clubID, gymID uuid.UUID) (*models.RelationshipEdge, error)
	Insert(ctx context.Context, edge *models.RelationshipEdge) error
	Delete(ctx context.Context, clubID, gymID uuid.UUID) error
	UpdateType(ctx context.Context, clubID, gymID uuid.UUID, typ models.RelationshipType) (*models.RelationshipEdge, error)
	UpdateStatus(ctx context.Context, clubID, gymID uuid.UUID, status models.EdgeStatus) (*models.RelationshipEdge, error)
	ListForClub(ctx context.Context, clubID uuid.UUID) ([]models.RelationshipEdge, error)
	ListForGym(ctx context.Context, gymID uuid.UUID) ([]models.RelationshipEdge, error)
}

// Service implements the club-gym relationship graph.
type Service struct {
	store  Store
	tx     database.Transactor
	logger *zap.Logger
}

// NewService creates a relationship service.
func NewService(store Store, tx database.Transactor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tx: tx, logger: logger}
}

func edgeNotFound() error { return apperr.NotFound("relationship") }

func checkType(typ models.RelationshipType) error {
	if !typ.Valid() {
		return apperr.Validation("relationship type must be ownership, partnership or franchise", string(typ))
	}
	return nil
}

// Connect creates an active edge. DuplicateEdge if the pair is already linked.
func (s *Service) Connect(ctx context.Context, clubID, gymID uuid.UUID, typ models.RelationshipType) (*models.RelationshipEdge, error) {
	if err := checkType(typ); err != nil {
		return nil, err
	}
	edge := &models.RelationshipEdge{ClubID: clubID, GymID: gymID, Type: typ, Status: models.EdgeActive}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.ClubExists(ctx, clubID); err != nil {
			return err
		}
		if err := s.store.GymExists(ctx, gymID); err != nil {
			return err
		}
		if existing, err := s.store.Get(ctx, clubID, gymID); err == nil {
			return apperr.New(apperr.KindDuplicateEdge, "club and gym are already linked (%s)", existing.Type)
		} else if apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}
		return s.store.Insert(ctx, edge)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("club connected to gym",
		zap.String("club_id", clubID.String()),
		zap.String("gym_id", gymID.String()),
		zap.String("type", string(typ)))
	return edge, nil
}

// Disconnect removes the edge for the pair.
func (s *Service) Disconnect(ctx context.Context, clubID, gymID uuid.UUID) error {
	if err := s.store.Delete(ctx, clubID, gymID); err != nil {
		return err
	}
	s.logger.Info("club disconnected from gym", zap.String("club_id", clubID.String()), zap.String("gym_id", gymID.String()))
	return nil
}

// UpdateType changes the edge type in place, keeping its id and creation time.
func (s *Service) UpdateType(ctx context.Context, clubID, gymID uuid.UUID, typ models.RelationshipType) (*models.RelationshipEdge, error) {
	if err := checkType(typ); err != nil {
		return nil, err
	}
	return s.store.UpdateType(ctx, clubID, gymID, typ)
}

// SetStatus pauses or resumes an edge. Inactive edges are hidden from listings
// but still occupy the pair.
func (s *Service) SetStatus(ctx context.Context, clubID, gymID uuid.UUID, status models.EdgeStatus) (*models.RelationshipEdge, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be active or inactive", string(status))
	}
	return s.store.UpdateStatus(ctx, clubID, gymID, status)
}

// ListGymsForClub returns the club's active edges, newest first.
func (s *Service) ListGymsForClub(ctx context.Context, clubID uuid.UUID) ([]models.RelationshipEdge, error) {
	if err := s.store.ClubExists(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.ListForClub(ctx, clubID)
}

// ListClubsForGym returns the gym's active edges, newest first.
func (s *Service) ListClubsForGym(ctx context.Context, gymID uuid.UUID) ([]models.RelationshipEdge, error) {
	if err := s.store.GymExists(ctx, gymID); err != nil {
		return nil, err
	}
	return s.store.ListForGym(ctx, gymID)
}
