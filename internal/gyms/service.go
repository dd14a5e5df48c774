// Package gyms manages gym facilities.
package gyms

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

// Store is the gym persistence.
type Store interface {
	Create(ctx context.Context, gym *models.Gym) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error)
	List(ctx context.Context, f ListFilter) ([]models.Gym, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Gym, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.GymStatus) (*models.Gym, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	Status models.GymStatus
	City   string
	Search string
	Limit  int
	Offset int
}

// Normalized clamps the page to 1-100 rows (default 20) and trims text filters.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.City = strings.TrimSpace(f.City)
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// CreateInput is a new gym.
type CreateInput struct {
	Name       string
	Address    string
	City       string
	District   string
	PostalCode string
	Phone      string
	Email      string
	Capacity   *int
	AreaSqm    *int
	Status     models.GymStatus
}

// UpdateInput holds editable fields; nil leaves a field unchanged.
type UpdateInput struct {
	Name       *string
	Address    *string
	City       *string
	District   *string
	PostalCode *string
	Phone      *string
	Email      *string
	Capacity   *int
	AreaSqm    *int
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Address == nil && in.City == nil && in.District == nil &&
		in.PostalCode == nil && in.Phone == nil && in.Email == nil && in.Capacity == nil && in.AreaSqm == nil
}

// Service implements gym management.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a gym service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

func validName(name string) error {
	if n := len(strings.TrimSpace(name)); n < 2 || n > 255 {
		return apperr.Validation("gym name must be 2-255 characters", "name")
	}
	return nil
}

func validSize(v *int, field string) error {
	if v != nil && *v < 0 {
		return apperr.Validation(field+" must not be negative", field)
	}
	return nil
}

// Create adds a gym. Status defaults to active.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Gym, error) {
	if err := validName(in.Name); err != nil {
		return nil, err
	}
	if err := validSize(in.Capacity, "capacity"); err != nil {
		return nil, err
	}
	if err := validSize(in.AreaSqm, "area_sqm"); err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = models.GymActive
	}
	if !in.Status.Valid() {
		return nil, apperr.Validation("status must be active, inactive or maintenance", string(in.Status))
	}
	gym := &models.Gym{
		Name:       strings.TrimSpace(in.Name),
		Address:    strings.TrimSpace(in.Address),
		City:       strings.TrimSpace(in.City),
		District:   strings.TrimSpace(in.District),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Phone:      strings.TrimSpace(in.Phone),
		Email:      strings.TrimSpace(in.Email),
		Capacity:   in.Capacity,
		AreaSqm:    in.AreaSqm,
		Status:     in.Status,
	}
	if err := s.store.Create(ctx, gym); err != nil {
		return nil, err
	}
	s.logger.Info("gym created", zap.String("gym_id", gym.ID.String()), zap.String("name", gym.Name))
	return gym, nil
}

// Get returns a gym.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	return s.store.GetByID(ctx, id)
}

// List returns a page of gyms and the total matching count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Gym, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status filter", string(f.Status))
	}
	return s.store.List(ctx, f.Normalized())
}

// Update edits gym fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Gym, error) {
	if in.empty() {
		return nil, apperr.ErrNoFieldsToUpdate
	}
	if in.Name != nil {
		if err := validName(*in.Name); err != nil {
			return nil, err
		}
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}
	if err := validSize(in.Capacity, "capacity"); err != nil {
		return nil, err
	}
	if err := validSize(in.AreaSqm, "area_sqm"); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, in)
}

// SetStatus moves a gym between active, inactive and maintenance.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status models.GymStatus) (*models.Gym, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be active, inactive or maintenance", string(status))
	}
	gym, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("gym status changed", zap.String("gym_id", id.String()), zap.String("status", string(status)))
	return gym, nil
}

// Delete removes a gym together with its club links.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("gym deleted", zap.String("gym_id", id.String()))
	return nil
}
