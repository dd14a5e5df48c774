// Package users manages user accounts and profiles.
package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

// Store is the user persistence used by the service.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, f ListFilter) ([]models.User, int, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.User, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.User, error)
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	Status models.UserStatus
	Search string
	Limit  int
	Offset int
}

// Normalized clamps the page to 1-100 rows (default 20) and trims the search term.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// ProfileInput holds editable profile fields; nil leaves a field unchanged.
type ProfileInput struct {
	FullName *string
	Phone    *string
}

// Service implements user management.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a user service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Get returns a user without credentials.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.UserPublic, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pub := u.ToPublic()
	return &pub, nil
}

// List returns a page of users and the total matching count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.UserPublic, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status filter", string(f.Status))
	}
	list, total, err := s.store.List(ctx, f.Normalized())
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.UserPublic, 0, len(list))
	for i := range list {
		out = append(out, list[i].ToPublic())
	}
	return out, total, nil
}

// UpdateProfile edits the user's name and phone.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) (*models.UserPublic, error) {
	if in.FullName == nil && in.Phone == nil {
		return nil, apperr.ErrNoFieldsToUpdate
	}
	if in.FullName != nil {
		name := strings.TrimSpace(*in.FullName)
		if name == "" {
			return nil, apperr.Validation("full name must not be empty", "full_name")
		}
		in.FullName = &name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		in.Phone = &phone
	}
	u, err := s.store.UpdateProfile(ctx, id, in)
	if err != nil {
		return nil, err
	}
	pub := u.ToPublic()
	return &pub, nil
}

// SetStatus activates or deactivates an account. Inactive users cannot log in.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status models.UserStatus) (*models.UserPublic, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be active or inactive", string(status))
	}
	u, err := s.store.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user status changed", zap.String("user_id", id.String()), zap.String("status", string(status)))
	pub := u.ToPublic()
	return &pub, nil
}
