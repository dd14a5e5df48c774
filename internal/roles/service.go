// Package roles manages named roles and the permission set each one carries.
package roles

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Store is the role persistence the service needs.
type Store interface {
	Create(ctx context.Context, role *models.Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error)
	GetByName(ctx context.Context, name string) (*models.Role, error)
	List(ctx context.Context) ([]models.Role, error)
	Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.Role, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
	UserIDsWithRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error)
}

// PermissionLookup resolves permission IDs against the catalog.
type PermissionLookup interface {
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error)
}

// Invalidator drops cached effective permissions for users.
type Invalidator interface {
	InvalidateUsers(ctx context.Context, userIDs ...uuid.UUID)
}

type noopInvalidator struct{}

func (noopInvalidator) InvalidateUsers(context.Context, ...uuid.UUID) {}

// Service implements the role store.
type Service struct {
	store       Store
	perms       PermissionLookup
	tx          database.Transactor
	invalidator Invalidator
	logger      *zap.Logger
}

// NewService creates a role service. invalidator may be nil.
func NewService(store Store, perms PermissionLookup, tx database.Transactor, invalidator Invalidator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if invalidator == nil {
		invalidator = noopInvalidator{}
	}
	return &Service{store: store, perms: perms, tx: tx, invalidator: invalidator, logger: logger}
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 || len(name) > 100 {
		return "", apperr.Validation("role name must be 2-100 characters", "name")
	}
	return name, nil
}

// CreateRole creates a role and links all permissionIDs atomically. An unknown
// permission ID rejects the whole call.
func (s *Service) CreateRole(ctx context.Context, name, description string, permissionIDs []uuid.UUID) (*models.Role, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	ids := dedupe(permissionIDs)

	var created *models.Role
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetByName(ctx, name); err == nil {
			return apperr.New(apperr.KindDuplicateName, "role %q already exists", name)
		} else if apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}
		perms, err := s.checkPermissions(ctx, ids)
		if err != nil {
			return err
		}
		role := &models.Role{Name: name, Description: strings.TrimSpace(description)}
		if err := s.store.Create(ctx, role); err != nil {
			return err
		}
		if err := s.store.ReplacePermissions(ctx, role.ID, ids); err != nil {
			return err
		}
		role.Permissions = perms
		created = role
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("role created", zap.String("role_id", created.ID.String()), zap.String("name", name), zap.Int("permissions", len(ids)))
	return created, nil
}

// UpdateRolePermissions replaces the role's permission set wholesale. An empty
// list leaves the role with no permissions.
func (s *Service) UpdateRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*models.Role, error) {
	ids := dedupe(permissionIDs)
	var affected []uuid.UUID
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.store.GetByID(ctx, roleID); err != nil {
			return err
		}
		if _, err := s.checkPermissions(ctx, ids); err != nil {
			return err
		}
		if err := s.store.ReplacePermissions(ctx, roleID, ids); err != nil {
			return err
		}
		var err error
		affected, err = s.store.UserIDsWithRole(ctx, roleID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.invalidator.InvalidateUsers(ctx, affected...)
	s.logger.Info("role permissions replaced", zap.String("role_id", roleID.String()), zap.Int("permissions", len(ids)), zap.Int("users_affected", len(affected)))
	return s.store.GetByID(ctx, roleID)
}

// UpdateRole edits name and/or description.
func (s *Service) UpdateRole(ctx context.Context, roleID uuid.UUID, name, description *string) (*models.Role, error) {
	if name == nil && description == nil {
		return nil, apperr.ErrNoFieldsToUpdate
	}
	if name != nil {
		n, err := normalizeName(*name)
		if err != nil {
			return nil, err
		}
		name = &n
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		description = &d
	}

	var updated *models.Role
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if name != nil {
			existing, err := s.store.GetByName(ctx, *name)
			if err == nil && existing.ID != roleID {
				return apperr.New(apperr.KindDuplicateName, "role %q already exists", *name)
			}
			if err != nil && apperr.KindOf(err) != apperr.KindNotFound {
				return err
			}
		}
		var err error
		updated, err = s.store.Update(ctx, roleID, name, description)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRole removes a role even if users still hold it; they simply lose its permissions.
func (s *Service) DeleteRole(ctx context.Context, roleID uuid.UUID) error {
	var affected []uuid.UUID
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		if affected, err = s.store.UserIDsWithRole(ctx, roleID); err != nil {
			return err
		}
		return s.store.Delete(ctx, roleID)
	})
	if err != nil {
		return err
	}
	s.invalidator.InvalidateUsers(ctx, affected...)
	s.logger.Info("role deleted", zap.String("role_id", roleID.String()), zap.Int("users_detached", len(affected)))
	return nil
}

// Get returns a role with its permissions.
func (s *Service) Get(ctx context.Context, roleID uuid.UUID) (*models.Role, error) {
	return s.store.GetByID(ctx, roleID)
}

// List returns all roles.
func (s *Service) List(ctx context.Context) ([]models.Role, error) {
	return s.store.List(ctx)
}

// EnsureRole creates the role if it is missing; an existing role is returned untouched.
// Used at startup to provision built-in roles.
func (s *Service) EnsureRole(ctx context.Context, name, description string, permissionIDs []uuid.UUID) (*models.Role, error) {
	existing, err := s.store.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}
	return s.CreateRole(ctx, name, description, permissionIDs)
}

func (s *Service) checkPermissions(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.perms.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == len(ids) {
		return found, nil
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, p := range found {
		known[p.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return nil, apperr.Validation("unknown permission ids", missing...)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
