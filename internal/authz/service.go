// Package authz resolves what a user may do: role assignments, direct grants
// and the effective permission set derived from both.
package authz

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Store is the persistence the authorization service needs.
type Store interface {
	UserExists(ctx context.Context, userID uuid.UUID) error
	RoleExists(ctx context.Context, roleID uuid.UUID) error
	PermissionExists(ctx context.Context, permissionID uuid.UUID) error
	ExistingRoleIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	ExistingPermissionIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error)
	DirectPermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error)
	UserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error)

	AddRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	RemoveRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error)
	ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error
	AddPermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error)
	RemovePermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error)
	ReplacePermissions(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error
}

// Service implements user authorization.
type Service struct {
	store  Store
	tx     database.Transactor
	cache  Cache
	logger *zap.Logger
}

// NewService creates an authorization service. cache may be nil.
func NewService(store Store, tx database.Transactor, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = NopCache{}
	}
	return &Service{store: store, tx: tx, cache: cache, logger: logger}
}

// EffectivePermissions returns the union of the user's role permissions and
// direct grants, sorted by key without duplicates.
func (s *Service) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	perms, version, ok, err := s.cache.Get(ctx, userID)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("permission cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	if ok {
		return perms, nil
	}

	if err := s.store.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	perms, err = s.store.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	perms = normalize(perms)
	if !cacheable {
		return perms, nil
	}
	if err := s.cache.Set(ctx, userID, version, perms); err != nil {
		s.logger.Warn("permission cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
	return perms, nil
}

// EffectiveKeys is EffectivePermissions reduced to permission keys.
func (s *Service) EffectiveKeys(ctx context.Context, userID uuid.UUID) ([]string, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(perms))
	for i, p := range perms {
		keys[i] = p.Key
	}
	return keys, nil
}

// HasPermission reports whether the user currently holds key. An unknown user holds nothing.
func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, key string) (bool, error) {
	perms, err := s.EffectivePermissions(ctx, userID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return false, nil
		}
		return false, err
	}
	i := sort.Search(len(perms), func(i int) bool { return perms[i].Key >= key })
	return i < len(perms) && perms[i].Key == key, nil
}

// UserRoles lists the roles assigned to the user.
func (s *Service) UserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	if err := s.store.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.UserRoles(ctx, userID)
}

// UserDirectPermissions lists the permissions granted to the user outside any role.
func (s *Service) UserDirectPermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	if err := s.store.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.DirectPermissions(ctx, userID)
}

// AssignRole links a role to the user; AlreadyAssigned if the link exists.
func (s *Service) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return s.mutate(ctx, userID, "role assigned", func(ctx context.Context) error {
		if err := s.store.RoleExists(ctx, roleID); err != nil {
			return err
		}
		added, err := s.store.AddRole(ctx, userID, roleID)
		if err != nil {
			return err
		}
		if !added {
			return apperr.New(apperr.KindAlreadyAssigned, "role already assigned to user")
		}
		return nil
	}, zap.String("role_id", roleID.String()))
}

// RemoveRole unlinks a role from the user; NotAssigned if there was no link.
func (s *Service) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return s.mutate(ctx, userID, "role removed", func(ctx context.Context) error {
		if err := s.store.RoleExists(ctx, roleID); err != nil {
			return err
		}
		removed, err := s.store.RemoveRole(ctx, userID, roleID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.New(apperr.KindNotAssigned, "role not assigned to user")
		}
		return nil
	}, zap.String("role_id", roleID.String()))
}

// ReplaceRoles swaps the user's whole role set in one transaction.
func (s *Service) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	ids := dedupe(roleIDs)
	return s.mutate(ctx, userID, "roles replaced", func(ctx context.Context) error {
		if err := checkAll(ctx, ids, s.store.ExistingRoleIDs, "unknown role ids"); err != nil {
			return err
		}
		return s.store.ReplaceRoles(ctx, userID, ids)
	}, zap.Int("roles", len(ids)))
}

// GrantPermission grants a permission directly; AlreadyAssigned if already granted.
func (s *Service) GrantPermission(ctx context.Context, userID, permissionID uuid.UUID) error {
	return s.mutate(ctx, userID, "permission granted", func(ctx context.Context) error {
		if err := s.store.PermissionExists(ctx, permissionID); err != nil {
			return err
		}
		added, err := s.store.AddPermission(ctx, userID, permissionID)
		if err != nil {
			return err
		}
		if !added {
			return apperr.New(apperr.KindAlreadyAssigned, "permission already granted to user")
		}
		return nil
	}, zap.String("permission_id", permissionID.String()))
}

// RevokePermission removes a direct grant; NotAssigned if there was none.
// Permissions the user holds through a role are unaffected.
func (s *Service) RevokePermission(ctx context.Context, userID, permissionID uuid.UUID) error {
	return s.mutate(ctx, userID, "permission revoked", func(ctx context.Context) error {
		if err := s.store.PermissionExists(ctx, permissionID); err != nil {
			return err
		}
		removed, err := s.store.RemovePermission(ctx, userID, permissionID)
		if err != nil {
			return err
		}
		if !removed {
			return apperr.New(apperr.KindNotAssigned, "permission not granted to user")
		}
		return nil
	}, zap.String("permission_id", permissionID.String()))
}

// ReplacePermissions swaps the user's direct grants in one transaction.
func (s *Service) ReplacePermissions(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error {
	ids := dedupe(permissionIDs)
	return s.mutate(ctx, userID, "direct permissions replaced", func(ctx context.Context) error {
		if err := checkAll(ctx, ids, s.store.ExistingPermissionIDs, "unknown permission ids"); err != nil {
			return err
		}
		return s.store.ReplacePermissions(ctx, userID, ids)
	}, zap.Int("permissions", len(ids)))
}

// InvalidateUsers drops cached permission sets. Failures are logged, not returned.
func (s *Service) InvalidateUsers(ctx context.Context, userIDs ...uuid.UUID) {
	if len(userIDs) == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, userIDs...); err != nil {
		s.logger.Warn("permission cache invalidation failed", zap.Int("users", len(userIDs)), zap.Error(err))
	}
}

// mutate runs fn in a transaction after checking the user exists, then
// invalidates the user's cached permissions.
func (s *Service) mutate(ctx context.Context, userID uuid.UUID, msg string, fn func(ctx context.Context) error, fields ...zap.Field) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.UserExists(ctx, userID); err != nil {
			return err
		}
		return fn(ctx)
	})
	if err != nil {
		return err
	}
	s.InvalidateUsers(ctx, userID)
	s.logger.Info(msg, append(fields, zap.String("user_id", userID.String()))...)
	return nil
}

func checkAll(ctx context.Context, ids []uuid.UUID, existing func(context.Context, []uuid.UUID) ([]uuid.UUID, error), msg string) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := existing(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) == len(ids) {
		return nil
	}
	known := make(map[uuid.UUID]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id.String())
		}
	}
	return apperr.Validation(msg, missing...)
}

func normalize(perms []models.Permission) []models.Permission {
	sort.Slice(perms, func(i, j int) bool { return perms[i].Key < perms[j].Key })
	out := perms[:0]
	for _, p := range perms {
		if len(out) > 0 && out[len(out)-1].Key == p.Key {
			continue
		}
		out = append(out, p)
	}
	if out == nil {
		return []models.Permission{}
	}
	return out
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
