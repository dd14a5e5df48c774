package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

const adminRole = "admin"

type catalogSeeder interface {
	Seed(ctx context.Context) error
	List(ctx context.Context) ([]models.Permission, error)
}

type roleProvisioner interface {
	EnsureRole(ctx context.Context, name, description string, permissionIDs []uuid.UUID) (*models.Role, error)
	UpdateRolePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*models.Role, error)
}

type userFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type roleAssigner interface {
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
}

// bootstrap seeds the permission catalog, keeps the admin role holding every
// permission and, when adminEmail names an existing account, grants it that role.
func bootstrap(ctx context.Context, catalog catalogSeeder, roles roleProvisioner, users userFinder, assigner roleAssigner, adminEmail string, logger *zap.Logger) error {
	if err := catalog.Seed(ctx); err != nil {
		return fmt.Errorf("seed permissions: %w", err)
	}
	perms, err := catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("list permissions: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(perms))
	for _, p := range perms {
		ids = append(ids, p.ID)
	}

	role, err := roles.EnsureRole(ctx, adminRole, "Full access to every module", ids)
	if err != nil {
		return fmt.Errorf("ensure admin role: %w", err)
	}
	if _, err := roles.UpdateRolePermissions(ctx, role.ID, ids); err != nil {
		return fmt.Errorf("sync admin permissions: %w", err)
	}

	if adminEmail == "" {
		return nil
	}
	u, err := users.GetByEmail(ctx, adminEmail)
	if errors.Is(err, apperr.ErrNotFound) {
		logger.Warn("bootstrap admin account not found; register it and restart", zap.String("email", adminEmail))
		return nil
	}
	if err != nil {
		return fmt.Errorf("find admin account: %w", err)
	}
	err = assigner.AssignRole(ctx, u.ID, role.ID)
	if err != nil && !errors.Is(err, apperr.ErrAlreadyAssigned) {
		return fmt.Errorf("assign admin role: %w", err)
	}
	if err == nil {
		logger.Info("admin role granted", zap.String("user_id", u.ID.String()))
	}
	return nil
}
