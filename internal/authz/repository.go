package authz

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Repository handles user_roles_map and user_permissions_map persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an authz repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) exists(ctx context.Context, q, entity string, id uuid.UUID) error {
	var found bool
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, q, id).Scan(&found); err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound(entity)
	}
	return nil
}

// UserExists returns NotFound if the user is absent.
func (r *Repository) UserExists(ctx context.Context, userID uuid.UUID) error {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, "user", userID)
}

// RoleExists returns NotFound if the role is absent.
func (r *Repository) RoleExists(ctx context.Context, roleID uuid.UUID) error {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM roles WHERE id = $1)`, "role", roleID)
}

// PermissionExists returns NotFound if the permission is absent.
func (r *Repository) PermissionExists(ctx context.Context, permissionID uuid.UUID) error {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM permissions WHERE id = $1)`, "permission", permissionID)
}

func (r *Repository) existingIDs(ctx context.Context, q string, ids []uuid.UUID) ([]uuid.UUID, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	return found, apperr.Internal(err)
}

// ExistingRoleIDs returns the subset of ids that name a role.
func (r *Repository) ExistingRoleIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.existingIDs(ctx, `SELECT id FROM roles WHERE id = ANY($1::uuid[])`, ids)
}

// ExistingPermissionIDs returns the subset of ids that name a permission.
func (r *Repository) ExistingPermissionIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error) {
	return r.existingIDs(ctx, `SELECT id FROM permissions WHERE id = ANY($1::uuid[])`, ids)
}

// EffectivePermissions resolves the union of role-granted and directly granted permissions.
func (r *Repository) EffectivePermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	const q = `SELECT p.id, p.key, p.module, p.description, p.created_at
		FROM permissions p
		WHERE p.id IN (
			SELECT rp.permission_id
			FROM user_roles_map ur
			INNER JOIN role_permissions_map rp ON rp.role_id = ur.role_id
			WHERE ur.user_id = $1
			UNION
			SELECT up.permission_id FROM user_permissions_map up WHERE up.user_id = $1
		)
		ORDER BY p.key`
	return r.queryPermissions(ctx, q, userID)
}

// DirectPermissions lists permissions granted to the user outside any role.
func (r *Repository) DirectPermissions(ctx context.Context, userID uuid.UUID) ([]models.Permission, error) {
	const q = `SELECT p.id, p.key, p.module, p.description, p.created_at
		FROM user_permissions_map up
		INNER JOIN permissions p ON p.id = up.permission_id
		WHERE up.user_id = $1
		ORDER BY p.key`
	return r.queryPermissions(ctx, q, userID)
}

func (r *Repository) queryPermissions(ctx context.Context, q string, args ...any) ([]models.Permission, error) {
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, args...)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var list []models.Permission
	for rows.Next() {
		var p models.Permission
		if err := rows.Scan(&p.ID, &p.Key, &p.Module, &p.Description, &p.CreatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		list = append(list, p)
	}
	return list, apperr.Internal(rows.Err())
}

// UserRoles lists the roles assigned to the user, without their permissions.
func (r *Repository) UserRoles(ctx context.Context, userID uuid.UUID) ([]models.Role, error) {
	const q = `SELECT r.id, r.name, r.description, r.created_at, r.updated_at
		FROM user_roles_map ur
		INNER JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = $1
		ORDER BY r.name`
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var list []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		list = append(list, role)
	}
	return list, apperr.Internal(rows.Err())
}

// AddRole links a role to the user. It reports false when the link already existed.
func (r *Repository) AddRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO user_roles_map (user_id, role_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, roleID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return tag.RowsAffected() == 1, nil
}

// RemoveRole unlinks a role from the user. It reports false when there was no link.
func (r *Repository) RemoveRole(ctx context.Context, userID, roleID uuid.UUID) (bool, error) {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM user_roles_map WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReplaceRoles swaps the user's role set. Callers run it inside a transaction.
func (r *Repository) ReplaceRoles(ctx context.Context, userID uuid.UUID, roleIDs []uuid.UUID) error {
	return r.replace(ctx,
		`DELETE FROM user_roles_map WHERE user_id = $1`,
		`INSERT INTO user_roles_map (user_id, role_id) SELECT $1, unnest($2::uuid[])`,
		userID, roleIDs)
}

// AddPermission grants a permission directly. It reports false when the grant already existed.
func (r *Repository) AddPermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error) {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`INSERT INTO user_permissions_map (user_id, permission_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, userID, permissionID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return tag.RowsAffected() == 1, nil
}

// RemovePermission revokes a direct grant. It reports false when there was none.
func (r *Repository) RemovePermission(ctx context.Context, userID, permissionID uuid.UUID) (bool, error) {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM user_permissions_map WHERE user_id = $1 AND permission_id = $2`, userID, permissionID)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return tag.RowsAffected() == 1, nil
}

// ReplacePermissions swaps the user's direct grants. Callers run it inside a transaction.
func (r *Repository) ReplacePermissions(ctx context.Context, userID uuid.UUID, permissionIDs []uuid.UUID) error {
	return r.replace(ctx,
		`DELETE FROM user_permissions_map WHERE user_id = $1`,
		`INSERT INTO user_permissions_map (user_id, permission_id) SELECT $1, unnest($2::uuid[])`,
		userID, permissionIDs)
}

func (r *Repository) replace(ctx context.Context, del, ins string, userID uuid.UUID, ids []uuid.UUID) error {
	db := database.Conn(ctx, r.pool)
	if _, err := db.Exec(ctx, del, userID); err != nil {
		return apperr.Internal(err)
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, ins, userID, ids)
	return apperr.Internal(err)
}
