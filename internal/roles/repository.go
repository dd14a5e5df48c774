package roles

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Repository handles roles and role_permissions_map persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a roles repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanRole(row pgx.Row) (*models.Role, error) {
	var r models.Role
	if err := row.Scan(&r.ID, &r.Name, &r.Description, &r.CreatedAt, &r.UpdatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("role")
		}
		return nil, apperr.Internal(err)
	}
	return &r, nil
}

// Create inserts a role (without permissions).
func (r *Repository) Create(ctx context.Context, role *models.Role) error {
	const q = `INSERT INTO roles (name, description) VALUES ($1, $2)
		RETURNING id, created_at, updated_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q, role.Name, role.Description).
		Scan(&role.ID, &role.CreatedAt, &role.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.New(apperr.KindDuplicateName, "role %q already exists", role.Name)
	}
	return apperr.Internal(err)
}

// GetByID returns a role with its permissions.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	db := database.Conn(ctx, r.pool)
	role, err := scanRole(db.QueryRow(ctx, `SELECT id, name, description, created_at, updated_at FROM roles WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if role.Permissions, err = r.permissionsOf(ctx, db, id); err != nil {
		return nil, err
	}
	return role, nil
}

// GetByName returns a role by name, without permissions.
func (r *Repository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return scanRole(database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM roles WHERE name = $1`, name))
}

// List returns all roles ordered by name, each with its permissions.
func (r *Repository) List(ctx context.Context) ([]models.Role, error) {
	db := database.Conn(ctx, r.pool)
	rows, err := db.Query(ctx, `SELECT id, name, description, created_at, updated_at FROM roles ORDER BY name`)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	var list []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			rows.Close()
			return nil, apperr.Internal(err)
		}
		list = append(list, role)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, apperr.Internal(err)
	}

	const q = `SELECT rp.role_id, p.id, p.key, p.module, p.description, p.created_at
		FROM role_permissions_map rp
		INNER JOIN permissions p ON p.id = rp.permission_id
		ORDER BY p.key`
	prow, err := db.Query(ctx, q)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer prow.Close()
	byRole := make(map[uuid.UUID][]models.Permission)
	for prow.Next() {
		var roleID uuid.UUID
		var p models.Permission
		if err := prow.Scan(&roleID, &p.ID, &p.Key, &p.Module, &p.Description, &p.CreatedAt); err != nil {
			return nil, apperr.Internal(err)
		}
		byRole[roleID] = append(byRole[roleID], p)
	}
	if err := prow.Err(); err != nil {
		return nil, apperr.Internal(err)
	}
	for i := range list {
		list[i].Permissions = byRole[list[i].ID]
	}
	return list, nil
}

// Update changes name and/or description; nil fields are kept.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, name, description *string) (*models.Role, error) {
	const q = `UPDATE roles SET
		name = COALESCE($2, name),
		description = COALESCE($3, description),
		updated_at = NOW()
		WHERE id = $1
		RETURNING id, name, description, created_at, updated_at`
	role, err := scanRole(database.Conn(ctx, r.pool).QueryRow(ctx, q, id, name, description))
	if err != nil {
		if ae, ok := apperr.As(err); ok && ae.Kind == apperr.KindInternal && database.IsUniqueViolation(ae.Cause) {
			return nil, apperr.New(apperr.KindDuplicateName, "role %q already exists", *name)
		}
		return nil, err
	}
	return role, nil
}

// Delete removes a role; user assignments and permission links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("role")
	}
	return nil
}

// ReplacePermissions deletes every link of the role and inserts permissionIDs.
// Callers run it inside a transaction.
func (r *Repository) ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	db := database.Conn(ctx, r.pool)
	if _, err := db.Exec(ctx, `DELETE FROM role_permissions_map WHERE role_id = $1`, roleID); err != nil {
		return apperr.Internal(err)
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	const q = `INSERT INTO role_permissions_map (role_id, permission_id)
		SELECT $1, unnest($2::uuid[])`
	_, err := db.Exec(ctx, q, roleID, permissionIDs)
	return apperr.Internal(err)
}

// UserIDsWithRole lists users currently assigned the role.
func (r *Repository) UserIDsWithRole(ctx context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := database.Conn(ctx, r.pool).Query(ctx, `SELECT user_id FROM user_roles_map WHERE role_id = $1`, roleID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Internal(err)
		}
		ids = append(ids, id)
	}
	return ids, apperr.Internal(rows.Err())
}

func (r *Repository) permissionsOf(ctx context.Context, db database.Querier, roleID uuid.UUID) ([]models.Permission, error) {
	const q = `SELECT p.id, p.key, p.module, p.description, p.created_at
		FROM role_permissions_map rp
		INNER JOIN permissions p ON p.id = rp.permission_id
		WHERE rp.role_id = $1
		ORDER BY p.key`
	rows, err := db.Query(ctx, q, roleID)
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
