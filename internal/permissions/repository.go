package permissions

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Repository handles permission catalog persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a permissions repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const permissionColumns = `id, key, module, description, created_at`

func scanPermission(row pgx.Row) (*models.Permission, error) {
	var p models.Permission
	if err := row.Scan(&p.ID, &p.Key, &p.Module, &p.Description, &p.CreatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, apperr.NotFound("permission")
		}
		return nil, apperr.Internal(err)
	}
	return &p, nil
}

// Create inserts a permission.
func (r *Repository) Create(ctx context.Context, p *models.Permission) error {
	const q = `INSERT INTO permissions (key, module, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q, p.Key, p.Module, p.Description).Scan(&p.ID, &p.CreatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.New(apperr.KindDuplicateKey, "permission %q already exists", p.Key)
	}
	return apperr.Internal(err)
}

// Ensure inserts a permission unless its key already exists.
func (r *Repository) Ensure(ctx context.Context, p *models.Permission) error {
	const q = `INSERT INTO permissions (key, module, description)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING`
	_, err := database.Conn(ctx, r.pool).Exec(ctx, q, p.Key, p.Module, p.Description)
	return apperr.Internal(err)
}

// GetByID returns a permission by ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	q := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = $1`
	return scanPermission(database.Conn(ctx, r.pool).QueryRow(ctx, q, id))
}

// GetByKey returns a permission by key.
func (r *Repository) GetByKey(ctx context.Context, key string) (*models.Permission, error) {
	q := `SELECT ` + permissionColumns + ` FROM permissions WHERE key = $1`
	return scanPermission(database.Conn(ctx, r.pool).QueryRow(ctx, q, key))
}

// List returns the catalog ordered by module then key.
func (r *Repository) List(ctx context.Context) ([]models.Permission, error) {
	q := `SELECT ` + permissionColumns + ` FROM permissions ORDER BY module, key`
	return collect(ctx, database.Conn(ctx, r.pool), q)
}

// ListByIDs returns the permissions among ids that exist.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	q := `SELECT ` + permissionColumns + ` FROM permissions WHERE id = ANY($1::uuid[]) ORDER BY key`
	return collect(ctx, database.Conn(ctx, r.pool), q, ids)
}

// UpdateDescription changes the only mutable field of a permission.
func (r *Repository) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Permission, error) {
	q := `UPDATE permissions SET description = $2, updated_at = NOW() WHERE id = $1
		RETURNING ` + permissionColumns
	return scanPermission(database.Conn(ctx, r.pool).QueryRow(ctx, q, id, description))
}

func collect(ctx context.Context, db database.Querier, q string, args ...any) ([]models.Permission, error) {
	rows, err := db.Query(ctx, q, args...)
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
