package gyms

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

const gymColumns = `id, name, address, city, COALESCE(district, ''), COALESCE(postal_code, ''),
	COALESCE(phone, ''), COALESCE(email, ''), capacity, area_sqm, status, created_at, updated_at`

// Repository handles gym persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a gym repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanGym(row pgx.Row) (*models.Gym, error) {
	var g models.Gym
	err := row.Scan(&g.ID, &g.Name, &g.Address, &g.City, &g.District, &g.PostalCode,
		&g.Phone, &g.Email, &g.Capacity, &g.AreaSqm, &g.Status, &g.CreatedAt, &g.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, apperr.NotFound("gym")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &g, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a gym; ID and timestamps are filled in.
func (r *Repository) Create(ctx context.Context, g *models.Gym) error {
	const q = `INSERT INTO gyms (name, address, city, district, postal_code, phone, email, capacity, area_sqm, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q,
		g.Name, g.Address, g.City, nullable(g.District), nullable(g.PostalCode),
		nullable(g.Phone), nullable(g.Email), g.Capacity, g.AreaSqm, g.Status,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	return apperr.Internal(err)
}

// GetByID returns a gym.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Gym, error) {
	return scanGym(database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+gymColumns+` FROM gyms WHERE id = $1`, id))
}

// List returns a page of gyms ordered by name, plus the total matching count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Gym, int, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.City != "" {
		args = append(args, f.City)
		conds = append(conds, fmt.Sprintf("city ILIKE $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR address ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	conn := database.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM gyms`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`SELECT %s FROM gyms%s ORDER BY name ASC, created_at ASC LIMIT $%d OFFSET $%d`,
		gymColumns, where, len(args)-1, len(args))
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer rows.Close()
	list := []models.Gym{}
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return list, total, nil
}

// Update changes the non-nil fields. An empty string clears an optional field.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Gym, error) {
	q := `UPDATE gyms SET
			name = COALESCE($2, name),
			address = COALESCE($3, address),
			city = COALESCE($4, city),
			district = CASE WHEN $5::text IS NULL THEN district ELSE NULLIF($5, '') END,
			postal_code = CASE WHEN $6::text IS NULL THEN postal_code ELSE NULLIF($6, '') END,
			phone = CASE WHEN $7::text IS NULL THEN phone ELSE NULLIF($7, '') END,
			email = CASE WHEN $8::text IS NULL THEN email ELSE NULLIF($8, '') END,
			capacity = COALESCE($9, capacity),
			area_sqm = COALESCE($10, area_sqm),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + gymColumns
	return scanGym(database.Conn(ctx, r.pool).QueryRow(ctx, q, id,
		in.Name, in.Address, in.City, in.District, in.PostalCode, in.Phone, in.Email, in.Capacity, in.AreaSqm))
}

// SetStatus changes the gym status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.GymStatus) (*models.Gym, error) {
	return scanGym(database.Conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE gyms SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+gymColumns, id, status))
}

// Delete removes the gym; its club links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("gym")
	}
	return nil
}
