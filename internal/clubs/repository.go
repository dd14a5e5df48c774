package clubs

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

const clubColumns = `id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(address, ''),
	COALESCE(website, ''), COALESCE(description, ''), status,
	COALESCE(logo_url, ''), COALESCE(logo_key, ''), created_at, updated_at`

// Repository handles club persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a club repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var c models.Club
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.Website, &c.Description,
		&c.Status, &c.LogoURL, &c.LogoKey, &c.CreatedAt, &c.UpdatedAt)
	if database.IsNoRows(err) {
		return nil, apperr.NotFound("club")
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &c, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a club; ID and timestamps are filled in.
func (r *Repository) Create(ctx context.Context, c *models.Club) error {
	const q = `INSERT INTO clubs (name, email, phone, address, website, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q,
		c.Name, nullable(c.Email), nullable(c.Phone), nullable(c.Address),
		nullable(c.Website), nullable(c.Description), c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	return apperr.Internal(err)
}

// GetByID returns a club.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	return scanClub(database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE id = $1`, id))
}

// GetForUpdate returns a club and locks its row for the rest of the transaction.
func (r *Repository) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	return scanClub(database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT `+clubColumns+` FROM clubs WHERE id = $1 FOR UPDATE`, id))
}

// List returns a page of clubs ordered by name, plus the total matching count.
func (r *Repository) List(ctx context.Context, f ListFilter) ([]models.Club, int, error) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	conn := database.Conn(ctx, r.pool)
	var total int
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM clubs`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperr.Internal(err)
	}

	args = append(args, f.Limit, f.Offset)
	q := fmt.Sprintf(`SELECT %s FROM clubs%s ORDER BY name ASC, created_at ASC LIMIT $%d OFFSET $%d`,
		clubColumns, where, len(args)-1, len(args))
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}
	defer rows.Close()
	list := []models.Club{}
	for rows.Next() {
		c, err := scanClub(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperr.Internal(err)
	}
	return list, total, nil
}

// Update changes the non-nil fields. An empty string clears an optional field.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Club, error) {
	q := `UPDATE clubs SET
			name = COALESCE($2, name),
			email = CASE WHEN $3::text IS NULL THEN email ELSE NULLIF($3, '') END,
			phone = CASE WHEN $4::text IS NULL THEN phone ELSE NULLIF($4, '') END,
			address = CASE WHEN $5::text IS NULL THEN address ELSE NULLIF($5, '') END,
			website = CASE WHEN $6::text IS NULL THEN website ELSE NULLIF($6, '') END,
			description = CASE WHEN $7::text IS NULL THEN description ELSE NULLIF($7, '') END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + clubColumns
	return scanClub(database.Conn(ctx, r.pool).QueryRow(ctx, q,
		id, in.Name, in.Email, in.Phone, in.Address, in.Website, in.Description))
}

// SetStatus changes the club status.
func (r *Repository) SetStatus(ctx context.Context, id uuid.UUID, status models.ClubStatus) (*models.Club, error) {
	return scanClub(database.Conn(ctx, r.pool).QueryRow(ctx,
		`UPDATE clubs SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+clubColumns, id, status))
}

// SetLogo points the club at a stored logo object.
func (r *Repository) SetLogo(ctx context.Context, id uuid.UUID, url, key string) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE clubs SET logo_url = $2, logo_key = $3, updated_at = NOW() WHERE id = $1`, id, url, key)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("club")
	}
	return nil
}

// LogoInUse reports whether any club still references the logo key.
func (r *Repository) LogoInUse(ctx context.Context, key string) (bool, error) {
	var found bool
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clubs WHERE logo_key = $1)`, key).Scan(&found)
	return found, apperr.Internal(err)
}

// CountActiveOwners counts the club's active ownership stakes.
func (r *Repository) CountActiveOwners(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := database.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT COUNT(*) FROM clubs_owners WHERE club_id = $1 AND status = 'active'`, id).Scan(&n)
	return n, apperr.Internal(err)
}

// Delete removes the club; ownership history and gym links cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("club")
	}
	return nil
}
