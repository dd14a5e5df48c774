package ownership

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Percentages cross the wire as text so NUMERIC(5,2) stays exact.
const stakeColumns = `o.id, o.club_id, o.user_id, o.ownership_type, o.ownership_percentage::text,
	o.start_date, o.end_date, o.status, o.created_at, o.updated_at`

// Repository handles clubs_owners persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates an ownership repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanStake(row pgx.Row, extra ...any) (*models.OwnershipStake, error) {
	var st models.OwnershipStake
	var pct string
	dest := append([]any{&st.ID, &st.ClubID, &st.UserID, &st.Type, &pct,
		&st.StartDate, &st.EndDate, &st.Status, &st.CreatedAt, &st.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if database.IsNoRows(err) {
			return nil, stakeNotFound()
		}
		return nil, apperr.Internal(err)
	}
	v, err := decimal.NewFromString(pct)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	st.Percentage = v
	return &st, nil
}

// LockClub takes a row lock on the club for the rest of the transaction.
func (r *Repository) LockClub(ctx context.Context, clubID uuid.UUID) error {
	var id uuid.UUID
	err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT id FROM clubs WHERE id = $1 FOR UPDATE`, clubID).Scan(&id)
	if database.IsNoRows(err) {
		return apperr.NotFound("club")
	}
	return apperr.Internal(err)
}

// ClubExists returns NotFound if the club is absent.
func (r *Repository) ClubExists(ctx context.Context, clubID uuid.UUID) error {
	var found bool
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM clubs WHERE id = $1)`, clubID).Scan(&found); err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("club")
	}
	return nil
}

// UserExists returns NotFound if the user is absent.
func (r *Repository) UserExists(ctx context.Context, userID uuid.UUID) error {
	var found bool
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&found); err != nil {
		return apperr.Internal(err)
	}
	if !found {
		return apperr.NotFound("user")
	}
	return nil
}

// ActiveStakeFor returns the user's active stake in the club.
func (r *Repository) ActiveStakeFor(ctx context.Context, clubID, userID uuid.UUID) (*models.OwnershipStake, error) {
	q := `SELECT ` + stakeColumns + ` FROM clubs_owners o
		WHERE o.club_id = $1 AND o.user_id = $2 AND o.status = 'active'`
	return scanStake(database.Conn(ctx, r.pool).QueryRow(ctx, q, clubID, userID))
}

// ActiveTotal sums active stakes of the club, skipping excludeStakeID (uuid.Nil skips nothing).
func (r *Repository) ActiveTotal(ctx context.Context, clubID, excludeStakeID uuid.UUID) (decimal.Decimal, error) {
	const q = `SELECT COALESCE(SUM(ownership_percentage), 0)::text
		FROM clubs_owners
		WHERE club_id = $1 AND status = 'active' AND id <> $2`
	var raw string
	if err := database.Conn(ctx, r.pool).QueryRow(ctx, q, clubID, excludeStakeID).Scan(&raw); err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperr.Internal(err)
	}
	return v, nil
}

// Insert creates a stake; ID and timestamps are filled in.
func (r *Repository) Insert(ctx context.Context, st *models.OwnershipStake) error {
	const q = `INSERT INTO clubs_owners (club_id, user_id, ownership_type, ownership_percentage, start_date, status)
		VALUES ($1, $2, $3, $4::numeric, $5, $6)
		RETURNING id, created_at, updated_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q,
		st.ClubID, st.UserID, st.Type, st.Percentage.StringFixed(2), st.StartDate, st.Status,
	).Scan(&st.ID, &st.CreatedAt, &st.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.New(apperr.KindDuplicateOwnership, "user already holds an active stake in this club")
	}
	if database.IsForeignKeyViolation(err) {
		return apperr.NotFound("club or user")
	}
	return apperr.Internal(err)
}

// GetStake returns a stake in any status.
func (r *Repository) GetStake(ctx context.Context, stakeID uuid.UUID) (*models.OwnershipStake, error) {
	q := `SELECT ` + stakeColumns + ` FROM clubs_owners o WHERE o.id = $1`
	return scanStake(database.Conn(ctx, r.pool).QueryRow(ctx, q, stakeID))
}

// UpdateStake changes type and/or percentage; nil fields are kept.
func (r *Repository) UpdateStake(ctx context.Context, stakeID uuid.UUID, typ *models.OwnershipType, pct *decimal.Decimal) (*models.OwnershipStake, error) {
	var pctArg *string
	if pct != nil {
		s := pct.StringFixed(2)
		pctArg = &s
	}
	q := `UPDATE clubs_owners o SET
			ownership_type = COALESCE($2, o.ownership_type),
			ownership_percentage = COALESCE($3::numeric, o.ownership_percentage),
			updated_at = NOW()
		WHERE o.id = $1
		RETURNING ` + stakeColumns
	return scanStake(database.Conn(ctx, r.pool).QueryRow(ctx, q, stakeID, typ, pctArg))
}

// Deactivate marks the stake inactive with the given end date.
func (r *Repository) Deactivate(ctx context.Context, stakeID uuid.UUID, endDate time.Time) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE clubs_owners SET status = 'inactive', end_date = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active'`, stakeID, endDate)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return stakeNotFound()
	}
	return nil
}

func (r *Repository) listWithOwner(ctx context.Context, where, order string, arg uuid.UUID) ([]models.OwnershipStake, error) {
	q := `SELECT ` + stakeColumns + `, u.full_name, u.email
		FROM clubs_owners o
		INNER JOIN users u ON u.id = o.user_id
		WHERE ` + where + ` ORDER BY ` + order
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, arg)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var list []models.OwnershipStake
	for rows.Next() {
		var name, email string
		st, err := scanStake(rows, &name, &email)
		if err != nil {
			return nil, err
		}
		st.OwnerName, st.OwnerEmail = name, email
		list = append(list, *st)
	}
	return list, apperr.Internal(rows.Err())
}

// ListActive returns active stakes ordered by percentage DESC, created_at ASC.
func (r *Repository) ListActive(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	return r.listWithOwner(ctx, `o.club_id = $1 AND o.status = 'active'`,
		`o.ownership_percentage DESC, o.created_at ASC`, clubID)
}

// ListAll returns every stake of the club, newest first.
func (r *Repository) ListAll(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	return r.listWithOwner(ctx, `o.club_id = $1`, `o.created_at DESC`, clubID)
}

// ListByUser returns the user's active stakes with club names.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OwnershipStake, error) {
	q := `SELECT ` + stakeColumns + `, c.name
		FROM clubs_owners o
		INNER JOIN clubs c ON c.id = o.club_id
		WHERE o.user_id = $1 AND o.status = 'active'
		ORDER BY o.ownership_percentage DESC, c.name ASC`
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var list []models.OwnershipStake
	for rows.Next() {
		var clubName string
		st, err := scanStake(rows, &clubName)
		if err != nil {
			return nil, err
		}
		st.ClubName = clubName
		list = append(list, *st)
	}
	return list, apperr.Internal(rows.Err())
}
