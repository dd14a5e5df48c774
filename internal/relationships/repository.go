package relationships

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

const edgeColumns = `m.id, m.club_id, m.gym_id, m.relationship_type, m.status, m.created_at, m.updated_at`

// Repository handles clubs_gyms_map persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a relationships repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanEdge(row pgx.Row, extra ...any) (*models.RelationshipEdge, error) {
	var e models.RelationshipEdge
	dest := append([]any{&e.ID, &e.ClubID, &e.GymID, &e.Type, &e.Status, &e.CreatedAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if database.IsNoRows(err) {
			return nil, edgeNotFound()
		}
		return nil, apperr.Internal(err)
	}
	return &e, nil
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

// ClubExists returns NotFound if the club is absent.
func (r *Repository) ClubExists(ctx context.Context, clubID uuid.UUID) error {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM clubs WHERE id = $1)`, "club", clubID)
}

// GymExists returns NotFound if the gym is absent.
func (r *Repository) GymExists(ctx context.Context, gymID uuid.UUID) error {
	return r.exists(ctx, `SELECT EXISTS(SELECT 1 FROM gyms WHERE id = $1)`, "gym", gymID)
}

// Get returns the edge for the pair in any status.
func (r *Repository) Get(ctx context.Context, clubID, gymID uuid.UUID) (*models.RelationshipEdge, error) {
	q := `SELECT ` + edgeColumns + ` FROM clubs_gyms_map m WHERE m.club_id = $1 AND m.gym_id = $2`
	return scanEdge(database.Conn(ctx, r.pool).QueryRow(ctx, q, clubID, gymID))
}

// Insert creates an edge. The pair constraint turns a racing duplicate into DuplicateEdge.
func (r *Repository) Insert(ctx context.Context, e *models.RelationshipEdge) error {
	const q = `INSERT INTO clubs_gyms_map (club_id, gym_id, relationship_type, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`
	err := database.Conn(ctx, r.pool).QueryRow(ctx, q, e.ClubID, e.GymID, e.Type, e.Status).
		Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if database.IsUniqueViolation(err) {
		return apperr.New(apperr.KindDuplicateEdge, "club and gym are already linked")
	}
	return apperr.Internal(err)
}

// Delete removes the edge for the pair.
func (r *Repository) Delete(ctx context.Context, clubID, gymID uuid.UUID) error {
	tag, err := database.Conn(ctx, r.pool).Exec(ctx,
		`DELETE FROM clubs_gyms_map WHERE club_id = $1 AND gym_id = $2`, clubID, gymID)
	if err != nil {
		return apperr.Internal(err)
	}
	if tag.RowsAffected() == 0 {
		return edgeNotFound()
	}
	return nil
}

// UpdateType sets relationship_type in place.
func (r *Repository) UpdateType(ctx context.Context, clubID, gymID uuid.UUID, typ models.RelationshipType) (*models.RelationshipEdge, error) {
	q := `UPDATE clubs_gyms_map m SET relationship_type = $3, updated_at = NOW()
		WHERE m.club_id = $1 AND m.gym_id = $2
		RETURNING ` + edgeColumns
	return scanEdge(database.Conn(ctx, r.pool).QueryRow(ctx, q, clubID, gymID, typ))
}

// UpdateStatus sets the edge status.
func (r *Repository) UpdateStatus(ctx context.Context, clubID, gymID uuid.UUID, status models.EdgeStatus) (*models.RelationshipEdge, error) {
	q := `UPDATE clubs_gyms_map m SET status = $3, updated_at = NOW()
		WHERE m.club_id = $1 AND m.gym_id = $2
		RETURNING ` + edgeColumns
	return scanEdge(database.Conn(ctx, r.pool).QueryRow(ctx, q, clubID, gymID, status))
}

func (r *Repository) list(ctx context.Context, where string, id uuid.UUID) ([]models.RelationshipEdge, error) {
	q := `SELECT ` + edgeColumns + `, c.name, g.name
		FROM clubs_gyms_map m
		INNER JOIN clubs c ON c.id = m.club_id
		INNER JOIN gyms g ON g.id = m.gym_id
		WHERE ` + where + ` AND m.status = 'active'
		ORDER BY m.created_at DESC`
	rows, err := database.Conn(ctx, r.pool).Query(ctx, q, id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	defer rows.Close()
	var list []models.RelationshipEdge
	for rows.Next() {
		var clubName, gymName string
		e, err := scanEdge(rows, &clubName, &gymName)
		if err != nil {
			return nil, err
		}
		e.ClubName, e.GymName = clubName, gymName
		list = append(list, *e)
	}
	return list, apperr.Internal(rows.Err())
}

// ListForClub returns the club's active edges with gym names.
func (r *Repository) ListForClub(ctx context.Context, clubID uuid.UUID) ([]models.RelationshipEdge, error) {
	return r.list(ctx, `m.club_id = $1`, clubID)
}

// ListForGym returns the gym's active edges with club names.
func (r *Repository) ListForGym(ctx context.Context, gymID uuid.UUID) ([]models.RelationshipEdge, error) {
	return r.list(ctx, `m.gym_id = $1`, gymID)
}
