package relationships

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database/dbtest"
)

type pair struct{ club, gym uuid.UUID }

type memStore struct {
	clubs map[uuid.UUID]bool
	gyms  map[uuid.UUID]bool
	edges map[pair]*models.RelationshipEdge
	clock time.Time
}

func newMemStore() *memStore {
	return &memStore{
		clubs: make(map[uuid.UUID]bool),
		gyms:  make(map[uuid.UUID]bool),
		edges: make(map[pair]*models.RelationshipEdge),
		clock: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) ClubExists(_ context.Context, id uuid.UUID) error {
	if !m.clubs[id] {
		return apperr.NotFound("club")
	}
	return nil
}

func (m *memStore) GymExists(_ context.Context, id uuid.UUID) error {
	if !m.gyms[id] {
		return apperr.NotFound("gym")
	}
	return nil
}

func (m *memStore) Get(_ context.Context, c, g uuid.UUID) (*models.RelationshipEdge, error) {
	e, ok := m.edges[pair{c, g}]
	if !ok {
		return nil, edgeNotFound()
	}
	cp := *e
	return &cp, nil
}

func (m *memStore) Insert(_ context.Context, e *models.RelationshipEdge) error {
	if _, ok := m.edges[pair{e.ClubID, e.GymID}]; ok {
		return apperr.ErrDuplicateEdge
	}
	e.ID = uuid.New()
	e.CreatedAt = m.tick()
	e.UpdatedAt = e.CreatedAt
	cp := *e
	m.edges[pair{e.ClubID, e.GymID}] = &cp
	return nil
}

func (m *memStore) Delete(_ context.Context, c, g uuid.UUID) error {
	if _, ok := m.edges[pair{c, g}]; !ok {
		return edgeNotFound()
	}
	delete(m.edges, pair{c, g})
	return nil
}

func (m *memStore) UpdateType(_ context.Context, c, g uuid.UUID, typ models.RelationshipType) (*models.RelationshipEdge, error) {
	e, ok := m.edges[pair{c, g}]
	if !ok {
		return nil, edgeNotFound()
	}
	e.Type = typ
	e.UpdatedAt = m.tick()
	cp := *e
	return &cp, nil
}

func (m *memStore) UpdateStatus(_ context.Context, c, g uuid.UUID, s models.EdgeStatus) (*models.RelationshipEdge, error) {
	e, ok := m.edges[pair{c, g}]
	if !ok {
		return nil, edgeNotFound()
	}
	e.Status = s
	cp := *e
	return &cp, nil
}

func (m *memStore) active(keep func(*models.RelationshipEdge) bool) []models.RelationshipEdge {
	var out []models.RelationshipEdge
	for _, e := range m.edges {
		if e.Status == models.EdgeActive && keep(e) {
			out = append(out, *e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) ListForClub(_ context.Context, id uuid.UUID) ([]models.RelationshipEdge, error) {
	return m.active(func(e *models.RelationshipEdge) bool { return e.ClubID == id }), nil
}

func (m *memStore) ListForGym(_ context.Context, id uuid.UUID) ([]models.RelationshipEdge, error) {
	return m.active(func(e *models.RelationshipEdge) bool { return e.GymID == id }), nil
}

func setup() (*Service, *memStore, uuid.UUID, uuid.UUID) {
	store := newMemStore()
	club, gym := uuid.New(), uuid.New()
	store.clubs[club] = true
	store.gyms[gym] = true
	return NewService(store, &dbtest.SerialTx{}, nil), store, club, gym
}

func TestConnectDisconnectReconnect(t *testing.T) {
	svc, _, club, gym := setup()
	ctx := context.Background()

	edge, err := svc.Connect(ctx, club, gym, models.RelationshipPartnership)
	require.NoError(t, err)
	assert.Equal(t, models.EdgeActive, edge.Status)

	_, err = svc.Connect(ctx, club, gym, models.RelationshipOwnership)
	assert.ErrorIs(t, err, apperr.ErrDuplicateEdge)

	require.NoError(t, svc.Disconnect(ctx, club, gym))
	assert.ErrorIs(t, svc.Disconnect(ctx, club, gym), apperr.ErrNotFound)

	edge, err = svc.Connect(ctx, club, gym, models.RelationshipOwnership)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipOwnership, edge.Type)
}

func TestConnectValidation(t *testing.T) {
	svc, _, club, gym := setup()
	ctx := context.Background()

	_, err := svc.Connect(ctx, club, gym, "merger")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.Connect(ctx, uuid.New(), gym, models.RelationshipFranchise)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.Connect(ctx, club, uuid.New(), models.RelationshipFranchise)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateTypeKeepsIdentity(t *testing.T) {
	svc, _, club, gym := setup()
	ctx := context.Background()

	edge, err := svc.Connect(ctx, club, gym, models.RelationshipPartnership)
	require.NoError(t, err)

	updated, err := svc.UpdateType(ctx, club, gym, models.RelationshipFranchise)
	require.NoError(t, err)
	assert.Equal(t, edge.ID, updated.ID)
	assert.Equal(t, edge.CreatedAt, updated.CreatedAt)
	assert.Equal(t, models.RelationshipFranchise, updated.Type)
	assert.True(t, updated.UpdatedAt.After(edge.UpdatedAt))

	_, err = svc.UpdateType(ctx, club, uuid.New(), models.RelationshipFranchise)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.UpdateType(ctx, club, gym, "bogus")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestInactiveEdgesAreHiddenButStillUnique(t *testing.T) {
	svc, store, club, gym := setup()
	ctx := context.Background()
	gym2 := uuid.New()
	store.gyms[gym2] = true

	_, err := svc.Connect(ctx, club, gym, models.RelationshipOwnership)
	require.NoError(t, err)
	_, err = svc.Connect(ctx, club, gym2, models.RelationshipPartnership)
	require.NoError(t, err)

	list, err := svc.ListGymsForClub(ctx, club)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, gym2, list[0].GymID)

	_, err = svc.SetStatus(ctx, club, gym, models.EdgeInactive)
	require.NoError(t, err)
	list, err = svc.ListGymsForClub(ctx, club)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.Connect(ctx, club, gym, models.RelationshipOwnership)
	assert.ErrorIs(t, err, apperr.ErrDuplicateEdge)

	clubs, err := svc.ListClubsForGym(ctx, gym2)
	require.NoError(t, err)
	assert.Len(t, clubs, 1)

	_, err = svc.SetStatus(ctx, club, gym, "paused")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.ListClubsForGym(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
