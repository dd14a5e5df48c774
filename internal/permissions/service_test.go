package permissions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

type memStore struct {
	byID map[uuid.UUID]*models.Permission
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[uuid.UUID]*models.Permission)}
}

func (m *memStore) Create(_ context.Context, p *models.Permission) error {
	for _, existing := range m.byID {
		if existing.Key == p.Key {
			return apperr.ErrDuplicateKey
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memStore) Ensure(ctx context.Context, p *models.Permission) error {
	if _, err := m.GetByKey(ctx, p.Key); err == nil {
		return nil
	}
	return m.Create(ctx, p)
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Permission, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("permission")
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) GetByKey(_ context.Context, key string) (*models.Permission, error) {
	for _, p := range m.byID {
		if p.Key == key {
			cp := *p
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("permission")
}

func (m *memStore) List(_ context.Context) ([]models.Permission, error) {
	out := make([]models.Permission, 0, len(m.byID))
	for _, p := range m.byID {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	var out []models.Permission
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memStore) UpdateDescription(_ context.Context, id uuid.UUID, description string) (*models.Permission, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("permission")
	}
	p.Description = description
	cp := *p
	return &cp, nil
}

func TestCreatePermission(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	ctx := context.Background()

	p, err := svc.CreatePermission(ctx, " Clubs.Export ", "Export clubs", "clubs")
	require.NoError(t, err)
	assert.Equal(t, "clubs.export", p.Key)
	assert.Equal(t, "clubs", p.Module)

	_, err = svc.CreatePermission(ctx, "clubs.export", "again", "clubs")
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)
}

func TestCreatePermissionValidation(t *testing.T) {
	svc := NewService(newMemStore(), nil)
	ctx := context.Background()

	cases := []struct{ key, module string }{
		{"clubs", "clubs"},
		{"clubs.export.csv", "clubs"},
		{"clubs.export", ""},
		{"gyms.read", "clubs"},
		{"clubs.ex port", "clubs"},
	}
	for _, tc := range cases {
		_, err := svc.CreatePermission(ctx, tc.key, "", tc.module)
		assert.ErrorIs(t, err, apperr.ErrValidation, tc.key)
	}
}

func TestUpdateDescription(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	p, err := svc.CreatePermission(ctx, "gyms.audit", "old", "gyms")
	require.NoError(t, err)

	updated, err := svc.UpdateDescription(ctx, p.ID, "  new  ")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "gyms.audit", updated.Key)

	_, err = svc.UpdateDescription(ctx, uuid.New(), "x")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSeedIsIdempotentAndGrouped(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	require.NoError(t, svc.Seed(ctx))

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(DefaultCatalog))

	groups, err := svc.ListGrouped(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, groups)
	for i := 1; i < len(groups); i++ {
		assert.Less(t, groups[i-1].Module, groups[i].Module)
	}
	for _, g := range groups {
		for _, p := range g.Permissions {
			assert.Equal(t, g.Module, p.Module)
		}
	}
}
