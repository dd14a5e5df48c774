package main

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

type fakeCatalog struct {
	seeded int
	perms  []models.Permission
}

func (f *fakeCatalog) Seed(context.Context) error { f.seeded++; return nil }

func (f *fakeCatalog) List(context.Context) ([]models.Permission, error) { return f.perms, nil }

type fakeRoles struct {
	role    *models.Role
	created int
	synced  []uuid.UUID
}

func (f *fakeRoles) EnsureRole(_ context.Context, name, _ string, _ []uuid.UUID) (*models.Role, error) {
	if f.role == nil {
		f.created++
		f.role = &models.Role{ID: uuid.New(), Name: name}
	}
	return f.role, nil
}

func (f *fakeRoles) UpdateRolePermissions(_ context.Context, _ uuid.UUID, ids []uuid.UUID) (*models.Role, error) {
	f.synced = ids
	return f.role, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := f[email]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("user")
}

type fakeAssigner struct {
	links map[[2]uuid.UUID]bool
}

func (f *fakeAssigner) AssignRole(_ context.Context, userID, roleID uuid.UUID) error {
	k := [2]uuid.UUID{userID, roleID}
	if f.links[k] {
		return apperr.New(apperr.KindAlreadyAssigned, "role already assigned to user")
	}
	f.links[k] = true
	return nil
}

func TestBootstrapIsIdempotent(t *testing.T) {
	catalog := &fakeCatalog{perms: []models.Permission{{ID: uuid.New(), Key: "clubs.read"}, {ID: uuid.New(), Key: "gyms.read"}}}
	roles := &fakeRoles{}
	admin := &models.User{ID: uuid.New(), Email: "root@test.io"}
	users := fakeUsers{"root@test.io": admin}
	assigner := &fakeAssigner{links: make(map[[2]uuid.UUID]bool)}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.NoError(t, bootstrap(ctx, catalog, roles, users, assigner, "root@test.io", zap.NewNop()))
	}
	assert.Equal(t, 2, catalog.seeded)
	assert.Equal(t, 1, roles.created)
	assert.Equal(t, []uuid.UUID{catalog.perms[0].ID, catalog.perms[1].ID}, roles.synced)
	assert.True(t, assigner.links[[2]uuid.UUID{admin.ID, roles.role.ID}])
}

func TestBootstrapMissingAdminAccount(t *testing.T) {
	assigner := &fakeAssigner{links: make(map[[2]uuid.UUID]bool)}
	err := bootstrap(context.Background(), &fakeCatalog{}, &fakeRoles{}, fakeUsers{}, assigner, "nobody@test.io", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, assigner.links)
}
