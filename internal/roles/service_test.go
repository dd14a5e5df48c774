package roles

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database/dbtest"
)

type memStore struct {
	roles   map[uuid.UUID]*models.Role
	links   map[uuid.UUID][]uuid.UUID
	holders map[uuid.UUID][]uuid.UUID
	catalog map[uuid.UUID]models.Permission
}

func newMemStore(catalog ...models.Permission) *memStore {
	m := &memStore{
		roles:   make(map[uuid.UUID]*models.Role),
		links:   make(map[uuid.UUID][]uuid.UUID),
		holders: make(map[uuid.UUID][]uuid.UUID),
		catalog: make(map[uuid.UUID]models.Permission),
	}
	for _, p := range catalog {
		m.catalog[p.ID] = p
	}
	return m
}

func (m *memStore) Create(_ context.Context, role *models.Role) error {
	for _, r := range m.roles {
		if r.Name == role.Name {
			return apperr.ErrDuplicateName
		}
	}
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = role.CreatedAt
	cp := *role
	m.roles[role.ID] = &cp
	return nil
}

func (m *memStore) withPerms(r *models.Role) *models.Role {
	cp := *r
	cp.Permissions = nil
	for _, pid := range m.links[r.ID] {
		cp.Permissions = append(cp.Permissions, m.catalog[pid])
	}
	return &cp
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, apperr.NotFound("role")
	}
	return m.withPerms(r), nil
}

func (m *memStore) GetByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			cp := *r
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("role")
}

func (m *memStore) List(_ context.Context) ([]models.Role, error) {
	var out []models.Role
	for _, r := range m.roles {
		out = append(out, *m.withPerms(r))
	}
	return out, nil
}

func (m *memStore) Update(_ context.Context, id uuid.UUID, name, description *string) (*models.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, apperr.NotFound("role")
	}
	if name != nil {
		r.Name = *name
	}
	if description != nil {
		r.Description = *description
	}
	return m.withPerms(r), nil
}

func (m *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.roles[id]; !ok {
		return apperr.NotFound("role")
	}
	delete(m.roles, id)
	delete(m.links, id)
	delete(m.holders, id)
	return nil
}

func (m *memStore) ReplacePermissions(_ context.Context, roleID uuid.UUID, ids []uuid.UUID) error {
	m.links[roleID] = append([]uuid.UUID(nil), ids...)
	return nil
}

func (m *memStore) UserIDsWithRole(_ context.Context, roleID uuid.UUID) ([]uuid.UUID, error) {
	return m.holders[roleID], nil
}

func (m *memStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]models.Permission, error) {
	var out []models.Permission
	for _, id := range ids {
		if p, ok := m.catalog[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type recordingInvalidator struct {
	users []uuid.UUID
}

func (r *recordingInvalidator) InvalidateUsers(_ context.Context, ids ...uuid.UUID) {
	r.users = append(r.users, ids...)
}

func perm(key string) models.Permission {
	module, _, _ := strings.Cut(key, ".")
	return models.Permission{ID: uuid.New(), Key: key, Module: module}
}

func newTestService(catalog ...models.Permission) (*Service, *memStore, *recordingInvalidator) {
	store := newMemStore(catalog...)
	inv := &recordingInvalidator{}
	return NewService(store, store, &dbtest.SerialTx{}, inv, nil), store, inv
}

func TestCreateRoleWithPermissions(t *testing.T) {
	read, write := perm("clubs.read"), perm("clubs.edit")
	svc, _, _ := newTestService(read, write)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "  manager ", "club manager", []uuid.UUID{read.ID, write.ID, read.ID})
	require.NoError(t, err)
	assert.Equal(t, "manager", role.Name)
	assert.Len(t, role.Permissions, 2)

	got, err := svc.Get(ctx, role.ID)
	require.NoError(t, err)
	assert.Len(t, got.Permissions, 2)

	_, err = svc.CreateRole(ctx, "manager", "", nil)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)
}

func TestCreateRoleRejectsUnknownPermission(t *testing.T) {
	read := perm("clubs.read")
	svc, store, _ := newTestService(read)
	ctx := context.Background()

	missing := uuid.New()
	_, err := svc.CreateRole(ctx, "auditor", "", []uuid.UUID{read.ID, missing})
	require.ErrorIs(t, err, apperr.ErrValidation)
	ae, _ := apperr.As(err)
	assert.Equal(t, []string{missing.String()}, ae.Details)
	assert.Empty(t, store.roles)
}

func TestCreateRoleValidatesName(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.CreateRole(context.Background(), " x ", "", nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestUpdateRolePermissionsInvalidatesHolders(t *testing.T) {
	read, write := perm("gyms.read"), perm("gyms.edit")
	svc, store, inv := newTestService(read, write)
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "staff", "", []uuid.UUID{read.ID})
	require.NoError(t, err)
	u1, u2 := uuid.New(), uuid.New()
	store.holders[role.ID] = []uuid.UUID{u1, u2}

	updated, err := svc.UpdateRolePermissions(ctx, role.ID, []uuid.UUID{write.ID})
	require.NoError(t, err)
	require.Len(t, updated.Permissions, 1)
	assert.Equal(t, "gyms.edit", updated.Permissions[0].Key)
	assert.ElementsMatch(t, []uuid.UUID{u1, u2}, inv.users)

	cleared, err := svc.UpdateRolePermissions(ctx, role.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, cleared.Permissions)

	_, err = svc.UpdateRolePermissions(ctx, uuid.New(), nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateRole(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	a, err := svc.CreateRole(ctx, "alpha", "", nil)
	require.NoError(t, err)
	_, err = svc.CreateRole(ctx, "beta", "", nil)
	require.NoError(t, err)

	_, err = svc.UpdateRole(ctx, a.ID, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNoFieldsToUpdate)

	taken := "beta"
	_, err = svc.UpdateRole(ctx, a.ID, &taken, nil)
	assert.ErrorIs(t, err, apperr.ErrDuplicateName)

	same, desc := "alpha", " first "
	updated, err := svc.UpdateRole(ctx, a.ID, &same, &desc)
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Description)
}

func TestDeleteRole(t *testing.T) {
	svc, store, inv := newTestService()
	ctx := context.Background()

	role, err := svc.CreateRole(ctx, "temp", "", nil)
	require.NoError(t, err)
	holder := uuid.New()
	store.holders[role.ID] = []uuid.UUID{holder}

	require.NoError(t, svc.DeleteRole(ctx, role.ID))
	assert.Equal(t, []uuid.UUID{holder}, inv.users)

	_, err = svc.Get(ctx, role.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteRole(ctx, role.ID), apperr.ErrNotFound)
}

func TestEnsureRoleIsIdempotent(t *testing.T) {
	read := perm("roles.read")
	svc, store, _ := newTestService(read)
	ctx := context.Background()

	first, err := svc.EnsureRole(ctx, "admin", "", []uuid.UUID{read.ID})
	require.NoError(t, err)
	second, err := svc.EnsureRole(ctx, "admin", "", nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, store.roles, 1)
}
