package users

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

type memStore struct {
	users map[uuid.UUID]*models.User
	lastF ListFilter
}

func (m *memStore) add(email string) *models.User {
	u := &models.User{ID: uuid.New(), Email: email, Password: "hash", FullName: "User " + email, Status: models.UserActive}
	m.users[u.ID] = u
	return u
}

func (m *memStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) List(_ context.Context, f ListFilter) ([]models.User, int, error) {
	m.lastF = f
	var out []models.User
	for _, u := range m.users {
		if f.Status == "" || u.Status == f.Status {
			out = append(out, *u)
		}
	}
	return out, len(out), nil
}

func (m *memStore) UpdateProfile(_ context.Context, id uuid.UUID, in ProfileInput) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Phone != nil {
		u.Phone = *in.Phone
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) SetStatus(_ context.Context, id uuid.UUID, s models.UserStatus) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	u.Status = s
	cp := *u
	return &cp, nil
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	st := &memStore{users: make(map[uuid.UUID]*models.User)}
	svc := NewService(st, nil)
	ctx := context.Background()
	u := st.add("a@test.io")

	_, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{})
	assert.ErrorIs(t, err, apperr.ErrNoFieldsToUpdate)

	_, err = svc.UpdateProfile(ctx, u.ID, ProfileInput{FullName: strPtr("   ")})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.UpdateProfile(ctx, u.ID, ProfileInput{FullName: strPtr(" Ada Lovelace "), Phone: strPtr(" +90 555 ")})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.FullName)
	assert.Equal(t, "+90 555", got.Phone)

	_, err = svc.UpdateProfile(ctx, uuid.New(), ProfileInput{Phone: strPtr("")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestStatusAndList(t *testing.T) {
	st := &memStore{users: make(map[uuid.UUID]*models.User)}
	svc := NewService(st, nil)
	ctx := context.Background()
	a := st.add("a@test.io")
	st.add("b@test.io")

	_, err := svc.SetStatus(ctx, a.ID, "banned")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	got, err := svc.SetStatus(ctx, a.ID, models.UserInactive)
	require.NoError(t, err)
	assert.Equal(t, models.UserInactive, got.Status)

	list, total, err := svc.List(ctx, ListFilter{Status: models.UserInactive, Limit: -1, Search: " a "})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, ListFilter{Status: models.UserInactive, Limit: 20, Search: "a"}, st.lastF)

	_, _, err = svc.List(ctx, ListFilter{Status: "banned"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
