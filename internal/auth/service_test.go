package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/utils"
)

type memUsers struct {
	byID map[uuid.UUID]*models.User
}

func newMemUsers() *memUsers { return &memUsers{byID: make(map[uuid.UUID]*models.User)} }

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	u.ID = uuid.New()
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, apperr.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user")
}

type fakePerms struct {
	keys map[uuid.UUID][]string
	err  error
}

func (f *fakePerms) EffectiveKeys(_ context.Context, id uuid.UUID) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k, ok := f.keys[id]; ok {
		return k, nil
	}
	return []string{}, nil
}

func newTestService() (*Service, *memUsers, *fakePerms) {
	users := newMemUsers()
	perms := &fakePerms{keys: make(map[uuid.UUID][]string)}
	return NewService(users, perms, NewJWTService("secret", 1), utils.NewPasswordHasher(bcrypt.MinCost), nil), users, perms
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, perms := newTestService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, RegisterInput{Email: " Ada@Test.io ", Password: "secret1", FullName: "Ada"})
	require.NoError(t, err)
	assert.Equal(t, "ada@test.io", sess.User.Email)
	assert.Equal(t, models.UserActive, sess.User.Status)
	assert.Empty(t, sess.Permissions)

	_, err = svc.Register(ctx, RegisterInput{Email: "ada@test.io", Password: "secret1", FullName: "Ada"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateKey)

	perms.keys[sess.User.ID] = []string{"clubs.read", "gyms.read"}
	login, err := svc.Login(ctx, "ADA@test.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, []string{"clubs.read", "gyms.read"}, login.Permissions)

	claims, err := svc.jwt.Validate(login.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
	assert.Equal(t, []string{"clubs.read", "gyms.read"}, claims.Permissions)
}

func TestLoginFailures(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "ada@test.io", Password: "secret1", FullName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "ada@test.io", "wrong")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody@test.io", "secret1")
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	users.byID[sess.User.ID].Status = models.UserInactive
	_, err = svc.Login(ctx, "ada@test.io", "secret1")
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "a@test.io", Password: "123", FullName: "A"})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@test.io", Password: "secret1", FullName: "  "})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestSnapshotFailureStillIssuesToken(t *testing.T) {
	svc, _, perms := newTestService()
	ctx := context.Background()
	_, err := svc.Register(ctx, RegisterInput{Email: "ada@test.io", Password: "secret1", FullName: "Ada"})
	require.NoError(t, err)

	perms.err = errors.New("db down")
	sess, err := svc.Login(ctx, "ada@test.io", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Empty(t, sess.Permissions)
}

func TestMe(t *testing.T) {
	svc, _, perms := newTestService()
	ctx := context.Background()
	sess, err := svc.Register(ctx, RegisterInput{Email: "ada@test.io", Password: "secret1", FullName: "Ada"})
	require.NoError(t, err)
	perms.keys[sess.User.ID] = []string{"roles.read"}

	p, err := svc.Me(ctx, sess.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.User.FullName)
	assert.Equal(t, []string{"roles.read"}, p.Permissions)

	_, err = svc.Me(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
