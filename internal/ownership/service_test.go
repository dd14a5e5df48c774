package ownership

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database/dbtest"
)

type memStore struct {
	mu     sync.Mutex
	clubs  map[uuid.UUID]bool
	users  map[uuid.UUID]bool
	stakes map[uuid.UUID]*models.OwnershipStake
	seq    int
}

func newMemStore() *memStore {
	return &memStore{
		clubs:  make(map[uuid.UUID]bool),
		users:  make(map[uuid.UUID]bool),
		stakes: make(map[uuid.UUID]*models.OwnershipStake),
	}
}

func (m *memStore) addClub() uuid.UUID {
	id := uuid.New()
	m.clubs[id] = true
	return id
}

func (m *memStore) addUser() uuid.UUID {
	id := uuid.New()
	m.users[id] = true
	return id
}

func (m *memStore) LockClub(ctx context.Context, clubID uuid.UUID) error {
	return m.ClubExists(ctx, clubID)
}

func (m *memStore) ClubExists(_ context.Context, clubID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.clubs[clubID] {
		return apperr.NotFound("club")
	}
	return nil
}

func (m *memStore) UserExists(_ context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.users[userID] {
		return apperr.NotFound("user")
	}
	return nil
}

func (m *memStore) ActiveStakeFor(_ context.Context, clubID, userID uuid.UUID) (*models.OwnershipStake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, st := range m.stakes {
		if st.ClubID == clubID && st.UserID == userID && st.Status == models.StakeActive {
			cp := *st
			return &cp, nil
		}
	}
	return nil, stakeNotFound()
}

func (m *memStore) ActiveTotal(_ context.Context, clubID, exclude uuid.UUID) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, st := range m.stakes {
		if st.ClubID == clubID && st.Status == models.StakeActive && st.ID != exclude {
			total = total.Add(st.Percentage)
		}
	}
	return total, nil
}

func (m *memStore) Insert(_ context.Context, st *models.OwnershipStake) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	st.ID = uuid.New()
	st.CreatedAt = time.Date(2024, 1, 1, 0, 0, m.seq, 0, time.UTC)
	st.UpdatedAt = st.CreatedAt
	cp := *st
	m.stakes[st.ID] = &cp
	return nil
}

func (m *memStore) GetStake(_ context.Context, id uuid.UUID) (*models.OwnershipStake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stakes[id]
	if !ok {
		return nil, stakeNotFound()
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) UpdateStake(_ context.Context, id uuid.UUID, typ *models.OwnershipType, pct *decimal.Decimal) (*models.OwnershipStake, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stakes[id]
	if !ok {
		return nil, stakeNotFound()
	}
	if typ != nil {
		st.Type = *typ
	}
	if pct != nil {
		st.Percentage = *pct
	}
	cp := *st
	return &cp, nil
}

func (m *memStore) Deactivate(_ context.Context, id uuid.UUID, end time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.stakes[id]
	if !ok || st.Status != models.StakeActive {
		return stakeNotFound()
	}
	st.Status = models.StakeInactive
	st.EndDate = &end
	return nil
}

func (m *memStore) list(keep func(*models.OwnershipStake) bool) []models.OwnershipStake {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.OwnershipStake
	for _, st := range m.stakes {
		if keep(st) {
			out = append(out, *st)
		}
	}
	return out
}

func (m *memStore) ListActive(_ context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	out := m.list(func(st *models.OwnershipStake) bool {
		return st.ClubID == clubID && st.Status == models.StakeActive
	})
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Percentage.Cmp(out[j].Percentage); c != 0 {
			return c > 0
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) ListAll(_ context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	return m.list(func(st *models.OwnershipStake) bool { return st.ClubID == clubID }), nil
}

func (m *memStore) ListByUser(_ context.Context, userID uuid.UUID) ([]models.OwnershipStake, error) {
	return m.list(func(st *models.OwnershipStake) bool {
		return st.UserID == userID && st.Status == models.StakeActive
	}), nil
}

func pct(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func typePtr(t models.OwnershipType) *models.OwnershipType { return &t }

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(store, &dbtest.SerialTx{}, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }
	return svc, store
}

func add(t *testing.T, svc *Service, club, user uuid.UUID, typ models.OwnershipType, p string) (*AddOwnerResult, error) {
	t.Helper()
	return svc.AddOwner(context.Background(), AddOwnerInput{
		ClubID: club, UserID: user, Type: typePtr(typ), Share: ExplicitShare(pct(p)),
	})
}

func TestAddOwnerPercentageBoundary(t *testing.T) {
	svc, store := newTestService()
	club, a, b := store.addClub(), store.addUser(), store.addUser()

	_, err := add(t, svc, club, a, models.OwnershipOwner, "60")
	require.NoError(t, err)

	_, err = add(t, svc, club, b, models.OwnershipPartner, "50")
	assert.ErrorIs(t, err, apperr.ErrPercentageExceeded)

	_, err = add(t, svc, club, b, models.OwnershipPartner, "40")
	require.NoError(t, err)

	sum, err := svc.Summary(context.Background(), club)
	require.NoError(t, err)
	assert.True(t, sum.Total.Equal(pct("100")))
	assert.True(t, sum.Remaining.IsZero())
	assert.Equal(t, 2, sum.ActiveOwners)
}

func TestAddOwnerValidation(t *testing.T) {
	svc, store := newTestService()
	club, user := store.addClub(), store.addUser()

	for _, p := range []string{"0", "-5", "100.01", "0.001"} {
		_, err := add(t, svc, club, user, models.OwnershipOwner, p)
		assert.ErrorIs(t, err, apperr.ErrValidation, p)
	}
	_, err := add(t, svc, club, user, models.OwnershipType("landlord"), "10")
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = add(t, svc, uuid.New(), user, models.OwnershipOwner, "10")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = add(t, svc, club, uuid.New(), models.OwnershipOwner, "10")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAddOwnerDuplicate(t *testing.T) {
	svc, store := newTestService()
	club, user := store.addClub(), store.addUser()

	_, err := add(t, svc, club, user, models.OwnershipInvestor, "10")
	require.NoError(t, err)
	_, err = add(t, svc, club, user, models.OwnershipInvestor, "10")
	assert.ErrorIs(t, err, apperr.ErrDuplicateOwnership)
}

func TestAddOwnerDefaultsAreReported(t *testing.T) {
	svc, store := newTestService()
	club, user := store.addClub(), store.addUser()

	res, err := svc.AddOwner(context.Background(), AddOwnerInput{ClubID: club, UserID: user, Share: DefaultShare()})
	require.NoError(t, err)
	assert.Equal(t, models.OwnershipOwner, res.Stake.Type)
	assert.True(t, res.Stake.Percentage.Equal(pct("100")))
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), res.Stake.StartDate)
	assert.Equal(t, []string{"ownership_type", "ownership_percentage", "start_date"}, res.Defaulted)

	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	other := store.addClub()
	res, err = svc.AddOwner(context.Background(), AddOwnerInput{
		ClubID: other, UserID: user, Type: typePtr(models.OwnershipCoOwner),
		Share: ShareFrom(decimalPtr("33.333")), StartDate: &start,
	})
	require.NoError(t, err)
	assert.Empty(t, res.Defaulted)
	assert.Equal(t, "33.33", res.Stake.Percentage.StringFixed(2))
}

func decimalPtr(s string) *decimal.Decimal {
	v := pct(s)
	return &v
}

func TestUpdateOwnershipExcludesOwnStake(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	club, a, b := store.addClub(), store.addUser(), store.addUser()

	first, err := add(t, svc, club, a, models.OwnershipOwner, "60")
	require.NoError(t, err)
	_, err = add(t, svc, club, b, models.OwnershipPartner, "40")
	require.NoError(t, err)

	_, err = svc.UpdateOwnership(ctx, club, first.Stake.ID, nil, decimalPtr("100"))
	assert.ErrorIs(t, err, apperr.ErrPercentageExceeded)

	updated, err := svc.UpdateOwnership(ctx, club, first.Stake.ID, nil, decimalPtr("60"))
	require.NoError(t, err)
	assert.Equal(t, "60.00", updated.Percentage.StringFixed(2))

	updated, err = svc.UpdateOwnership(ctx, club, first.Stake.ID, typePtr(models.OwnershipCoOwner), nil)
	require.NoError(t, err)
	assert.Equal(t, models.OwnershipCoOwner, updated.Type)
}

func TestUpdateOwnershipErrors(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	club, other, user := store.addClub(), store.addClub(), store.addUser()
	res, err := add(t, svc, club, user, models.OwnershipOwner, "50")
	require.NoError(t, err)

	_, err = svc.UpdateOwnership(ctx, club, res.Stake.ID, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNoFieldsToUpdate)

	_, err = svc.UpdateOwnership(ctx, club, res.Stake.ID, nil, decimalPtr("0"))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.UpdateOwnership(ctx, other, res.Stake.ID, nil, decimalPtr("10"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.UpdateOwnership(ctx, club, uuid.New(), nil, decimalPtr("10"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.NoError(t, svc.RemoveOwner(ctx, club, res.Stake.ID))
	_, err = svc.UpdateOwnership(ctx, club, res.Stake.ID, nil, decimalPtr("10"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveOwnerSoftDeletes(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	club, a, b := store.addClub(), store.addUser(), store.addUser()

	res, err := add(t, svc, club, a, models.OwnershipOwner, "100")
	require.NoError(t, err)

	require.NoError(t, svc.RemoveOwner(ctx, club, res.Stake.ID))
	assert.ErrorIs(t, svc.RemoveOwner(ctx, club, res.Stake.ID), apperr.ErrNotFound)

	owners, err := svc.ListOwners(ctx, club)
	require.NoError(t, err)
	assert.Empty(t, owners)

	history, err := svc.History(ctx, club)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.StakeInactive, history[0].Status)
	require.NotNil(t, history[0].EndDate)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), *history[0].EndDate)

	// the freed share can be claimed again, including by the same user
	_, err = add(t, svc, club, b, models.OwnershipOwner, "60")
	require.NoError(t, err)
	_, err = add(t, svc, club, a, models.OwnershipPartner, "40")
	require.NoError(t, err)
}

func TestListOwnersOrdering(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()
	club := store.addClub()
	u1, u2, u3 := store.addUser(), store.addUser(), store.addUser()

	_, err := add(t, svc, club, u1, models.OwnershipInvestor, "20")
	require.NoError(t, err)
	_, err = add(t, svc, club, u2, models.OwnershipOwner, "50")
	require.NoError(t, err)
	_, err = add(t, svc, club, u3, models.OwnershipPartner, "20")
	require.NoError(t, err)

	owners, err := svc.ListOwners(ctx, club)
	require.NoError(t, err)
	require.Len(t, owners, 3)
	assert.Equal(t, []uuid.UUID{u2, u1, u3}, []uuid.UUID{owners[0].UserID, owners[1].UserID, owners[2].UserID})

	_, err = svc.ListOwners(ctx, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	clubs, err := svc.ClubsOwnedBy(ctx, u2)
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, club, clubs[0].ClubID)
}

func TestConcurrentAddOwnerNeverExceedsHundred(t *testing.T) {
	svc, store := newTestService()
	club := store.addClub()
	users := make([]uuid.UUID, 25)
	for i := range users {
		users[i] = store.addUser()
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for _, u := range users {
		wg.Add(1)
		go func(u uuid.UUID) {
			defer wg.Done()
			_, err := svc.AddOwner(context.Background(), AddOwnerInput{
				ClubID: club, UserID: u, Type: typePtr(models.OwnershipInvestor), Share: ExplicitShare(pct("10")),
			})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, apperr.ErrPercentageExceeded)
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	total, err := store.ActiveTotal(context.Background(), club, uuid.Nil)
	require.NoError(t, err)
	assert.True(t, total.Equal(pct("100")))
}
