// Package ownership keeps the ledger of fractional club ownership. The active
// stakes of a club never add up to more than 100 percent.
package ownership

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
)

// Store is the ledger persistence. LockClub must hold the club row until the
// surrounding transaction ends.
type Store interface {
	LockClub(ctx context.Context, clubID uuid.UUID) error
	ClubExists(ctx context.Context, clubID uuid.UUID) error
	UserExists(ctx context.Context, userID uuid.UUID) error
	ActiveStakeFor(ctx context.Context, clubID, userID uuid.UUID) (*models.OwnershipStake, error)
	ActiveTotal(ctx context.Context, clubID, excludeStakeID uuid.UUID) (decimal.Decimal, error)
	Insert(ctx context.Context, stake *models.OwnershipStake) error
	GetStake(ctx context.Context, stakeID uuid.UUID) (*models.OwnershipStake, error)
	UpdateStake(ctx context.Context, stakeID uuid.UUID, typ *models.OwnershipType, pct *decimal.Decimal) (*models.OwnershipStake, error)
	Deactivate(ctx context.Context, stakeID uuid.UUID, endDate time.Time) error
	ListActive(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error)
	ListAll(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.OwnershipStake, error)
}

// AddOwnerInput describes a new stake. A nil Type means owner, a nil StartDate means today.
type AddOwnerInput struct {
	ClubID    uuid.UUID
	UserID    uuid.UUID
	Type      *models.OwnershipType
	Share     Share
	StartDate *time.Time
}

// AddOwnerResult is the created stake plus the fields that were filled with defaults.
type AddOwnerResult struct {
	Stake     *models.OwnershipStake `json:"stake"`
	Defaulted []string               `json:"defaulted,omitempty"`
}

// Summary aggregates a club's active stakes.
type Summary struct {
	ClubID       uuid.UUID       `json:"club_id"`
	ActiveOwners int             `json:"active_owners"`
	Total        decimal.Decimal `json:"total_percentage"`
	Remaining    decimal.Decimal `json:"remaining_percentage"`
}

// Service implements the ownership ledger.
type Service struct {
	store  Store
	tx     database.Transactor
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates an ownership service.
func NewService(store Store, tx database.Transactor, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, tx: tx, logger: logger, now: time.Now}
}

func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func stakeNotFound() error { return apperr.NotFound("ownership stake") }

func exceeded(total, add decimal.Decimal) error {
	return apperr.New(apperr.KindPercentageExceeded,
		"total ownership would be %s%% (current %s%% + requested %s%%)",
		total.Add(add).StringFixed(2), total.StringFixed(2), add.StringFixed(2))
}

// AddOwner records a new active stake. The club row is locked for the duration
// of the check and insert, so concurrent writers on one club are serialized.
func (s *Service) AddOwner(ctx context.Context, in AddOwnerInput) (*AddOwnerResult, error) {
	var defaulted []string
	typ := models.OwnershipOwner
	if in.Type != nil {
		typ = *in.Type
	} else {
		defaulted = append(defaulted, "ownership_type")
	}
	if !typ.Valid() {
		return nil, apperr.Validation("invalid ownership type", string(typ))
	}
	pct := in.Share.Value()
	if in.Share.IsDefault() {
		defaulted = append(defaulted, "ownership_percentage")
	}
	if !validPercentage(pct) {
		return nil, apperr.Validation("ownership percentage must be greater than 0 and at most 100", "ownership_percentage")
	}
	start := s.today()
	if in.StartDate != nil {
		start = *in.StartDate
	} else {
		defaulted = append(defaulted, "start_date")
	}

	stake := &models.OwnershipStake{
		ClubID:     in.ClubID,
		UserID:     in.UserID,
		Type:       typ,
		Percentage: pct,
		StartDate:  start,
		Status:     models.StakeActive,
	}
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.LockClub(ctx, in.ClubID); err != nil {
			return err
		}
		if err := s.store.UserExists(ctx, in.UserID); err != nil {
			return err
		}
		if _, err := s.store.ActiveStakeFor(ctx, in.ClubID, in.UserID); err == nil {
			return apperr.New(apperr.KindDuplicateOwnership, "user already holds an active stake in this club")
		} else if apperr.KindOf(err) != apperr.KindNotFound {
			return err
		}
		total, err := s.store.ActiveTotal(ctx, in.ClubID, uuid.Nil)
		if err != nil {
			return err
		}
		if total.Add(pct).GreaterThan(hundred) {
			return exceeded(total, pct)
		}
		return s.store.Insert(ctx, stake)
	})
	if err != nil {
		return nil, err
	}

	fields := []zap.Field{
		zap.String("club_id", in.ClubID.String()),
		zap.String("user_id", in.UserID.String()),
		zap.String("stake_id", stake.ID.String()),
		zap.String("percentage", pct.StringFixed(2)),
	}
	if in.Share.IsDefault() {
		s.logger.Warn("ownership granted with default full share", fields...)
	} else {
		s.logger.Info("ownership added", fields...)
	}
	return &AddOwnerResult{Stake: stake, Defaulted: defaulted}, nil
}

// UpdateOwnership changes the type and/or percentage of an active stake. The
// percentage check excludes the stake's own current value.
func (s *Service) UpdateOwnership(ctx context.Context, clubID, stakeID uuid.UUID, newType *models.OwnershipType, newPct *decimal.Decimal) (*models.OwnershipStake, error) {
	if newType == nil && newPct == nil {
		return nil, apperr.ErrNoFieldsToUpdate
	}
	if newType != nil && !newType.Valid() {
		return nil, apperr.Validation("invalid ownership type", string(*newType))
	}
	var pct *decimal.Decimal
	if newPct != nil {
		v := newPct.Round(2)
		if !validPercentage(v) {
			return nil, apperr.Validation("ownership percentage must be greater than 0 and at most 100", "ownership_percentage")
		}
		pct = &v
	}

	var updated *models.OwnershipStake
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.LockClub(ctx, clubID); err != nil {
			return err
		}
		stake, err := s.store.GetStake(ctx, stakeID)
		if err != nil {
			return err
		}
		if stake.ClubID != clubID || stake.Status != models.StakeActive {
			return stakeNotFound()
		}
		if pct != nil {
			others, err := s.store.ActiveTotal(ctx, clubID, stakeID)
			if err != nil {
				return err
			}
			if others.Add(*pct).GreaterThan(hundred) {
				return exceeded(others, *pct)
			}
		}
		updated, err = s.store.UpdateStake(ctx, stakeID, newType, pct)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("ownership updated",
		zap.String("club_id", clubID.String()),
		zap.String("stake_id", stakeID.String()),
		zap.String("percentage", updated.Percentage.StringFixed(2)))
	return updated, nil
}

// RemoveOwner soft-deletes an active stake: it becomes inactive with today's end date.
func (s *Service) RemoveOwner(ctx context.Context, clubID, stakeID uuid.UUID) error {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.LockClub(ctx, clubID); err != nil {
			return err
		}
		stake, err := s.store.GetStake(ctx, stakeID)
		if err != nil {
			return err
		}
		if stake.ClubID != clubID || stake.Status != models.StakeActive {
			return stakeNotFound()
		}
		return s.store.Deactivate(ctx, stakeID, s.today())
	})
	if err != nil {
		return err
	}
	s.logger.Info("ownership removed", zap.String("club_id", clubID.String()), zap.String("stake_id", stakeID.String()))
	return nil
}

// ListOwners returns active stakes, largest first, earliest created breaking ties.
func (s *Service) ListOwners(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	if err := s.store.ClubExists(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.ListActive(ctx, clubID)
}

// History returns every stake of the club, removed ones included, newest first.
func (s *Service) History(ctx context.Context, clubID uuid.UUID) ([]models.OwnershipStake, error) {
	if err := s.store.ClubExists(ctx, clubID); err != nil {
		return nil, err
	}
	return s.store.ListAll(ctx, clubID)
}

// Summary totals the club's active stakes.
func (s *Service) Summary(ctx context.Context, clubID uuid.UUID) (*Summary, error) {
	owners, err := s.ListOwners(ctx, clubID)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, o := range owners {
		total = total.Add(o.Percentage)
	}
	return &Summary{
		ClubID:       clubID,
		ActiveOwners: len(owners),
		Total:        total,
		Remaining:    hundred.Sub(total),
	}, nil
}

// ClubsOwnedBy lists the user's active stakes across clubs.
func (s *Service) ClubsOwnedBy(ctx context.Context, userID uuid.UUID) ([]models.OwnershipStake, error) {
	if err := s.store.UserExists(ctx, userID); err != nil {
		return nil, err
	}
	return s.store.ListByUser(ctx, userID)
}

// HasActiveOwners reports whether any active stake exists for the club.
func (s *Service) HasActiveOwners(ctx context.Context, clubID uuid.UUID) (bool, error) {
	total, err := s.store.ActiveTotal(ctx, clubID, uuid.Nil)
	if err != nil {
		return false, err
	}
	return total.IsPositive(), nil
}
