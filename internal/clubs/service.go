// Package clubs manages club records and their logos.
package clubs

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/database"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/queue"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/storage"
)

// Store is the club persistence.
type Store interface {
	Create(ctx context.Context, club *models.Club) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Club, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Club, error)
	List(ctx context.Context, f ListFilter) ([]models.Club, int, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Club, error)
	SetStatus(ctx context.Context, id uuid.UUID, status models.ClubStatus) (*models.Club, error)
	SetLogo(ctx context.Context, id uuid.UUID, url, key string) error
	CountActiveOwners(ctx context.Context, id uuid.UUID) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LogoStorage uploads logo objects.
type LogoStorage interface {
	PutLogo(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
}

// CleanupQueue schedules deletion of logo objects no club references.
type CleanupQueue interface {
	EnqueueLogoCleanup(ctx context.Context, payload queue.LogoCleanupPayload) error
}

// ListFilter narrows List. Zero values mean no filter.
type ListFilter struct {
	Status models.ClubStatus
	Search string
	Limit  int
	Offset int
}

// Normalized clamps the page to 1-100 rows (default 20) and trims the search term.
func (f ListFilter) Normalized() ListFilter {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

// CreateInput is a new club.
type CreateInput struct {
	Name        string
	Email       string
	Phone       string
	Address     string
	Website     string
	Description string
}

// UpdateInput holds editable fields; nil leaves a field unchanged.
type UpdateInput struct {
	Name        *string
	Email       *string
	Phone       *string
	Address     *string
	Website     *string
	Description *string
}

func (in UpdateInput) empty() bool {
	return in.Name == nil && in.Email == nil && in.Phone == nil &&
		in.Address == nil && in.Website == nil && in.Description == nil
}

// LogoUpload is a logo file received from a client.
type LogoUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// Service implements club management.
type Service struct {
	store        Store
	tx           database.Transactor
	logos        LogoStorage
	cleanup      CleanupQueue
	maxLogoBytes int64
	logger       *zap.Logger
}

// NewService creates a club service. logos and cleanup may be nil, which disables uploads
// and leaves replaced logos in the bucket.
func NewService(store Store, tx database.Transactor, logos LogoStorage, cleanup CleanupQueue, maxLogoBytes int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxLogoBytes <= 0 {
		maxLogoBytes = storage.MaxLogoSize
	}
	return &Service{store: store, tx: tx, logos: logos, cleanup: cleanup, maxLogoBytes: maxLogoBytes, logger: logger}
}

func validName(name string) error {
	if n := len(strings.TrimSpace(name)); n < 2 || n > 255 {
		return apperr.Validation("club name must be 2-255 characters", "name")
	}
	return nil
}

// Create adds an active club.
func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Club, error) {
	if err := validName(in.Name); err != nil {
		return nil, err
	}
	club := &models.Club{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Address:     strings.TrimSpace(in.Address),
		Website:     strings.TrimSpace(in.Website),
		Description: strings.TrimSpace(in.Description),
		Status:      models.ClubActive,
	}
	if err := s.store.Create(ctx, club); err != nil {
		return nil, err
	}
	s.logger.Info("club created", zap.String("club_id", club.ID.String()), zap.String("name", club.Name))
	return club, nil
}

// Get returns a club.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Club, error) {
	return s.store.GetByID(ctx, id)
}

// List returns a page of clubs and the total matching count.
func (s *Service) List(ctx context.Context, f ListFilter) ([]models.Club, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, apperr.Validation("invalid status filter", string(f.Status))
	}
	return s.store.List(ctx, f.Normalized())
}

// Update edits club fields.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*models.Club, error) {
	if in.empty() {
		return nil, apperr.ErrNoFieldsToUpdate
	}
	if in.Name != nil {
		if err := validName(*in.Name); err != nil {
			return nil, err
		}
		n := strings.TrimSpace(*in.Name)
		in.Name = &n
	}
	if in.Email != nil {
		e := strings.TrimSpace(*in.Email)
		in.Email = &e
	}
	return s.store.Update(ctx, id, in)
}

// SetStatus activates or deactivates a club.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, status models.ClubStatus) (*models.Club, error) {
	if !status.Valid() {
		return nil, apperr.Validation("status must be active or inactive", string(status))
	}
	return s.store.SetStatus(ctx, id, status)
}

// Delete removes a club with no active owners. Its gym links and ownership
// history go with it.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var logoKey string
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		club, err := s.store.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		n, err := s.store.CountActiveOwners(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.Validation("club still has active owners; remove them first", "owners")
		}
		logoKey = club.LogoKey
		return s.store.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("club deleted", zap.String("club_id", id.String()))
	s.scheduleCleanup(ctx, id, logoKey, "club_deleted")
	return nil
}

// UploadLogo stores a new logo and points the club at it. The previous logo is
// queued for deletion.
func (s *Service) UploadLogo(ctx context.Context, id uuid.UUID, up LogoUpload) (*models.Club, error) {
	if s.logos == nil {
		return nil, apperr.New(apperr.KindInternal, "logo storage is not configured")
	}
	if up.Size <= 0 {
		return nil, apperr.Validation("logo file is empty", "logo")
	}
	if up.Size > s.maxLogoBytes {
		return nil, apperr.Validation("logo file is too large", "logo")
	}
	contentType, ok := storage.LogoContentType(up.ContentType, up.Filename)
	if !ok {
		return nil, apperr.Validation("logo must be a JPEG, PNG or WebP image", "logo")
	}
	club, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := storage.ClubLogoKey(id, contentType)
	url, err := s.logos.PutLogo(ctx, key, contentType, up.Body, up.Size)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if err := s.store.SetLogo(ctx, id, url, key); err != nil {
		s.scheduleCleanup(ctx, id, key, "upload_aborted")
		return nil, err
	}
	s.logger.Info("club logo uploaded", zap.String("club_id", id.String()), zap.String("key", key))
	s.scheduleCleanup(ctx, id, club.LogoKey, "replaced")

	club.LogoURL, club.LogoKey = url, key
	return club, nil
}

func (s *Service) scheduleCleanup(ctx context.Context, clubID uuid.UUID, key, reason string) {
	if key == "" || s.cleanup == nil {
		return
	}
	err := s.cleanup.EnqueueLogoCleanup(ctx, queue.LogoCleanupPayload{ClubID: clubID, Key: key, Reason: reason})
	if err != nil {
		s.logger.Warn("enqueue logo cleanup failed", zap.String("key", key), zap.Error(err))
	}
}
