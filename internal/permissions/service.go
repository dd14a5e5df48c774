// Package permissions owns the permission catalog: the canonical set of
// permission keys, grouped by module, that roles and users are granted.
package permissions

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
)

var (
	keyRegex    = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)
	moduleRegex = regexp.MustCompile(`^[a-z0-9_]{1,50}$`)
)

// Store is the persistence the catalog needs.
type Store interface {
	Create(ctx context.Context, p *models.Permission) error
	Ensure(ctx context.Context, p *models.Permission) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	GetByKey(ctx context.Context, key string) (*models.Permission, error)
	List(ctx context.Context) ([]models.Permission, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Permission, error)
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Permission, error)
}

// Service implements the permission catalog.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// Group is one module's slice of the catalog.
type Group struct {
	Module      string              `json:"module"`
	Permissions []models.Permission `json:"permissions"`
}

// CreatePermission adds a key to the catalog. The key must be "<module>.<action>"
// and belong to module.
func (s *Service) CreatePermission(ctx context.Context, key, description, module string) (*models.Permission, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	module = strings.ToLower(strings.TrimSpace(module))
	if !keyRegex.MatchString(key) {
		return nil, apperr.Validation("key must look like module.action", "key")
	}
	if !moduleRegex.MatchString(module) {
		return nil, apperr.Validation("module must be lowercase letters, digits or underscores", "module")
	}
	if !strings.HasPrefix(key, module+".") {
		return nil, apperr.Validation("key must start with its module", "key", "module")
	}

	if _, err := s.store.GetByKey(ctx, key); err == nil {
		return nil, apperr.New(apperr.KindDuplicateKey, "permission %q already exists", key)
	} else if apperr.KindOf(err) != apperr.KindNotFound {
		return nil, err
	}

	p := &models.Permission{Key: key, Module: module, Description: strings.TrimSpace(description)}
	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("permission created", zap.String("key", key))
	return p, nil
}

// UpdateDescription edits a permission's description; key and module are immutable.
func (s *Service) UpdateDescription(ctx context.Context, id uuid.UUID, description string) (*models.Permission, error) {
	return s.store.UpdateDescription(ctx, id, strings.TrimSpace(description))
}

// Get returns one permission.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	return s.store.GetByID(ctx, id)
}

// List returns the whole catalog.
func (s *Service) List(ctx context.Context) ([]models.Permission, error) {
	return s.store.List(ctx)
}

// ListGrouped returns the catalog grouped by module, modules and keys sorted.
func (s *Service) ListGrouped(ctx context.Context) ([]Group, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	byModule := make(map[string][]models.Permission)
	for _, p := range all {
		byModule[p.Module] = append(byModule[p.Module], p)
	}
	groups := make([]Group, 0, len(byModule))
	for module, perms := range byModule {
		sort.Slice(perms, func(i, j int) bool { return perms[i].Key < perms[j].Key })
		groups = append(groups, Group{Module: module, Permissions: perms})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Module < groups[j].Module })
	return groups, nil
}

// Seed inserts the default catalog, leaving existing keys untouched.
func (s *Service) Seed(ctx context.Context) error {
	for _, e := range DefaultCatalog {
		if err := s.store.Ensure(ctx, &models.Permission{Key: e.Key, Module: e.Module, Description: e.Description}); err != nil {
			return err
		}
	}
	s.logger.Info("permission catalog seeded", zap.Int("count", len(DefaultCatalog)))
	return nil
}
