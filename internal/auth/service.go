package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dangerousyusuf/gymclub-backend/internal/apperr"
	"github.com/Dangerousyusuf/gymclub-backend/internal/models"
	"github.com/Dangerousyusuf/gymclub-backend/pkg/utils"
)

// UserStore is the user persistence auth needs.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PermissionSource resolves a user's effective permission keys.
type PermissionSource interface {
	EffectiveKeys(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// RegisterInput is a new account.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// Session is the result of a successful register or login.
type Session struct {
	Token       string            `json:"token"`
	User        models.UserPublic `json:"user"`
	Permissions []string          `json:"permissions"`
}

// Profile is the authenticated user with live permissions.
type Profile struct {
	User        models.UserPublic `json:"user"`
	Permissions []string          `json:"permissions"`
}

var errBadCredentials = apperr.New(apperr.KindUnauthorized, "invalid email or password")

// Service implements registration and login.
type Service struct {
	users  UserStore
	perms  PermissionSource
	jwt    *JWTService
	hasher utils.PasswordHasher
	logger *zap.Logger
}

// NewService creates an auth service.
func NewService(users UserStore, perms PermissionSource, jwt *JWTService, hasher utils.PasswordHasher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, perms: perms, jwt: jwt, hasher: hasher, logger: logger}
}

// Register creates an active account with no roles and signs the user in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return nil, apperr.Validation("full name must not be empty", "full_name")
	}
	if len(in.Password) < 6 {
		return nil, apperr.Validation("password must be at least 6 characters", "password")
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperr.New(apperr.KindDuplicateKey, "email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	u := &models.User{
		Email:    email,
		Password: hash,
		FullName: name,
		Phone:    strings.TrimSpace(in.Phone),
		Status:   models.UserActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.logger.Info("user registered", zap.String("user_id", u.ID.String()))
	return s.issue(ctx, u)
}

// Login checks credentials and issues a token. Inactive accounts are refused.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Check(password, u.Password) {
		return nil, errBadCredentials
	}
	if u.Status != models.UserActive {
		return nil, apperr.New(apperr.KindForbidden, "account is inactive")
	}
	return s.issue(ctx, u)
}

// Me returns the user and their current effective permissions.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	keys, err := s.perms.EffectiveKeys(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u.ToPublic(), Permissions: keys}, nil
}

func (s *Service) issue(ctx context.Context, u *models.User) (*Session, error) {
	keys, err := s.perms.EffectiveKeys(ctx, u.ID)
	if err != nil {
		s.logger.Warn("permission snapshot failed", zap.String("user_id", u.ID.String()), zap.Error(err))
		keys = []string{}
	}
	token, err := s.jwt.Generate(u.ID, u.Email, keys)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &Session{Token: token, User: u.ToPublic(), Permissions: keys}, nil
}
