package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	accounts   repository.AccountRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, accounts repository.AccountRepository) *AuthService {
	return &AuthService{
		accounts:   accounts,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Register creates a new account. The role is fixed at this point and
// cannot be changed later.
func (s *AuthService) Register(ctx context.Context, handle, email, password string, role domain.AccountRole) (*domain.Account, string, time.Time, error) {
	handle = strings.TrimSpace(handle)
	email = strings.TrimSpace(strings.ToLower(email))
	if handle == "" || email == "" || password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("handle, email, password required", nil)
	}
	if !domain.ValidRole(role) {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown role", map[string]any{"role": role})
	}

	if _, err := s.accounts.GetByHandle(ctx, handle); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("handle already taken", map[string]any{"handle": handle})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if _, err := s.accounts.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	account := &domain.Account{
		Handle:       handle,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}

	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}

// Login authenticates an account by handle or email.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.Account, string, time.Time, error) {
	identifier = strings.TrimSpace(identifier)
	account, err := s.accounts.GetByHandle(ctx, identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		account, err = s.accounts.GetByEmail(ctx, strings.ToLower(identifier))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(account.ID, account.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return account, token, exp, nil
}
