package service

import (
	"context"
	"fmt"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AuthServiceImpl implements ports.AuthService.
type AuthServiceImpl struct {
	userRepo ports.UserRepository
	hashSvc  ports.HashService
	tokenSvc ports.TokenService
	denylist ports.TokenDenylist
	log      zerolog.Logger
}

// NewAuthService creates a new AuthServiceImpl.
func NewAuthService(
	userRepo ports.UserRepository,
	hashSvc ports.HashService,
	tokenSvc ports.TokenService,
	denylist ports.TokenDenylist,
	log zerolog.Logger,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		userRepo: userRepo,
		hashSvc:  hashSvc,
		tokenSvc: tokenSvc,
		denylist: denylist,
		log:      logger.Component(log, "auth"),
	}
}

// Login validates credentials and returns a session token.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidCredentials()
	}

	valid, err := s.hashSvc.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("verify password: %w", err))
	}
	if !valid {
		return nil, apperror.ErrInvalidCredentials()
	}

	token, claims, err := s.tokenSvc.Generate(user.ID, user.Role)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("generate token: %w", err))
	}

	return &ports.LoginResult{Token: token, ExpiresAt: claims.ExpiresAt, User: user}, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthServiceImpl) Logout(ctx context.Context, claims *ports.TokenClaims) error {
	ttl := time.Until(claims.ExpiresAt)
	if err := s.denylist.Revoke(ctx, claims.TokenID, ttl); err != nil {
		return apperror.InternalError(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}

// Authenticate validates the token and reloads the user, so deleted users
// lose access and role changes apply immediately. A denylist outage is
// logged and the token accepted.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, token string) (*ports.TokenClaims, error) {
	claims, err := s.tokenSvc.Validate(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken()
	}

	revoked, err := s.denylist.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		s.log.Warn().Err(err).Msg("token denylist unavailable, accepting token")
	} else if revoked {
		return nil, apperror.ErrInvalidToken()
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrInvalidToken()
	}
	claims.Role = user.Role
	return claims, nil
}

// Me returns the user's profile and the navigation their role can see.
func (s *AuthServiceImpl) Me(ctx context.Context, userID uuid.UUID) (*ports.Profile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("find user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}
	return &ports.Profile{User: user, Navigation: domain.Navigation(user.Role)}, nil
}
