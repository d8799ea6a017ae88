package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"

	"github.com/google/uuid"
)

// UserService implements ports.UserService.
type UserService struct {
	repo    ports.UserRepository
	hashSvc ports.HashService
}

func NewUserService(repo ports.UserRepository, hashSvc ports.HashService) *UserService {
	return &UserService{repo: repo, hashSvc: hashSvc}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list users: %w", err))
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get user: %w", err))
	}
	if user == nil {
		return nil, apperror.ErrUserNotFound()
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, req ports.CreateUserRequest) (*domain.User, error) {
	if !req.Role.IsValid() {
		return nil, apperror.Validation(fmt.Sprintf("unsupported role: %s", req.Role))
	}
	email := normalizeEmail(req.Email)

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("check email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	hash, err := s.hashSvc.Hash(req.Password)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create user: %w", err))
	}
	return user, nil
}

// Update applies only the supplied fields. The password is re-hashed only
// when a new one is given.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req ports.UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, apperror.Validation(fmt.Sprintf("unsupported role: %s", *req.Role))
		}
		user.Role = *req.Role
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := s.hashSvc.Hash(*req.Password)
		if err != nil {
			return nil, apperror.InternalError(fmt.Errorf("hash password: %w", err))
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, ports.ErrNotFound):
			return nil, apperror.ErrUserNotFound()
		case errors.Is(err, ports.ErrDuplicate):
			return nil, apperror.ErrEmailExists()
		}
		return nil, apperror.ErrUpdateUser(err)
	}
	return user, nil
}

// Delete removes the user. A store failure is reported as a bad request.
func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperror.ErrUserNotFound()
		}
		return apperror.ErrDeleteUser(err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
