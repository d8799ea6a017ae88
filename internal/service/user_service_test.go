package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/core/ports/mocks"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setupUserService(t *testing.T) (*UserService, *mocks.MockUserRepository, *mocks.MockHashService) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockUserRepository(ctrl)
	hash := mocks.NewMockHashService(ctrl)
	return NewUserService(repo, hash), repo, hash
}

func fakeUser() *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: "$2a$10$existing",
		Role:         domain.RoleAgent,
	}
}

func strPtr(s string) *string { return &s }

func TestUserService_Create_Success(t *testing.T) {
	svc, repo, hash := setupUserService(t)
	ctx := context.Background()

	repo.EXPECT().GetByEmail(ctx, "ana@example.com").Return(nil, nil)
	hash.EXPECT().Hash("Secret123!").Return("$2a$10$hashed", nil)
	repo.EXPECT().Create(ctx, gomock.Any()).Return(nil)

	user, err := svc.Create(ctx, ports.CreateUserRequest{
		Name:     " Ana ",
		Email:    "Ana@Example.com",
		Password: "Secret123!",
		Role:     domain.RoleSupervisor,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, "$2a$10$hashed", user.PasswordHash)
	assert.Equal(t, domain.RoleSupervisor, user.Role)
}

func TestUserService_Create_DuplicateEmail(t *testing.T) {
	t.Run("found by lookup", func(t *testing.T) {
		svc, repo, _ := setupUserService(t)
		repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(fakeUser(), nil)

		_, err := svc.Create(context.Background(), ports.CreateUserRequest{Email: "x@example.com", Password: "p", Role: domain.RoleAgent})
		assertAppStatus(t, err, http.StatusConflict)
	})

	t.Run("lost race on insert", func(t *testing.T) {
		svc, repo, hash := setupUserService(t)
		repo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
		hash.EXPECT().Hash(gomock.Any()).Return("h", nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(ports.ErrDuplicate)

		_, err := svc.Create(context.Background(), ports.CreateUserRequest{Email: "x@example.com", Password: "p", Role: domain.RoleAgent})
		assertAppStatus(t, err, http.StatusConflict)
	})
}

func TestUserService_Create_InvalidRole(t *testing.T) {
	svc, _, _ := setupUserService(t)

	_, err := svc.Create(context.Background(), ports.CreateUserRequest{Email: "x@example.com", Role: "root"})
	assertAppStatus(t, err, http.StatusBadRequest)
}

func TestUserService_Get(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	u := fakeUser()
	missing := uuid.New()

	repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
	repo.EXPECT().GetByID(gomock.Any(), missing).Return(nil, nil)

	got, err := svc.Get(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)

	_, err = svc.Get(context.Background(), missing)
	assertAppStatus(t, err, http.StatusNotFound)
}

func TestUserService_Update_PreservesOmittedFields(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	u := fakeUser()
	origName, origEmail := u.Name, u.Email

	repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, updated *domain.User) error {
			assert.Equal(t, origName, updated.Name)
			assert.Equal(t, origEmail, updated.Email)
			assert.Equal(t, domain.RoleAdmin, updated.Role)
			assert.Equal(t, "$2a$10$existing", updated.PasswordHash)
			return nil
		})

	role := domain.RoleAdmin
	_, err := svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Role: &role})
	require.NoError(t, err)
}

func TestUserService_Update_RehashesOnlyNewPassword(t *testing.T) {
	svc, repo, hash := setupUserService(t)
	u := fakeUser()

	repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil).Times(2)
	hash.EXPECT().Hash("n3w-pass").Return("$2a$10$new", nil).Times(1)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	updated, err := svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Password: strPtr("n3w-pass")})
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$new", updated.PasswordHash)

	// empty password leaves the hash alone
	updated, err = svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Password: strPtr(""), Name: strPtr("Renamed")})
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$new", updated.PasswordHash)
	assert.Equal(t, "Renamed", updated.Name)
}

func TestUserService_Update_Errors(t *testing.T) {
	t.Run("missing user", func(t *testing.T) {
		svc, repo, _ := setupUserService(t)
		id := uuid.New()
		repo.EXPECT().GetByID(gomock.Any(), id).Return(nil, nil)

		_, err := svc.Update(context.Background(), id, ports.UpdateUserRequest{Name: strPtr("x")})
		assertAppStatus(t, err, http.StatusNotFound)
	})

	t.Run("email taken", func(t *testing.T) {
		svc, repo, _ := setupUserService(t)
		u := fakeUser()
		repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(ports.ErrDuplicate)

		_, err := svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Email: strPtr("taken@example.com")})
		assertAppStatus(t, err, http.StatusConflict)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, repo, _ := setupUserService(t)
		u := fakeUser()
		repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)
		repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("db down"))

		_, err := svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Name: strPtr("x")})
		appErr := assertAppStatus(t, err, http.StatusBadRequest)
		assert.Equal(t, "Error updating user", appErr.Message)
	})

	t.Run("bad role", func(t *testing.T) {
		svc, repo, _ := setupUserService(t)
		u := fakeUser()
		repo.EXPECT().GetByID(gomock.Any(), u.ID).Return(u, nil)

		role := domain.Role("root")
		_, err := svc.Update(context.Background(), u.ID, ports.UpdateUserRequest{Role: &role})
		assertAppStatus(t, err, http.StatusBadRequest)
	})
}

func TestUserService_Delete(t *testing.T) {
	svc, repo, _ := setupUserService(t)
	ok, missing, broken := uuid.New(), uuid.New(), uuid.New()

	repo.EXPECT().Delete(gomock.Any(), ok).Return(nil)
	repo.EXPECT().Delete(gomock.Any(), missing).Return(ports.ErrNotFound)
	repo.EXPECT().Delete(gomock.Any(), broken).Return(errors.New("fk violation"))

	require.NoError(t, svc.Delete(context.Background(), ok))
	assertAppStatus(t, svc.Delete(context.Background(), missing), http.StatusNotFound)

	appErr := assertAppStatus(t, svc.Delete(context.Background(), broken), http.StatusBadRequest)
	assert.Equal(t, "Error deleting user", appErr.Message)
}
