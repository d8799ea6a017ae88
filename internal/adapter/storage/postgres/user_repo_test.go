package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userCols() []string {
	return []string{"id", "name", "email", "password_hash", "role", "created_at", "updated_at"}
}

func newTestUser() *domain.User {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z4bdZ5jZ3.9z9Yq5nQ4oQ5fK",
		Role:         domain.RoleAgent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func userRow(u *domain.User) *pgxmock.Rows {
	return pgxmock.NewRows(userCols()).
		AddRow(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt)
}

func TestUserRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Name, u.Email, u.PasswordHash, u.Role, u.CreatedAt, u.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), u))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err = NewUserRepo(mock).Create(context.Background(), newTestUser())
	assert.ErrorIs(t, err, ports.ErrDuplicate)
}

func TestUserRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WithArgs(u.ID).
		WillReturnRows(userRow(u))

	got, err := repo.GetByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.PasswordHash, got.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByEmail_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT .+ FROM users WHERE lower\(email\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(pgxmock.NewRows(userCols()))

	got, err := NewUserRepo(mock).GetByEmail(context.Background(), "nobody@example.com")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_GetByID_DBError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT .+ FROM users WHERE id").
		WillReturnError(errors.New("timeout"))

	got, err := NewUserRepo(mock).GetByID(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestUserRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a, b := newTestUser(), newTestUser()
	rows := pgxmock.NewRows(userCols()).
		AddRow(a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CreatedAt, a.UpdatedAt).
		AddRow(b.ID, b.Name, b.Email, b.PasswordHash, b.Role, b.CreatedAt, b.UpdatedAt)
	mock.ExpectQuery("SELECT .+ FROM users ORDER BY name").WillReturnRows(rows)

	got, err := NewUserRepo(mock).List(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestUserRepo_Update(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	u := newTestUser()

	mock.ExpectExec("UPDATE users SET").
		WithArgs(u.Name, u.Email, u.PasswordHash, u.Role, u.UpdatedAt, u.ID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	assert.NoError(t, repo.Update(context.Background(), u))

	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	assert.ErrorIs(t, repo.Update(context.Background(), u), ports.ErrNotFound)

	mock.ExpectExec("UPDATE users SET").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	assert.ErrorIs(t, repo.Update(context.Background(), u), ports.ErrDuplicate)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	assert.NoError(t, repo.Delete(context.Background(), id))

	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ports.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
