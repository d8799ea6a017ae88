package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessageRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := &domain.ChatMessage{
		ID:        uuid.New(),
		MessageID: "M1",
		RoomID:    "R1",
		PersonID:  "P1",
		Content:   "my printer is on fire",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO chat_messages").
		WithArgs(m.ID, m.MessageID, m.RoomID, m.PersonID, m.Content, m.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewChatMessageRepo(mock).Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRequestRepo_FindByRoomID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewChatRequestRepo(mock)
	now := time.Now().UTC().Truncate(time.Microsecond)
	cols := []string{"id", "room_id", "person_email", "status", "latest_message", "created_at", "updated_at"}
	id := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM chat_requests WHERE room_id").
		WithArgs("R1").
		WillReturnRows(pgxmock.NewRows(cols).
			AddRow(id, "R1", "user@example.com", domain.ChatRequestUnassigned, "hi", now, now))

	got, err := repo.FindByRoomID(context.Background(), "R1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.ChatRequestUnassigned, got.Status)

	mock.ExpectQuery("SELECT .+ FROM chat_requests WHERE room_id").
		WithArgs("R2").
		WillReturnRows(pgxmock.NewRows(cols))

	missing, err := repo.FindByRoomID(context.Background(), "R2")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatRequestRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC().Truncate(time.Microsecond)
	req := &domain.ChatRequest{
		ID: uuid.New(), RoomID: "R1", PersonEmail: "user@example.com",
		Status: domain.ChatRequestUnassigned, LatestMessage: "hi", CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO chat_requests").
		WithArgs(req.ID, req.RoomID, req.PersonEmail, req.Status, req.LatestMessage, req.CreatedAt, req.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewChatRequestRepo(mock).Create(context.Background(), req))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpaceRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &domain.Space{ID: uuid.New(), RoomID: "R1", Title: "Support", Type: "group", Created: created, LastActivity: created}

	mock.ExpectExec("INSERT INTO spaces").
		WithArgs(s.ID, s.RoomID, s.Title, s.Type, s.Created, s.LastActivity).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewSpaceRepo(mock).Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := &domain.SpaceMembership{
		ID: uuid.New(), MembershipID: "MB1", PersonID: "P1", PersonEmail: "p@example.com",
		RoomID: "R1", IsModerator: false, Created: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO space_members").
		WithArgs(m.ID, m.MembershipID, m.PersonID, m.PersonEmail, m.RoomID, false, m.Created).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewMembershipRepo(mock).Create(context.Background(), m))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardActionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := &domain.CardAction{
		ID: uuid.New(), ActionID: "A1", Type: "submit", MessageID: "M1",
		Inputs: json.RawMessage(`{"rating":"5"}`), PersonID: "P1", RoomID: "R1",
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	mock.ExpectExec("INSERT INTO card_actions").
		WithArgs(a.ID, a.ActionID, a.Type, a.MessageID, []byte(`{"rating":"5"}`), a.PersonID, a.RoomID, a.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewCardActionRepo(mock).Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardActionRepo_Create_WithoutInputs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	a := &domain.CardAction{ID: uuid.New(), ActionID: "A1", Type: "submit", MessageID: "M1", PersonID: "P1", RoomID: "R1"}

	mock.ExpectExec("INSERT INTO card_actions").
		WithArgs(a.ID, a.ActionID, a.Type, a.MessageID, []byte("{}"), a.PersonID, a.RoomID, a.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewCardActionRepo(mock).Create(context.Background(), a))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCardActionRepo_Create_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("INSERT INTO card_actions").WillReturnError(errors.New("disk full"))

	err = NewCardActionRepo(mock).Create(context.Background(), &domain.CardAction{ID: uuid.New()})
	assert.ErrorContains(t, err, "insert card action")
}

func TestAuditRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	userID := uuid.New()
	l := &domain.AuditLog{
		ID: uuid.New(), UserID: &userID, Action: domain.AuditActionDeleteWebhook,
		ResourceType: "webhook", ResourceID: uuid.NewString(), IPAddress: "10.0.0.1",
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(l.ID, l.UserID, l.Action, l.ResourceType, l.ResourceID, l.Details, l.IPAddress, l.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, NewAuditRepo(mock).Create(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}
