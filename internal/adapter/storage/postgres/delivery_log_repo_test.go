package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func logCols() []string {
	return []string{"id", "webhook_id", "payload", "status", "created_at", "updated_at"}
}

func newTestLog() *domain.WebhookDeliveryLog {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.WebhookDeliveryLog{
		ID:        uuid.New(),
		WebhookID: "wh-1",
		Payload:   json.RawMessage(`{"id":"1","resource":"rooms","event":"created","data":{"id":"R1"}}`),
		Status:    domain.DeliveryStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestDeliveryLogRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)
	l := newTestLog()

	mock.ExpectExec("INSERT INTO webhook_logs").
		WithArgs(l.ID, l.WebhookID, []byte(l.Payload), l.Status, l.CreatedAt, l.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	assert.NoError(t, repo.Create(context.Background(), l))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepo_Finalize(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)
	id := uuid.New()
	payload := json.RawMessage(`{"processingResult":{"action":"room_created","roomId":"R1"}}`)

	mock.ExpectExec("UPDATE webhook_logs SET status").
		WithArgs(domain.DeliveryStatusProcessed, []byte(payload), pgxmock.AnyArg(), id, domain.DeliveryStatusReceived).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.Finalize(context.Background(), id, domain.DeliveryStatusProcessed, payload))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepo_Finalize_AlreadyFinal(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)

	mock.ExpectExec("UPDATE webhook_logs SET status").
		WithArgs(domain.DeliveryStatusFailed, pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), domain.DeliveryStatusReceived).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.Finalize(context.Background(), uuid.New(), domain.DeliveryStatusFailed, json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ports.ErrLogAlreadyFinal)
}

func TestDeliveryLogRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)
	l := newTestLog()

	mock.ExpectQuery("SELECT .+ FROM webhook_logs WHERE id").
		WithArgs(l.ID).
		WillReturnRows(pgxmock.NewRows(logCols()).
			AddRow(l.ID, l.WebhookID, []byte(l.Payload), l.Status, l.CreatedAt, l.UpdatedAt))

	got, err := repo.GetByID(context.Background(), l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.JSONEq(t, string(l.Payload), string(got.Payload))
	assert.Equal(t, domain.DeliveryStatusReceived, got.Status)

	mock.ExpectQuery("SELECT .+ FROM webhook_logs WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(logCols()))

	missing, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepo_List_AllFilters(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)
	status := domain.DeliveryStatusFailed
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	l := newTestLog()
	l.Status = status

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM webhook_logs WHERE status = \$1 AND \(webhook_id ILIKE \$2 OR payload::text ILIKE \$2\) AND created_at >= \$3 AND created_at <= \$4`).
		WithArgs(status, "%R1%", from, to).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(21)))

	mock.ExpectQuery(`SELECT .+ FROM webhook_logs WHERE .+ ORDER BY status ASC, id ASC LIMIT \$5 OFFSET \$6`).
		WithArgs(status, "%R1%", from, to, 10, 20).
		WillReturnRows(pgxmock.NewRows(logCols()).
			AddRow(l.ID, l.WebhookID, []byte(l.Payload), l.Status, l.CreatedAt, l.UpdatedAt))

	logs, total, err := repo.List(context.Background(), ports.DeliveryLogListParams{
		Status:    &status,
		Search:    "R1",
		From:      &from,
		To:        &to,
		SortField: "status",
		SortOrder: "asc",
		Page:      3,
		Limit:     10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
	require.Len(t, logs, 1)
	assert.Equal(t, l.ID, logs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryLogRepo_List_DefaultsAndUnknownSort(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewDeliveryLogRepo(mock)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM webhook_logs`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`ORDER BY created_at DESC, id DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(20, 0).
		WillReturnRows(pgxmock.NewRows(logCols()))

	logs, total, err := repo.List(context.Background(), ports.DeliveryLogListParams{
		SortField: "payload; DROP TABLE users",
		Page:      1,
		Limit:     20,
	})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, logs)
	assert.Empty(t, logs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("abc"))
	assert.Equal(t, `%50\%\_off%`, containsPattern("50%_off"))
	assert.Equal(t, `%a\\b%`, containsPattern(`a\b`))
}
