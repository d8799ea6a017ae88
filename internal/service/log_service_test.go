package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestLogService_List_AppliesDefaults(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryLogRepository(ctrl)
	svc := NewLogService(repo)

	repo.EXPECT().List(gomock.Any(), ports.DeliveryLogListParams{
		SortField: "createdAt",
		SortOrder: "desc",
		Page:      1,
		Limit:     20,
	}).Return([]domain.WebhookDeliveryLog{{WebhookID: "WH-1"}}, int64(1), nil)

	logs, total, err := svc.List(context.Background(), ports.DeliveryLogListParams{})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
	assert.Equal(t, int64(1), total)
}

func TestLogService_List_CapsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryLogRepository(ctrl)
	svc := NewLogService(repo)

	repo.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p ports.DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error) {
			assert.Equal(t, MaxLogLimit, p.Limit)
			assert.Equal(t, 3, p.Page)
			assert.Equal(t, "asc", p.SortOrder)
			return nil, 0, nil
		})

	_, _, err := svc.List(context.Background(), ports.DeliveryLogListParams{Page: 3, Limit: 500, SortOrder: "asc"})
	require.NoError(t, err)
}

func TestLogService_List_RejectsBadParams(t *testing.T) {
	bad := domain.DeliveryStatus("skipped")
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(-time.Hour)

	tests := map[string]ports.DeliveryLogListParams{
		"sort field": {SortField: "payload"},
		"sort order": {SortOrder: "sideways"},
		"status":     {Status: &bad},
		"date range": {From: &from, To: &to},
	}

	for name, params := range tests {
		t.Run(name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			svc := NewLogService(mocks.NewMockDeliveryLogRepository(ctrl))

			_, _, err := svc.List(context.Background(), params)
			assertAppStatus(t, err, http.StatusBadRequest)
		})
	}
}

func TestLogService_List_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryLogRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, int64(0), errors.New("db down"))

	_, _, err := NewLogService(repo).List(context.Background(), ports.DeliveryLogListParams{})
	assertAppStatus(t, err, http.StatusInternalServerError)
}

func TestLogService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockDeliveryLogRepository(ctrl)
	svc := NewLogService(repo)

	found := uuid.New()
	missing := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), found).Return(&domain.WebhookDeliveryLog{ID: found}, nil)
	repo.EXPECT().GetByID(gomock.Any(), missing).Return(nil, nil)

	l, err := svc.Get(context.Background(), found)
	require.NoError(t, err)
	assert.Equal(t, found, l.ID)

	_, err = svc.Get(context.Background(), missing)
	assertAppStatus(t, err, http.StatusNotFound)
}
