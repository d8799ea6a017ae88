package service

import (
	"context"
	"fmt"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"

	"github.com/google/uuid"
)

// Paging defaults for the delivery log listing.
const (
	DefaultLogPage  = 1
	DefaultLogLimit = 20
	MaxLogLimit     = 100
)

var logSortFields = map[string]bool{"createdAt": true, "status": true, "webhookId": true}

// LogService implements ports.LogService.
type LogService struct {
	repo ports.DeliveryLogRepository
}

func NewLogService(repo ports.DeliveryLogRepository) *LogService {
	return &LogService{repo: repo}
}

// List returns one page of delivery logs and the total matching count.
func (s *LogService) List(ctx context.Context, params ports.DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error) {
	params, err := normalizeLogParams(params)
	if err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(fmt.Errorf("list webhook logs: %w", err))
	}
	return logs, total, nil
}

func (s *LogService) Get(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get webhook log: %w", err))
	}
	if l == nil {
		return nil, apperror.ErrLogNotFound()
	}
	return l, nil
}

// normalizeLogParams fills defaults and rejects values the store cannot honor.
func normalizeLogParams(p ports.DeliveryLogListParams) (ports.DeliveryLogListParams, error) {
	if p.Page < 1 {
		p.Page = DefaultLogPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLogLimit
	}
	if p.Limit > MaxLogLimit {
		p.Limit = MaxLogLimit
	}

	if p.SortField == "" {
		p.SortField = "createdAt"
	}
	if !logSortFields[p.SortField] {
		return p, apperror.Validation(fmt.Sprintf("unsupported sortField: %s", p.SortField))
	}
	switch p.SortOrder {
	case "":
		p.SortOrder = "desc"
	case "asc", "desc":
	default:
		return p, apperror.Validation(fmt.Sprintf("unsupported sortOrder: %s", p.SortOrder))
	}

	if p.Status != nil && !p.Status.IsValid() {
		return p, apperror.Validation(fmt.Sprintf("unsupported status: %s", *p.Status))
	}
	if p.From != nil && p.To != nil && p.To.Before(*p.From) {
		return p, apperror.Validation("dateTo is before dateFrom")
	}
	return p, nil
}
