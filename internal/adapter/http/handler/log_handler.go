package handler

import (
	"helpdesk-webhooks/internal/adapter/http/dto"
	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
)

// LogHandler exposes the delivery log.
type LogHandler struct {
	logSvc ports.LogService
}

func NewLogHandler(logSvc ports.LogService) *LogHandler {
	return &LogHandler{logSvc: logSvc}
}

// List handles GET /api/logs.
func (h *LogHandler) List(c *gin.Context) {
	var q dto.LogListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	if q.Limit > dto.MaxLogLimit {
		q.Limit = dto.MaxLogLimit
	}

	from, err := dto.ParseDateBound(q.DateFrom, false)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	to, err := dto.ParseDateBound(q.DateTo, true)
	if err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.DeliveryLogListParams{
		Search:    q.Search,
		From:      from,
		To:        to,
		SortField: q.SortField,
		SortOrder: q.SortOrder,
		Page:      q.Page,
		Limit:     q.Limit,
	}
	if q.Status != "" {
		status := domain.DeliveryStatus(q.Status)
		params.Status = &status
	}

	logs, total, err := h.logSvc.List(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}
	if logs == nil {
		logs = []domain.WebhookDeliveryLog{}
	}

	response.Page(c, logs, total, params.Page, params.Limit)
}

// Get handles GET /api/logs/:id.
func (h *LogHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entry, err := h.logSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, entry)
}
