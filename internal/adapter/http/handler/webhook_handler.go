package handler

import (
	"helpdesk-webhooks/internal/adapter/http/dto"
	"helpdesk-webhooks/internal/adapter/http/middleware"
	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
)

// WebhookHandler manages webhook subscriptions.
type WebhookHandler struct {
	registry ports.WebhookRegistryService
}

func NewWebhookHandler(registry ports.WebhookRegistryService) *WebhookHandler {
	return &WebhookHandler{registry: registry}
}

// List handles GET /api/webhooks.
func (h *WebhookHandler) List(c *gin.Context) {
	subs, err := h.registry.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.WebhookResponse, 0, len(subs))
	for i := range subs {
		out = append(out, dto.NewWebhookResponse(&subs[i]))
	}
	response.OK(c, out)
}

// Create handles POST /api/webhooks.
func (h *WebhookHandler) Create(c *gin.Context) {
	var req dto.CreateWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	sub, err := h.registry.Create(c.Request.Context(), ports.CreateWebhookRequest{
		Name:        req.Name,
		AccessToken: req.AccessToken,
		Resource:    domain.Resource(req.Resource),
		Event:       domain.Event(req.Event),
		Filter:      req.Filter,
		Secret:      req.Secret,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, sub.ID.String())
	response.Created(c, dto.NewWebhookResponse(sub))
}

// Get handles GET /api/webhooks/:id.
func (h *WebhookHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	sub, err := h.registry.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewWebhookResponse(sub))
}

// Delete handles DELETE /api/webhooks/:id.
func (h *WebhookHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.registry.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
