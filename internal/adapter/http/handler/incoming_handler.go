package handler

import (
	"io"
	"net/http"

	"helpdesk-webhooks/internal/adapter/http/dto"
	"helpdesk-webhooks/internal/adapter/http/middleware"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
)

const msgDeliveryProcessed = "Webhook processed successfully"

// IncomingHandler receives deliveries from the messaging platform.
type IncomingHandler struct {
	deliverySvc ports.DeliveryService
}

func NewIncomingHandler(deliverySvc ports.DeliveryService) *IncomingHandler {
	return &IncomingHandler{deliverySvc: deliverySvc}
}

// Receive handles POST /api/webhooks/incoming.
func (h *IncomingHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if middleware.IsBodyTooLarge(err) {
			response.Error(c, apperror.ErrBodyTooLarge())
			return
		}
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	out, err := h.deliverySvc.Handle(c.Request.Context(), ports.DeliveryRequest{
		WebhookID: c.GetHeader(middleware.HeaderWebhookID),
		Body:      body,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.IncomingResponse{
		Message: msgDeliveryProcessed,
		Result:  out.Result,
	})
}

// MethodNotAllowed answers any other method on the incoming endpoint.
func (h *IncomingHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	response.Error(c, apperror.ErrMethodNotAllowed())
}
