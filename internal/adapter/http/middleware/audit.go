package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditLog records successful write operations on the admin API. Handlers
// that create a resource publish its id under CtxResourceID; otherwise the
// :id path parameter is used.
func AuditLog(auditSvc ports.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Status() < 200 || c.Writer.Status() >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action, resourceType := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		var userID *uuid.UUID
		if uid, exists := c.Get(CtxUserID); exists {
			if id, ok := uid.(uuid.UUID); ok {
				userID = &id
			}
		}

		resourceID := c.GetString(CtxResourceID)
		if resourceID == "" {
			resourceID = c.Param("id")
		}

		details, _ := json.Marshal(map[string]interface{}{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		})

		auditSvc.Log(c.Request.Context(), &domain.AuditLog{
			ID:           uuid.New(),
			UserID:       userID,
			Action:       action,
			ResourceType: resourceType,
			ResourceID:   resourceID,
			IPAddress:    c.ClientIP(),
			Details:      string(details),
			CreatedAt:    time.Now().UTC(),
		})
	}
}

func mapRouteToAction(route, method string) (domain.AuditAction, string) {
	switch {
	case route == "/api/auth/login" && method == http.MethodPost:
		return domain.AuditActionLogin, "session"
	case route == "/api/auth/logout" && method == http.MethodPost:
		return domain.AuditActionLogout, "session"
	case route == "/api/webhooks" && method == http.MethodPost:
		return domain.AuditActionCreateWebhook, "webhook"
	case route == "/api/webhooks/:id" && method == http.MethodDelete:
		return domain.AuditActionDeleteWebhook, "webhook"
	case route == "/api/users" && method == http.MethodPost:
		return domain.AuditActionCreateUser, "user"
	case route == "/api/users/:id" && method == http.MethodPut:
		return domain.AuditActionUpdateUser, "user"
	case route == "/api/users/:id" && method == http.MethodDelete:
		return domain.AuditActionDeleteUser, "user"
	}
	return "", ""
}
