package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditActionLogin         AuditAction = "LOGIN"
	AuditActionLogout        AuditAction = "LOGOUT"
	AuditActionCreateWebhook AuditAction = "CREATE_WEBHOOK"
	AuditActionDeleteWebhook AuditAction = "DELETE_WEBHOOK"
	AuditActionCreateUser    AuditAction = "CREATE_USER"
	AuditActionUpdateUser    AuditAction = "UPDATE_USER"
	AuditActionDeleteUser    AuditAction = "DELETE_USER"
)

// AuditLog records a single administrative action.
type AuditLog struct {
	ID           uuid.UUID   `json:"id"`
	UserID       *uuid.UUID  `json:"userId,omitempty"`
	Action       AuditAction `json:"action"`
	ResourceType string      `json:"resourceType"`
	ResourceID   string      `json:"resourceId,omitempty"`
	Details      string      `json:"details,omitempty"` // JSON string
	IPAddress    string      `json:"ipAddress"`
	CreatedAt    time.Time   `json:"createdAt"`
}
