package ports

import (
	"context"
	"encoding/json"
	"time"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/google/uuid"
)

// WebhookRepository defines persistence operations for webhook subscriptions.
type WebhookRepository interface {
	Create(ctx context.Context, webhook *domain.WebhookSubscription) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookSubscription, error)
	List(ctx context.Context) ([]domain.WebhookSubscription, error)
	// Delete returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeliveryLogRepository defines persistence for inbound delivery logs.
type DeliveryLogRepository interface {
	Create(ctx context.Context, log *domain.WebhookDeliveryLog) error
	// Finalize moves a received log to a final status. It only touches rows
	// still in the received state and returns ErrLogAlreadyFinal otherwise.
	Finalize(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, payload json.RawMessage) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error)
	List(ctx context.Context, params DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error)
}

// DeliveryLogListParams holds filter, sort and pagination for listing logs.
type DeliveryLogListParams struct {
	Status    *domain.DeliveryStatus
	Search    string
	From      *time.Time
	To        *time.Time
	SortField string // createdAt, status, webhookId
	SortOrder string // asc, desc
	Page      int
	Limit     int
}

// ChatMessageRepository stores messages seen in rooms.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
}

// ChatRequestRepository stores per-room help requests.
type ChatRequestRepository interface {
	// FindByRoomID returns any request for the room, or nil.
	FindByRoomID(ctx context.Context, roomID string) (*domain.ChatRequest, error)
	Create(ctx context.Context, req *domain.ChatRequest) error
}

type SpaceRepository interface {
	Create(ctx context.Context, space *domain.Space) error
}

type MembershipRepository interface {
	Create(ctx context.Context, membership *domain.SpaceMembership) error
}

type CardActionRepository interface {
	Create(ctx context.Context, action *domain.CardAction) error
}

// UserRepository defines persistence operations for dashboard users.
type UserRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	// Delete returns ErrNotFound when nothing was deleted.
	Delete(ctx context.Context, id uuid.UUID) error
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}
