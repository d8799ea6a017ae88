package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Resource is the messaging platform's classification of what changed.
type Resource string

const (
	ResourceMessages          Resource = "messages"
	ResourceMemberships       Resource = "memberships"
	ResourceRooms             Resource = "rooms"
	ResourceAttachmentActions Resource = "attachmentActions"
	ResourceMeetings          Resource = "meetings"
	ResourceRecordings        Resource = "recordings"
)

// Resources lists every resource a subscription may be registered for.
var Resources = []Resource{
	ResourceMessages,
	ResourceMemberships,
	ResourceRooms,
	ResourceAttachmentActions,
	ResourceMeetings,
	ResourceRecordings,
}

func (r Resource) IsValid() bool {
	for _, v := range Resources {
		if r == v {
			return true
		}
	}
	return false
}

// Event is what happened to the resource.
type Event string

const (
	EventCreated Event = "created"
	EventUpdated Event = "updated"
	EventDeleted Event = "deleted"
)

var Events = []Event{EventCreated, EventUpdated, EventDeleted}

func (e Event) IsValid() bool {
	switch e {
	case EventCreated, EventUpdated, EventDeleted:
		return true
	}
	return false
}

// WebhookSubscription is a registered interest, mirrored at the messaging platform.
type WebhookSubscription struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	TargetURL      string    `json:"targetUrl"`
	Resource       Resource  `json:"resource"`
	Event          Event     `json:"event"`
	WebhookID      *string   `json:"webhookId,omitempty"` // Id assigned by the platform
	AccessTokenEnc string    `json:"-"`                   // Encrypted, never expose
	Filter         *string   `json:"filter,omitempty"`
	Secret         *string   `json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
}

// IsRegisteredRemotely reports whether the platform holds a mirror of this subscription.
func (w *WebhookSubscription) IsRegisteredRemotely() bool {
	return w.WebhookID != nil && *w.WebhookID != ""
}

// DeliveryStatus is the state of an inbound delivery log entry.
type DeliveryStatus string

const (
	DeliveryStatusReceived  DeliveryStatus = "received"
	DeliveryStatusProcessed DeliveryStatus = "processed"
	DeliveryStatusFailed    DeliveryStatus = "failed"
)

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryStatusReceived, DeliveryStatusProcessed, DeliveryStatusFailed:
		return true
	}
	return false
}

// IsFinal reports whether no further transition is allowed.
func (s DeliveryStatus) IsFinal() bool {
	return s == DeliveryStatusProcessed || s == DeliveryStatusFailed
}

// UnknownWebhookID is recorded when a delivery carries no x-spark-webhook-id header.
const UnknownWebhookID = "unknown"

// WebhookDeliveryLog records one inbound delivery and its outcome.
// Status moves from received to processed or failed exactly once.
type WebhookDeliveryLog struct {
	ID        uuid.UUID       `json:"id"`
	WebhookID string          `json:"webhookId"`
	Payload   json.RawMessage `json:"payload"`
	Status    DeliveryStatus  `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
