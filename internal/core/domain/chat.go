package domain

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one message posted in a room. Append-only.
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	MessageID string    `json:"messageId"`
	RoomID    string    `json:"roomId"`
	PersonID  string    `json:"personId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatRequestStatus is the triage state of a room's help request.
type ChatRequestStatus string

const (
	ChatRequestUnassigned ChatRequestStatus = "unassigned"
	ChatRequestAssigned   ChatRequestStatus = "assigned"
	ChatRequestResolved   ChatRequestStatus = "resolved"
)

// ChatRequest is the open help request for a room, created on the first
// message seen in that room.
type ChatRequest struct {
	ID            uuid.UUID         `json:"id"`
	RoomID        string            `json:"roomId"`
	PersonEmail   string            `json:"personEmail"`
	Status        ChatRequestStatus `json:"status"`
	LatestMessage string            `json:"latestMessage"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}
