package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// CardAction is a submitted adaptive card.
type CardAction struct {
	ID        uuid.UUID       `json:"id"`
	ActionID  string          `json:"actionId"`
	Type      string          `json:"type"`
	MessageID string          `json:"messageId"`
	Inputs    json.RawMessage `json:"inputs"`
	PersonID  string          `json:"personId"`
	RoomID    string          `json:"roomId"`
	CreatedAt time.Time       `json:"createdAt"`
}
