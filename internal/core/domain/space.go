package domain

import (
	"time"

	"github.com/google/uuid"
)

// Space is a room on the messaging platform.
type Space struct {
	ID           uuid.UUID `json:"id"`
	RoomID       string    `json:"roomId"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	Created      time.Time `json:"created"`
	LastActivity time.Time `json:"lastActivity"`
}

// SpaceMembership records a person joining a space.
type SpaceMembership struct {
	ID           uuid.UUID `json:"id"`
	MembershipID string    `json:"membershipId"`
	PersonID     string    `json:"personId"`
	PersonEmail  string    `json:"personEmail"`
	RoomID       string    `json:"roomId"`
	IsModerator  bool      `json:"isModerator"`
	Created      time.Time `json:"created"`
}
