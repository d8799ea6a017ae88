package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Delivery is the envelope of one inbound notification from the messaging platform.
type Delivery struct {
	ID        string          `json:"id"`
	Name      string          `json:"name,omitempty"`
	TargetURL string          `json:"targetUrl,omitempty"`
	Resource  Resource        `json:"resource"`
	Event     Event           `json:"event"`
	Filter    string          `json:"filter,omitempty"`
	OrgID     string          `json:"orgId,omitempty"`
	CreatedBy string          `json:"createdBy,omitempty"`
	AppID     string          `json:"appId,omitempty"`
	OwnedBy   string          `json:"ownedBy,omitempty"`
	Status    string          `json:"status,omitempty"`
	ActorID   string          `json:"actorId,omitempty"`
	Created   string          `json:"created,omitempty"`
	Data      json.RawMessage `json:"data"`
}

// ParseDelivery decodes and validates a delivery body. Resource and event are
// only checked for presence; routing decides what an unknown value means.
func ParseDelivery(body []byte) (*Delivery, error) {
	var d Delivery
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, fmt.Errorf("decode delivery: %w", err)
	}
	if d.Resource == "" {
		return nil, errors.New("resource is required")
	}
	if d.Event == "" {
		return nil, errors.New("event is required")
	}
	if len(bytes.TrimSpace(d.Data)) == 0 || bytes.Equal(bytes.TrimSpace(d.Data), []byte("null")) {
		return nil, errors.New("data is required")
	}
	return &d, nil
}

// EventData is the typed form of Delivery.Data. Implemented by MessageData,
// MembershipData, RoomData, AttachmentActionData and UnknownData.
type EventData interface {
	eventData()
}

type MessageData struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	RoomType    string    `json:"roomType,omitempty"`
	PersonID    string    `json:"personId"`
	PersonEmail string    `json:"personEmail,omitempty"`
	Text        string    `json:"text,omitempty"`
	Created     time.Time `json:"created"`
}

type MembershipData struct {
	ID                string    `json:"id"`
	RoomID            string    `json:"roomId"`
	PersonID          string    `json:"personId"`
	PersonEmail       string    `json:"personEmail"`
	PersonDisplayName string    `json:"personDisplayName,omitempty"`
	IsModerator       *bool     `json:"isModerator,omitempty"`
	Created           time.Time `json:"created"`
}

type RoomData struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Type         string    `json:"type"`
	CreatorID    string    `json:"creatorId,omitempty"`
	Created      time.Time `json:"created"`
	LastActivity time.Time `json:"lastActivity"`
}

type AttachmentActionData struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	MessageID string          `json:"messageId"`
	Inputs    json.RawMessage `json:"inputs,omitempty"`
	PersonID  string          `json:"personId"`
	RoomID    string          `json:"roomId"`
	Created   time.Time       `json:"created"`
}

// UnknownData keeps data for resources without a typed shape.
type UnknownData struct {
	Raw json.RawMessage
}

func (MessageData) eventData()          {}
func (MembershipData) eventData()       {}
func (RoomData) eventData()             {}
func (AttachmentActionData) eventData() {}
func (UnknownData) eventData()          {}

// DecodeEventData maps raw data to the variant for the given resource.
// Every typed variant requires an id.
func DecodeEventData(resource Resource, raw json.RawMessage) (EventData, error) {
	switch resource {
	case ResourceMessages:
		var d MessageData
		if err := decodeWithID(raw, &d, func() string { return d.ID }); err != nil {
			return nil, err
		}
		return d, nil
	case ResourceMemberships:
		var d MembershipData
		if err := decodeWithID(raw, &d, func() string { return d.ID }); err != nil {
			return nil, err
		}
		return d, nil
	case ResourceRooms:
		var d RoomData
		if err := decodeWithID(raw, &d, func() string { return d.ID }); err != nil {
			return nil, err
		}
		return d, nil
	case ResourceAttachmentActions:
		var d AttachmentActionData
		if err := decodeWithID(raw, &d, func() string { return d.ID }); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return UnknownData{Raw: raw}, nil
	}
}

func decodeWithID(raw json.RawMessage, dst interface{}, id func() string) error {
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	if id() == "" {
		return errors.New("data.id is required")
	}
	return nil
}

// ProcessingResult describes what a processor did. Only the fields relevant
// to the action are set.
type ProcessingResult struct {
	Action       string `json:"action"`
	MessageID    string `json:"messageId,omitempty"`
	MembershipID string `json:"membershipId,omitempty"`
	RoomID       string `json:"roomId,omitempty"`
	ActionID     string `json:"actionId,omitempty"`
	Type         string `json:"type,omitempty"`
}

const (
	ActionMessageProcessed    = "message_processed"
	ActionMemberAdded         = "member_added"
	ActionRoomCreated         = "room_created"
	ActionCardActionProcessed = "card_action_processed"
)

// Keys merged into a log payload when the delivery is finalized.
const (
	PayloadKeyResult = "processingResult"
	PayloadKeyError  = "error"
)

// MergePayload returns payload with key set to value. A nil value leaves
// payload unchanged. Payloads that are not JSON objects are wrapped under "raw".
func MergePayload(payload json.RawMessage, key string, value interface{}) (json.RawMessage, error) {
	if value == nil {
		return payload, nil
	}

	fields := map[string]json.RawMessage{}
	if len(bytes.TrimSpace(payload)) > 0 {
		if err := json.Unmarshal(payload, &fields); err != nil {
			fields = map[string]json.RawMessage{"raw": payload}
		}
	}

	v, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", key, err)
	}
	fields[key] = v

	out, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}
	return out, nil
}
