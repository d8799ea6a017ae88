package service

import (
	"context"
	"fmt"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// unexpectedData is returned when a processor is routed a variant it does not handle.
func unexpectedData(want string, got domain.EventData) error {
	return fmt.Errorf("%s processor: unexpected data %T", want, got)
}

// orNow substitutes the current time for a missing platform timestamp.
func orNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// --- messages/created ---

type messageProcessor struct {
	messages ports.ChatMessageRepository
	requests ports.ChatRequestRepository
	people   *PersonResolver
}

// NewMessageProcessor stores the message and opens a chat request the first
// time a room is seen.
func NewMessageProcessor(messages ports.ChatMessageRepository, requests ports.ChatRequestRepository, people *PersonResolver) ports.Processor {
	return &messageProcessor{messages: messages, requests: requests, people: people}
}

func (p *messageProcessor) Process(ctx context.Context, data domain.EventData) (*domain.ProcessingResult, error) {
	msg, ok := data.(domain.MessageData)
	if !ok {
		return nil, unexpectedData("message", data)
	}

	if err := p.messages.Create(ctx, &domain.ChatMessage{
		ID:        uuid.New(),
		MessageID: msg.ID,
		RoomID:    msg.RoomID,
		PersonID:  msg.PersonID,
		Content:   msg.Text,
		CreatedAt: orNow(msg.Created),
	}); err != nil {
		return nil, fmt.Errorf("store chat message: %w", err)
	}

	existing, err := p.requests.FindByRoomID(ctx, msg.RoomID)
	if err != nil {
		return nil, fmt.Errorf("find chat request: %w", err)
	}
	if existing == nil {
		email, err := p.people.Email(ctx, msg.PersonID)
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC()
		if err := p.requests.Create(ctx, &domain.ChatRequest{
			ID:            uuid.New(),
			RoomID:        msg.RoomID,
			PersonEmail:   email,
			Status:        domain.ChatRequestUnassigned,
			LatestMessage: msg.Text,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return nil, fmt.Errorf("create chat request: %w", err)
		}
	}

	return &domain.ProcessingResult{Action: domain.ActionMessageProcessed, MessageID: msg.ID}, nil
}

// --- memberships/created ---

type membershipProcessor struct {
	memberships ports.MembershipRepository
}

func NewMembershipProcessor(memberships ports.MembershipRepository) ports.Processor {
	return &membershipProcessor{memberships: memberships}
}

func (p *membershipProcessor) Process(ctx context.Context, data domain.EventData) (*domain.ProcessingResult, error) {
	m, ok := data.(domain.MembershipData)
	if !ok {
		return nil, unexpectedData("membership", data)
	}

	if err := p.memberships.Create(ctx, &domain.SpaceMembership{
		ID:           uuid.New(),
		MembershipID: m.ID,
		PersonID:     m.PersonID,
		PersonEmail:  m.PersonEmail,
		RoomID:       m.RoomID,
		IsModerator:  m.IsModerator != nil && *m.IsModerator,
		Created:      orNow(m.Created),
	}); err != nil {
		return nil, fmt.Errorf("store membership: %w", err)
	}

	return &domain.ProcessingResult{Action: domain.ActionMemberAdded, MembershipID: m.ID}, nil
}

// --- rooms/created ---

type roomProcessor struct {
	spaces ports.SpaceRepository
}

func NewRoomProcessor(spaces ports.SpaceRepository) ports.Processor {
	return &roomProcessor{spaces: spaces}
}

func (p *roomProcessor) Process(ctx context.Context, data domain.EventData) (*domain.ProcessingResult, error) {
	room, ok := data.(domain.RoomData)
	if !ok {
		return nil, unexpectedData("room", data)
	}

	created := orNow(room.Created)
	lastActivity := room.LastActivity.UTC()
	if room.LastActivity.IsZero() {
		lastActivity = created
	}

	if err := p.spaces.Create(ctx, &domain.Space{
		ID:           uuid.New(),
		RoomID:       room.ID,
		Title:        room.Title,
		Type:         room.Type,
		Created:      created,
		LastActivity: lastActivity,
	}); err != nil {
		return nil, fmt.Errorf("store space: %w", err)
	}

	return &domain.ProcessingResult{Action: domain.ActionRoomCreated, RoomID: room.ID}, nil
}

// --- attachmentActions/created ---

type cardActionProcessor struct {
	actions ports.CardActionRepository
}

func NewCardActionProcessor(actions ports.CardActionRepository) ports.Processor {
	return &cardActionProcessor{actions: actions}
}

func (p *cardActionProcessor) Process(ctx context.Context, data domain.EventData) (*domain.ProcessingResult, error) {
	a, ok := data.(domain.AttachmentActionData)
	if !ok {
		return nil, unexpectedData("card action", data)
	}

	if err := p.actions.Create(ctx, &domain.CardAction{
		ID:        uuid.New(),
		ActionID:  a.ID,
		Type:      a.Type,
		MessageID: a.MessageID,
		Inputs:    a.Inputs,
		PersonID:  a.PersonID,
		RoomID:    a.RoomID,
		CreatedAt: orNow(a.Created),
	}); err != nil {
		return nil, fmt.Errorf("store card action: %w", err)
	}

	return &domain.ProcessingResult{Action: domain.ActionCardActionProcessed, ActionID: a.ID, Type: a.Type}, nil
}

// --- person lookup ---

// PersonResolver looks up a person's primary email at the platform. When a
// cache is configured, hits skip the outbound call. Cache failures are logged
// and never fail the lookup.
type PersonResolver struct {
	client ports.WebexClient
	cache  ports.PersonCache
	ttl    time.Duration
	log    zerolog.Logger
}

// NewPersonResolver creates a resolver. cache may be nil.
func NewPersonResolver(client ports.WebexClient, cache ports.PersonCache, ttl time.Duration, log zerolog.Logger) *PersonResolver {
	return &PersonResolver{client: client, cache: cache, ttl: ttl, log: log}
}

func (r *PersonResolver) Email(ctx context.Context, personID string) (string, error) {
	if r.cache != nil {
		email, err := r.cache.Get(ctx, personID)
		if err != nil {
			r.log.Warn().Err(err).Str("person_id", personID).Msg("person cache read failed")
		} else if email != "" {
			return email, nil
		}
	}

	person, err := r.client.GetPerson(ctx, personID)
	if err != nil {
		return "", fmt.Errorf("lookup person: %w", err)
	}
	email := person.PrimaryEmail()
	if email == "" {
		return "", fmt.Errorf("person %s has no email", personID)
	}

	if r.cache != nil && r.ttl > 0 {
		if err := r.cache.Set(ctx, personID, email, r.ttl); err != nil {
			r.log.Warn().Err(err).Str("person_id", personID).Msg("person cache write failed")
		}
	}
	return email, nil
}
