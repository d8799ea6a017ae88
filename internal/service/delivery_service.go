package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/observer"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Route is the exact (resource, event) pair a processor is registered for.
type Route struct {
	Resource domain.Resource
	Event    domain.Event
}

// ProcessorDeps carries what the built-in processors write to and call.
type ProcessorDeps struct {
	Messages    ports.ChatMessageRepository
	Requests    ports.ChatRequestRepository
	Spaces      ports.SpaceRepository
	Memberships ports.MembershipRepository
	CardActions ports.CardActionRepository
	People      *PersonResolver
}

// DefaultRoutes wires the created-event processors of the four dispatchable
// resources.
func DefaultRoutes(deps ProcessorDeps) map[Route]ports.Processor {
	return map[Route]ports.Processor{
		{domain.ResourceMessages, domain.EventCreated}:          NewMessageProcessor(deps.Messages, deps.Requests, deps.People),
		{domain.ResourceMemberships, domain.EventCreated}:       NewMembershipProcessor(deps.Memberships),
		{domain.ResourceRooms, domain.EventCreated}:             NewRoomProcessor(deps.Spaces),
		{domain.ResourceAttachmentActions, domain.EventCreated}: NewCardActionProcessor(deps.CardActions),
	}
}

// DeliveryService implements ports.DeliveryService.
type DeliveryService struct {
	logs      ports.DeliveryLogRepository
	routes    map[Route]ports.Processor
	resources map[domain.Resource]bool
	log       zerolog.Logger
}

// NewDeliveryService creates the dispatcher. A resource is dispatchable when
// at least one route names it; deliveries for any other resource fail.
func NewDeliveryService(logs ports.DeliveryLogRepository, routes map[Route]ports.Processor, log zerolog.Logger) *DeliveryService {
	resources := make(map[domain.Resource]bool, len(routes))
	for r := range routes {
		resources[r.Resource] = true
	}
	return &DeliveryService{
		logs:      logs,
		routes:    routes,
		resources: resources,
		log:       logger.Component(log, "delivery"),
	}
}

// Handle records the delivery, dispatches it, and finalizes the log entry
// exactly once whatever the outcome. A panic inside a processor is recorded
// as a failure and then re-raised.
func (s *DeliveryService) Handle(ctx context.Context, req ports.DeliveryRequest) (out *ports.DeliveryOutcome, err error) {
	delivery, perr := domain.ParseDelivery(req.Body)
	if perr != nil {
		observer.IncDeliveryRejected(observer.RejectMalformed)
		return nil, apperror.ErrMalformedDelivery(perr)
	}

	webhookID := req.WebhookID
	if webhookID == "" {
		webhookID = domain.UnknownWebhookID
	}

	now := time.Now().UTC()
	entry := &domain.WebhookDeliveryLog{
		ID:        uuid.New(),
		WebhookID: webhookID,
		Payload:   req.Body,
		Status:    domain.DeliveryStatusReceived,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.logs.Create(ctx, entry); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create delivery log: %w", err))
	}
	observer.IncDeliveryReceived(delivery.Resource, delivery.Event)

	log := s.log.With().
		Str("log_id", entry.ID.String()).
		Str("webhook_id", webhookID).
		Str("resource", string(delivery.Resource)).
		Str("event", string(delivery.Event)).
		Logger()

	var result *domain.ProcessingResult
	defer func() {
		rec := recover()
		if rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}

		ferr := s.finalize(context.WithoutCancel(ctx), entry, delivery, result, err, now)
		switch {
		case rec != nil:
			panic(rec)
		case err != nil:
			log.Warn().Err(err).Msg("delivery failed")
			out, err = nil, apperror.ErrProcessingFailed(err)
		case ferr != nil:
			out, err = nil, apperror.InternalError(ferr)
		default:
			log.Info().Str("action", actionOf(result)).Msg("delivery processed")
		}
	}()

	result, err = s.dispatch(ctx, delivery)
	if err != nil {
		return nil, err
	}
	return &ports.DeliveryOutcome{LogID: entry.ID, Result: result}, nil
}

// dispatch runs the processor registered for the delivery. A known resource
// with an unrouted event yields no result and no error.
func (s *DeliveryService) dispatch(ctx context.Context, d *domain.Delivery) (*domain.ProcessingResult, error) {
	if !s.resources[d.Resource] {
		return nil, fmt.Errorf("unsupported resource type: %s", d.Resource)
	}

	proc, ok := s.routes[Route{Resource: d.Resource, Event: d.Event}]
	if !ok {
		return nil, nil
	}

	data, err := domain.DecodeEventData(d.Resource, d.Data)
	if err != nil {
		return nil, err
	}
	return proc.Process(ctx, data)
}

// finalize moves the entry to processed or failed and merges the outcome
// into its payload.
func (s *DeliveryService) finalize(ctx context.Context, entry *domain.WebhookDeliveryLog, d *domain.Delivery, result *domain.ProcessingResult, procErr error, started time.Time) error {
	status := domain.DeliveryStatusProcessed
	key := domain.PayloadKeyResult
	var value interface{}
	if procErr != nil {
		status = domain.DeliveryStatusFailed
		key = domain.PayloadKeyError
		value = procErr.Error()
	} else if result != nil {
		value = result
	}

	payload, err := domain.MergePayload(entry.Payload, key, value)
	if err != nil {
		s.log.Error().Err(err).Str("log_id", entry.ID.String()).Msg("merge delivery payload")
		payload = entry.Payload
	}

	observer.ObserveDeliveryFinalized(d.Resource, d.Event, status, time.Since(started))

	if err := s.logs.Finalize(ctx, entry.ID, status, payload); err != nil {
		if errors.Is(err, ports.ErrLogAlreadyFinal) {
			s.log.Error().Str("log_id", entry.ID.String()).Msg("delivery log was already finalized")
		} else {
			s.log.Error().Err(err).Str("log_id", entry.ID.String()).Str("status", string(status)).Msg("finalize delivery log")
		}
		return fmt.Errorf("finalize delivery log: %w", err)
	}

	entry.Status = status
	entry.Payload = payload
	return nil
}

func actionOf(r *domain.ProcessingResult) string {
	if r == nil {
		return "none"
	}
	return r.Action
}
