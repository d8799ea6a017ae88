package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RegistryService implements ports.WebhookRegistryService. Subscriptions are
// mirrored at the messaging platform; the local row keeps the platform id and
// the owner's access token, encrypted.
type RegistryService struct {
	repo      ports.WebhookRepository
	webex     ports.WebexClient
	encSvc    ports.EncryptionService
	targetURL string
	log       zerolog.Logger
}

// NewRegistryService creates the registry. targetURL is where the platform
// will deliver notifications for every subscription created here.
func NewRegistryService(
	repo ports.WebhookRepository,
	webex ports.WebexClient,
	encSvc ports.EncryptionService,
	targetURL string,
	log zerolog.Logger,
) *RegistryService {
	return &RegistryService{
		repo:      repo,
		webex:     webex,
		encSvc:    encSvc,
		targetURL: targetURL,
		log:       logger.Component(log, "registry"),
	}
}

func (s *RegistryService) List(ctx context.Context) ([]domain.WebhookSubscription, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("list webhooks: %w", err))
	}
	return subs, nil
}

func (s *RegistryService) Get(ctx context.Context, id uuid.UUID) (*domain.WebhookSubscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("get webhook: %w", err))
	}
	if sub == nil {
		return nil, apperror.ErrWebhookNotFound()
	}
	return sub, nil
}

// Create registers the subscription remotely and then stores it. When the
// local insert fails the remote registration is withdrawn.
func (s *RegistryService) Create(ctx context.Context, req ports.CreateWebhookRequest) (*domain.WebhookSubscription, error) {
	if !req.Resource.IsValid() {
		return nil, apperror.Validation(fmt.Sprintf("unsupported resource: %s", req.Resource))
	}
	if !req.Event.IsValid() {
		return nil, apperror.Validation(fmt.Sprintf("unsupported event: %s", req.Event))
	}

	tokenEnc, err := s.encSvc.Encrypt(req.AccessToken)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("encrypt access token: %w", err))
	}

	remoteReq := ports.CreateRemoteWebhook{
		Name:      req.Name,
		TargetURL: s.targetURL,
		Resource:  string(req.Resource),
		Event:     string(req.Event),
	}
	if req.Filter != nil {
		remoteReq.Filter = *req.Filter
	}
	if req.Secret != nil {
		remoteReq.Secret = *req.Secret
	}

	remote, err := s.webex.CreateWebhook(ctx, req.AccessToken, remoteReq)
	if err != nil {
		return nil, apperror.ErrRemoteWebhook(err)
	}

	sub := &domain.WebhookSubscription{
		ID:             uuid.New(),
		Name:           req.Name,
		TargetURL:      s.targetURL,
		Resource:       req.Resource,
		Event:          req.Event,
		WebhookID:      &remote.ID,
		AccessTokenEnc: tokenEnc,
		Filter:         req.Filter,
		Secret:         req.Secret,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		if derr := s.webex.DeleteWebhook(context.WithoutCancel(ctx), req.AccessToken, remote.ID); derr != nil {
			s.log.Error().Err(derr).Str("remote_id", remote.ID).Msg("orphaned remote webhook after failed insert")
		}
		return nil, apperror.ErrDatabaseError(fmt.Errorf("create webhook: %w", err))
	}

	s.log.Info().
		Str("webhook_id", sub.ID.String()).
		Str("remote_id", remote.ID).
		Str("resource", string(sub.Resource)).
		Str("event", string(sub.Event)).
		Msg("webhook registered")
	return sub, nil
}

// Delete withdraws the remote registration, if any, before removing the
// local row. A remote 404 counts as already withdrawn. Any other remote
// failure keeps the local row.
func (s *RegistryService) Delete(ctx context.Context, id uuid.UUID) error {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if sub.IsRegisteredRemotely() {
		token, err := s.encSvc.Decrypt(sub.AccessTokenEnc)
		if err != nil {
			return apperror.ErrEncryptionFailure(fmt.Errorf("decrypt access token: %w", err))
		}

		if err := s.webex.DeleteWebhook(ctx, token, *sub.WebhookID); err != nil {
			var apiErr *ports.WebexAPIError
			if !errors.As(err, &apiErr) || !apiErr.NotFound() {
				return apperror.ErrRemoteWebhook(err)
			}
			s.log.Info().Str("remote_id", *sub.WebhookID).Msg("remote webhook already gone")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return apperror.ErrWebhookNotFound()
		}
		return apperror.ErrDatabaseError(fmt.Errorf("delete webhook: %w", err))
	}
	return nil
}
