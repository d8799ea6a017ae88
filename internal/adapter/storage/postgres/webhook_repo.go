package postgres

import (
	"context"
	"errors"
	"fmt"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const webhookColumns = `id, name, target_url, resource, event, webhook_id, access_token_enc, filter, secret, created_at`

// WebhookRepo implements ports.WebhookRepository.
type WebhookRepo struct {
	pool Pool
}

func NewWebhookRepo(pool Pool) *WebhookRepo {
	return &WebhookRepo{pool: pool}
}

// Create inserts a new webhook subscription.
func (r *WebhookRepo) Create(ctx context.Context, w *domain.WebhookSubscription) error {
	query := `INSERT INTO webhooks (` + webhookColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		w.ID, w.Name, w.TargetURL, w.Resource, w.Event,
		w.WebhookID, w.AccessTokenEnc, w.Filter, w.Secret, w.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook: %w", err)
	}
	return nil
}

// GetByID fetches a subscription by UUID.
func (r *WebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookSubscription, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE id = $1`

	w, err := scanWebhook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook by id: %w", err)
	}
	return w, nil
}

// List returns all subscriptions, newest first.
func (r *WebhookRepo) List(ctx context.Context) ([]domain.WebhookSubscription, error) {
	query := `SELECT ` + webhookColumns + ` FROM webhooks ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", err)
	}
	defer rows.Close()

	webhooks := make([]domain.WebhookSubscription, 0)
	for rows.Next() {
		w, err := scanWebhook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan webhook row: %w", err)
		}
		webhooks = append(webhooks, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate webhook rows: %w", err)
	}
	return webhooks, nil
}

// Delete removes a subscription row.
func (r *WebhookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM webhooks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func scanWebhook(row pgx.Row) (*domain.WebhookSubscription, error) {
	w := &domain.WebhookSubscription{}
	err := row.Scan(
		&w.ID, &w.Name, &w.TargetURL, &w.Resource, &w.Event,
		&w.WebhookID, &w.AccessTokenEnc, &w.Filter, &w.Secret, &w.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return w, nil
}
