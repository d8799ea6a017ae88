package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const deliveryLogColumns = `id, webhook_id, payload, status, created_at, updated_at`

// sortColumns maps API sort fields to columns. Anything else sorts by created_at.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"status":    "status",
	"webhookId": "webhook_id",
}

// DeliveryLogRepo implements ports.DeliveryLogRepository.
type DeliveryLogRepo struct {
	pool Pool
}

func NewDeliveryLogRepo(pool Pool) *DeliveryLogRepo {
	return &DeliveryLogRepo{pool: pool}
}

// Create inserts a log row in the received state.
func (r *DeliveryLogRepo) Create(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	query := `INSERT INTO webhook_logs (` + deliveryLogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		l.ID, l.WebhookID, []byte(l.Payload), l.Status, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert webhook log: %w", err)
	}
	return nil
}

// Finalize sets the final status and payload of a received log.
func (r *DeliveryLogRepo) Finalize(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, payload json.RawMessage) error {
	query := `UPDATE webhook_logs SET status = $1, payload = $2, updated_at = $3
		WHERE id = $4 AND status = $5`

	tag, err := r.pool.Exec(ctx, query, status, []byte(payload), time.Now().UTC(), id, domain.DeliveryStatusReceived)
	if err != nil {
		return fmt.Errorf("finalize webhook log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ports.ErrLogAlreadyFinal
	}
	return nil
}

func (r *DeliveryLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error) {
	query := `SELECT ` + deliveryLogColumns + ` FROM webhook_logs WHERE id = $1`

	l, err := scanDeliveryLog(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get webhook log: %w", err)
	}
	return l, nil
}

// List fetches logs with filtering, sorting and pagination.
func (r *DeliveryLogRepo) List(ctx context.Context, params ports.DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(webhook_id ILIKE $%d OR payload::text ILIKE $%d)", argIdx, argIdx))
		args = append(args, containsPattern(params.Search))
		argIdx++
	}
	if params.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argIdx))
		args = append(args, *params.From)
		argIdx++
	}
	if params.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argIdx))
		args = append(args, *params.To)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM webhook_logs %s", where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count webhook logs: %w", err)
	}

	column, ok := sortColumns[params.SortField]
	if !ok {
		column = "created_at"
	}
	order := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		order = "ASC"
	}

	offset := (params.Page - 1) * params.Limit
	dataQuery := fmt.Sprintf(`SELECT %s FROM webhook_logs %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		deliveryLogColumns, where, column, order, order, argIdx, argIdx+1)
	args = append(args, params.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list webhook logs: %w", err)
	}
	defer rows.Close()

	logs := make([]domain.WebhookDeliveryLog, 0)
	for rows.Next() {
		l, err := scanDeliveryLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan webhook log row: %w", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate webhook log rows: %w", err)
	}
	return logs, total, nil
}

func scanDeliveryLog(row pgx.Row) (*domain.WebhookDeliveryLog, error) {
	l := &domain.WebhookDeliveryLog{}
	var payload []byte
	if err := row.Scan(&l.ID, &l.WebhookID, &payload, &l.Status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.Payload = json.RawMessage(payload)
	return l, nil
}

// containsPattern builds an ILIKE pattern matching s anywhere, with
// LIKE metacharacters in s taken literally.
func containsPattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
