package postgres

import (
	"context"
	"fmt"

	"helpdesk-webhooks/internal/core/domain"
)

// CardActionRepo implements ports.CardActionRepository.
type CardActionRepo struct {
	pool Pool
}

func NewCardActionRepo(pool Pool) *CardActionRepo {
	return &CardActionRepo{pool: pool}
}

// emptyInputs is stored when a submission carries no inputs. A nil slice
// would be sent as NULL, which the NOT NULL column rejects.
var emptyInputs = []byte("{}")

// Create stores a card submission. Inputs are kept as JSONB.
func (r *CardActionRepo) Create(ctx context.Context, a *domain.CardAction) error {
	query := `INSERT INTO card_actions (id, action_id, type, message_id, inputs, person_id, room_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	inputs := emptyInputs
	if len(a.Inputs) > 0 {
		inputs = []byte(a.Inputs)
	}

	_, err := r.pool.Exec(ctx, query,
		a.ID, a.ActionID, a.Type, a.MessageID, inputs, a.PersonID, a.RoomID, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert card action: %w", err)
	}
	return nil
}
