package postgres

import (
	"context"
	"errors"
	"fmt"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ChatMessageRepo implements ports.ChatMessageRepository.
type ChatMessageRepo struct {
	pool Pool
}

func NewChatMessageRepo(pool Pool) *ChatMessageRepo {
	return &ChatMessageRepo{pool: pool}
}

func (r *ChatMessageRepo) Create(ctx context.Context, m *domain.ChatMessage) error {
	query := `INSERT INTO chat_messages (id, message_id, room_id, person_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, m.ID, m.MessageID, m.RoomID, m.PersonID, m.Content, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	return nil
}

// ChatRequestRepo implements ports.ChatRequestRepository.
type ChatRequestRepo struct {
	pool Pool
}

func NewChatRequestRepo(pool Pool) *ChatRequestRepo {
	return &ChatRequestRepo{pool: pool}
}

// FindByRoomID returns the first request stored for the room. No ordering is implied.
func (r *ChatRequestRepo) FindByRoomID(ctx context.Context, roomID string) (*domain.ChatRequest, error) {
	query := `SELECT id, room_id, person_email, status, latest_message, created_at, updated_at
		FROM chat_requests WHERE room_id = $1 LIMIT 1`

	req := &domain.ChatRequest{}
	err := r.pool.QueryRow(ctx, query, roomID).Scan(
		&req.ID, &req.RoomID, &req.PersonEmail, &req.Status,
		&req.LatestMessage, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find chat request by room: %w", err)
	}
	return req, nil
}

func (r *ChatRequestRepo) Create(ctx context.Context, req *domain.ChatRequest) error {
	query := `INSERT INTO chat_requests (id, room_id, person_email, status, latest_message, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		req.ID, req.RoomID, req.PersonEmail, req.Status,
		req.LatestMessage, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert chat request: %w", err)
	}
	return nil
}
