package postgres

import (
	"context"
	"fmt"

	"helpdesk-webhooks/internal/core/domain"
)

// SpaceRepo implements ports.SpaceRepository.
type SpaceRepo struct {
	pool Pool
}

func NewSpaceRepo(pool Pool) *SpaceRepo {
	return &SpaceRepo{pool: pool}
}

func (r *SpaceRepo) Create(ctx context.Context, s *domain.Space) error {
	query := `INSERT INTO spaces (id, room_id, title, type, created, last_activity)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, s.ID, s.RoomID, s.Title, s.Type, s.Created, s.LastActivity)
	if err != nil {
		return fmt.Errorf("insert space: %w", err)
	}
	return nil
}

// MembershipRepo implements ports.MembershipRepository.
type MembershipRepo struct {
	pool Pool
}

func NewMembershipRepo(pool Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Create(ctx context.Context, m *domain.SpaceMembership) error {
	query := `INSERT INTO space_members (id, membership_id, person_id, person_email, room_id, is_moderator, created)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		m.ID, m.MembershipID, m.PersonID, m.PersonEmail, m.RoomID, m.IsModerator, m.Created,
	)
	if err != nil {
		return fmt.Errorf("insert space member: %w", err)
	}
	return nil
}
