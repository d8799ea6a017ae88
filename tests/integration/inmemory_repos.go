package integration

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/google/uuid"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ports.ErrDuplicate
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) List(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return ports.ErrNotFound
	}
	for id, existing := range r.users {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return ports.ErrDuplicate
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// --- In-Memory Webhook Repo ---

type inMemoryWebhookRepo struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]*domain.WebhookSubscription
}

func newInMemoryWebhookRepo() *inMemoryWebhookRepo {
	return &inMemoryWebhookRepo{subs: make(map[uuid.UUID]*domain.WebhookSubscription)}
}

func (r *inMemoryWebhookRepo) Create(ctx context.Context, w *domain.WebhookSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *w
	r.subs[w.ID] = &cp
	return nil
}

func (r *inMemoryWebhookRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.subs[id]
	if !ok {
		return nil, nil
	}
	cp := *w
	return &cp, nil
}

func (r *inMemoryWebhookRepo) List(ctx context.Context) ([]domain.WebhookSubscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.WebhookSubscription, 0, len(r.subs))
	for _, w := range r.subs {
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *inMemoryWebhookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.subs, id)
	return nil
}

// --- In-Memory Delivery Log Repo ---

type inMemoryDeliveryLogRepo struct {
	mu   sync.RWMutex
	logs map[uuid.UUID]*domain.WebhookDeliveryLog
}

func newInMemoryDeliveryLogRepo() *inMemoryDeliveryLogRepo {
	return &inMemoryDeliveryLogRepo{logs: make(map[uuid.UUID]*domain.WebhookDeliveryLog)}
}

func (r *inMemoryDeliveryLogRepo) Create(ctx context.Context, l *domain.WebhookDeliveryLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *l
	r.logs[l.ID] = &cp
	return nil
}

func (r *inMemoryDeliveryLogRepo) Finalize(ctx context.Context, id uuid.UUID, status domain.DeliveryStatus, payload json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.logs[id]
	if !ok || l.Status != domain.DeliveryStatusReceived {
		return ports.ErrLogAlreadyFinal
	}
	l.Status = status
	l.Payload = payload
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryDeliveryLogRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.logs[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	return &cp, nil
}

func (r *inMemoryDeliveryLogRepo) List(ctx context.Context, p ports.DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []domain.WebhookDeliveryLog
	for _, l := range r.logs {
		if p.Status != nil && l.Status != *p.Status {
			continue
		}
		if p.Search != "" {
			s := strings.ToLower(p.Search)
			if !strings.Contains(strings.ToLower(l.WebhookID), s) && !strings.Contains(strings.ToLower(string(l.Payload)), s) {
				continue
			}
		}
		if p.From != nil && l.CreatedAt.Before(*p.From) {
			continue
		}
		if p.To != nil && l.CreatedAt.After(*p.To) {
			continue
		}
		matched = append(matched, *l)
	}

	less := func(a, b domain.WebhookDeliveryLog) bool {
		switch p.SortField {
		case "status":
			return a.Status < b.Status
		case "webhookId":
			return a.WebhookID < b.WebhookID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if p.SortOrder == "asc" {
			return less(matched[i], matched[j])
		}
		return less(matched[j], matched[i])
	})

	total := int64(len(matched))
	start := (p.Page - 1) * p.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *inMemoryDeliveryLogRepo) all() []domain.WebhookDeliveryLog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.WebhookDeliveryLog, 0, len(r.logs))
	for _, l := range r.logs {
		out = append(out, *l)
	}
	return out
}

// --- In-Memory helpdesk records ---

// inMemoryRecords stores what the processors write.
type inMemoryRecords struct {
	mu          sync.RWMutex
	messages    []domain.ChatMessage
	requests    []domain.ChatRequest
	spaces      []domain.Space
	memberships []domain.SpaceMembership
	cardActions []domain.CardAction
}

func newInMemoryRecords() *inMemoryRecords {
	return &inMemoryRecords{}
}

type chatMessageStore struct{ *inMemoryRecords }

func (s chatMessageStore) Create(ctx context.Context, m *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, *m)
	return nil
}

type chatRequestStore struct{ *inMemoryRecords }

func (s chatRequestStore) FindByRoomID(ctx context.Context, roomID string) (*domain.ChatRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.requests {
		if r.RoomID == roomID {
			cp := r
			return &cp, nil
		}
	}
	return nil, nil
}

func (s chatRequestStore) Create(ctx context.Context, r *domain.ChatRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, *r)
	return nil
}

type spaceStore struct{ *inMemoryRecords }

func (s spaceStore) Create(ctx context.Context, sp *domain.Space) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spaces = append(s.spaces, *sp)
	return nil
}

type membershipStore struct{ *inMemoryRecords }

func (s membershipStore) Create(ctx context.Context, m *domain.SpaceMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = append(s.memberships, *m)
	return nil
}

type cardActionStore struct{ *inMemoryRecords }

func (s cardActionStore) Create(ctx context.Context, a *domain.CardAction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cardActions = append(s.cardActions, *a)
	return nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, l *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *l)
	return nil
}

func (r *inMemoryAuditRepo) actions() []domain.AuditAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}
