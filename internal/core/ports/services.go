package ports

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"helpdesk-webhooks/internal/core/domain"

	"github.com/google/uuid"
)

// EncryptionService handles AES-256-GCM encryption/decryption.
type EncryptionService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// SignatureService verifies x-spark-signature values (hex HMAC-SHA1 of the body).
type SignatureService interface {
	Sign(secret string, body []byte) string
	Verify(secret string, body []byte, signature string) bool
}

// HashService handles password hashing.
type HashService interface {
	Hash(password string) (string, error)
	Verify(password string, hash string) (bool, error)
}

// TokenService handles JWT token operations.
type TokenService interface {
	Generate(userID uuid.UUID, role domain.Role) (string, *TokenClaims, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	UserID    uuid.UUID
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// TokenDenylist remembers revoked token ids until they expire.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// PersonCache caches person id to primary email lookups.
type PersonCache interface {
	Get(ctx context.Context, personID string) (string, error) // "" on miss
	Set(ctx context.Context, personID string, email string, ttl time.Duration) error
}

// RateLimitStore is a fixed-window request counter.
type RateLimitStore interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (*RateLimitResult, error)
}

// RateLimitResult holds the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	ResetAt   int64 // Unix timestamp
}

// --- Messaging platform ---

// WebexClient is the outbound REST client for the messaging platform.
type WebexClient interface {
	// GetPerson uses the configured bot token.
	GetPerson(ctx context.Context, personID string) (*Person, error)
	CreateWebhook(ctx context.Context, accessToken string, req CreateRemoteWebhook) (*RemoteWebhook, error)
	DeleteWebhook(ctx context.Context, accessToken string, webhookID string) error
}

type Person struct {
	ID          string   `json:"id"`
	Emails      []string `json:"emails"`
	DisplayName string   `json:"displayName"`
}

// PrimaryEmail returns the first listed email, or "".
func (p *Person) PrimaryEmail() string {
	if p == nil || len(p.Emails) == 0 {
		return ""
	}
	return p.Emails[0]
}

type CreateRemoteWebhook struct {
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	Filter    string `json:"filter,omitempty"`
	Secret    string `json:"secret,omitempty"`
}

type RemoteWebhook struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	TargetURL string `json:"targetUrl"`
	Resource  string `json:"resource"`
	Event     string `json:"event"`
	Status    string `json:"status"`
}

// WebexAPIError is a non-2xx answer from the messaging platform.
type WebexAPIError struct {
	StatusCode int
	Message    string
}

func (e *WebexAPIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("webex api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("webex api: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *WebexAPIError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// --- Service Ports (Business Logic) ---

// DeliveryService handles inbound deliveries from the messaging platform.
type DeliveryService interface {
	Handle(ctx context.Context, req DeliveryRequest) (*DeliveryOutcome, error)
}

// DeliveryRequest is an inbound delivery whose method and signature have
// already been checked.
type DeliveryRequest struct {
	WebhookID string // x-spark-webhook-id, "" when absent
	Body      []byte
}

// DeliveryOutcome describes a processed delivery. Result is nil when no
// processor matched the event.
type DeliveryOutcome struct {
	LogID  uuid.UUID
	Result *domain.ProcessingResult
}

// Processor handles one (resource, event) pair.
type Processor interface {
	Process(ctx context.Context, data domain.EventData) (*domain.ProcessingResult, error)
}

// WebhookRegistryService manages webhook subscriptions.
type WebhookRegistryService interface {
	List(ctx context.Context) ([]domain.WebhookSubscription, error)
	Create(ctx context.Context, req CreateWebhookRequest) (*domain.WebhookSubscription, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.WebhookSubscription, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateWebhookRequest struct {
	Name        string
	AccessToken string
	Resource    domain.Resource
	Event       domain.Event
	Filter      *string
	Secret      *string
}

// LogService exposes the delivery log to the dashboard.
type LogService interface {
	List(ctx context.Context, params DeliveryLogListParams) ([]domain.WebhookDeliveryLog, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.WebhookDeliveryLog, error)
}

// UserService manages dashboard users.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Create(ctx context.Context, req CreateUserRequest) (*domain.User, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreateUserRequest struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserRequest holds optional changes; nil fields are left as stored.
type UpdateUserRequest struct {
	Name     *string
	Email    *string
	Password *string
	Role     *domain.Role
}

// AuthService defines authentication business logic.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, claims *TokenClaims) error
	Authenticate(ctx context.Context, token string) (*TokenClaims, error)
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

type Profile struct {
	User       *domain.User
	Navigation []domain.NavItem
}

// AuditService records administrative actions.
type AuditService interface {
	Log(ctx context.Context, entry *domain.AuditLog)
}
