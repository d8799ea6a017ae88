package dto

import (
	"time"

	"helpdesk-webhooks/internal/core/domain"
)

// IncomingResponse is the body returned to the messaging platform for a
// successfully processed delivery.
type IncomingResponse struct {
	Message string                   `json:"message"`
	Result  *domain.ProcessingResult `json:"result,omitempty"`
}

// LoginRequest is the request body for dashboard login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required" sanitize:"-"`
}

// LoginResponse is the response body for successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expiresAt"` // Unix timestamp
	User      UserResponse `json:"user"`
}

// MeResponse is the signed-in user's profile and navigation.
type MeResponse struct {
	User       UserResponse     `json:"user"`
	Navigation []domain.NavItem `json:"navigation"`
}

// CreateWebhookRequest registers a subscription. accessToken belongs to the
// account that will own the subscription at the platform.
type CreateWebhookRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	AccessToken string  `json:"accessToken" binding:"required" sanitize:"-"`
	Resource    string  `json:"resource" binding:"required,webex_resource"`
	Event       string  `json:"event" binding:"required,webex_event"`
	Filter      *string `json:"filter,omitempty" binding:"omitempty,max=500" sanitize:"-"`
	Secret      *string `json:"secret,omitempty" binding:"omitempty,max=256" sanitize:"-"`
}

type WebhookResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	TargetURL string  `json:"targetUrl"`
	Resource  string  `json:"resource"`
	Event     string  `json:"event"`
	WebhookID *string `json:"webhookId"`
	Filter    *string `json:"filter"`
	HasSecret bool    `json:"hasSecret"`
	CreatedAt string  `json:"createdAt"`
}

func NewWebhookResponse(w *domain.WebhookSubscription) WebhookResponse {
	return WebhookResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		TargetURL: w.TargetURL,
		Resource:  string(w.Resource),
		Event:     string(w.Event),
		WebhookID: w.WebhookID,
		Filter:    w.Filter,
		HasSecret: w.Secret != nil && *w.Secret != "",
		CreatedAt: w.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// MaxLogLimit is the largest page size served; larger limits are clamped.
const MaxLogLimit = 100

// LogListQuery holds the query string of GET /api/logs.
type LogListQuery struct {
	Page      int    `form:"page,default=1" binding:"min=1"`
	Limit     int    `form:"limit,default=20" binding:"min=1"`
	Status    string `form:"status" binding:"omitempty,oneof=received processed failed"`
	Search    string `form:"search" binding:"omitempty,max=200"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
	SortField string `form:"sortField" binding:"omitempty,oneof=createdAt status webhookId"`
	SortOrder string `form:"sortOrder" binding:"omitempty,oneof=asc desc"`
}

// CreateUserRequest is the request body for POST /api/users.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128" sanitize:"-"`
	Role     string `json:"role" binding:"required,user_role"`
}

// UpdateUserRequest is the request body for PUT /api/users/:id. Omitted
// fields keep their stored value; an empty password keeps the current one.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8,max=128" sanitize:"-"`
	Role     *string `json:"role,omitempty" binding:"omitempty,user_role"`
}

type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
