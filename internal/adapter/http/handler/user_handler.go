package handler

import (
	"helpdesk-webhooks/internal/adapter/http/dto"
	"helpdesk-webhooks/internal/adapter/http/middleware"
	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
)

// UserHandler manages dashboard users.
type UserHandler struct {
	userSvc ports.UserService
}

func NewUserHandler(userSvc ports.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// List handles GET /api/users.
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	response.OK(c, out)
}

// Create handles POST /api/users.
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	user, err := h.userSvc.Create(c.Request.Context(), ports.CreateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxResourceID, user.ID.String())
	response.Created(c, dto.NewUserResponse(user))
}

// Get handles GET /api/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	user, err := h.userSvc.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewUserResponse(user))
}

// Update handles PUT /api/users/:id.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	upd := ports.UpdateUserRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		upd.Role = &role
	}

	user, err := h.userSvc.Update(c.Request.Context(), id, upd)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.NewUserResponse(user))
}

// Delete handles DELETE /api/users/:id.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
