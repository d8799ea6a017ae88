package handler

import (
	"net/http"

	"helpdesk-webhooks/internal/adapter/http/dto"
	"helpdesk-webhooks/internal/adapter/http/middleware"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authSvc ports.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authSvc ports.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Set(middleware.CtxUserID, result.User.ID)
	response.OK(c, dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt.Unix(),
		User:      dto.NewUserResponse(result.User),
	})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := c.MustGet(middleware.CtxClaims).(*ports.TokenClaims)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}
	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me handles GET /api/me.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := c.MustGet(middleware.CtxUserID).(uuid.UUID)

	profile, err := h.authSvc.Me(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.MeResponse{
		User:       dto.NewUserResponse(profile.User),
		Navigation: profile.Navigation,
	})
}

// HealthCheck handles GET /health, a deep check of every dependency.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		type depStatus struct {
			Status string `json:"status"`
			Error  string `json:"error,omitempty"`
		}

		deps := make(map[string]depStatus)
		allHealthy := true

		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = depStatus{Status: "unhealthy", Error: err.Error()}
				allHealthy = false
			} else {
				deps[checker.Name()] = depStatus{Status: "healthy"}
			}
		}

		status := "healthy"
		httpCode := http.StatusOK
		if !allHealthy {
			status = "degraded"
			httpCode = http.StatusServiceUnavailable
		}

		c.JSON(httpCode, gin.H{
			"status":       status,
			"dependencies": deps,
		})
	}
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
