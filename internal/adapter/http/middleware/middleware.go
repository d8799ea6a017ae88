package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"
	"helpdesk-webhooks/internal/observer"
	"helpdesk-webhooks/pkg/apperror"
	"helpdesk-webhooks/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// Headers set by the messaging platform on every delivery.
	HeaderSignature = "X-Spark-Signature"
	HeaderWebhookID = "X-Spark-Webhook-Id"

	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxRequestID  = "request_id"
	CtxUserID     = "user_id"
	CtxRole       = "role"
	CtxClaims     = "claims"
	CtxResourceID = "resource_id"
)

// RequestID tags the request with the caller's X-Request-ID or a fresh uuid.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.New().String()
		}
		c.Set(CtxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// WebhookSignature checks x-spark-signature on inbound deliveries when a
// webhook secret is configured. A missing header is always rejected; the
// HMAC itself is only compared when verify is set. The body is restored for
// the handler.
func WebhookSignature(secret string, verify bool, sigSvc ports.SignatureService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		signature := c.GetHeader(HeaderSignature)
		if signature == "" {
			observer.IncDeliveryRejected(observer.RejectMissingSignature)
			response.Error(c, apperror.ErrMissingSignature())
			c.Abort()
			return
		}
		if !verify {
			c.Next()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			abortBodyError(c, err)
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

		if !sigSvc.Verify(secret, body, signature) {
			log.Warn().Str("webhook_id", c.GetHeader(HeaderWebhookID)).Msg("delivery signature mismatch")
			observer.IncDeliveryRejected(observer.RejectBadSignature)
			response.Error(c, apperror.ErrInvalidSignature())
			c.Abort()
			return
		}
		c.Next()
	}
}

// JWTAuth validates the bearer token of dashboard routes and stores the
// caller in the context.
func JWTAuth(authSvc ports.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") || len(authHeader) < 8 {
			response.Error(c, apperror.ErrInvalidToken())
			c.Abort()
			return
		}

		claims, err := authSvc.Authenticate(c.Request.Context(), authHeader[7:])
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles. It must
// run after JWTAuth.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		role, _ := c.Get(CtxRole)
		if r, ok := role.(domain.Role); !ok || !allowed[r] {
			response.Error(c, apperror.ErrForbidden())
			c.Abort()
			return
		}
		c.Next()
	}
}

// MaxBodySize returns middleware that limits the request body size.
// Once the limit is exceeded the reader returns an error and the
// request is rejected with 413 Payload Too Large.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		observer.ObserveHTTPRequest(c.Request.Method, c.FullPath(), status, latency)

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("request_id", c.GetString(CtxRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"errorCode": "SYS_001",
					"message":   "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// IsBodyTooLarge reports whether err came from a MaxBodySize reader.
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

func abortBodyError(c *gin.Context, err error) {
	if IsBodyTooLarge(err) {
		response.Error(c, apperror.ErrBodyTooLarge())
	} else {
		response.Error(c, apperror.Validation("cannot read request body"))
	}
	c.Abort()
}
