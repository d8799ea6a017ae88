package handler

import (
	"net/http"

	"helpdesk-webhooks/internal/adapter/http/middleware"
	"helpdesk-webhooks/internal/core/domain"
	"helpdesk-webhooks/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// DefaultMaxBodyBytes caps request bodies when RouterDeps leaves it unset.
const DefaultMaxBodyBytes = 1 << 20

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	DeliverySvc    ports.DeliveryService
	RegistrySvc    ports.WebhookRegistryService
	LogSvc         ports.LogService
	UserSvc        ports.UserService
	AuthSvc        ports.AuthService
	SigSvc         ports.SignatureService
	RateLimitStore ports.RateLimitStore // nil = rate limiting disabled
	AuditSvc       ports.AuditService   // nil = audit logging disabled
	HealthCheckers []ports.HealthChecker

	WebhookSecret   string // empty = deliveries are not signature-checked
	VerifySignature bool
	MaxBodyBytes    int64

	Logger zerolog.Logger
}

// incomingPath is where the messaging platform posts deliveries.
const incomingPath = "/api/webhooks/incoming"

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}

	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(maxBody))
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// --- Deliveries from the messaging platform ---
	incoming := NewIncomingHandler(deps.DeliverySvc)
	r.POST(incomingPath,
		rl(middleware.GroupIncoming),
		middleware.WebhookSignature(deps.WebhookSecret, deps.VerifySignature, deps.SigSvc, deps.Logger),
		incoming.Receive,
	)
	r.Match([]string{
		http.MethodGet, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions,
	}, incomingPath, incoming.MethodNotAllowed)

	api := r.Group("/api")

	// --- Session ---
	jwtAuth := middleware.JWTAuth(deps.AuthSvc)
	authHandler := NewAuthHandler(deps.AuthSvc)
	api.POST("/auth/login", rl(middleware.GroupAuthLogin), authHandler.Login)
	api.POST("/auth/logout", jwtAuth, authHandler.Logout)
	api.GET("/me", jwtAuth, authHandler.Me)

	// --- Admin ---
	admin := api.Group("", jwtAuth, middleware.RequireRole(domain.RoleAdmin), rl(middleware.GroupAdmin))

	webhookHandler := NewWebhookHandler(deps.RegistrySvc)
	webhooks := admin.Group("/webhooks")
	{
		webhooks.GET("", webhookHandler.List)
		webhooks.POST("", webhookHandler.Create)
		webhooks.GET("/:id", webhookHandler.Get)
		webhooks.DELETE("/:id", webhookHandler.Delete)
	}

	logHandler := NewLogHandler(deps.LogSvc)
	logs := admin.Group("/logs")
	{
		logs.GET("", logHandler.List)
		logs.GET("/:id", logHandler.Get)
	}

	userHandler := NewUserHandler(deps.UserSvc)
	users := admin.Group("/users")
	{
		users.GET("", userHandler.List)
		users.POST("", userHandler.Create)
		users.GET("/:id", userHandler.Get)
		users.PUT("/:id", userHandler.Update)
		users.DELETE("/:id", userHandler.Delete)
	}

	return r
}
