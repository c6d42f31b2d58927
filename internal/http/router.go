package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/WemXPro/service-virtfusion/internal/config"
	"github.com/WemXPro/service-virtfusion/internal/repository"
	"github.com/WemXPro/service-virtfusion/internal/service"
)

// RateLimiter is a simple in-memory sliding-window limiter.
type RateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}
}

// Allow reports whether another request is allowed for key.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

// RateLimitMiddleware throttles by user id, falling back to client IP.
func RateLimitMiddleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("userID")
		if key == "" {
			key = c.ClientIP()
		}

		if !rl.Allow(key) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

type Server struct {
	router  *gin.Engine
	handler *Handler
	cfg     *config.Config
}

// Panel login issues a one-time token per call, so keep it modest:
// 10 logins per user per minute.
var loginRateLimiter = NewRateLimiter(10, time.Minute)

func NewServer(cfg *config.Config, provisionService *service.ProvisionService, settingsRepo *repository.SettingsRepository, logRepo *repository.LogRepository) *Server {
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	handler := NewHandler(provisionService, settingsRepo, logRepo)

	s := &Server{
		router:  router,
		handler: handler,
		cfg:     cfg,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "service-virtfusion",
		})
	})

	// Internal API - called by the billing platform
	internal := s.router.Group("/api/internal")
	internal.Use(InternalAuthMiddleware(s.cfg.InternalSecret))
	{
		// Order lifecycle
		internal.POST("/orders/:id/provision", s.handler.Provision)
		internal.POST("/orders/:id/suspend", s.handler.Suspend)
		internal.POST("/orders/:id/unsuspend", s.handler.Unsuspend)
		internal.POST("/orders/:id/terminate", s.handler.Terminate)

		// Order extras
		internal.GET("/orders/:id/buttons", s.handler.GetServiceButtons)
		internal.GET("/orders/:id/logs", s.handler.GetOrderLogs)

		// Config schemas for the admin UI
		internal.GET("/config/schema", s.handler.GetConfigSchema)
		internal.GET("/packages/:id/config-schema", s.handler.GetPackageConfigSchema)
		internal.GET("/checkout/schema", s.handler.GetCheckoutSchema)
		internal.GET("/metadata", s.handler.GetMetadata)

		// Panel connection settings
		internal.PUT("/settings", s.handler.SaveSettings)
		internal.GET("/settings/test", s.handler.TestConnection)
	}

	// User API - requires JWT authentication
	user := s.router.Group("/api/v1")
	user.Use(JWTAuthMiddleware(s.cfg.JWT.SecretKey))
	user.Use(RateLimitMiddleware(loginRateLimiter))
	{
		user.GET("/orders/:id/panel-login", s.handler.PanelLogin)
	}
}

func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
