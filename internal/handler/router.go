package handler

import (
	"net/http"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/application"
	"github.com/srijan008/MedGamma-Server/internal/auth"
	"github.com/srijan008/MedGamma-Server/internal/ingest"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Services bundles everything the HTTP surface depends on. Auth may be nil
// when the auth layer is disabled.
type Services struct {
	Chats     *application.ChatService
	Documents *ingest.Service
	Alerts    *application.AlertService
	Auth      *auth.AuthService
}

func RegisterRoutes(r *gin.Engine, cfg *config.AppConfig, redisClient *redis.Client, svcs *Services) {
	r.Use(CORS(cfg.CORSOrigins))
	if redisClient != nil && cfg.RateLimitQPS > 0 {
		r.Use(RateLimit(redisClient, cfg.RateLimitQPS))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": cfg.Version})
	})

	if svcs.Auth != nil {
		authHandler := NewAuthHandler(svcs.Auth)
		r.POST("/auth/register", authHandler.Register)
		r.POST("/auth/login", authHandler.Login)
	}

	var validator TokenValidator
	if svcs.Auth != nil {
		validator = svcs.Auth
	}
	authed := r.Group("/", JwtAuth(validator, cfg.Auth.Enabled))

	chatHandler := NewChatHandler(svcs.Chats, svcs.Documents)
	chat := authed.Group("/chat")
	{
		chat.POST("/new", chatHandler.NewChat)
		chat.GET("/sessions", chatHandler.ListSessions)
		chat.GET("/:chatId", chatHandler.GetHistory)
		chat.DELETE("/:chatId", chatHandler.DeleteChat)
		chat.POST("/:chatId/message", chatHandler.StreamMessage)
		chat.POST("/:chatId/upload", chatHandler.Upload)
	}

	emergencyHandler := NewEmergencyHandler(svcs.Alerts)
	authed.POST("/emergency/trigger", emergencyHandler.Trigger)
}
