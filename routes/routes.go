package routes

import (
	"villagestay/handlers"
	"villagestay/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterWebhookRoutes sets up the messaging callback endpoints.
func RegisterWebhookRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	api := r.Group("/api/whatsapp")
	{
		api.Use(middleware.RateLimitMiddleware())
		api.POST("/webhook", wh.HandleWebhook)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.HealthHandler)
}

// RegisterRoutes centralizes registration of all endpoints.
func RegisterRoutes(r *gin.Engine, wh *handlers.WebhookHandler) {
	RegisterWebhookRoutes(r, wh)
	RegisterHealthRoute(r)
}
