package routes

import (
	"github.com/gin-gonic/gin"

	"minutes-whisper/internal/api/middleware"
	"minutes-whisper/internal/api/v1/handlers"
	"minutes-whisper/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers
type ServiceContainer struct {
	MinutesService  services.MinutesService
	ProviderService services.ProviderService
	MaxUploadBytes  int64
}

// RegisterRoutes registers all v1 API routes
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	minutesHandler := handlers.NewMinutesHandler(container.MinutesService)
	router.GET("/modes", minutesHandler.Modes)
	router.POST("/minutes", middleware.UploadLimit(container.MaxUploadBytes), minutesHandler.Create)

	providerHandler := handlers.NewProviderHandler(container.ProviderService)
	providers := router.Group("/providers")
	{
		providers.GET("", providerHandler.List)
		providers.GET("/:id", providerHandler.Get)
		providers.GET("/:id/status", providerHandler.GetStatus)
		providers.GET("/:id/stats", providerHandler.GetStats)
	}
}
