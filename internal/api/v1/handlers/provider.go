package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"minutes-whisper/internal/api/middleware"
	"minutes-whisper/internal/api/v1/services"
)

// ProviderHandler handles provider-related API endpoints
type ProviderHandler struct {
	service services.ProviderService
}

// NewProviderHandler creates a new provider handler
func NewProviderHandler(service services.ProviderService) *ProviderHandler {
	return &ProviderHandler{
		service: service,
	}
}

// List handles GET /api/v1/providers
func (h *ProviderHandler) List(c *gin.Context) {
	providers, err := h.service.ListProviders(c.Request.Context())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"providers": providers,
	})
}

// Get handles GET /api/v1/providers/:id
func (h *ProviderHandler) Get(c *gin.Context) {
	provider, err := h.service.GetProvider(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, provider)
}

// GetStatus handles GET /api/v1/providers/:id/status
// Performs a health check and reports its latency
func (h *ProviderHandler) GetStatus(c *gin.Context) {
	status, err := h.service.GetProviderStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetStats handles GET /api/v1/providers/:id/stats
func (h *ProviderHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetProviderStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
