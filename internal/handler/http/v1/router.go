package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Прием заявок и снапшот состояния
	incidents := api.Group("/incidents")
	{
		incidents.POST("", h.submitIncident)
		incidents.GET("", h.getSnapshot)
		incidents.GET("/stats", h.getStats)
	}

	// Поток событий в реальном времени
	api.GET("/ws", h.serveWS)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}
