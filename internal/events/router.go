package events

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupEventRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	events := rg.Group("/events")
	{
		events.GET("", controller.GetEvents)         // GET /api/v1/events
		events.GET("/:eventId", controller.GetEvent) // GET /api/v1/events/:eventId

		// Creation and lifecycle transitions are admin-only; reads stay public
		events.POST("", middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin(), controller.CreateEvent)
		events.PATCH("/:eventId/status", middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin(), controller.UpdateEventStatus)
	}
}
