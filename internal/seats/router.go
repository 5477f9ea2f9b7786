package seats

import (
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	seats := rg.Group("/events/:eventId/seats")
	{
		seats.GET("", controller.GetSeats)        // GET /api/v1/events/:eventId/seats
		seats.GET("/:seatId", controller.GetSeat) // GET /api/v1/events/:eventId/seats/:seatId
	}

	admin := rg.Group("/admin/events/:eventId")
	admin.Use(middleware.JWTAuthWithConfig(cfg), middleware.RequireAdmin())
	{
		admin.POST("/floor-plan", controller.GenerateSeats) // POST /api/v1/admin/events/:eventId/floor-plan
		admin.POST("/seats/cancel", controller.CancelSeats) // POST /api/v1/admin/events/:eventId/seats/cancel
	}
}
