package reservations

import "github.com/gin-gonic/gin"

func SetupReservationRoutes(rg *gin.RouterGroup, controller *Controller) {
	seats := rg.Group("/events/:eventId/seats")
	{
		seats.POST("/hold", controller.HoldSeats)         // POST /api/v1/events/:eventId/seats/hold
		seats.POST("/release", controller.ReleaseSeats)   // POST /api/v1/events/:eventId/seats/release
		seats.POST("/confirm", controller.ConfirmBooking) // POST /api/v1/events/:eventId/seats/confirm
	}
}
