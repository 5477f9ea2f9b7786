package availability

import (
	"net/http"

	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetAvailability handles GET /events/:eventId/availability.
//
// The response is a snapshot, cached for up to 30 seconds, and clients must
// treat it that way: poll no faster than the cache TTL, drop any locally
// selected seat the snapshot reports unavailable unless this party holds
// it, and never attempt to confirm a seat that was not successfully held.
// The hold and confirm endpoints re-check everything; a stale snapshot can
// cost a client a seat it never held, but nothing more.
func (ctrl *Controller) GetAvailability(c *gin.Context) {
	eventID := c.Param("eventId")

	var filters Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	view, err := ctrl.service.GetEventAvailability(c.Request.Context(), eventID, filters)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to fetch availability", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Availability retrieved successfully", view, nil)
}
