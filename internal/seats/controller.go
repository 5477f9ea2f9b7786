package seats

import (
	"errors"
	"net/http"
	"time"

	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) GenerateSeats(c *gin.Context) {
	eventID := c.Param("eventId")

	var req GenerateSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := ctrl.service.GenerateSeats(c.Request.Context(), eventID, req.Config)
	if err != nil {
		if errors.Is(err, ErrAlreadyGenerated) {
			response.RespondJSON(c, "error", http.StatusConflict, "Seat catalog already generated with a different floor plan", nil, err.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to generate seats", nil, err.Error())
		return
	}

	if result.Reused {
		response.RespondJSON(c, "success", http.StatusOK, "Seat catalog already exists for this floor plan", result, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Seats generated successfully", result, nil)
}

func (ctrl *Controller) GetSeats(c *gin.Context) {
	eventID := c.Param("eventId")

	var filters ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	seats, err := ctrl.service.ListByEvent(c.Request.Context(), eventID, filters)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to fetch seats", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seats retrieved successfully", gin.H{
		"event_id": eventID,
		"count":    len(seats),
		"seats":    seats,
	}, nil)
}

func (ctrl *Controller) GetSeat(c *gin.Context) {
	eventID := c.Param("eventId")
	seatID := c.Param("seatId")

	seat, err := ctrl.service.GetSeatByID(c.Request.Context(), eventID, seatID)
	if err != nil {
		if errors.Is(err, ErrSeatNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Seat not found", nil, err.Error())
			return
		}
		response.RespondJSON(c, "error", http.StatusBadRequest, "Failed to fetch seat", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat retrieved successfully", seat.ToResponse(time.Now().UTC()), nil)
}

func (ctrl *Controller) CancelSeats(c *gin.Context) {
	eventID := c.Param("eventId")

	var req CancelSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := ctrl.service.CancelBookedSeats(c.Request.Context(), eventID, req.SeatIDs)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to cancel seats", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Cancellation processed", result, nil)
}
