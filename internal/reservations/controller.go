package reservations

import (
	"errors"
	"net/http"
	"time"

	"stagepass/internal/notifications"
	"stagepass/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	producer  *notifications.Producer
	validator *validator.Validate
}

func NewController(service Service, producer *notifications.Producer) *Controller {
	return &Controller{
		service:   service,
		producer:  producer,
		validator: validator.New(),
	}
}

// HoldSeats handles POST /events/:eventId/seats/hold. A response with some
// seats denied is still 200: callers read the per-seat outcomes, not the
// status code, to learn what they got.
func (ctrl *Controller) HoldSeats(c *gin.Context) {
	eventID := c.Param("eventId")

	var req HoldSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	result, err := ctrl.service.HoldSeats(c.Request.Context(), eventID, req.SeatIDs, req.HolderID, ttl)
	if err != nil {
		ctrl.respondEngineError(c, "Failed to hold seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Hold request processed", result, nil)
}

// ReleaseSeats handles POST /events/:eventId/seats/release. Releasing seats
// the caller does not hold is a no-op, so retries are always safe.
func (ctrl *Controller) ReleaseSeats(c *gin.Context) {
	eventID := c.Param("eventId")

	var req ReleaseSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.ReleaseSeats(c.Request.Context(), eventID, req.SeatIDs, req.HolderID)
	if err != nil {
		ctrl.respondEngineError(c, "Failed to release seats", err)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Release request processed", result, nil)
}

// ConfirmBooking handles POST /events/:eventId/seats/confirm. The lifecycle
// event publishes only after the database transition succeeded.
func (ctrl *Controller) ConfirmBooking(c *gin.Context) {
	eventID := c.Param("eventId")

	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Validation failed", nil, err.Error())
		return
	}

	result, err := ctrl.service.ConfirmBooking(c.Request.Context(), eventID, req.SeatIDs, req.HolderID)
	if err != nil {
		ctrl.respondEngineError(c, "Failed to confirm booking", err)
		return
	}

	if len(result.Booked) == 0 {
		response.RespondJSON(c, "error", http.StatusConflict, "No seats could be confirmed", result, nil)
		return
	}

	bookedIDs := make([]string, 0, len(result.Booked))
	for _, seat := range result.Booked {
		bookedIDs = append(bookedIDs, seat.ID)
	}
	ctrl.producer.PublishSeatsBooked(c.Request.Context(), eventID, req.HolderID, bookedIDs)

	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed", result, nil)
}

func (ctrl *Controller) respondEngineError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, ErrInvalidID), errors.Is(err, ErrNoSeatsRequested), errors.Is(err, ErrTooManySeats):
		response.RespondJSON(c, "error", http.StatusBadRequest, message, nil, err.Error())
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, message, nil, err.Error())
	}
}
