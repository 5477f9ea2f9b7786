package events

import (
	"errors"
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

func (c *Controller) CreateEvent(ctx *gin.Context) {
	var req CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	event, err := c.service.CreateEvent(ctx.Request.Context(), req)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to create event", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Event created successfully", event.ToResponse(), nil)
}

func (c *Controller) GetEvent(ctx *gin.Context) {
	id := ctx.Param("eventId")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Event ID is required", nil, "missing event ID")
		return
	}

	event, err := c.service.GetEventByID(ctx.Request.Context(), id)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrEventNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to get event", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event retrieved successfully", event.ToResponse(), nil)
}

func (c *Controller) GetEvents(ctx *gin.Context) {
	var query EventListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	page, err := c.service.GetEvents(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list events", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Events retrieved successfully", page, nil)
}

func (c *Controller) UpdateEventStatus(ctx *gin.Context) {
	id := ctx.Param("eventId")

	var req UpdateEventStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	event, err := c.service.UpdateEventStatus(ctx.Request.Context(), id, req.Status)
	if err != nil {
		statusCode := http.StatusInternalServerError
		if errors.Is(err, ErrEventNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(ctx, "error", statusCode, "Failed to update event status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Event status updated successfully", event.ToResponse(), nil)
}
