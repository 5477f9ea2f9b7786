package seats

import "stagepass/internal/floorplan"

type GenerateSeatsRequest struct {
	Config floorplan.Config `json:"config" binding:"required"`
}

type CancelSeatsRequest struct {
	SeatIDs []string `json:"seat_ids" binding:"required,min=1,dive,uuid"`
}
