package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/booking-api/internal/service"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
	"github.com/fieldops/booking-api/pkg/response"
)

// AvailabilityHandler serves the booking grid.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// GetGrid godoc
// @Summary Compute the availability grid for a customer location
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.AvailabilityRequest true "Availability request"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /availability [post]
func (h *AvailabilityHandler) GetGrid(c *gin.Context) {
	var req service.AvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	grid, err := h.service.GetGrid(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}
