package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/booking-api/internal/service"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
	"github.com/fieldops/booking-api/pkg/response"
)

// ServiceAreaHandler exposes the zip-code coverage registry.
type ServiceAreaHandler struct {
	areas *service.ServiceAreaService
}

// NewServiceAreaHandler constructs handler.
func NewServiceAreaHandler(areas *service.ServiceAreaService) *ServiceAreaHandler {
	return &ServiceAreaHandler{areas: areas}
}

// Check godoc
// @Summary Check whether a zip code is serviceable
// @Tags ServiceAreas
// @Produce json
// @Param zip path string true "5-digit zip code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /service-areas/{zip} [get]
func (h *ServiceAreaHandler) Check(c *gin.Context) {
	result, err := h.areas.CheckServiceable(c.Request.Context(), c.Param("zip"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// List godoc
// @Summary List registered service areas
// @Tags ServiceAreas
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /service-areas [get]
func (h *ServiceAreaHandler) List(c *gin.Context) {
	areas, err := h.areas.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, areas, nil)
}

// Upsert godoc
// @Summary Create or update a service area entry
// @Tags ServiceAreas
// @Accept json
// @Produce json
// @Param payload body service.UpsertServiceAreaRequest true "Service area payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /service-areas [put]
func (h *ServiceAreaHandler) Upsert(c *gin.Context) {
	var req service.UpsertServiceAreaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	area, err := h.areas.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, area, nil)
}

// InvalidateCache godoc
// @Summary Flush cached serviceability lookups
// @Tags ServiceAreas
// @Produce json
// @Success 204 "No Content"
// @Router /service-areas/cache [delete]
func (h *ServiceAreaHandler) InvalidateCache(c *gin.Context) {
	if err := h.areas.InvalidateCache(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
