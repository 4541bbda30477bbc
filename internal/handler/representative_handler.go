package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fieldops/booking-api/internal/models"
	"github.com/fieldops/booking-api/internal/service"
	appErrors "github.com/fieldops/booking-api/pkg/errors"
	"github.com/fieldops/booking-api/pkg/response"
)

// RepresentativeHandler exposes roster and weekly template management.
type RepresentativeHandler struct {
	reps *service.RepresentativeService
}

// NewRepresentativeHandler constructs handler.
func NewRepresentativeHandler(reps *service.RepresentativeService) *RepresentativeHandler {
	return &RepresentativeHandler{reps: reps}
}

// List godoc
// @Summary List representatives
// @Tags Representatives
// @Produce json
// @Param search query string false "Match against full name"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /representatives [get]
func (h *RepresentativeHandler) List(c *gin.Context) {
	var filter models.RepresentativeFilter
	filter.Search = c.Query("search")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = limit
	}

	reps, pagination, err := h.reps.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reps, pagination)
}

// Get godoc
// @Summary Get a representative
// @Tags Representatives
// @Produce json
// @Param id path string true "Representative ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /representatives/{id} [get]
func (h *RepresentativeHandler) Get(c *gin.Context) {
	rep, err := h.reps.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rep, nil)
}

// Create godoc
// @Summary Add a representative to the roster
// @Tags Representatives
// @Accept json
// @Produce json
// @Param payload body service.CreateRepresentativeRequest true "Representative payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /representatives [post]
func (h *RepresentativeHandler) Create(c *gin.Context) {
	var req service.CreateRepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	rep, err := h.reps.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, rep)
}

// Update godoc
// @Summary Update a representative's profile
// @Tags Representatives
// @Accept json
// @Produce json
// @Param id path string true "Representative ID"
// @Param payload body service.UpdateRepresentativeRequest true "Representative payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /representatives/{id} [put]
func (h *RepresentativeHandler) Update(c *gin.Context) {
	var req service.UpdateRepresentativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	rep, err := h.reps.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rep, nil)
}

// Deactivate godoc
// @Summary Remove a representative from scheduling
// @Tags Representatives
// @Produce json
// @Param id path string true "Representative ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /representatives/{id} [delete]
func (h *RepresentativeHandler) Deactivate(c *gin.Context) {
	if err := h.reps.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// GetTemplate godoc
// @Summary Get a representative's weekly availability template
// @Tags Representatives
// @Produce json
// @Param id path string true "Representative ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /representatives/{id}/template [get]
func (h *RepresentativeHandler) GetTemplate(c *gin.Context) {
	template, err := h.reps.GetTemplate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// ReplaceTemplate godoc
// @Summary Replace a representative's weekly availability template
// @Tags Representatives
// @Accept json
// @Produce json
// @Param id path string true "Representative ID"
// @Param payload body service.WeeklyTemplateRequest true "Template payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /representatives/{id}/template [put]
func (h *RepresentativeHandler) ReplaceTemplate(c *gin.Context) {
	var req service.WeeklyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	template, err := h.reps.ReplaceTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}
