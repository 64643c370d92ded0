package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/service"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/export"
	"github.com/AbdellahBM/orema-camp/pkg/response"
)

type adminRegistrationService interface {
	List(ctx context.Context, q dto.ListRegistrationsQuery) ([]models.Registration, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Registration, error)
	Update(ctx context.Context, id string, req dto.UpdateRegistrationRequest) (*models.Registration, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*models.RegistrationStats, error)
	Rescore(ctx context.Context, id string) (*models.ScoreResult, error)
}

type approvedExporter interface {
	ExportApproved(ctx context.Context, format export.Format) (*service.ExportFile, error)
}

// AdminHandler exposes the registration review dashboard API.
type AdminHandler struct {
	registrations adminRegistrationService
	exports       approvedExporter
}

// NewAdminHandler builds an AdminHandler.
func NewAdminHandler(registrations adminRegistrationService, exports approvedExporter) *AdminHandler {
	return &AdminHandler{registrations: registrations, exports: exports}
}

// Me godoc
// @Summary Current administrator
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/me [get]
func (h *AdminHandler) Me(c *gin.Context) {
	ident := identityFromContext(c)
	if ident == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, ident, nil)
}

// List godoc
// @Summary List registrations
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Name, email or phone"
// @Param status query string false "new, pending, approved, declined or all"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations [get]
func (h *AdminHandler) List(c *gin.Context) {
	var q dto.ListRegistrationsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.registrations.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Stats godoc
// @Summary Registration counts per status
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.registrations.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Export godoc
// @Summary Export approved registrations
// @Tags Admin
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "pdf or csv" default(pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /admin/registrations/export [get]
func (h *AdminHandler) Export(c *gin.Context) {
	format := export.Format(c.DefaultQuery("format", string(export.FormatPDF)))
	file, err := h.exports.ExportApproved(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Header("Content-Length", strconv.Itoa(len(file.Data)))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Get godoc
// @Summary Registration detail
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/registrations/{id} [get]
func (h *AdminHandler) Get(c *gin.Context) {
	reg, err := h.registrations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}

// Update godoc
// @Summary Edit applicant fields
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param payload body dto.UpdateRegistrationRequest true "Applicant fields"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/{id} [put]
func (h *AdminHandler) Update(c *gin.Context) {
	var req dto.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}
	reg, err := h.registrations.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reg, nil)
}

// UpdateStatus godoc
// @Summary Change review status
// @Tags Admin
// @Accept json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param payload body dto.UpdateStatusRequest true "New status"
// @Success 204
// @Router /admin/registrations/{id}/status [patch]
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	if err := h.registrations.UpdateStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Score godoc
// @Summary Rescore a registration
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} response.Envelope
// @Router /admin/registrations/{id}/score [post]
func (h *AdminHandler) Score(c *gin.Context) {
	result, err := h.registrations.Rescore(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a registration and its photo
// @Tags Admin
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 204
// @Router /admin/registrations/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	if err := h.registrations.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
