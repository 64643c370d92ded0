package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/response"
)

type registrationCreator interface {
	Create(ctx context.Context, form dto.RegistrationForm, upload dto.PhotoUpload, content io.Reader) (*models.Registration, error)
}

// RegistrationHandler serves the public application form.
type RegistrationHandler struct {
	service registrationCreator
}

// NewRegistrationHandler builds a RegistrationHandler.
func NewRegistrationHandler(service registrationCreator) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Create godoc
// @Summary Submit a camp registration
// @Tags Registrations
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Full name"
// @Param email formData string true "Email"
// @Param phone formData string true "Moroccan phone number"
// @Param age formData int false "Age (14-26)"
// @Param niveau_scolaire formData string false "Education level"
// @Param school formData string false "School"
// @Param org_status formData string false "Organization status"
// @Param previous_camps formData string false "نعم or لا"
// @Param can_pay_350dh formData string false "نعم or لا"
// @Param camp_expectation formData string false "Expectations"
// @Param extra_info formData string true "Additional information"
// @Param photo formData file true "Applicant photo"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Create(c *gin.Context) {
	var form dto.RegistrationForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration form"))
		return
	}

	var (
		upload  dto.PhotoUpload
		content io.Reader
	)
	if fh, err := c.FormFile("photo"); err == nil {
		file, err := fh.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unreadable photo"))
			return
		}
		defer file.Close()
		upload = photoUpload(fh)
		content = file
	}

	reg, err := h.service.Create(c.Request.Context(), form, upload, content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reg)
}

func photoUpload(fh *multipart.FileHeader) dto.PhotoUpload {
	return dto.PhotoUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	}
}
