package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/service"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/response"
)

type notificationService interface {
	SendApproval(ctx context.Context, req dto.SendApprovalRequest) error
}

// NotificationHandler serves the approval WhatsApp endpoint.
type NotificationHandler struct {
	service notificationService
}

// NewNotificationHandler builds a NotificationHandler.
func NewNotificationHandler(service notificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// SendApproval godoc
// @Summary Send the approval WhatsApp message
// @Description Admin only. Sends the congratulation message once per approved registration.
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.SendApprovalRequest true "Registration and caller token"
// @Success 200 {object} dto.SendApprovalResponse
// @Failure 400 {object} dto.NotificationErrorResponse
// @Failure 401 {object} dto.NotificationErrorResponse
// @Failure 403 {object} dto.NotificationErrorResponse
// @Failure 404 {object} dto.NotificationErrorResponse
// @Failure 409 {object} dto.NotificationErrorResponse
// @Failure 429 {object} dto.NotificationErrorResponse
// @Failure 500 {object} dto.NotificationErrorResponse
// @Router /send-approval-whatsapp [post]
func (h *NotificationHandler) SendApproval(c *gin.Context) {
	var req dto.SendApprovalRequest
	// An unreadable body is handled like an empty one.
	_ = c.ShouldBindJSON(&req)

	if err := h.service.SendApproval(c.Request.Context(), req); err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		response.Flat(c, appErr.Status, dto.NotificationErrorResponse{Error: appErr.Message})
		return
	}

	response.Flat(c, http.StatusOK, dto.SendApprovalResponse{Success: true, Message: service.MsgNotificationSent})
}
