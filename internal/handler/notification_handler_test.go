package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/service"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

type notificationServiceMock struct {
	err error
	req dto.SendApprovalRequest
}

func (m *notificationServiceMock) SendApproval(ctx context.Context, req dto.SendApprovalRequest) error {
	m.req = req
	return m.err
}

func TestNotificationHandlerSuccess(t *testing.T) {
	svc := &notificationServiceMock{}
	c, w := postJSON(t, "/api/send-approval-whatsapp", `{"registrationId":"r-1","accessToken":"tok"}`)

	NewNotificationHandler(svc).SendApproval(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"message":"WhatsApp approval notification sent successfully"}`, w.Body.String())
	assert.Equal(t, dto.SendApprovalRequest{RegistrationID: "r-1", AccessToken: "tok"}, svc.req)
}

func TestNotificationHandlerErrorBodies(t *testing.T) {
	cases := []struct {
		err    error
		status int
		want   string
	}{
		{appErrors.Clone(appErrors.ErrUnauthorized, service.MsgNoAccessToken), http.StatusUnauthorized, `{"error":"Unauthorized - No access token"}`},
		{appErrors.Clone(appErrors.ErrForbidden, service.MsgAccessDenied), http.StatusForbidden, `{"error":"Access denied"}`},
		{appErrors.Clone(appErrors.ErrPrecondition, service.MsgAlreadyNotified), http.StatusBadRequest, `{"error":"Approval notification already sent"}`},
		{appErrors.Clone(appErrors.ErrLimitReached, ""), http.StatusTooManyRequests, `{"error":"limit_reached"}`},
		{appErrors.Clone(appErrors.ErrConflict, service.MsgInFlight), http.StatusConflict, `{"error":"Approval notification already in progress"}`},
		{appErrors.Clone(appErrors.ErrPersistence, service.MsgNotifiedNotPersisted), http.StatusInternalServerError, `{"error":"Message sent but failed to update database"}`},
	}
	for _, tc := range cases {
		c, w := postJSON(t, "/api/send-approval-whatsapp", `{"registrationId":"r-1","accessToken":"tok"}`)
		NewNotificationHandler(&notificationServiceMock{err: tc.err}).SendApproval(c)
		assert.Equal(t, tc.status, w.Code)
		assert.JSONEq(t, tc.want, w.Body.String())
	}
}

func TestNotificationHandlerUnreadableBody(t *testing.T) {
	svc := &notificationServiceMock{err: appErrors.Clone(appErrors.ErrUnauthorized, service.MsgNoAccessToken)}
	c, w := postJSON(t, "/api/send-approval-whatsapp", `not json`)
	NewNotificationHandler(svc).SendApproval(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.SendApprovalRequest{}, svc.req)
}
