package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/middleware"
	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/service"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/export"
)

type adminServiceMock struct {
	query     dto.ListRegistrationsQuery
	statusReq dto.UpdateStatusRequest
	deleted   string
	err       error
}

func (m *adminServiceMock) List(ctx context.Context, q dto.ListRegistrationsQuery) ([]models.Registration, *models.Pagination, error) {
	m.query = q
	return []models.Registration{{ID: "r-1"}}, models.NewPagination(1, 10, 1), m.err
}

func (m *adminServiceMock) Get(ctx context.Context, id string) (*models.Registration, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Registration{ID: id, PhotoURL: "/api/v1/photos/x.jpg?token=1.a"}, nil
}

func (m *adminServiceMock) Update(ctx context.Context, id string, req dto.UpdateRegistrationRequest) (*models.Registration, error) {
	return &models.Registration{ID: id, Name: req.Name}, m.err
}

func (m *adminServiceMock) UpdateStatus(ctx context.Context, id string, req dto.UpdateStatusRequest) error {
	m.statusReq = req
	return m.err
}

func (m *adminServiceMock) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return m.err
}

func (m *adminServiceMock) Stats(ctx context.Context) (*models.RegistrationStats, error) {
	return &models.RegistrationStats{Total: 4, Approved: 4}, m.err
}

func (m *adminServiceMock) Rescore(ctx context.Context, id string) (*models.ScoreResult, error) {
	return &models.ScoreResult{Score: 50, Explanation: "متوسط"}, m.err
}

type exporterMock struct {
	format export.Format
	err    error
}

func (m *exporterMock) ExportApproved(ctx context.Context, format export.Format) (*service.ExportFile, error) {
	m.format = format
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportFile{Filename: "approved-registrations-2025-07-14.csv", ContentType: "text/csv; charset=utf-8", Data: []byte("a,b\n")}, nil
}

func adminContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextIdentityKey, &models.Identity{UserID: "u-1", Email: "khouloud@orema.com"})
	return c, w
}

func TestAdminHandlerList(t *testing.T) {
	svc := &adminServiceMock{}
	c, w := adminContext(http.MethodGet, "/api/v1/admin/registrations?search=amine&status=approved&page=2&limit=5", nil)

	NewAdminHandler(svc, &exporterMock{}).List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ListRegistrationsQuery{Search: "amine", Status: "approved", Page: 2, Limit: 5}, svc.query)
	var env struct {
		Data       []models.Registration `json:"data"`
		Pagination models.Pagination     `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Len(t, env.Data, 1)
	assert.Equal(t, 1, env.Pagination.TotalCount)
}

func TestAdminHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	c, w := adminContext(http.MethodGet, "/api/v1/admin/registrations/export?format=csv", nil)

	NewAdminHandler(&adminServiceMock{}, exporter).Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.FormatCSV, exporter.format)
	assert.Equal(t, `attachment; filename="approved-registrations-2025-07-14.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "a,b\n", w.Body.String())
}

func TestAdminHandlerExportDefaultsToPDF(t *testing.T) {
	exporter := &exporterMock{err: appErrors.Clone(appErrors.ErrValidation, service.MsgNothingToExport)}
	c, w := adminContext(http.MethodGet, "/api/v1/admin/registrations/export", nil)

	NewAdminHandler(&adminServiceMock{}, exporter).Export(c)

	assert.Equal(t, export.FormatPDF, exporter.format)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), service.MsgNothingToExport)
}

func TestAdminHandlerUpdateStatus(t *testing.T) {
	svc := &adminServiceMock{}
	c, _ := adminContext(http.MethodPatch, "/api/v1/admin/registrations/r-1/status", []byte(`{"status":"approved"}`))
	c.Params = gin.Params{{Key: "id", Value: "r-1"}}

	NewAdminHandler(svc, &exporterMock{}).UpdateStatus(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, models.RegistrationStatusApproved, svc.statusReq.Status)

	c, w := adminContext(http.MethodPatch, "/api/v1/admin/registrations/r-1/status", []byte(`nope`))
	NewAdminHandler(svc, &exporterMock{}).UpdateStatus(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandlerGetNotFound(t *testing.T) {
	svc := &adminServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, service.MsgRegistrationNotFound)}
	c, w := adminContext(http.MethodGet, "/api/v1/admin/registrations/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	NewAdminHandler(svc, &exporterMock{}).Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"NOT_FOUND"`)
}

func TestAdminHandlerDeleteAndMe(t *testing.T) {
	svc := &adminServiceMock{}
	c, _ := adminContext(http.MethodDelete, "/api/v1/admin/registrations/r-9", nil)
	c.Params = gin.Params{{Key: "id", Value: "r-9"}}
	NewAdminHandler(svc, &exporterMock{}).Delete(c)
	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "r-9", svc.deleted)

	c, w := adminContext(http.MethodGet, "/api/v1/admin/me", nil)
	NewAdminHandler(svc, &exporterMock{}).Me(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "khouloud@orema.com")
}
