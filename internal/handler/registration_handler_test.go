package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

type registrationCreatorMock struct {
	form    dto.RegistrationForm
	upload  dto.PhotoUpload
	content []byte
	err     error
}

func (m *registrationCreatorMock) Create(ctx context.Context, form dto.RegistrationForm, upload dto.PhotoUpload, content io.Reader) (*models.Registration, error) {
	m.form = form
	m.upload = upload
	if content != nil {
		m.content, _ = io.ReadAll(content)
	}
	if m.err != nil {
		return nil, m.err
	}
	return &models.Registration{ID: "r-1", Name: form.Name, Status: models.RegistrationStatusNew}, nil
}

func multipartRequest(t *testing.T, fields map[string]string, withPhoto bool) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withPhoto {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="photo"; filename="me.png"`)
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req, err := http.NewRequest(http.MethodPost, "/api/v1/registrations", body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestRegistrationHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &registrationCreatorMock{}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, map[string]string{
		"name":           "Amine",
		"email":          "amine@example.com",
		"phone":          "0612345678",
		"previous_camps": "لا",
		"extra_info":     "-",
	}, true)

	NewRegistrationHandler(svc).Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"r-1"`)
	assert.Equal(t, "Amine", svc.form.Name)
	assert.Equal(t, "لا", svc.form.PreviousCamps)
	assert.Equal(t, dto.PhotoUpload{Filename: "me.png", ContentType: "image/png", Size: 9}, svc.upload)
	assert.Equal(t, []byte("png-bytes"), svc.content)
}

func TestRegistrationHandlerWithoutPhoto(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &registrationCreatorMock{err: appErrors.Clone(appErrors.ErrValidation, "Photo is required")}
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, map[string]string{"name": "Amine"}, false)

	NewRegistrationHandler(svc).Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Photo is required")
	assert.Zero(t, svc.upload.Size)
	assert.Nil(t, svc.content)
}
