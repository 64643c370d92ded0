package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/response"
	"github.com/AbdellahBM/orema-camp/pkg/storage"
)

type photoOpener interface {
	Open(key string) (*os.File, error)
}

type photoVerifier interface {
	Verify(key, token string) error
}

// PhotoHandler streams stored applicant photos behind signed tokens.
type PhotoHandler struct {
	storage photoOpener
	signer  photoVerifier
}

// NewPhotoHandler builds a PhotoHandler.
func NewPhotoHandler(storage photoOpener, signer photoVerifier) *PhotoHandler {
	return &PhotoHandler{storage: storage, signer: signer}
}

// Serve godoc
// @Summary Download an applicant photo
// @Tags Photos
// @Produce image/jpeg
// @Produce image/png
// @Param key path string true "Photo key"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /photos/{key} [get]
func (h *PhotoHandler) Serve(c *gin.Context) {
	key := c.Param("key")
	if err := h.signer.Verify(key, c.Query("token")); err != nil {
		msg := "invalid photo token"
		if errors.Is(err, storage.ErrTokenExpired) {
			msg = "photo link expired"
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, msg))
		return
	}

	file, err := h.storage.Open(key)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "photo not found"))
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read photo"))
		return
	}
	c.Header("Cache-Control", "private, max-age=300")
	http.ServeContent(c.Writer, c.Request, filepath.Base(key), info.ModTime(), file)
}
