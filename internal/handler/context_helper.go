package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/middleware"
	"github.com/AbdellahBM/orema-camp/internal/models"
)

func identityFromContext(c *gin.Context) *models.Identity {
	return middleware.IdentityFrom(c)
}
