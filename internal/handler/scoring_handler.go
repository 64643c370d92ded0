package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/models"
	"github.com/AbdellahBM/orema-camp/internal/service"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
	"github.com/AbdellahBM/orema-camp/pkg/response"
)

type scoringService interface {
	Score(ctx context.Context, req dto.ScoreParticipantRequest) (*models.ScoreResult, error)
}

// ScoringHandler serves the stateless participant scoring endpoint.
type ScoringHandler struct {
	service scoringService
}

// NewScoringHandler builds a ScoringHandler.
func NewScoringHandler(service scoringService) *ScoringHandler {
	return &ScoringHandler{service: service}
}

// Score godoc
// @Summary Score a participant
// @Description Rates an applicant from 1 to 100 with an Arabic explanation. Nothing is persisted.
// @Tags Scoring
// @Accept json
// @Produce json
// @Param payload body dto.ScoreParticipantRequest true "Applicant"
// @Success 200 {object} dto.ScoreParticipantResponse
// @Failure 400 {object} response.FlatError
// @Failure 500 {object} response.FlatError
// @Router /score-participant [post]
func (h *ScoringHandler) Score(c *gin.Context) {
	var req dto.ScoreParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FlatFailure(c, http.StatusBadRequest, service.MsgMissingParticipantData, "")
		return
	}

	result, err := h.service.Score(c.Request.Context(), req)
	if err != nil {
		appErr := appErrors.FromError(err)
		switch appErr.Code {
		case appErrors.ErrValidation.Code:
			response.FlatFailure(c, http.StatusBadRequest, service.MsgMissingParticipantData, "")
		case appErrors.ErrConfiguration.Code:
			response.FlatFailure(c, http.StatusInternalServerError, service.MsgScoringNotConfigured, "")
		default:
			_ = c.Error(err)
			response.FlatFailure(c, http.StatusInternalServerError, service.MsgScoringFailed, appErr.Message)
		}
		return
	}

	response.Flat(c, http.StatusOK, dto.ScoreParticipantResponse{
		Score:            result.Score,
		ScoreExplanation: result.Explanation,
		Success:          true,
	})
}
