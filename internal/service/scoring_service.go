package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/AbdellahBM/orema-camp/internal/dto"
	"github.com/AbdellahBM/orema-camp/internal/integration/gemini"
	"github.com/AbdellahBM/orema-camp/internal/models"
	appErrors "github.com/AbdellahBM/orema-camp/pkg/errors"
)

// Messages of the scoring contract.
const (
	MsgMissingParticipantData = "Missing required participant data"
	MsgScoringNotConfigured   = "Gemini API key not configured"
	MsgScoringFailed          = "Failed to score participant"
)

type textGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ScoringService asks the generative model to rate an applicant.
type ScoringService struct {
	generator textGenerator
	validator *validator.Validate
	metrics   *MetricsService
	timeout   time.Duration
	logger    *zap.Logger
}

// NewScoringService constructs the scoring service. A nil generator means the
// model credential is not configured.
func NewScoringService(generator textGenerator, validate *validator.Validate, metrics *MetricsService, timeout time.Duration, logger *zap.Logger) *ScoringService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ScoringService{generator: generator, validator: validate, metrics: metrics, timeout: timeout, logger: logger}
}

// Configured reports whether a model credential is available.
func (s *ScoringService) Configured() bool {
	return s != nil && s.generator != nil
}

// Score validates the applicant, calls the model once and returns the clamped result.
func (s *ScoringService) Score(ctx context.Context, req dto.ScoreParticipantRequest) (*models.ScoreResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, MsgMissingParticipantData)
	}
	if !s.Configured() {
		return nil, appErrors.Clone(appErrors.ErrConfiguration, MsgScoringNotConfigured)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.generator.Generate(ctx, buildScoringPrompt(req))
	if err != nil {
		appErr := classifyScoringError(err)
		s.metrics.ObserveScoring(outcomeLabel(appErr.Code), time.Since(start))
		s.logger.Warn("scoring call failed", zap.String("code", appErr.Code), zap.Error(err))
		return nil, appErr
	}

	score, explanation := parseScoringReply(text)
	if score == nil || explanation == "" {
		s.metrics.ObserveScoring(outcomeLabel(appErrors.ErrInvalidAIResponse.Code), time.Since(start))
		s.logger.Warn("scoring reply not understood", zap.Int("reply_chars", len(text)))
		return nil, appErrors.Clone(appErrors.ErrInvalidAIResponse, "")
	}

	s.metrics.ObserveScoring("success", time.Since(start))
	return &models.ScoreResult{Score: clampScore(*score), Explanation: explanation}, nil
}

func classifyScoringError(err error) *appErrors.Error {
	switch {
	case errors.Is(err, gemini.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return appErrors.Wrap(err, appErrors.ErrUpstreamTimeout.Code, appErrors.ErrUpstreamTimeout.Status, "scoring request timed out")
	case errors.Is(err, gemini.ErrEmptyReply):
		return appErrors.Wrap(err, appErrors.ErrInvalidAIResponse.Code, appErrors.ErrInvalidAIResponse.Status, appErrors.ErrInvalidAIResponse.Message)
	case errors.Is(err, gemini.ErrUnavailable):
		return appErrors.Wrap(err, appErrors.ErrUpstreamUnavailable.Code, appErrors.ErrUpstreamUnavailable.Status, err.Error())
	}
	return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, err.Error())
}

func outcomeLabel(code string) string {
	switch code {
	case appErrors.ErrUpstreamTimeout.Code:
		return "timeout"
	case appErrors.ErrUpstreamUnavailable.Code:
		return "unavailable"
	case appErrors.ErrInvalidAIResponse.Code:
		return "invalid_response"
	}
	return "error"
}
